package barbers

import (
	"context"
	"strings"

	"github.com/ariefcatur/barbershop-dashboard/internal/apperr"
	"github.com/ariefcatur/barbershop-dashboard/internal/feed"
	"github.com/ariefcatur/barbershop-dashboard/internal/money"
	"github.com/ariefcatur/barbershop-dashboard/internal/redisx"
	"github.com/ariefcatur/barbershop-dashboard/internal/sales"
)

type Store interface {
	ListBarbers(ctx context.Context) ([]Barber, error)
	GetBarber(ctx context.Context, id string) (Barber, error)
	CreateBarber(ctx context.Context, in Input) (string, error)
	UpdateBarber(ctx context.Context, id string, in Input) error
	DeleteBarber(ctx context.Context, id string) error
}

type Service struct {
	Store Store
	Feed  feed.Publisher
	Cache *redisx.Cache
}

// List returns all barbers, or only active ones when activeOnly is set.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]Barber, error) {
	all, err := redisx.Remember(ctx, s.Cache, feed.TableBarbers, "all", s.Store.ListBarbers)
	if err != nil || !activeOnly {
		return all, err
	}
	out := make([]Barber, 0, len(all))
	for _, b := range all {
		if b.Active {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (Barber, error) {
	return s.Store.GetBarber(ctx, id)
}

// Seller turns an active barber into a checkout seller at the barber's
// current rate.
func (s *Service) Seller(ctx context.Context, id string) (sales.SelectedSeller, error) {
	b, err := s.Store.GetBarber(ctx, id)
	if err != nil {
		return sales.SelectedSeller{}, err
	}
	if !b.Active {
		return sales.SelectedSeller{}, apperr.Invalid("seller_id", "barber is inactive")
	}
	return sales.SelectedSeller{SellerID: b.ID, Name: b.Name, CommissionRatePercent: b.CommissionRate}, nil
}

func (s *Service) Create(ctx context.Context, in Input) (Barber, error) {
	in, err := validate(in)
	if err != nil {
		return Barber{}, err
	}
	id, err := s.Store.CreateBarber(ctx, in)
	if err != nil {
		return Barber{}, err
	}
	s.changed(ctx, feed.OpInsert, id)
	return s.Store.GetBarber(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, in Input) (Barber, error) {
	in, err := validate(in)
	if err != nil {
		return Barber{}, err
	}
	if err := s.Store.UpdateBarber(ctx, id, in); err != nil {
		return Barber{}, err
	}
	s.changed(ctx, feed.OpUpdate, id)
	return s.Store.GetBarber(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Store.DeleteBarber(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, feed.OpDelete, id)
	return nil
}

func (s *Service) changed(ctx context.Context, op feed.Op, id string) {
	if s.Feed != nil {
		s.Feed.Changed(ctx, feed.TableBarbers, op, id)
	}
}

func validate(in Input) (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" {
		return in, apperr.Invalid("name", "required")
	}
	if !money.RateInRange(in.CommissionRate) {
		return in, apperr.Invalid("commission_rate", "must be between 0 and 100")
	}
	return in, nil
}
