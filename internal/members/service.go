package members

import (
	"context"
	"strings"
	"time"

	"github.com/ariefcatur/barbershop-dashboard/internal/apperr"
	"github.com/ariefcatur/barbershop-dashboard/internal/feed"
	"github.com/ariefcatur/barbershop-dashboard/internal/redisx"
	"github.com/shopspring/decimal"
)

type Store interface {
	ListMembers(ctx context.Context) ([]Subscriber, error)
	GetMember(ctx context.Context, id string) (Subscriber, error)
	CreateMember(ctx context.Context, s Subscriber) (string, error)
	UpdateMember(ctx context.Context, s Subscriber) error
	DeleteMember(ctx context.Context, id string) error
	SetPlan(ctx context.Context, id, planID string) error
	SetPaymentStatus(ctx context.Context, id string, st Status, paidAt *time.Time) error

	ListPlans(ctx context.Context) ([]Plan, error)
	GetPlan(ctx context.Context, id string) (Plan, error)
	SetPlanPrice(ctx context.Context, id string, price decimal.Decimal) error
}

type Service struct {
	Store Store
	Feed  feed.Publisher
	Cache *redisx.Cache
	Now   func() time.Time
}

func NewService(store Store, pub feed.Publisher, cache *redisx.Cache) *Service {
	return &Service{Store: store, Feed: pub, Cache: cache, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Service) changed(ctx context.Context, table string, op feed.Op, id string) {
	if s.Feed != nil {
		s.Feed.Changed(ctx, table, op, id)
	}
}

// List fetches every member and applies f in memory.
func (s *Service) List(ctx context.Context, f Filter) ([]Subscriber, error) {
	all, err := redisx.Remember(ctx, s.Cache, feed.TableMembers, "all", s.Store.ListMembers)
	if err != nil {
		return nil, err
	}
	return f.Apply(all), nil
}

func (s *Service) Get(ctx context.Context, id string) (Subscriber, error) {
	return s.Store.GetMember(ctx, id)
}

func (s *Service) Create(ctx context.Context, in Input) (Subscriber, error) {
	sub, err := s.validate(ctx, in)
	if err != nil {
		return Subscriber{}, err
	}
	if sub.Status == StatusPaid {
		now := s.now()
		sub.PaymentDate = &now
	}
	id, err := s.Store.CreateMember(ctx, sub)
	if err != nil {
		return Subscriber{}, err
	}
	s.changed(ctx, feed.TableMembers, feed.OpInsert, id)
	return s.Store.GetMember(ctx, id)
}

// Update replaces the writable fields of a member. The payment date is kept
// unless the status moves, in which case it follows UpdatePaymentStatus rules.
func (s *Service) Update(ctx context.Context, id string, in Input) (Subscriber, error) {
	cur, err := s.Store.GetMember(ctx, id)
	if err != nil {
		return Subscriber{}, err
	}
	next, err := s.validate(ctx, in)
	if err != nil {
		return Subscriber{}, err
	}
	next.ID = id
	next.PaymentDate = cur.PaymentDate
	if next.Status != cur.Status {
		next.PaymentDate = s.paymentDateFor(next.Status, cur.PaymentDate)
	}
	if err := s.Store.UpdateMember(ctx, next); err != nil {
		return Subscriber{}, err
	}
	s.changed(ctx, feed.TableMembers, feed.OpUpdate, id)
	return s.Store.GetMember(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Store.DeleteMember(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, feed.TableMembers, feed.OpDelete, id)
	return nil
}

func (s *Service) ChangePlan(ctx context.Context, id, planID string) (Subscriber, error) {
	if strings.TrimSpace(planID) == "" {
		return Subscriber{}, apperr.Invalid("plan_id", "required")
	}
	if _, err := s.Store.GetPlan(ctx, planID); err != nil {
		return Subscriber{}, err
	}
	if err := s.Store.SetPlan(ctx, id, planID); err != nil {
		return Subscriber{}, err
	}
	s.changed(ctx, feed.TableMembers, feed.OpUpdate, id)
	return s.Store.GetMember(ctx, id)
}

// UpdatePaymentStatus moves a member to status. Becoming paid stamps the
// payment date with today; going back to pending clears it; cancelling keeps
// the last payment date for history.
func (s *Service) UpdatePaymentStatus(ctx context.Context, id, status string) (Subscriber, error) {
	st, err := ParseStatus(status)
	if err != nil {
		return Subscriber{}, err
	}
	cur, err := s.Store.GetMember(ctx, id)
	if err != nil {
		return Subscriber{}, err
	}
	if err := s.Store.SetPaymentStatus(ctx, id, st, s.paymentDateFor(st, cur.PaymentDate)); err != nil {
		return Subscriber{}, err
	}
	s.changed(ctx, feed.TableMembers, feed.OpUpdate, id)
	return s.Store.GetMember(ctx, id)
}

func (s *Service) paymentDateFor(st Status, prev *time.Time) *time.Time {
	switch st {
	case StatusPaid:
		now := s.now()
		return &now
	case StatusPending:
		return nil
	default:
		return prev
	}
}

func (s *Service) Plans(ctx context.Context) ([]Plan, error) {
	return redisx.Remember(ctx, s.Cache, feed.TablePlans, "all", s.Store.ListPlans)
}

func (s *Service) SetPlanPrice(ctx context.Context, id string, price decimal.Decimal) (Plan, error) {
	if price.IsNegative() {
		return Plan{}, apperr.Invalid("price", "must not be negative")
	}
	if err := s.Store.SetPlanPrice(ctx, id, price.Round(2)); err != nil {
		return Plan{}, err
	}
	s.changed(ctx, feed.TablePlans, feed.OpUpdate, id)
	return s.Store.GetPlan(ctx, id)
}

// Stats summarizes the member base using the current plan prices.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	subs, err := redisx.Remember(ctx, s.Cache, feed.TableMembers, "all", s.Store.ListMembers)
	if err != nil {
		return Stats{}, err
	}
	plans, err := s.Plans(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(subs, PriceTable(plans)), nil
}

func (s *Service) validate(ctx context.Context, in Input) (Subscriber, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Subscriber{}, apperr.Invalid("name", "required")
	}
	phone := strings.TrimSpace(in.Phone)
	if len(phone) > 32 {
		return Subscriber{}, apperr.Invalid("phone", "too long")
	}
	st, err := ParseStatus(in.Status)
	if err != nil {
		return Subscriber{}, err
	}
	if in.PlanID != "" {
		if _, err := s.Store.GetPlan(ctx, in.PlanID); err != nil {
			return Subscriber{}, err
		}
	}
	return Subscriber{Name: name, Phone: phone, PlanID: in.PlanID, Status: st}, nil
}
