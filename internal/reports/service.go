package reports

import (
	"context"
	"time"

	"github.com/ariefcatur/barbershop-dashboard/internal/apperr"
	"github.com/ariefcatur/barbershop-dashboard/internal/sales"
)

type Source interface {
	ListSales(ctx context.Context, from, to time.Time) ([]sales.Sale, error)
	ListLineItems(ctx context.Context, from, to time.Time, saleID string) ([]sales.LineItem, error)
}

type Service struct {
	Source   Source
	Location *time.Location
	Currency string
}

func (s *Service) Sales(ctx context.Context, from, to time.Time) (Summary, error) {
	if err := checkRange(from, to); err != nil {
		return Summary{}, err
	}
	ss, err := s.Source.ListSales(ctx, from, to)
	if err != nil {
		return Summary{}, err
	}
	lines, err := s.Source.ListLineItems(ctx, from, to, "")
	if err != nil {
		return Summary{}, err
	}
	sum := Summarize(ss, lines, s.Location)
	sum.Currency = s.Currency
	return sum, nil
}

func (s *Service) Commissions(ctx context.Context, from, to time.Time) ([]BarberCommission, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	ss, err := s.Source.ListSales(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return Commissions(ss), nil
}

func checkRange(from, to time.Time) error {
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return apperr.Invalid("to", "must be after from")
	}
	return nil
}
