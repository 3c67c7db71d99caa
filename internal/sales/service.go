package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/barbershop-dashboard/internal/feed"
	"github.com/ariefcatur/barbershop-dashboard/internal/money"
	"github.com/ariefcatur/barbershop-dashboard/internal/obs"
	"github.com/google/uuid"
)

// Ledger persists sales. DeleteSale removes the sale with its sellers and
// line items and is the compensation for InsertSale.
type Ledger interface {
	InsertSale(ctx context.Context, s Sale) error
	InsertLineItems(ctx context.Context, saleID string, items []LineItem) error
	DeleteSale(ctx context.Context, saleID string) error
}

// Stock moves product stock. DecrementStock must refuse to go below zero
// with *catalog.InsufficientStockError and ignore services.
type Stock interface {
	DecrementStock(ctx context.Context, productID string, qty int) error
	RestoreStock(ctx context.Context, productID string, qty int) error
}

// writeTimeout bounds the checkout writes and, separately, their compensation.
const writeTimeout = 10 * time.Second

type Service struct {
	Ledger Ledger
	Stock  Stock
	Feed   feed.Publisher
	Now    func() time.Time
	NewID  func() string
}

func NewService(l Ledger, st Stock, pub feed.Publisher) *Service {
	return &Service{Ledger: l, Stock: st, Feed: pub, Now: time.Now, NewID: uuid.NewString}
}

// Checkout sells the content of cart. The cart is cleared only on success.
func (s *Service) Checkout(ctx context.Context, cart *Cart, method PaymentMethod, cashierID string) (Sale, error) {
	var sale Sale
	err := cart.commit(func(lines []CartLine, sellers []SelectedSeller) error {
		var err error
		sale, err = s.Process(ctx, lines, sellers, method, cashierID)
		return err
	})
	return sale, err
}

// Process validates and persists one sale as a saga: insert the sale, insert
// its line items, then take stock line by line. A failing step undoes the
// earlier ones in reverse order. If the undo fails too, the result is a
// *PartialCheckoutFailure naming what was left behind.
func (s *Service) Process(ctx context.Context, lines []CartLine, sellers []SelectedSeller, method PaymentMethod, cashierID string) (Sale, error) {
	if err := ValidateCheckout(lines, sellers); err != nil {
		return Sale{}, err
	}
	if _, err := ParsePaymentMethod(string(method)); err != nil {
		return Sale{}, err
	}

	total := ComputeTotal(lines)
	sale := Sale{
		ID:            s.newID(),
		Total:         money.Round(total),
		PaymentMethod: method,
		Status:        StatusCompleted,
		CashierID:     cashierID,
		Sellers:       SplitCommissions(total, sellers),
		CreatedAt:     s.now(),
	}
	items := make([]LineItem, 0, len(lines))
	for i, l := range lines {
		items = append(items, LineItem{
			SaleID:          sale.ID,
			LineNo:          i + 1,
			ProductID:       l.ProductID,
			ProductName:     l.Name,
			Quantity:        l.Quantity,
			UnitPriceAtSale: l.UnitPrice,
			IsService:       l.IsService,
		})
	}

	if err := ctx.Err(); err != nil {
		return Sale{}, fmt.Errorf("checkout: %w", err)
	}
	// once the first write starts, the request going away must not leave a
	// step committed but unrecorded
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	if err := s.Ledger.InsertSale(ctx, sale); err != nil {
		return Sale{}, fmt.Errorf("checkout %s: %w", StepSale, err)
	}
	if err := s.Ledger.InsertLineItems(ctx, sale.ID, items); err != nil {
		return Sale{}, s.compensate(ctx, StepLineItems, sale.ID, nil, err)
	}

	var taken []CartLine
	for _, l := range lines {
		if l.IsService {
			continue
		}
		if err := s.Stock.DecrementStock(ctx, l.ProductID, l.Quantity); err != nil {
			return Sale{}, s.compensate(ctx, StepStock, sale.ID, taken, err)
		}
		taken = append(taken, l)
	}

	sale.Items = items
	if s.Feed != nil {
		s.Feed.Changed(ctx, feed.TableSales, feed.OpInsert, sale.ID)
	}
	obs.Logger.Info("sale completed",
		"sale_id", sale.ID, "total", sale.Total.StringFixed(money.Places),
		"lines", len(items), "sellers", len(sale.Sellers), "method", sale.PaymentMethod)
	return sale, nil
}

func (s *Service) compensate(ctx context.Context, step, saleID string, taken []CartLine, cause error) error {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	var errs []error
	for i := len(taken) - 1; i >= 0; i-- {
		if err := s.Stock.RestoreStock(cctx, taken[i].ProductID, taken[i].Quantity); err != nil {
			errs = append(errs, fmt.Errorf("restore %s: %w", taken[i].ProductID, err))
		}
	}
	if err := s.Ledger.DeleteSale(cctx, saleID); err != nil {
		errs = append(errs, fmt.Errorf("delete sale: %w", err))
	}

	if len(errs) > 0 {
		pf := &PartialCheckoutFailure{Step: step, SaleID: saleID, Err: cause, CompensationErr: errors.Join(errs...)}
		obs.Logger.Error("checkout left partial state", "sale_id", saleID, "step", step, "err", cause, "compensation_err", pf.CompensationErr)
		return pf
	}
	obs.Logger.Warn("checkout rolled back", "sale_id", saleID, "step", step, "err", cause)
	return fmt.Errorf("checkout %s: %w", step, cause)
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}

func (s *Service) newID() string {
	if s.NewID == nil {
		return uuid.NewString()
	}
	return s.NewID()
}
