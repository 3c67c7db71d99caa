package reports

import (
	"slices"
	"strings"
	"time"

	"github.com/ariefcatur/barbershop-dashboard/internal/money"
	"github.com/ariefcatur/barbershop-dashboard/internal/sales"
	"github.com/shopspring/decimal"
)

const TopProductsLimit = 10

type DayTotal struct {
	Day     string          `json:"day"` // YYYY-MM-DD
	Sales   int             `json:"sales"`
	Revenue decimal.Decimal `json:"revenue"`
}

type ProductQty struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type Summary struct {
	Currency      string                                  `json:"currency,omitempty"`
	Sales         int                                     `json:"sales"`
	Revenue       decimal.Decimal                         `json:"revenue"`
	AverageTicket decimal.Decimal                         `json:"average_ticket"`
	ByPayment     map[sales.PaymentMethod]decimal.Decimal `json:"by_payment"`
	ByDay         []DayTotal                              `json:"by_day"`
	TopProducts   []ProductQty                            `json:"top_products"`
}

// Summarize folds completed sales and their line items into a report. Days
// are bucketed in loc; nil means UTC. Line items of sales not in ss are
// ignored.
func Summarize(ss []sales.Sale, lines []sales.LineItem, loc *time.Location) Summary {
	if loc == nil {
		loc = time.UTC
	}
	sum := Summary{
		Revenue:       decimal.Zero,
		AverageTicket: decimal.Zero,
		ByPayment:     map[sales.PaymentMethod]decimal.Decimal{},
		ByDay:         []DayTotal{},
		TopProducts:   []ProductQty{},
	}

	counted := make(map[string]bool, len(ss))
	days := map[string]*DayTotal{}
	for _, s := range ss {
		if s.Status != sales.StatusCompleted {
			continue
		}
		counted[s.ID] = true
		sum.Sales++
		sum.Revenue = sum.Revenue.Add(s.Total)
		sum.ByPayment[s.PaymentMethod] = sum.ByPayment[s.PaymentMethod].Add(s.Total)

		key := s.CreatedAt.In(loc).Format(time.DateOnly)
		d, ok := days[key]
		if !ok {
			d = &DayTotal{Day: key, Revenue: decimal.Zero}
			days[key] = d
		}
		d.Sales++
		d.Revenue = d.Revenue.Add(s.Total)
	}
	if sum.Sales > 0 {
		sum.AverageTicket = money.Round(sum.Revenue.Div(decimal.NewFromInt(int64(sum.Sales))))
	}
	for _, d := range days {
		sum.ByDay = append(sum.ByDay, *d)
	}
	slices.SortFunc(sum.ByDay, func(a, b DayTotal) int { return strings.Compare(a.Day, b.Day) })

	products := map[string]*ProductQty{}
	for _, l := range lines {
		if !counted[l.SaleID] {
			continue
		}
		p, ok := products[l.ProductID]
		if !ok {
			p = &ProductQty{ProductID: l.ProductID, Name: l.ProductName, Revenue: decimal.Zero}
			products[l.ProductID] = p
		}
		p.Quantity += l.Quantity
		p.Revenue = p.Revenue.Add(l.UnitPriceAtSale.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	for _, p := range products {
		sum.TopProducts = append(sum.TopProducts, *p)
	}
	slices.SortFunc(sum.TopProducts, func(a, b ProductQty) int {
		if a.Quantity != b.Quantity {
			return b.Quantity - a.Quantity
		}
		return strings.Compare(a.ProductID, b.ProductID)
	})
	if len(sum.TopProducts) > TopProductsLimit {
		sum.TopProducts = sum.TopProducts[:TopProductsLimit]
	}
	return sum
}

// BarberCommission is what one barber earned over a period.
type BarberCommission struct {
	BarberID string          `json:"barber_id"`
	Name     string          `json:"name"`
	Sales    int             `json:"sales"`
	Total    decimal.Decimal `json:"total"`
}

// Commissions sums commission amounts per barber, highest earner first.
func Commissions(ss []sales.Sale) []BarberCommission {
	by := map[string]*BarberCommission{}
	for _, s := range ss {
		if s.Status != sales.StatusCompleted {
			continue
		}
		for _, sc := range s.Sellers {
			b, ok := by[sc.SellerID]
			if !ok {
				b = &BarberCommission{BarberID: sc.SellerID, Name: sc.Name, Total: decimal.Zero}
				by[sc.SellerID] = b
			}
			b.Sales++
			b.Total = b.Total.Add(sc.CommissionAmount)
		}
	}
	out := make([]BarberCommission, 0, len(by))
	for _, b := range by {
		out = append(out, *b)
	}
	slices.SortFunc(out, func(a, b BarberCommission) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}
		return strings.Compare(a.BarberID, b.BarberID)
	})
	return out
}
