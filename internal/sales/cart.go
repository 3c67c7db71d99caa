package sales

import (
	"slices"
	"sync"

	"github.com/ariefcatur/barbershop-dashboard/internal/apperr"
	"github.com/ariefcatur/barbershop-dashboard/internal/catalog"
	"github.com/ariefcatur/barbershop-dashboard/internal/money"
	"github.com/shopspring/decimal"
)

// Cart is the in-memory state of one checkout session. It is never
// persisted; it is destroyed by a completed checkout or by Clear.
type Cart struct {
	mu      sync.Mutex
	lines   []CartLine
	sellers []SelectedSeller
}

// Add puts qty units of p into the cart, merging with an existing line.
// Stocked products cannot exceed the stock seen on p.
func (c *Cart) Add(p catalog.Product, qty int) error {
	if qty < 1 {
		return apperr.Invalid("quantity", "must be at least 1")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(p.ID)
	want := qty
	if i >= 0 {
		want += c.lines[i].Quantity
	}
	if !p.IsService && want > p.Stock {
		return &catalog.InsufficientStockError{ProductID: p.ID, Requested: want, Available: p.Stock}
	}

	line := CartLine{
		ProductID:      p.ID,
		Name:           p.Name,
		UnitPrice:      p.Price,
		Quantity:       want,
		IsService:      p.IsService,
		AvailableStock: p.Stock,
	}
	if i >= 0 {
		c.lines[i] = line
		return nil
	}
	c.lines = append(c.lines, line)
	return nil
}

// SetQuantity changes a line's quantity; zero or less removes it.
func (c *Cart) SetQuantity(productID string, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(productID)
	if i < 0 {
		return apperr.ErrNotFound
	}
	if qty <= 0 {
		c.lines = slices.Delete(c.lines, i, i+1)
		return nil
	}
	l := c.lines[i]
	if !l.IsService && qty > l.AvailableStock {
		return &catalog.InsufficientStockError{ProductID: productID, Requested: qty, Available: l.AvailableStock}
	}
	c.lines[i].Quantity = qty
	return nil
}

func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(productID); i >= 0 {
		c.lines = slices.Delete(c.lines, i, i+1)
	}
}

// SelectSeller adds or replaces a seller.
func (c *Cart) SelectSeller(s SelectedSeller) error {
	if s.SellerID == "" {
		return apperr.Invalid("seller_id", "required")
	}
	if !money.RateInRange(s.CommissionRatePercent) {
		return apperr.Invalid("commission_rate_percent", "must be within [0,100]")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.sellers {
		if c.sellers[i].SellerID == s.SellerID {
			c.sellers[i] = s
			return nil
		}
	}
	c.sellers = append(c.sellers, s)
	return nil
}

func (c *Cart) DeselectSeller(sellerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sellers = slices.DeleteFunc(c.sellers, func(s SelectedSeller) bool { return s.SellerID == sellerID })
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clear()
}

func (c *Cart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.lines)
}

func (c *Cart) Sellers() []SelectedSeller {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.sellers)
}

func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ComputeTotal(c.lines)
}

// commit hands a snapshot to fn while holding the cart, and clears the cart
// only when fn succeeds.
func (c *Cart) commit(fn func(lines []CartLine, sellers []SelectedSeller) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := fn(slices.Clone(c.lines), slices.Clone(c.sellers)); err != nil {
		return err
	}
	c.clear()
	return nil
}

func (c *Cart) clear() {
	c.lines = nil
	c.sellers = nil
}

func (c *Cart) indexOf(productID string) int {
	return slices.IndexFunc(c.lines, func(l CartLine) bool { return l.ProductID == productID })
}

// CartStore keeps one cart per user.
type CartStore struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewCartStore() *CartStore {
	return &CartStore{carts: map[string]*Cart{}}
}

func (s *CartStore) Get(userID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[userID]
	if !ok {
		c = &Cart{}
		s.carts[userID] = c
	}
	return c
}

func (s *CartStore) Drop(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
}
