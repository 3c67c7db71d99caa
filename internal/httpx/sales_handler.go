package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/barbershop-dashboard/internal/apperr"
	"github.com/ariefcatur/barbershop-dashboard/internal/auth"
	"github.com/ariefcatur/barbershop-dashboard/internal/catalog"
	"github.com/ariefcatur/barbershop-dashboard/internal/sales"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// Checkouts is satisfied by *sales.Service.
type Checkouts interface {
	Checkout(ctx context.Context, cart *sales.Cart, method sales.PaymentMethod, cashierID string) (sales.Sale, error)
}

// SaleReader is satisfied by *sales.Repo.
type SaleReader interface {
	GetSale(ctx context.Context, id string) (sales.Sale, error)
	ListSales(ctx context.Context, from, to time.Time) ([]sales.Sale, error)
}

// ProductLookup is satisfied by *catalog.Service.
type ProductLookup interface {
	Product(ctx context.Context, id string) (catalog.Product, error)
}

// SellerLookup is satisfied by *barbers.Service.
type SellerLookup interface {
	Seller(ctx context.Context, id string) (sales.SelectedSeller, error)
}

// SalesHandler serves the per-user cart, checkout and sale history.
type SalesHandler struct {
	Carts    *sales.CartStore
	Checkout Checkouts
	Sales    SaleReader
	Products ProductLookup
	Sellers  SellerLookup
	// Location interprets date-only ranges of the sale history.
	Location *time.Location
	// CheckoutTimeout bounds the checkout writes; zero leaves the request deadline.
	CheckoutTimeout time.Duration
}

type cartView struct {
	Lines   []sales.CartLine       `json:"lines"`
	Sellers []sales.SelectedSeller `json:"sellers"`
	Total   decimal.Decimal        `json:"total"`
}

func viewOf(c *sales.Cart) cartView {
	v := cartView{Lines: c.Lines(), Sellers: c.Sellers(), Total: c.Total()}
	if v.Lines == nil {
		v.Lines = []sales.CartLine{}
	}
	if v.Sellers == nil {
		v.Sellers = []sales.SelectedSeller{}
	}
	return v
}

func (h *SalesHandler) Register(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.getCart)
		r.Delete("/", h.clearCart)
		r.Post("/items", h.addItem)
		r.Put("/items/{productID}", h.setQuantity)
		r.Delete("/items/{productID}", h.removeItem)
		r.Post("/sellers", h.selectSeller)
		r.Delete("/sellers/{sellerID}", h.deselectSeller)
		r.Post("/checkout", h.checkout)
	})
	r.Get("/sales", h.listSales)
	r.Get("/sales/{id}", h.getSale)
}

func (h *SalesHandler) cart(r *http.Request) (*sales.Cart, string, error) {
	u, ok := auth.FromContext(r.Context())
	if !ok {
		return nil, "", apperr.ErrUnauthorized
	}
	return h.Carts.Get(u.ID), u.ID, nil
}

// withCart runs fn on the caller's cart and replies with the cart state.
func (h *SalesHandler) withCart(w http.ResponseWriter, r *http.Request, fn func(c *sales.Cart) error) {
	c, _, err := h.cart(r)
	if err == nil {
		err = fn(c)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(c))
}

func (h *SalesHandler) getCart(w http.ResponseWriter, r *http.Request) {
	h.withCart(w, r, func(*sales.Cart) error { return nil })
}

func (h *SalesHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	h.withCart(w, r, func(c *sales.Cart) error {
		c.Clear()
		return nil
	})
}

func (h *SalesHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	h.withCart(w, r, func(c *sales.Cart) error {
		p, err := h.Products.Product(r.Context(), req.ProductID)
		if err != nil {
			return err
		}
		return c.Add(p, req.Quantity)
	})
}

func (h *SalesHandler) setQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.withCart(w, r, func(c *sales.Cart) error {
		return c.SetQuantity(chi.URLParam(r, "productID"), req.Quantity)
	})
}

func (h *SalesHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	h.withCart(w, r, func(c *sales.Cart) error {
		c.Remove(chi.URLParam(r, "productID"))
		return nil
	})
}

func (h *SalesHandler) selectSeller(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SellerID string `json:"seller_id"`
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	h.withCart(w, r, func(c *sales.Cart) error {
		s, err := h.Sellers.Seller(r.Context(), req.SellerID)
		if err != nil {
			return err
		}
		return c.SelectSeller(s)
	})
}

func (h *SalesHandler) deselectSeller(w http.ResponseWriter, r *http.Request) {
	h.withCart(w, r, func(c *sales.Cart) error {
		c.DeselectSeller(chi.URLParam(r, "sellerID"))
		return nil
	})
}

func (h *SalesHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaymentMethod string `json:"payment_method"`
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	method, err := sales.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, userID, err := h.cart(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx := r.Context()
	if h.CheckoutTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.CheckoutTimeout)
		defer cancel()
	}
	sale, err := h.Checkout.Checkout(ctx, c, method, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sale)
}

func (h *SalesHandler) listSales(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryRange(r, h.Location)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ss, err := h.Sales.ListSales(r.Context(), from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ss == nil {
		ss = []sales.Sale{}
	}
	writeJSON(w, http.StatusOK, ss)
}

func (h *SalesHandler) getSale(w http.ResponseWriter, r *http.Request) {
	s, err := h.Sales.GetSale(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
