package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ariefcatur/barbershop-dashboard/internal/apperr"
	"github.com/ariefcatur/barbershop-dashboard/internal/auth"
	"github.com/ariefcatur/barbershop-dashboard/internal/catalog"
	"github.com/ariefcatur/barbershop-dashboard/internal/members"
	"github.com/ariefcatur/barbershop-dashboard/internal/reports"
	"github.com/ariefcatur/barbershop-dashboard/internal/sales"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Embedding the interface leaves unused methods nil; tests only call what
// each fake overrides.
type fakeMembers struct {
	Members
	deleted []string
}

func (f *fakeMembers) List(_ context.Context, flt members.Filter) ([]members.Subscriber, error) {
	return flt.Apply([]members.Subscriber{
		{ID: "m1", Name: "Ana", Status: members.StatusPaid},
		{ID: "m2", Name: "Bruno", Status: members.StatusPending},
	}), nil
}

func (f *fakeMembers) Stats(context.Context) (members.Stats, error) {
	return members.Stats{Total: 2, Active: 1, Pending: 1, MonthlyRevenue: decimal.RequireFromString("40")}, nil
}

func (f *fakeMembers) Create(_ context.Context, in members.Input) (members.Subscriber, error) {
	if in.Name == "" {
		return members.Subscriber{}, apperr.Invalid("name", "required")
	}
	return members.Subscriber{ID: "m3", Name: in.Name, Status: members.StatusPending}, nil
}

func (f *fakeMembers) Delete(_ context.Context, id string) error {
	if id == "missing" {
		return fmt.Errorf("member %s: %w", id, apperr.ErrNotFound)
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeProducts map[string]catalog.Product

func (f fakeProducts) Product(_ context.Context, id string) (catalog.Product, error) {
	p, ok := f[id]
	if !ok {
		return catalog.Product{}, apperr.ErrNotFound
	}
	return p, nil
}

type fakeSellers struct{}

func (fakeSellers) Seller(_ context.Context, id string) (sales.SelectedSeller, error) {
	if id != "b1" {
		return sales.SelectedSeller{}, apperr.ErrNotFound
	}
	return sales.SelectedSeller{SellerID: "b1", Name: "Rafa", CommissionRatePercent: decimal.NewFromInt(10)}, nil
}

type memLedger struct{ sales map[string]sales.Sale }

func (l *memLedger) InsertSale(_ context.Context, s sales.Sale) error {
	l.sales[s.ID] = s
	return nil
}
func (l *memLedger) InsertLineItems(context.Context, string, []sales.LineItem) error { return nil }
func (l *memLedger) DeleteSale(_ context.Context, id string) error {
	delete(l.sales, id)
	return nil
}
func (l *memLedger) GetSale(_ context.Context, id string) (sales.Sale, error) {
	s, ok := l.sales[id]
	if !ok {
		return sales.Sale{}, apperr.ErrNotFound
	}
	return s, nil
}
func (l *memLedger) ListSales(context.Context, time.Time, time.Time) ([]sales.Sale, error) {
	var out []sales.Sale
	for _, s := range l.sales {
		out = append(out, s)
	}
	return out, nil
}

type memStock map[string]int

func (m memStock) DecrementStock(_ context.Context, id string, qty int) error {
	if m[id] < qty {
		return &catalog.InsufficientStockError{ProductID: id, Requested: qty, Available: m[id]}
	}
	m[id] -= qty
	return nil
}
func (m memStock) RestoreStock(_ context.Context, id string, qty int) error {
	m[id] += qty
	return nil
}

type fakeReports struct{ Reports }

func (fakeReports) Sales(_ context.Context, from, to time.Time) (reports.Summary, error) {
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return reports.Summary{}, apperr.Invalid("to", "must be after from")
	}
	return reports.Summary{Sales: 1, Revenue: decimal.NewFromInt(10)}, nil
}

type fixture struct {
	srv     *httptest.Server
	tokens  *auth.Tokens
	members *fakeMembers
	stock   memStock
}

func newFixture(t *testing.T, rateLimit string) *fixture {
	t.Helper()
	tokens, err := auth.NewTokens("test-secret")
	require.NoError(t, err)

	ledger := &memLedger{sales: map[string]sales.Sale{}}
	stock := memStock{"p1": 2}
	fm := &fakeMembers{}
	opt := Options{Tokens: tokens}
	if rateLimit != "" {
		opt.RateLimit, err = RateLimit(rateLimit)
		require.NoError(t, err)
	}

	router := NewRouter(API{
		Members: &MembersHandler{Svc: fm},
		Sales: &SalesHandler{
			Carts:    sales.NewCartStore(),
			Checkout: sales.NewService(ledger, stock, nil),
			Sales:    ledger,
			Products: fakeProducts{
				"p1": {ID: "p1", Name: "Pomada", Price: decimal.RequireFromString("10.00"), Stock: 5},
				"s1": {ID: "s1", Name: "Corte", Price: decimal.RequireFromString("5.50"), IsService: true},
			},
			Sellers:         fakeSellers{},
			CheckoutTimeout: time.Second,
		},
		Reports: &ReportsHandler{Svc: fakeReports{}},
	}, opt)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, tokens: tokens, members: fm, stock: stock}
}

func (f *fixture) token(t *testing.T, sub, role string) string {
	t.Helper()
	raw, _, err := f.tokens.Issue(sub, role, time.Hour)
	require.NoError(t, err)
	return raw
}

func (f *fixture) do(t *testing.T, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, f.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	var raw json.RawMessage
	if json.NewDecoder(resp.Body).Decode(&raw) == nil {
		if err := json.Unmarshal(raw, &out); err != nil {
			out = map[string]any{"_": raw}
		}
	}
	return resp.StatusCode, out
}

func TestHealthzIsPublic(t *testing.T) {
	f := newFixture(t, "")
	resp, err := http.Get(f.srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPIRequiresToken(t *testing.T) {
	f := newFixture(t, "")

	code, body := f.do(t, http.MethodGet, "/api/members", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "unauthorized", body["error"])

	code, _ = f.do(t, http.MethodGet, "/api/members", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = f.do(t, http.MethodGet, "/api/members", f.token(t, "u1", auth.RoleDefault), "")
	assert.Equal(t, http.StatusOK, code)
}

func TestAdminOnlyDelete(t *testing.T) {
	f := newFixture(t, "")

	code, body := f.do(t, http.MethodDelete, "/api/members/m1", f.token(t, "u1", auth.RoleDefault), "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "forbidden", body["error"])
	assert.Empty(t, f.members.deleted)

	admin := f.token(t, "boss", auth.RoleAdmin)
	code, _ = f.do(t, http.MethodDelete, "/api/members/m1", admin, "")
	assert.Equal(t, http.StatusNoContent, code)
	assert.Equal(t, []string{"m1"}, f.members.deleted)

	code, body = f.do(t, http.MethodDelete, "/api/members/missing", admin, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not found", body["error"])
}

func TestMembersErrorsMapToStatus(t *testing.T) {
	f := newFixture(t, "")
	tok := f.token(t, "u1", auth.RoleDefault)

	code, body := f.do(t, http.MethodPost, "/api/members", tok, `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "validation failed", body["error"])
	assert.Contains(t, body["details"], "name")

	code, _ = f.do(t, http.MethodPost, "/api/members", tok, `{"name":`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = f.do(t, http.MethodGet, "/api/members?status=vip", tok, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = f.do(t, http.MethodGet, "/api/members/stats", tok, "")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 2, body["total"])
}

func TestCartCheckoutFlow(t *testing.T) {
	f := newFixture(t, "")
	tok := f.token(t, "cashier-1", auth.RoleDefault)

	code, body := f.do(t, http.MethodPost, "/api/cart/checkout", tok, `{"payment_method":"cash"}`)
	assert.Equal(t, http.StatusBadRequest, code, "empty cart")
	assert.Contains(t, body["details"], "cart")

	code, _ = f.do(t, http.MethodPost, "/api/cart/items", tok, `{"product_id":"p1","quantity":2}`)
	require.Equal(t, http.StatusOK, code)
	code, body = f.do(t, http.MethodPost, "/api/cart/items", tok, `{"product_id":"s1"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "25.5", body["total"])

	code, _ = f.do(t, http.MethodPost, "/api/cart/checkout", tok, `{"payment_method":"cash"}`)
	assert.Equal(t, http.StatusBadRequest, code, "no seller")

	code, _ = f.do(t, http.MethodPost, "/api/cart/sellers", tok, `{"seller_id":"nobody"}`)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = f.do(t, http.MethodPost, "/api/cart/sellers", tok, `{"seller_id":"b1"}`)
	require.Equal(t, http.StatusOK, code)

	code, _ = f.do(t, http.MethodPost, "/api/cart/checkout", tok, `{"payment_method":"cheque"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = f.do(t, http.MethodPost, "/api/cart/checkout", tok, `{"payment_method":"pix"}`)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "25.5", body["total"])
	assert.Equal(t, "cashier-1", body["cashier_id"])
	assert.Equal(t, 0, f.stock["p1"])

	code, body = f.do(t, http.MethodGet, "/api/cart", tok, "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["lines"])

	code, _ = f.do(t, http.MethodGet, "/api/sales/nope", tok, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCheckoutInsufficientStockIsConflict(t *testing.T) {
	f := newFixture(t, "")
	tok := f.token(t, "cashier-2", auth.RoleDefault)

	// the cart saw stock 5 but only 2 are left in storage
	code, _ := f.do(t, http.MethodPost, "/api/cart/items", tok, `{"product_id":"p1","quantity":3}`)
	require.Equal(t, http.StatusOK, code)
	code, _ = f.do(t, http.MethodPost, "/api/cart/sellers", tok, `{"seller_id":"b1"}`)
	require.Equal(t, http.StatusOK, code)

	code, body := f.do(t, http.MethodPost, "/api/cart/checkout", tok, `{"payment_method":"card"}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "insufficient stock", body["error"])
	assert.Equal(t, 2, f.stock["p1"])

	code, body = f.do(t, http.MethodGet, "/api/cart", tok, "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["lines"], 1, "cart kept after failure")
}

func TestCartsArePerUser(t *testing.T) {
	f := newFixture(t, "")
	a := f.token(t, "a", auth.RoleDefault)
	b := f.token(t, "b", auth.RoleDefault)

	code, _ := f.do(t, http.MethodPost, "/api/cart/items", a, `{"product_id":"s1"}`)
	require.Equal(t, http.StatusOK, code)

	_, body := f.do(t, http.MethodGet, "/api/cart", b, "")
	assert.Empty(t, body["lines"])
}

func TestReportsRange(t *testing.T) {
	f := newFixture(t, "")
	tok := f.token(t, "u1", auth.RoleDefault)

	code, body := f.do(t, http.MethodGet, "/api/reports/sales?from=2026-10-01&to=2026-10-31", tok, "")
	assert.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["sales"])

	code, _ = f.do(t, http.MethodGet, "/api/reports/sales?from=yesterday", tok, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = f.do(t, http.MethodGet, "/api/reports/sales?from=2026-10-02&to=2026-10-01", tok, "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRateLimit(t *testing.T) {
	f := newFixture(t, "2-M")
	tok := f.token(t, "u1", auth.RoleDefault)

	for i := 0; i < 2; i++ {
		code, _ := f.do(t, http.MethodGet, "/api/members", tok, "")
		require.Equal(t, http.StatusOK, code)
	}
	code, _ := f.do(t, http.MethodGet, "/api/members", tok, "")
	assert.Equal(t, http.StatusTooManyRequests, code)

	_, err := RateLimit("lots")
	assert.Error(t, err)
}
