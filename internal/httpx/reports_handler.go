package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/barbershop-dashboard/internal/reports"
	"github.com/go-chi/chi/v5"
)

// Reports is satisfied by *reports.Service.
type Reports interface {
	Sales(ctx context.Context, from, to time.Time) (reports.Summary, error)
	Commissions(ctx context.Context, from, to time.Time) ([]reports.BarberCommission, error)
}

type ReportsHandler struct {
	Svc Reports
	// Location interprets date-only ranges; it should match the zone
	// report days are bucketed in.
	Location *time.Location
}

func (h *ReportsHandler) Register(r chi.Router) {
	r.Get("/reports/sales", h.sales)
	r.Get("/reports/commissions", h.commissions)
}

func (h *ReportsHandler) sales(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryRange(r, h.Location)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sum, err := h.Svc.Sales(r.Context(), from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *ReportsHandler) commissions(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryRange(r, h.Location)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.Svc.Commissions(r.Context(), from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
