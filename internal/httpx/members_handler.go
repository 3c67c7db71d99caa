package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/barbershop-dashboard/internal/members"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// Members is satisfied by *members.Service.
type Members interface {
	List(ctx context.Context, f members.Filter) ([]members.Subscriber, error)
	Get(ctx context.Context, id string) (members.Subscriber, error)
	Create(ctx context.Context, in members.Input) (members.Subscriber, error)
	Update(ctx context.Context, id string, in members.Input) (members.Subscriber, error)
	Delete(ctx context.Context, id string) error
	ChangePlan(ctx context.Context, id, planID string) (members.Subscriber, error)
	UpdatePaymentStatus(ctx context.Context, id, status string) (members.Subscriber, error)
	Plans(ctx context.Context) ([]members.Plan, error)
	SetPlanPrice(ctx context.Context, id string, price decimal.Decimal) (members.Plan, error)
	Stats(ctx context.Context) (members.Stats, error)
}

type MembersHandler struct {
	Svc Members
}

func (h *MembersHandler) Register(r chi.Router) {
	r.Route("/members", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Get("/stats", h.stats)
		r.Get("/{id}", h.get)
		r.Put("/{id}", h.update)
		r.With(RequireAdmin).Delete("/{id}", h.delete)
		r.Put("/{id}/plan", h.changePlan)
		r.Put("/{id}/payment-status", h.paymentStatus)
	})
	r.Get("/plans", h.plans)
	r.With(RequireAdmin).Put("/plans/{id}/price", h.setPlanPrice)
}

func (h *MembersHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	desc, err := queryBool(r, "desc")
	if err != nil {
		writeError(w, r, err)
		return
	}
	f := members.Filter{Search: q.Get("q"), Sort: q.Get("sort")}
	if raw := q.Get("status"); raw != "" {
		if f.Status, err = members.ParseStatus(raw); err != nil {
			writeError(w, r, err)
			return
		}
	}
	if desc != nil {
		f.Desc = *desc
	}
	subs, err := h.Svc.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *MembersHandler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Svc.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *MembersHandler) get(w http.ResponseWriter, r *http.Request) {
	sub, err := h.Svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *MembersHandler) create(w http.ResponseWriter, r *http.Request) {
	var in members.Input
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	sub, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *MembersHandler) update(w http.ResponseWriter, r *http.Request) {
	var in members.Input
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	sub, err := h.Svc.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *MembersHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MembersHandler) changePlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlanID string `json:"plan_id"`
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sub, err := h.Svc.ChangePlan(r.Context(), chi.URLParam(r, "id"), req.PlanID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *MembersHandler) paymentStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sub, err := h.Svc.UpdatePaymentStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *MembersHandler) plans(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Svc.Plans(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *MembersHandler) setPlanPrice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Price decimal.Decimal `json:"price"`
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.Svc.SetPlanPrice(r.Context(), chi.URLParam(r, "id"), req.Price)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
