package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/barbershop-dashboard/internal/barbers"
	"github.com/ariefcatur/barbershop-dashboard/internal/sales"
	"github.com/go-chi/chi/v5"
)

// Barbers is satisfied by *barbers.Service.
type Barbers interface {
	List(ctx context.Context, activeOnly bool) ([]barbers.Barber, error)
	Get(ctx context.Context, id string) (barbers.Barber, error)
	Seller(ctx context.Context, id string) (sales.SelectedSeller, error)
	Create(ctx context.Context, in barbers.Input) (barbers.Barber, error)
	Update(ctx context.Context, id string, in barbers.Input) (barbers.Barber, error)
	Delete(ctx context.Context, id string) error
}

type BarbersHandler struct {
	Svc Barbers
}

// Register mounts barber routes. Writes carry commission rates and are
// admin only.
func (h *BarbersHandler) Register(r chi.Router) {
	r.Route("/barbers", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Post("/", h.create)
			r.Put("/{id}", h.update)
			r.Delete("/{id}", h.delete)
		})
	})
}

func (h *BarbersHandler) list(w http.ResponseWriter, r *http.Request) {
	active, err := queryBool(r, "active")
	if err != nil {
		writeError(w, r, err)
		return
	}
	bs, err := h.Svc.List(r.Context(), active != nil && *active)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

func (h *BarbersHandler) get(w http.ResponseWriter, r *http.Request) {
	b, err := h.Svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BarbersHandler) create(w http.ResponseWriter, r *http.Request) {
	var in barbers.Input
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *BarbersHandler) update(w http.ResponseWriter, r *http.Request) {
	var in barbers.Input
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.Svc.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BarbersHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
