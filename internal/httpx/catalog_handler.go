package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/barbershop-dashboard/internal/catalog"
	"github.com/go-chi/chi/v5"
)

// Catalog is satisfied by *catalog.Service.
type Catalog interface {
	Products(ctx context.Context, f catalog.Filter) ([]catalog.Product, error)
	Product(ctx context.Context, id string) (catalog.Product, error)
	LowStock(ctx context.Context, threshold int) ([]catalog.Product, error)
	CreateProduct(ctx context.Context, in catalog.ProductInput) (catalog.Product, error)
	UpdateProduct(ctx context.Context, id string, in catalog.ProductInput) (catalog.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, id string, delta int) (int, error)

	Brands(ctx context.Context) ([]catalog.Brand, error)
	CreateBrand(ctx context.Context, name string) (catalog.Brand, error)
	DeleteBrand(ctx context.Context, id string) error
	Categories(ctx context.Context) ([]catalog.Category, error)
	CreateCategory(ctx context.Context, name string) (catalog.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

const defaultLowStock = 5

type CatalogHandler struct {
	Svc Catalog
}

func (h *CatalogHandler) Register(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Get("/low-stock", h.lowStock)
		r.Get("/{id}", h.getProduct)
		r.Put("/{id}", h.updateProduct)
		r.With(RequireAdmin).Delete("/{id}", h.deleteProduct)
		r.With(RequireAdmin).Post("/{id}/stock", h.adjustStock)
	})
	r.Route("/brands", func(r chi.Router) {
		r.Get("/", h.listBrands)
		r.Post("/", h.createBrand)
		r.With(RequireAdmin).Delete("/{id}", h.deleteBrand)
	})
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.listCategories)
		r.Post("/", h.createCategory)
		r.With(RequireAdmin).Delete("/{id}", h.deleteCategory)
	})
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	svc, err := queryBool(r, "service")
	if err != nil {
		writeError(w, r, err)
		return
	}
	desc, err := queryBool(r, "desc")
	if err != nil {
		writeError(w, r, err)
		return
	}
	f := catalog.Filter{
		CategoryID: q.Get("category"),
		BrandID:    q.Get("brand"),
		Service:    svc,
		Search:     q.Get("q"),
		Sort:       q.Get("sort"),
		Desc:       desc != nil && *desc,
	}
	ps, err := h.Svc.Products(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *CatalogHandler) lowStock(w http.ResponseWriter, r *http.Request) {
	threshold, err := queryInt(r, "threshold", defaultLowStock)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ps, err := h.Svc.LowStock(r.Context(), threshold)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.Svc.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.Svc.CreateProduct(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *CatalogHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.Svc.UpdateProduct(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) adjustStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta"`
	}
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "id")
	stock, err := h.Svc.AdjustStock(r.Context(), id, req.Delta)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "stock": stock})
}

func (h *CatalogHandler) listBrands(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Svc.Brands(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

type nameReq struct {
	Name string `json:"name"`
}

func (h *CatalogHandler) createBrand(w http.ResponseWriter, r *http.Request) {
	var req nameReq
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.Svc.CreateBrand(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *CatalogHandler) deleteBrand(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DeleteBrand(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	cs, err := h.Svc.Categories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (h *CatalogHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req nameReq
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.Svc.CreateCategory(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CatalogHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
