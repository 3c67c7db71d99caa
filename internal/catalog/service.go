package catalog

import (
	"context"
	"slices"
	"strings"

	"github.com/ariefcatur/barbershop-dashboard/internal/apperr"
	"github.com/ariefcatur/barbershop-dashboard/internal/feed"
	"github.com/ariefcatur/barbershop-dashboard/internal/redisx"
)

type Store interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (string, error)
	UpdateProduct(ctx context.Context, id string, in ProductInput) error
	DeleteProduct(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, id string, delta int) (int, error)

	ListBrands(ctx context.Context) ([]Brand, error)
	CreateBrand(ctx context.Context, name string) (Brand, error)
	DeleteBrand(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, name string) (Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// Filter narrows and orders an already fetched product list.
type Filter struct {
	CategoryID string
	BrandID    string
	Service    *bool
	Search     string
	Sort       string // name | price | stock
	Desc       bool
}

func (f Filter) Apply(in []Product) []Product {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Product, 0, len(in))
	for _, p := range in {
		switch {
		case f.CategoryID != "" && p.CategoryID != f.CategoryID,
			f.BrandID != "" && p.BrandID != f.BrandID,
			f.Service != nil && p.IsService != *f.Service,
			q != "" && !strings.Contains(strings.ToLower(p.Name), q):
			continue
		}
		out = append(out, p)
	}
	slices.SortStableFunc(out, func(a, b Product) int {
		if f.Desc {
			a, b = b, a
		}
		switch f.Sort {
		case "price":
			return a.Price.Cmp(b.Price)
		case "stock":
			return a.Stock - b.Stock
		default:
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	})
	return out
}

type Service struct {
	Store Store
	Feed  feed.Publisher
	Cache *redisx.Cache
}

func (s *Service) changed(ctx context.Context, table string, op feed.Op, id string) {
	if s.Feed != nil {
		s.Feed.Changed(ctx, table, op, id)
	}
}

func (s *Service) Products(ctx context.Context, f Filter) ([]Product, error) {
	all, err := redisx.Remember(ctx, s.Cache, feed.TableProducts, "all", s.Store.ListProducts)
	if err != nil {
		return nil, err
	}
	return f.Apply(all), nil
}

func (s *Service) Product(ctx context.Context, id string) (Product, error) {
	return s.Store.GetProduct(ctx, id)
}

// LowStock lists stocked products at or below threshold, lowest first.
func (s *Service) LowStock(ctx context.Context, threshold int) ([]Product, error) {
	notService := false
	all, err := s.Products(ctx, Filter{Service: &notService, Sort: "stock"})
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, p := range all {
		if p.Stock <= threshold {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (Product, error) {
	in, err := validateProduct(in)
	if err != nil {
		return Product{}, err
	}
	id, err := s.Store.CreateProduct(ctx, in)
	if err != nil {
		return Product{}, err
	}
	s.changed(ctx, feed.TableProducts, feed.OpInsert, id)
	return s.Store.GetProduct(ctx, id)
}

func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (Product, error) {
	in, err := validateProduct(in)
	if err != nil {
		return Product{}, err
	}
	if in.IsService {
		cur, err := s.Store.GetProduct(ctx, id)
		if err != nil {
			return Product{}, err
		}
		if !cur.IsService && cur.Stock > 0 {
			return Product{}, apperr.Invalid("is_service", "product still has stock; adjust it to zero first")
		}
	}
	if err := s.Store.UpdateProduct(ctx, id, in); err != nil {
		return Product{}, err
	}
	s.changed(ctx, feed.TableProducts, feed.OpUpdate, id)
	return s.Store.GetProduct(ctx, id)
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.Store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, feed.TableProducts, feed.OpDelete, id)
	return nil
}

func (s *Service) AdjustStock(ctx context.Context, id string, delta int) (int, error) {
	if delta == 0 {
		return 0, apperr.Invalid("delta", "must not be zero")
	}
	stock, err := s.Store.AdjustStock(ctx, id, delta)
	if err != nil {
		return 0, err
	}
	s.changed(ctx, feed.TableProducts, feed.OpUpdate, id)
	return stock, nil
}

func (s *Service) Brands(ctx context.Context) ([]Brand, error) {
	return redisx.Remember(ctx, s.Cache, feed.TableBrands, "all", s.Store.ListBrands)
}

func (s *Service) CreateBrand(ctx context.Context, name string) (Brand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Brand{}, apperr.Invalid("name", "required")
	}
	b, err := s.Store.CreateBrand(ctx, name)
	if err != nil {
		return Brand{}, err
	}
	s.changed(ctx, feed.TableBrands, feed.OpInsert, b.ID)
	return b, nil
}

func (s *Service) DeleteBrand(ctx context.Context, id string) error {
	if err := s.Store.DeleteBrand(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, feed.TableBrands, feed.OpDelete, id)
	return nil
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return redisx.Remember(ctx, s.Cache, feed.TableCategories, "all", s.Store.ListCategories)
}

func (s *Service) CreateCategory(ctx context.Context, name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, apperr.Invalid("name", "required")
	}
	c, err := s.Store.CreateCategory(ctx, name)
	if err != nil {
		return Category{}, err
	}
	s.changed(ctx, feed.TableCategories, feed.OpInsert, c.ID)
	return c, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.Store.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, feed.TableCategories, feed.OpDelete, id)
	return nil
}

func validateProduct(in ProductInput) (ProductInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, apperr.Invalid("name", "required")
	}
	if in.Price.IsNegative() {
		return in, apperr.Invalid("price", "must not be negative")
	}
	if in.Stock < 0 {
		return in, apperr.Invalid("stock", "must not be negative")
	}
	if in.IsService {
		in.Stock = 0
	}
	in.Price = in.Price.Round(2)
	return in, nil
}
