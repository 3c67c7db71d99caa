package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/barbershop-dashboard/internal/apperr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const productColumns = `id, name, COALESCE(brand_id, ''), COALESCE(category_id, ''),
	price, stock, is_service, image_url, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.BrandID, &p.CategoryID,
		&p.Price, &p.Stock, &p.IsService, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY name`)
	if err != nil {
		return nil, apperr.Persistence("list products", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, apperr.Persistence("scan product", err)
		}
		out = append(out, p)
	}
	return out, apperr.Persistence("list products", rows.Err())
}

func (r *Repo) GetProduct(ctx context.Context, id string) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}
	return p, apperr.Persistence("get product", err)
}

func (r *Repo) CreateProduct(ctx context.Context, in ProductInput) (string, error) {
	id := uuid.NewString()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO products(id, name, brand_id, category_id, price, stock, is_service, image_url)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8)`,
		id, in.Name, in.BrandID, in.CategoryID, in.Price, in.Stock, in.IsService, in.ImageURL)
	if err != nil {
		return "", apperr.Persistence("insert product", err)
	}
	return id, nil
}

// UpdateProduct rewrites everything but stock, which only moves through
// AdjustStock and checkout. A service never keeps stock.
func (r *Repo) UpdateProduct(ctx context.Context, id string, in ProductInput) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE products SET name=$2, brand_id=NULLIF($3, ''), category_id=NULLIF($4, ''),
			price=$5, is_service=$6, image_url=$7,
			stock=CASE WHEN $6 THEN 0 ELSE stock END, updated_at=now()
		WHERE id=$1`,
		id, in.Name, in.BrandID, in.CategoryID, in.Price, in.IsService, in.ImageURL)
	return affectedOne("update product", id, ct.RowsAffected(), err)
}

func (r *Repo) DeleteProduct(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	return affectedOne("delete product", id, ct.RowsAffected(), err)
}

func (r *Repo) ListBrands(ctx context.Context) ([]Brand, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name FROM brands ORDER BY name`)
	if err != nil {
		return nil, apperr.Persistence("list brands", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Brand, error) {
		var b Brand
		err := row.Scan(&b.ID, &b.Name)
		return b, err
	})
	return out, apperr.Persistence("list brands", err)
}

func (r *Repo) CreateBrand(ctx context.Context, name string) (Brand, error) {
	b := Brand{ID: uuid.NewString(), Name: name}
	if _, err := r.DB.Exec(ctx, `INSERT INTO brands(id, name) VALUES ($1, $2)`, b.ID, b.Name); err != nil {
		return Brand{}, apperr.Persistence("insert brand", err)
	}
	return b, nil
}

func (r *Repo) DeleteBrand(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM brands WHERE id=$1`, id)
	return affectedOne("delete brand", id, ct.RowsAffected(), err)
}

func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, apperr.Persistence("list categories", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Category, error) {
		var c Category
		err := row.Scan(&c.ID, &c.Name)
		return c, err
	})
	return out, apperr.Persistence("list categories", err)
}

func (r *Repo) CreateCategory(ctx context.Context, name string) (Category, error) {
	c := Category{ID: uuid.NewString(), Name: name}
	if _, err := r.DB.Exec(ctx, `INSERT INTO categories(id, name) VALUES ($1, $2)`, c.ID, c.Name); err != nil {
		return Category{}, apperr.Persistence("insert category", err)
	}
	return c, nil
}

func (r *Repo) DeleteCategory(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	return affectedOne("delete category", id, ct.RowsAffected(), err)
}

func affectedOne(op, id string, n int64, err error) error {
	if err != nil {
		return apperr.Persistence(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", op, id, apperr.ErrNotFound)
	}
	return nil
}
