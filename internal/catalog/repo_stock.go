package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/barbershop-dashboard/internal/apperr"
	"github.com/jackc/pgx/v5"
)

// DecrementStock takes qty units of a stocked product in one conditional
// UPDATE, so concurrent checkouts cannot oversell. Services are a no-op.
func (r *Repo) DecrementStock(ctx context.Context, productID string, qty int) error {
	var left int
	err := r.DB.QueryRow(ctx, `
		UPDATE products SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND NOT is_service AND stock >= $2
		RETURNING stock`, productID, qty).Scan(&left)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return apperr.Persistence("decrement stock", err)
	}

	// the update matched nothing: find out why
	var stock int
	var isService bool
	err = r.DB.QueryRow(ctx, `SELECT stock, is_service FROM products WHERE id=$1`, productID).
		Scan(&stock, &isService)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("product %s: %w", productID, apperr.ErrNotFound)
	case err != nil:
		return apperr.Persistence("decrement stock", err)
	case isService:
		return nil
	default:
		return &InsufficientStockError{ProductID: productID, Requested: qty, Available: stock}
	}
}

// RestoreStock gives back units taken by DecrementStock.
func (r *Repo) RestoreStock(ctx context.Context, productID string, qty int) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = now()
		WHERE id = $1 AND NOT is_service`, productID, qty)
	if err != nil {
		return apperr.Persistence("restore stock", err)
	}
	if ct.RowsAffected() != 1 {
		return fmt.Errorf("restore stock %s: %w", productID, apperr.ErrNotFound)
	}
	return nil
}

// AdjustStock applies a manual correction (delivery, breakage). The result
// may not go below zero.
func (r *Repo) AdjustStock(ctx context.Context, productID string, delta int) (int, error) {
	var stock int
	err := r.DB.QueryRow(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = now()
		WHERE id = $1 AND NOT is_service AND stock + $2 >= 0
		RETURNING stock`, productID, delta).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, apperr.Persistence("adjust stock", err)
	}
	p, gerr := r.GetProduct(ctx, productID)
	if gerr != nil {
		return 0, gerr
	}
	if p.IsService {
		return 0, apperr.Invalid("delta", "services carry no stock")
	}
	return 0, &InsufficientStockError{ProductID: productID, Requested: -delta, Available: p.Stock}
}
