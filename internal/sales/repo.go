package sales

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/barbershop-dashboard/internal/apperr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

// InsertSale writes the sale row and its seller shares together.
func (r *Repo) InsertSale(ctx context.Context, s Sale) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperr.Persistence("begin sale", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO sales(id, total, payment_method, status, cashier_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.Total, string(s.PaymentMethod), string(s.Status), s.CashierID, s.CreatedAt); err != nil {
		return apperr.Persistence(StepSale, err)
	}
	for _, sc := range s.Sellers {
		if _, err := tx.Exec(ctx, `
			INSERT INTO sale_sellers(sale_id, barber_id, barber_name, commission_rate, commission_amount)
			VALUES ($1, $2, $3, $4, $5)`,
			s.ID, sc.SellerID, sc.Name, sc.RatePercent, sc.CommissionAmount); err != nil {
			return apperr.Persistence("insert sale seller", err)
		}
	}
	return apperr.Persistence("commit sale", tx.Commit(ctx))
}

// InsertLineItems writes all items of a sale or none of them.
func (r *Repo) InsertLineItems(ctx context.Context, saleID string, items []LineItem) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperr.Persistence("begin line items", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, it := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO sale_items(sale_id, line_no, product_id, product_name, quantity, unit_price, is_service)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			saleID, it.LineNo, it.ProductID, it.ProductName, it.Quantity, it.UnitPriceAtSale, it.IsService); err != nil {
			return apperr.Persistence(StepLineItems, err)
		}
	}
	return apperr.Persistence("commit line items", tx.Commit(ctx))
}

// DeleteSale cascades to sale_sellers and sale_items.
func (r *Repo) DeleteSale(ctx context.Context, saleID string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM sales WHERE id=$1`, saleID)
	if err != nil {
		return apperr.Persistence("delete sale", err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("sale %s: %w", saleID, apperr.ErrNotFound)
	}
	return nil
}

func (r *Repo) GetSale(ctx context.Context, id string) (Sale, error) {
	var s Sale
	var method, status string
	err := r.DB.QueryRow(ctx, `
		SELECT id, total, payment_method, status, cashier_id, created_at FROM sales WHERE id=$1`, id).
		Scan(&s.ID, &s.Total, &method, &status, &s.CashierID, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sale{}, fmt.Errorf("sale %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return Sale{}, apperr.Persistence("get sale", err)
	}
	s.PaymentMethod, s.Status = PaymentMethod(method), Status(status)

	sellers, err := r.sellersOf(ctx, `WHERE ss.sale_id = $1`, id)
	if err != nil {
		return Sale{}, err
	}
	s.Sellers = sellers[id]

	items, err := r.ListLineItems(ctx, time.Time{}, time.Time{}, id)
	if err != nil {
		return Sale{}, err
	}
	s.Items = items
	return s, nil
}

// ListSales returns sales created in [from, to) with their sellers, newest
// first. A zero bound is open.
func (r *Repo) ListSales(ctx context.Context, from, to time.Time) ([]Sale, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, total, payment_method, status, cashier_id, created_at FROM sales
		WHERE ($1::timestamptz IS NULL OR created_at >= $1)
		  AND ($2::timestamptz IS NULL OR created_at < $2)
		ORDER BY created_at DESC`, nullTime(from), nullTime(to))
	if err != nil {
		return nil, apperr.Persistence("list sales", err)
	}
	defer rows.Close()

	var out []Sale
	for rows.Next() {
		var s Sale
		var method, status string
		if err := rows.Scan(&s.ID, &s.Total, &method, &status, &s.CashierID, &s.CreatedAt); err != nil {
			return nil, apperr.Persistence("scan sale", err)
		}
		s.PaymentMethod, s.Status = PaymentMethod(method), Status(status)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("list sales", err)
	}

	sellers, err := r.sellersOf(ctx, `JOIN sales s ON s.id = ss.sale_id
		WHERE ($1::timestamptz IS NULL OR s.created_at >= $1)
		  AND ($2::timestamptz IS NULL OR s.created_at < $2)`, nullTime(from), nullTime(to))
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Sellers = sellers[out[i].ID]
	}
	return out, nil
}

// ListLineItems returns line items of sales in [from, to), or of one sale
// when saleID is set.
func (r *Repo) ListLineItems(ctx context.Context, from, to time.Time, saleID string) ([]LineItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT i.sale_id, i.line_no, i.product_id, i.product_name, i.quantity, i.unit_price, i.is_service
		FROM sale_items i JOIN sales s ON s.id = i.sale_id
		WHERE ($1::timestamptz IS NULL OR s.created_at >= $1)
		  AND ($2::timestamptz IS NULL OR s.created_at < $2)
		  AND ($3 = '' OR i.sale_id = $3)
		ORDER BY s.created_at DESC, i.line_no`, nullTime(from), nullTime(to), saleID)
	if err != nil {
		return nil, apperr.Persistence("list line items", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (LineItem, error) {
		var it LineItem
		err := row.Scan(&it.SaleID, &it.LineNo, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPriceAtSale, &it.IsService)
		return it, err
	})
	return items, apperr.Persistence("list line items", err)
}

func (r *Repo) sellersOf(ctx context.Context, where string, args ...any) (map[string][]SellerCommission, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT ss.sale_id, ss.barber_id, ss.barber_name, ss.commission_rate, ss.commission_amount
		FROM sale_sellers ss `+where+`
		ORDER BY ss.barber_name`, args...)
	if err != nil {
		return nil, apperr.Persistence("list sale sellers", err)
	}
	defer rows.Close()

	out := map[string][]SellerCommission{}
	for rows.Next() {
		var saleID string
		var sc SellerCommission
		if err := rows.Scan(&saleID, &sc.SellerID, &sc.Name, &sc.RatePercent, &sc.CommissionAmount); err != nil {
			return nil, apperr.Persistence("scan sale seller", err)
		}
		out[saleID] = append(out[saleID], sc)
	}
	return out, apperr.Persistence("list sale sellers", rows.Err())
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
