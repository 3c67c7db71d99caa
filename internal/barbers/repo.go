package barbers

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

const columns = `id, name, phone, commission_rate, active, created_at`

func scan(row pgx.Row) (Barber, error) {
	var b Barber
	err := row.Scan(&b.ID, &b.Name, &b.Phone, &b.CommissionRate, &b.Active, &b.CreatedAt)
	return b, err
}

func (r *Repo) ListBarbers(ctx context.Context) ([]Barber, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+columns+` FROM barbers ORDER BY name`)
	if err != nil {
		return nil, apperr.Persistence("list barbers", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Barber, error) { return scan(row) })
	return out, apperr.Persistence("list barbers", err)
}

func (r *Repo) GetBarber(ctx context.Context, id string) (Barber, error) {
	b, err := scan(r.DB.QueryRow(ctx, `SELECT `+columns+` FROM barbers WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Barber{}, fmt.Errorf("barber %s: %w", id, apperr.ErrNotFound)
	}
	return b, apperr.Persistence("get barber", err)
}

func (r *Repo) CreateBarber(ctx context.Context, in Input) (string, error) {
	id := uuid.NewString()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO barbers(id, name, phone, commission_rate, active)
		VALUES ($1, $2, $3, $4, $5)`,
		id, in.Name, in.Phone, in.CommissionRate, in.Active == nil || *in.Active)
	if err != nil {
		return "", apperr.Persistence("insert barber", err)
	}
	return id, nil
}

// UpdateBarber leaves active untouched when in.Active is nil.
func (r *Repo) UpdateBarber(ctx context.Context, id string, in Input) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE barbers SET name=$2, phone=$3, commission_rate=$4, active=COALESCE($5, active)
		WHERE id=$1`,
		id, in.Name, in.Phone, in.CommissionRate, in.Active)
	return affectedOne("update barber", id, ct.RowsAffected(), err)
}

func (r *Repo) DeleteBarber(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM barbers WHERE id=$1`, id)
	return affectedOne("delete barber", id, ct.RowsAffected(), err)
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
