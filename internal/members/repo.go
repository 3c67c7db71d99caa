package members

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/barbershop-dashboard/internal/apperr"
	"github.com/ariefcatur/barbershop-dashboard/internal/obs"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repo struct{ DB *pgxpool.Pool }

const memberColumns = `m.id, m.name, m.phone, COALESCE(m.plan_id, ''), COALESCE(p.title, ''),
	m.status, m.payment_date, m.created_at, m.updated_at`

func scanMember(row pgx.Row) (Subscriber, error) {
	var s Subscriber
	var raw string
	if err := row.Scan(&s.ID, &s.Name, &s.Phone, &s.PlanID, &s.PlanTitle,
		&raw, &s.PaymentDate, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return Subscriber{}, err
	}
	st, known := ClassifyStatus(raw)
	if !known {
		obs.Logger.Warn("unrecognized member status", "member_id", s.ID, "status", raw)
	}
	s.Status = st
	return s, nil
}

func (r *Repo) ListMembers(ctx context.Context) ([]Subscriber, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+memberColumns+`
		FROM members m LEFT JOIN plans p ON p.id = m.plan_id
		ORDER BY m.name`)
	if err != nil {
		return nil, apperr.Persistence("list members", err)
	}
	defer rows.Close()

	var out []Subscriber
	for rows.Next() {
		s, err := scanMember(rows)
		if err != nil {
			return nil, apperr.Persistence("scan member", err)
		}
		out = append(out, s)
	}
	return out, apperr.Persistence("list members", rows.Err())
}

func (r *Repo) GetMember(ctx context.Context, id string) (Subscriber, error) {
	s, err := scanMember(r.DB.QueryRow(ctx, `SELECT `+memberColumns+`
		FROM members m LEFT JOIN plans p ON p.id = m.plan_id
		WHERE m.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Subscriber{}, fmt.Errorf("member %s: %w", id, apperr.ErrNotFound)
	}
	return s, apperr.Persistence("get member", err)
}

func (r *Repo) CreateMember(ctx context.Context, s Subscriber) (string, error) {
	id := uuid.NewString()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO members(id, name, phone, plan_id, status, payment_date)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)`,
		id, s.Name, s.Phone, s.PlanID, string(s.Status), s.PaymentDate)
	if err != nil {
		return "", apperr.Persistence("insert member", err)
	}
	return id, nil
}

func (r *Repo) UpdateMember(ctx context.Context, s Subscriber) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE members SET name=$2, phone=$3, plan_id=NULLIF($4, ''), status=$5,
			payment_date=$6, updated_at=now()
		WHERE id=$1`,
		s.ID, s.Name, s.Phone, s.PlanID, string(s.Status), s.PaymentDate)
	return affectedOne("update member", s.ID, ct.RowsAffected(), err)
}

func (r *Repo) DeleteMember(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM members WHERE id=$1`, id)
	return affectedOne("delete member", id, ct.RowsAffected(), err)
}

func (r *Repo) SetPlan(ctx context.Context, id, planID string) error {
	ct, err := r.DB.Exec(ctx, `UPDATE members SET plan_id=$2, updated_at=now() WHERE id=$1`, id, planID)
	return affectedOne("change plan", id, ct.RowsAffected(), err)
}

func (r *Repo) SetPaymentStatus(ctx context.Context, id string, st Status, paidAt *time.Time) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE members SET status=$2, payment_date=$3, updated_at=now() WHERE id=$1`,
		id, string(st), paidAt)
	return affectedOne("update payment status", id, ct.RowsAffected(), err)
}

func (r *Repo) ListPlans(ctx context.Context) ([]Plan, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, title, price, updated_at FROM plans ORDER BY price`)
	if err != nil {
		return nil, apperr.Persistence("list plans", err)
	}
	defer rows.Close()

	var out []Plan
	for rows.Next() {
		var p Plan
		if err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.UpdatedAt); err != nil {
			return nil, apperr.Persistence("scan plan", err)
		}
		out = append(out, p)
	}
	return out, apperr.Persistence("list plans", rows.Err())
}

func (r *Repo) GetPlan(ctx context.Context, id string) (Plan, error) {
	var p Plan
	err := r.DB.QueryRow(ctx, `SELECT id, title, price, updated_at FROM plans WHERE id=$1`, id).
		Scan(&p.ID, &p.Title, &p.Price, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Plan{}, fmt.Errorf("plan %s: %w", id, apperr.ErrNotFound)
	}
	return p, apperr.Persistence("get plan", err)
}

func (r *Repo) SetPlanPrice(ctx context.Context, id string, price decimal.Decimal) error {
	ct, err := r.DB.Exec(ctx, `UPDATE plans SET price=$2, updated_at=now() WHERE id=$1`, id, price)
	return affectedOne("update plan price", id, ct.RowsAffected(), err)
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
