package members

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPaid      Status = "pago"
	StatusCancelled Status = "cancelado"
	StatusPending   Status = "pendente"
)

// Plan titles.
const (
	PlanBasic    = "Basic"
	PlanClassic  = "Classic"
	PlanBusiness = "Business"
)

type Plan struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Subscriber is a member on a monthly plan. PlanTitle is joined from plans.
type Subscriber struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	PlanID      string     `json:"plan_id"`
	PlanTitle   string     `json:"plan_title"`
	Status      Status     `json:"status"`
	PaymentDate *time.Time `json:"payment_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Input is the writable part of a Subscriber.
type Input struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	PlanID string `json:"plan_id"`
	Status string `json:"status"`
}
