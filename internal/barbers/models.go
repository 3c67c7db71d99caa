package barbers

import (
	"time"

	"github.com/shopspring/decimal"
)

// Barber is a staff member who can be credited as a seller on a sale.
// CommissionRate is a percentage in [0, 100].
type Barber struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone,omitempty"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
}

type Input struct {
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	Active         *bool           `json:"active"`
}
