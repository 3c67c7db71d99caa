package catalog

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Product is either a stocked retail item or a service (haircut, shave).
// Services carry no stock.
type Product struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	BrandID    string          `json:"brand_id,omitempty"`
	CategoryID string          `json:"category_id,omitempty"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	IsService  bool            `json:"is_service"`
	ImageURL   string          `json:"image_url,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type ProductInput struct {
	Name       string          `json:"name"`
	BrandID    string          `json:"brand_id"`
	CategoryID string          `json:"category_id"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	IsService  bool            `json:"is_service"`
	ImageURL   string          `json:"image_url"`
}

type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// InsufficientStockError is returned instead of letting stock go negative.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
