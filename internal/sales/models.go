package sales

import (
	"strings"
	"time"

	"github.com/ariefcatur/barbershop-dashboard/internal/apperr"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentMobileWallet PaymentMethod = "mobile-wallet"
)

var paymentAliases = map[string]PaymentMethod{
	"cash":          PaymentCash,
	"dinheiro":      PaymentCash,
	"card":          PaymentCard,
	"cartao":        PaymentCard,
	"cartão":        PaymentCard,
	"mobile-wallet": PaymentMobileWallet,
	"pix":           PaymentMobileWallet,
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m, ok := paymentAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", apperr.Invalid("payment_method", "must be one of cash, card, mobile-wallet")
	}
	return m, nil
}

type Status string

const StatusCompleted Status = "completed"

// CartLine is one product in a checkout session. AvailableStock is the stock
// seen when the line was added; the authoritative check happens at decrement.
type CartLine struct {
	ProductID      string          `json:"product_id"`
	Name           string          `json:"name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Quantity       int             `json:"quantity"`
	IsService      bool            `json:"is_service"`
	AvailableStock int             `json:"available_stock"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// SelectedSeller is a barber credited on a sale.
type SelectedSeller struct {
	SellerID              string          `json:"seller_id"`
	Name                  string          `json:"name"`
	CommissionRatePercent decimal.Decimal `json:"commission_rate_percent"`
}

// SellerCommission is the persisted share of one seller.
type SellerCommission struct {
	SellerID         string          `json:"seller_id"`
	Name             string          `json:"name"`
	RatePercent      decimal.Decimal `json:"rate_percent"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
}

type Sale struct {
	ID            string             `json:"id"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod PaymentMethod      `json:"payment_method"`
	Status        Status             `json:"status"`
	CashierID     string             `json:"cashier_id,omitempty"`
	Sellers       []SellerCommission `json:"sellers"`
	Items         []LineItem         `json:"items,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

type LineItem struct {
	SaleID          string          `json:"sale_id"`
	LineNo          int             `json:"line_no"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Quantity        int             `json:"quantity"`
	UnitPriceAtSale decimal.Decimal `json:"unit_price_at_sale"`
	IsService       bool            `json:"is_service"`
}
