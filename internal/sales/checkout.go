package sales

import (
	"errors"

	"github.com/ariefcatur/barbershop-dashboard/internal/apperr"
	"github.com/ariefcatur/barbershop-dashboard/internal/money"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNoSellerSelected = errors.New("no seller selected")
)

// ComputeTotal sums unit price times quantity over the cart, exactly.
func ComputeTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// SplitCommissions gives every seller total*rate/100. Each amount is rounded
// half-up on its own, from the exact total, so sellers never share rounding
// error and the result does not depend on seller order.
func SplitCommissions(total decimal.Decimal, sellers []SelectedSeller) []SellerCommission {
	out := make([]SellerCommission, 0, len(sellers))
	for _, s := range sellers {
		out = append(out, SellerCommission{
			SellerID:         s.SellerID,
			Name:             s.Name,
			RatePercent:      s.CommissionRatePercent,
			CommissionAmount: money.Round(money.Percent(total, s.CommissionRatePercent)),
		})
	}
	return out
}

// ValidateCheckout runs every check that must pass before the first write.
func ValidateCheckout(lines []CartLine, sellers []SelectedSeller) error {
	if len(lines) == 0 {
		return &apperr.ValidationError{Field: "cart", Reason: ErrEmptyCart.Error(), Err: ErrEmptyCart}
	}
	if len(sellers) == 0 {
		return &apperr.ValidationError{Field: "sellers", Reason: ErrNoSellerSelected.Error(), Err: ErrNoSellerSelected}
	}
	for _, l := range lines {
		if l.ProductID == "" {
			return apperr.Invalid("product_id", "required")
		}
		if l.Quantity < 1 {
			return apperr.Invalid("quantity", "must be at least 1 for product "+l.ProductID)
		}
		if l.UnitPrice.IsNegative() {
			return apperr.Invalid("unit_price", "must not be negative for product "+l.ProductID)
		}
	}

	rates := decimal.Zero
	seen := make(map[string]bool, len(sellers))
	for _, s := range sellers {
		if s.SellerID == "" {
			return apperr.Invalid("seller_id", "required")
		}
		if seen[s.SellerID] {
			return apperr.Invalid("sellers", "seller "+s.SellerID+" selected twice")
		}
		seen[s.SellerID] = true
		if !money.RateInRange(s.CommissionRatePercent) {
			return apperr.Invalid("commission_rate_percent", "must be within [0,100] for seller "+s.SellerID)
		}
		rates = rates.Add(s.CommissionRatePercent)
	}
	if !money.RateInRange(rates) {
		return apperr.Invalid("sellers", "combined commission rate exceeds 100")
	}
	// per-seller rounding can still push the stored amounts past the total
	total := ComputeTotal(lines)
	paid := decimal.Zero
	for _, c := range SplitCommissions(total, sellers) {
		paid = paid.Add(c.CommissionAmount)
	}
	if paid.GreaterThan(money.Round(total)) {
		return apperr.Invalid("sellers", "combined commission "+paid.StringFixed(money.Places)+
			" exceeds the sale total "+money.Round(total).StringFixed(money.Places))
	}
	return nil
}
