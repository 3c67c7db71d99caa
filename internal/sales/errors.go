package sales

import (
	"errors"
	"fmt"
)

// Checkout steps, in execution order.
const (
	StepSale      = "insert sale"
	StepLineItems = "insert line items"
	StepStock     = "decrement stock"
)

// PartialCheckoutFailure means a step failed after earlier steps committed
// and the compensation could not undo them. SaleID names the orphaned row.
type PartialCheckoutFailure struct {
	Step            string
	SaleID          string
	Err             error
	CompensationErr error
}

func (e *PartialCheckoutFailure) Error() string {
	return fmt.Sprintf("checkout partially applied: %s failed for sale %s: %v (compensation: %v)",
		e.Step, e.SaleID, e.Err, e.CompensationErr)
}

func (e *PartialCheckoutFailure) Unwrap() []error {
	return []error{e.Err, e.CompensationErr}
}

func IsPartial(err error) bool {
	var pf *PartialCheckoutFailure
	return errors.As(err, &pf)
}
