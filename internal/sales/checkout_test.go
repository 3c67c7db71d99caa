package sales

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/ariefcatur/barbershop-dashboard/internal/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func exampleCart() []CartLine {
	return []CartLine{
		{ProductID: "p1", UnitPrice: dec("10.00"), Quantity: 2, AvailableStock: 5},
		{ProductID: "p2", UnitPrice: dec("5.50"), Quantity: 1, IsService: true},
	}
}

func exampleSellers() []SelectedSeller {
	return []SelectedSeller{
		{SellerID: "b1", Name: "Rafa", CommissionRatePercent: dec("10")},
		{SellerID: "b2", Name: "Leo", CommissionRatePercent: dec("5")},
	}
}

func TestCheckoutExample(t *testing.T) {
	total := ComputeTotal(exampleCart())
	assert.Equal(t, "25.50", total.StringFixed(2))

	comms := SplitCommissions(total, exampleSellers())
	require.Len(t, comms, 2)
	assert.Equal(t, "2.55", comms[0].CommissionAmount.StringFixed(2))
	assert.Equal(t, "1.28", comms[1].CommissionAmount.StringFixed(2))
	assert.Equal(t, "b2", comms[1].SellerID)
}

func TestComputeTotalThousandLines(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	lines := make([]CartLine, 1000)
	var cents int64
	for i := range lines {
		c := r.Int63n(100000)
		q := r.Intn(5) + 1
		cents += c * int64(q)
		lines[i] = CartLine{ProductID: strconv.Itoa(i), UnitPrice: decimal.New(c, -2), Quantity: q}
	}

	assert.True(t, ComputeTotal(lines).Equal(decimal.New(cents, -2)))
}

func TestSplitCommissionsOrderIndependent(t *testing.T) {
	total := dec("137.35")
	sellers := []SelectedSeller{
		{SellerID: "a", CommissionRatePercent: dec("12.5")},
		{SellerID: "b", CommissionRatePercent: dec("7")},
		{SellerID: "c", CommissionRatePercent: dec("3.33")},
	}
	reversed := []SelectedSeller{sellers[2], sellers[1], sellers[0]}

	byID := func(cs []SellerCommission) map[string]string {
		out := map[string]string{}
		for _, c := range cs {
			out[c.SellerID] = c.CommissionAmount.String()
		}
		return out
	}
	assert.Equal(t, byID(SplitCommissions(total, sellers)), byID(SplitCommissions(total, reversed)))
}

func TestSplitCommissionsMonotonicInRate(t *testing.T) {
	total := dec("99.99")
	prev := decimal.Zero
	for rate := 0; rate <= 100; rate++ {
		comms := SplitCommissions(total, []SelectedSeller{
			{SellerID: "x", CommissionRatePercent: decimal.NewFromInt(int64(rate))},
			{SellerID: "y", CommissionRatePercent: dec("0")},
		})
		sum := comms[0].CommissionAmount.Add(comms[1].CommissionAmount)
		assert.True(t, sum.GreaterThanOrEqual(prev), "rate %d", rate)
		prev = sum
	}
}

func TestValidateCheckout(t *testing.T) {
	err := ValidateCheckout(nil, exampleSellers())
	assert.True(t, apperr.IsValidation(err))
	assert.ErrorIs(t, err, ErrEmptyCart)

	err = ValidateCheckout(exampleCart(), nil)
	assert.True(t, apperr.IsValidation(err))
	assert.ErrorIs(t, err, ErrNoSellerSelected)

	bad := exampleCart()
	bad[0].Quantity = 0
	assert.True(t, apperr.IsValidation(ValidateCheckout(bad, exampleSellers())))

	bad = exampleCart()
	bad[1].UnitPrice = dec("-1")
	assert.True(t, apperr.IsValidation(ValidateCheckout(bad, exampleSellers())))

	over := []SelectedSeller{
		{SellerID: "a", CommissionRatePercent: dec("60")},
		{SellerID: "b", CommissionRatePercent: dec("40.01")},
	}
	assert.True(t, apperr.IsValidation(ValidateCheckout(exampleCart(), over)))

	dup := []SelectedSeller{exampleSellers()[0], exampleSellers()[0]}
	assert.True(t, apperr.IsValidation(ValidateCheckout(exampleCart(), dup)))

	outOfRange := []SelectedSeller{{SellerID: "a", CommissionRatePercent: dec("101")}}
	assert.True(t, apperr.IsValidation(ValidateCheckout(exampleCart(), outOfRange)))

	tiny := []CartLine{{ProductID: "p1", UnitPrice: dec("0.01"), Quantity: 1}}
	halves := []SelectedSeller{
		{SellerID: "a", CommissionRatePercent: dec("50")},
		{SellerID: "b", CommissionRatePercent: dec("50")},
	}
	err = ValidateCheckout(tiny, halves)
	assert.True(t, apperr.IsValidation(err), "0.01 + 0.01 would exceed 0.01")
	assert.ErrorContains(t, err, "0.02")
	assert.NoError(t, ValidateCheckout(tiny, halves[:1]))

	assert.NoError(t, ValidateCheckout(exampleCart(), exampleSellers()))
}

func TestValidateCheckoutStoredCommissionsWithinTotal(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 500; i++ {
		lines := []CartLine{{ProductID: "p", UnitPrice: decimal.New(r.Int63n(5000), -2), Quantity: r.Intn(3) + 1}}
		sellers := []SelectedSeller{
			{SellerID: "a", CommissionRatePercent: decimal.New(r.Int63n(5001), -2)},
			{SellerID: "b", CommissionRatePercent: decimal.New(r.Int63n(5001), -2)},
		}
		if ValidateCheckout(lines, sellers) != nil {
			continue
		}
		total := ComputeTotal(lines)
		paid := decimal.Zero
		for _, c := range SplitCommissions(total, sellers) {
			paid = paid.Add(c.CommissionAmount)
		}
		assert.True(t, paid.LessThanOrEqual(total.Round(2)), "total %s paid %s", total, paid)
	}
}

func TestParsePaymentMethod(t *testing.T) {
	for in, want := range map[string]PaymentMethod{
		"cash": PaymentCash, "CARD": PaymentCard, "mobile-wallet": PaymentMobileWallet,
		"pix": PaymentMobileWallet, "dinheiro": PaymentCash,
	} {
		got, err := ParsePaymentMethod(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParsePaymentMethod("cheque")
	assert.True(t, apperr.IsValidation(err))
}
