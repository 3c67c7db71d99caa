package members

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func names(subs []Subscriber) []string {
	out := make([]string, len(subs))
	for i, s := range subs {
		out[i] = s.Name
	}
	return out
}

func TestFilterApply(t *testing.T) {
	t0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	t1 := t0.AddDate(0, 0, 10)
	all := []Subscriber{
		{Name: "carlos", Phone: "1199", Status: StatusPaid, CreatedAt: t1, PaymentDate: &t1},
		{Name: "Ana", Phone: "2188", Status: StatusPending, CreatedAt: t0},
		{Name: "bruno", Phone: "3177", Status: StatusPaid, CreatedAt: t0.AddDate(0, 0, 5), PaymentDate: &t0},
	}

	assert.Equal(t, []string{"Ana", "bruno", "carlos"}, names(Filter{}.Apply(all)))
	assert.Equal(t, []string{"carlos", "bruno", "Ana"}, names(Filter{Desc: true}.Apply(all)))
	assert.Equal(t, []string{"bruno", "carlos"}, names(Filter{Status: StatusPaid}.Apply(all)))
	assert.Equal(t, []string{"Ana"}, names(Filter{Search: "AN"}.Apply(all)))
	assert.Equal(t, []string{"bruno"}, names(Filter{Search: "317"}.Apply(all)))
	assert.Equal(t, []string{"Ana", "bruno", "carlos"}, names(Filter{Sort: "created_at"}.Apply(all)))
	assert.Equal(t, []string{"Ana", "bruno", "carlos"}, names(Filter{Sort: "payment_date"}.Apply(all)))
}

func TestFilterApplyDoesNotMutateInput(t *testing.T) {
	all := []Subscriber{{Name: "z"}, {Name: "a"}}
	_ = Filter{}.Apply(all)
	assert.Equal(t, "z", all[0].Name)
}
