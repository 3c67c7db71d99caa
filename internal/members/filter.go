package members

import (
	"slices"
	"strings"
	"time"
)

// Filter narrows and orders an already fetched member list.
type Filter struct {
	Status Status
	Search string // substring of name or phone, case-insensitive
	Sort   string // name | created_at | payment_date
	Desc   bool
}

func (f Filter) Apply(in []Subscriber) []Subscriber {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Subscriber, 0, len(in))
	for _, s := range in {
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(s.Name), q) && !strings.Contains(s.Phone, q) {
			continue
		}
		out = append(out, s)
	}

	cmp := compareBy(f.Sort)
	slices.SortStableFunc(out, func(a, b Subscriber) int {
		if f.Desc {
			return cmp(b, a)
		}
		return cmp(a, b)
	})
	return out
}

func compareBy(field string) func(a, b Subscriber) int {
	switch field {
	case "created_at":
		return func(a, b Subscriber) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case "payment_date":
		// members that never paid sort first
		return func(a, b Subscriber) int { return timeOrZero(a.PaymentDate).Compare(timeOrZero(b.PaymentDate)) }
	default:
		return func(a, b Subscriber) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	}
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
