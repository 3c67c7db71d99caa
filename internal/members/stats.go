package members

import (
	"github.com/shopspring/decimal"
)

type Stats struct {
	Total          int             `json:"total"`
	Active         int             `json:"active"`
	Cancelled      int             `json:"cancelled"`
	Pending        int             `json:"pending"`
	MonthlyRevenue decimal.Decimal `json:"monthly_revenue"`
}

// ComputeStats reduces subscribers in one pass. Revenue is the plan price of
// every paid subscriber, looked up by plan title; a title missing from
// prices contributes zero but the subscriber is still counted.
func ComputeStats(subs []Subscriber, prices map[string]decimal.Decimal) Stats {
	st := Stats{MonthlyRevenue: decimal.Zero}
	for _, s := range subs {
		st.Total++
		switch NormalizeStatus(string(s.Status)) {
		case StatusPaid:
			st.Active++
			if p, ok := prices[s.PlanTitle]; ok {
				st.MonthlyRevenue = st.MonthlyRevenue.Add(p)
			}
		case StatusCancelled:
			st.Cancelled++
		default:
			st.Pending++
		}
	}
	return st
}

// PriceTable indexes plan prices by title.
func PriceTable(plans []Plan) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(plans))
	for _, p := range plans {
		out[p.Title] = p.Price
	}
	return out
}
