// Package stats provides pure summarization over a record set: period
// sums, category breakdowns, monthly trends and the budget view. Every
// function takes the records and a clock and mutates nothing.
package stats

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendlog/spendlog/internal/ledger"
)

// midnight normalizes an instant to local midnight so same-day records
// are always included regardless of time-of-day.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// SumRange totals amounts for records whose date falls inside the
// inclusive [start, end] range. Record dates are normalized to local
// midnight before comparison.
func SumRange(txs []ledger.Transaction, start, end time.Time) decimal.Decimal {
	start, end = midnight(start), midnight(end)
	sum := decimal.Zero
	for _, t := range txs {
		d := t.DateTime()
		if d.IsZero() {
			continue
		}
		if !d.Before(start) && !d.After(end) {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

// SumToday totals the current day.
func SumToday(txs []ledger.Transaction, now time.Time) decimal.Decimal {
	return SumRange(txs, now, now)
}

// SumWeek totals the trailing 7 calendar days ending at now.
func SumWeek(txs []ledger.Transaction, now time.Time) decimal.Decimal {
	return SumRange(txs, now.AddDate(0, 0, -6), now)
}

// SumMonth totals the calendar month containing now.
func SumMonth(txs []ledger.Transaction, now time.Time) decimal.Decimal {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	return SumRange(txs, start, start.AddDate(0, 1, -1))
}

// SumYear totals the calendar year containing now.
func SumYear(txs []ledger.Transaction, now time.Time) decimal.Decimal {
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.Local)
	return SumRange(txs, start, start.AddDate(1, 0, -1))
}

// Total sums every record.
func Total(txs []ledger.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txs {
		sum = sum.Add(t.Amount)
	}
	return sum
}

// CategoryTotal is one row of the category breakdown.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// CategoryBreakdown returns per-category totals and counts, sorted
// descending by total. Ties break alphabetically for a stable order.
func CategoryBreakdown(txs []ledger.Transaction) []CategoryTotal {
	totals := map[string]*CategoryTotal{}
	var order []string
	for _, t := range txs {
		ct, found := totals[t.Category]
		if !found {
			ct = &CategoryTotal{Category: t.Category, Total: decimal.Zero}
			totals[t.Category] = ct
			order = append(order, t.Category)
		}
		ct.Total = ct.Total.Add(t.Amount)
		ct.Count++
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, c := range order {
		out = append(out, *totals[c])
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// TopCategory returns the largest breakdown entry, or false when the
// record set is empty.
func TopCategory(txs []ledger.Transaction) (CategoryTotal, bool) {
	b := CategoryBreakdown(txs)
	if len(b) == 0 {
		return CategoryTotal{}, false
	}
	return b[0], true
}

// MonthStat is one point of the monthly trend series.
type MonthStat struct {
	Month   time.Time // first day of the month, local
	Total   decimal.Decimal
	Average decimal.Decimal
	Count   int
}

// MonthlyTrend returns totals, averages and counts for each of the
// trailing 12 calendar months, oldest first.
func MonthlyTrend(txs []ledger.Transaction, now time.Time) []MonthStat {
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	out := make([]MonthStat, 0, 12)
	for i := 11; i >= 0; i-- {
		start := current.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, -1)
		stat := MonthStat{Month: start, Total: decimal.Zero, Average: decimal.Zero}
		for _, t := range txs {
			d := t.DateTime()
			if d.IsZero() || d.Before(start) || d.After(end) {
				continue
			}
			stat.Total = stat.Total.Add(t.Amount)
			stat.Count++
		}
		if stat.Count > 0 {
			stat.Average = stat.Total.Div(decimal.NewFromInt(int64(stat.Count))).Round(2)
		}
		out = append(out, stat)
	}
	return out
}

// BudgetView derives the monthly budget position from a cap.
type BudgetView struct {
	Cap       decimal.Decimal
	Spent     decimal.Decimal
	Remaining decimal.Decimal
	// Percentage is uncapped; values over 100 signal over-budget.
	Percentage float64
}

// Budget reports the current month's position against the cap. The
// second return is false when no cap is set, which disables
// over-budget signaling entirely.
func Budget(txs []ledger.Transaction, budgetCap *decimal.Decimal, now time.Time) (BudgetView, bool) {
	if budgetCap == nil {
		return BudgetView{}, false
	}
	spent := SumMonth(txs, now)
	remaining := budgetCap.Sub(spent)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	view := BudgetView{Cap: *budgetCap, Spent: spent, Remaining: remaining}
	if budgetCap.IsPositive() {
		pct, _ := spent.Div(*budgetCap).Mul(decimal.NewFromInt(100)).Float64()
		view.Percentage = pct
	} else if spent.IsPositive() {
		view.Percentage = 100
	}
	return view, true
}
