package service

import (
	"math"

	"github.com/TomyRioss/misstress/internal/domain"
)

// Pure aggregation helpers. Everything in this file is deterministic and
// store-free so the formulas can be tested in isolation.

// MonthOverMonthTrend returns the signed percentage change of current vs
// previous. A zero previous month yields 0, not infinity: a fresh ledger
// reports a flat trend.
func MonthOverMonthTrend(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return ((current - previous) / previous) * 100
}

// SavingsRate returns balance as a percentage of income, 0 when there is
// no income.
func SavingsRate(balance, income float64) float64 {
	if income == 0 {
		return 0
	}
	return (balance / income) * 100
}

// ComparisonChange returns the absolute difference and percentage change
// for the category comparison. Unlike MonthOverMonthTrend, a zero
// previous with positive current reports 100 here. The two conventions
// are intentionally different and both load-bearing.
func ComparisonChange(current, previous float64) (difference, percentage float64) {
	difference = math.Abs(current - previous)
	switch {
	case previous > 0:
		percentage = math.Abs((current - previous) / previous * 100)
	case current > 0:
		percentage = 100
	}
	return difference, percentage
}

// TrendOf classifies a signed difference. Only an exact zero is stable.
func TrendOf(current, previous float64) string {
	switch {
	case current == previous:
		return domain.TrendStable
	case current > previous:
		return domain.TrendIncrease
	default:
		return domain.TrendDecrease
	}
}

// TopCategoryOf returns the dominant expense category, or nil when the
// month has no expenses. Totals must be sorted largest first, which is
// how the store returns them.
func TopCategoryOf(totals []domain.CategoryTotal, totalExpenses float64) *domain.TopCategory {
	if len(totals) == 0 || totalExpenses == 0 {
		return nil
	}
	return &domain.TopCategory{
		Name:       totals[0].Category,
		Total:      totals[0].Total,
		Percentage: (totals[0].Total / totalExpenses) * 100,
	}
}

// GroupByCategory accumulates expense totals and counts per category.
func GroupByCategory(txs []domain.Transaction) map[string]domain.CategoryStat {
	out := make(map[string]domain.CategoryStat)
	for _, tx := range txs {
		if tx.Type != domain.TypeExpense {
			continue
		}
		stat := out[tx.Category]
		stat.Total += tx.Amount
		stat.Count++
		out[tx.Category] = stat
	}
	return out
}

// weekdayNames maps time.Weekday to the Spanish names the frontend shows.
var weekdayNames = [7]string{
	"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado",
}

// ExpensiveDay returns the Spanish weekday name that accumulated the most
// expense volume, or "" when there are no expenses. Ties keep the day
// seen first in the input.
func ExpensiveDay(txs []domain.Transaction) string {
	totals := make(map[string]float64)
	var order []string

	for _, tx := range txs {
		if tx.Type != domain.TypeExpense {
			continue
		}
		day := weekdayNames[tx.Date.UTC().Weekday()]
		if _, seen := totals[day]; !seen {
			order = append(order, day)
		}
		totals[day] += tx.Amount
	}

	var best string
	var bestTotal float64
	for _, day := range order {
		if best == "" || totals[day] > bestTotal {
			best = day
			bestTotal = totals[day]
		}
	}
	return best
}

// PredictExpenses projects next month's expenses by extending the current
// trend, rounded to whole units.
func PredictExpenses(currentExpenses, trend float64) float64 {
	return math.Round(currentExpenses * (1 + trend/100))
}

// PredictSavings projects next month's balance with a flat 5% uplift.
func PredictSavings(balance float64) float64 {
	return math.Round(balance * 1.05)
}

// RecommendGoal suggests a spending target of 80% of current expenses.
func RecommendGoal(currentExpenses float64) float64 {
	return math.Round(currentExpenses * 0.8)
}

// ZeroFillMonthly expands sparse per-month rows into exactly 12 entries,
// January through December, zeroing absent months.
func ZeroFillMonthly(rows []domain.MonthlyTotal) []domain.MonthlyTotal {
	out := make([]domain.MonthlyTotal, 12)
	for i := range out {
		out[i].Month = i + 1
	}
	for _, r := range rows {
		if r.Month >= 1 && r.Month <= 12 {
			out[r.Month-1].TotalIncome = r.TotalIncome
			out[r.Month-1].TotalExpense = r.TotalExpense
		}
	}
	return out
}

// SumAmounts totals a transaction slice.
func SumAmounts(txs []domain.Transaction) float64 {
	var total float64
	for _, tx := range txs {
		total += tx.Amount
	}
	return total
}
