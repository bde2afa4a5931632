package domain

// ============================================================
// Aggregation & report payloads
// ============================================================

// BalanceSummary is the monthly income/expense/balance triple.
type BalanceSummary struct {
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	Balance       float64 `json:"balance"`
}

// CategoryTotal is one row of the monthly category summary.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// CategoryStat is the per-category total and entry count used by the
// category breakdown and the export report.
type CategoryStat struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// TopCategory is the dominant expense category of a month.
type TopCategory struct {
	Name       string  `json:"name"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
}

// MonthlyTotal is one row of the yearly totals report (month is 1-12).
type MonthlyTotal struct {
	Month        int     `json:"month"`
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
}

// Comparison trends.
const (
	TrendIncrease = "increase"
	TrendDecrease = "decrease"
	TrendStable   = "stable"
)

// CategoryComparison compares one category across two months. Difference
// and PercentageChange are absolute values; direction is in Trend and
// IsIncrease. When the previous month is zero and the current is positive
// the percentage change is 100, unlike the month-over-month trend which
// reports 0 in that case. Both conventions are load-bearing.
type CategoryComparison struct {
	Category         string  `json:"category"`
	Current          float64 `json:"current"`
	Previous         float64 `json:"previous"`
	Difference       float64 `json:"difference"`
	PercentageChange float64 `json:"percentageChange"`
	Trend            string  `json:"trend"`
	IsIncrease       bool    `json:"isIncrease"`
}

// MonthTotalRef names one side of a comparison.
type MonthTotalRef struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	Total float64 `json:"total"`
}

// ComparisonTotals aggregates the comparison across all categories.
type ComparisonTotals struct {
	Difference       float64 `json:"difference"`
	PercentageChange float64 `json:"percentageChange"`
	Trend            string  `json:"trend"`
	IsIncrease       bool    `json:"isIncrease"`
}

// Comparison is the two-month category comparison report.
type Comparison struct {
	Current    MonthTotalRef        `json:"current"`
	Previous   MonthTotalRef        `json:"previous"`
	Totals     ComparisonTotals     `json:"totals"`
	Categories []CategoryComparison `json:"categories"`
}

// MonthTransactions is one side of the transaction-level comparison.
type MonthTransactions struct {
	Year         int           `json:"year"`
	Month        int           `json:"month"`
	Transactions []Transaction `json:"transactions"`
	Total        float64       `json:"total"`
	Count        int           `json:"count"`
}

// ComparisonSummary carries signed totals for the transaction comparison
// (unlike CategoryComparison, difference keeps its sign here).
type ComparisonSummary struct {
	CurrentTotal     float64 `json:"currentTotal"`
	PreviousTotal    float64 `json:"previousTotal"`
	Difference       float64 `json:"difference"`
	PercentageChange float64 `json:"percentageChange"`
	CurrentCount     int     `json:"currentCount"`
	PreviousCount    int     `json:"previousCount"`
}

// ComparisonTransactions is the side-by-side transaction listing.
type ComparisonTransactions struct {
	Current  MonthTransactions `json:"current"`
	Previous MonthTransactions `json:"previous"`
	Summary  ComparisonSummary `json:"summary"`
}

// Insight severities.
const (
	InsightWarning = "warning"
	InsightInfo    = "info"
)

// Insight is one heuristic observation. Insights are ordered by rule
// evaluation order, with no dedup or ranking.
type Insight struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// MonthFigures is the current-month block of the smart analysis.
type MonthFigures struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

// SmartAnalysis is the full heuristic report.
type SmartAnalysis struct {
	CurrentMonth      MonthFigures            `json:"currentMonth"`
	MonthlyTrend      float64                 `json:"monthlyTrend"`
	SavingsRate       float64                 `json:"savingsRate"`
	TopCategory       *TopCategory            `json:"topCategory"`
	ExpensiveDay      string                  `json:"expensiveDay,omitempty"`
	PredictedExpenses float64                 `json:"predictedExpenses"`
	PredictedSavings  float64                 `json:"predictedSavings"`
	RecommendedGoal   float64                 `json:"recommendedGoal"`
	Insights          []Insight               `json:"insights"`
	CategoryBreakdown map[string]CategoryStat `json:"categoryBreakdown"`
}

// ExportReport is the JSON envelope of the export endpoint.
type ExportReport struct {
	Type      string                  `json:"type"`
	DateRange ExportRange             `json:"dateRange"`
	Summary   BalanceSummary          `json:"summary"`
	Expenses  []Transaction           `json:"expenses"`
	Goals     []FinancialGoal         `json:"goals"`
	Category  map[string]CategoryStat `json:"categoryStats"`
}

// ExportRange is the requested date window of an export.
type ExportRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}
