package service

import (
	"fmt"

	"github.com/TomyRioss/misstress/internal/domain"
)

// Insight thresholds. Tuned by eye, not by science.
const (
	trendWarnAbove       = 10.0
	savingsRateWarnBelow = 20.0
	topCategoryInfoAbove = 40.0
)

// BuildInsights evaluates the heuristic rules in a fixed order and
// returns every one that fires. No dedup, no ranking: the output order is
// the rule order.
func BuildInsights(trend, savingsRate float64, top *domain.TopCategory) []domain.Insight {
	insights := []domain.Insight{}

	if trend > trendWarnAbove {
		insights = append(insights, domain.Insight{
			Type:    domain.InsightWarning,
			Message: fmt.Sprintf("Your expenses grew %.1f%% compared to last month", trend),
		})
	}
	if savingsRate < savingsRateWarnBelow {
		insights = append(insights, domain.Insight{
			Type:    domain.InsightWarning,
			Message: fmt.Sprintf("Your savings rate is %.1f%%, below the recommended 20%%", savingsRate),
		})
	}
	if top != nil && top.Percentage > topCategoryInfoAbove {
		insights = append(insights, domain.Insight{
			Type:    domain.InsightInfo,
			Message: fmt.Sprintf("%s accounts for %.1f%% of this month's expenses", top.Name, top.Percentage),
		})
	}
	return insights
}
