package handler

import (
	"net/http"
	"time"

	"github.com/TomyRioss/misstress/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Balance & reports — GET /v1/balance, /v1/expenses/*, /v1/analysis/smart
// ============================================================

func getBalanceHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/balance")
		defer span.End()

		// With explicit year/month the reference instant is anchored
		// mid-month, far from either boundary mode's month edge. Without
		// params the real clock decides which month we are in.
		now := time.Now().UTC()
		if r.URL.Query().Get("year") != "" || r.URL.Query().Get("month") != "" {
			year, month, err := monthParams(r)
			if err != nil {
				handleServiceError(w, err, logger)
				return
			}
			now = time.Date(year, month, 15, 12, 0, 0, 0, time.UTC)
		}

		summary, err := svc.GetBalance(ctx, now)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

func getSummaryHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/expenses/summary")
		defer span.End()

		year, month, err := monthParams(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		totals, err := svc.GetCategorySummary(ctx, year, month)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"categories": totals})
	}
}

func getMonthlyHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/expenses/monthly")
		defer span.End()

		year, _, err := monthParams(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		totals, err := svc.GetMonthlyTotals(ctx, year)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"year": year, "months": totals})
	}
}

func getComparisonHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/expenses/comparison")
		defer span.End()

		year, month, cmpYear, cmpMonth, err := comparisonParams(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		cmp, err := svc.GetComparison(ctx, year, month, cmpYear, cmpMonth)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, cmp)
	}
}

func getComparisonTransactionsHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/expenses/comparison/transactions")
		defer span.End()

		year, month, cmpYear, cmpMonth, err := comparisonParams(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		cmp, err := svc.GetComparisonTransactions(ctx, year, month, cmpYear, cmpMonth)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, cmp)
	}
}

func getSmartAnalysisHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/analysis/smart")
		defer span.End()

		analysis, err := svc.GetSmartAnalysis(ctx, time.Now().UTC())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, analysis)
	}
}

// exportHandler serves GET /v1/export?from=&to=. The window defaults to
// the last 90 days.
func exportHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/export")
		defer span.End()

		now := time.Now().UTC()
		from := now.AddDate(0, 0, -90)
		to := now

		if t, ok, err := dateParam(r, "from"); err != nil {
			handleServiceError(w, err, logger)
			return
		} else if ok {
			from = t
		}
		if t, ok, err := dateParam(r, "to"); err != nil {
			handleServiceError(w, err, logger)
			return
		} else if ok {
			to = t
		}

		report, err := svc.Export(ctx, from, to)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.Header().Set("Content-Disposition", `attachment; filename="finance-report.json"`)
		writeJSON(w, http.StatusOK, report)
	}
}
