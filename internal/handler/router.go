package handler

import (
	"context"
	"net/http"

	"github.com/TomyRioss/misstress/internal/domain"
	"github.com/TomyRioss/misstress/internal/infra/observability"
	"github.com/TomyRioss/misstress/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Pinger reports storage liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles everything the router serves.
type Services struct {
	Ledger        *service.LedgerService
	Recurring     *service.RecurringService
	Reports       *service.ReportService
	Goals         *service.GoalService
	Notifications *service.NotificationService
	Chat          *service.ChatService
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svcs Services, db Pinger, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.MetricsMiddleware(metrics))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(db, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// Balance & reports
		r.Get("/balance", getBalanceHandler(svcs.Reports, logger))
		r.Get("/expenses/summary", getSummaryHandler(svcs.Reports, logger))
		r.Get("/expenses/monthly", getMonthlyHandler(svcs.Reports, logger))
		r.Get("/expenses/comparison", getComparisonHandler(svcs.Reports, logger))
		r.Get("/expenses/comparison/transactions", getComparisonTransactionsHandler(svcs.Reports, logger))
		r.Get("/analysis/smart", getSmartAnalysisHandler(svcs.Reports, logger))
		r.Get("/export", exportHandler(svcs.Reports, logger))

		// Transactions
		r.Get("/transactions", listTransactionsHandler(svcs.Ledger, logger))
		r.Post("/transactions", createTransactionHandler(svcs.Ledger, logger))
		r.Get("/transactions/{id}", getTransactionHandler(svcs.Ledger, logger))
		r.Put("/transactions/{id}", updateTransactionHandler(svcs.Ledger, logger))
		r.Delete("/transactions/{id}", deleteTransactionHandler(svcs.Ledger, logger))

		// Recurring schedules & the materializer
		r.Get("/recurring", listRecurringHandler(svcs.Recurring, logger))
		r.Post("/recurring", createRecurringHandler(svcs.Recurring, logger))
		r.Get("/recurring/{id}", getRecurringHandler(svcs.Recurring, logger))
		r.Put("/recurring/{id}", updateRecurringHandler(svcs.Recurring, logger))
		r.Delete("/recurring/{id}", deleteRecurringHandler(svcs.Recurring, logger))
		r.Post("/recurring/process", processRecurringHandler(svcs.Recurring, logger))

		// Goals
		r.Get("/goals", listGoalsHandler(svcs.Goals, logger))
		r.Post("/goals", createGoalHandler(svcs.Goals, logger))
		r.Get("/goals/{id}", getGoalHandler(svcs.Goals, logger))
		r.Put("/goals/{id}", updateGoalHandler(svcs.Goals, logger))
		r.Post("/goals/{id}/progress", addGoalProgressHandler(svcs.Goals, logger))
		r.Delete("/goals/{id}", deleteGoalHandler(svcs.Goals, logger))

		// Notifications
		r.Get("/notifications", listNotificationsHandler(svcs.Notifications, logger))
		r.Post("/notifications", createNotificationHandler(svcs.Notifications, logger))
		r.Post("/notifications/{id}/read", markNotificationReadHandler(svcs.Notifications, logger))
		r.Delete("/notifications/{id}", deleteNotificationHandler(svcs.Notifications, logger))

		// Chat fallback bot
		r.Post("/chat", chatHandler(svcs.Chat, logger))

		// App metric snapshot
		r.Get("/metrics/app", appMetricsHandler(metrics))
	})

	return r
}

// ============================================================
// Health
// ============================================================

func healthzHandler(db Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := domain.HealthStatus{Status: "healthy", Database: "up"}
		if err := db.Ping(r.Context()); err != nil {
			logger.Error("health ping failed", zap.Error(err))
			status.Status = "degraded"
			status.Database = "down"
		}
		writeJSON(w, http.StatusOK, status)
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func appMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetAppSnapshot())
	}
}
