package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/TomyRioss/misstress/internal/domain"
	"github.com/TomyRioss/misstress/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Recurring schedules — /v1/recurring
// ============================================================

func listRecurringHandler(svc *service.RecurringService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/recurring")
		defer span.End()

		activeOnly := r.URL.Query().Get("active") == "true"
		schedules, err := svc.List(ctx, activeOnly)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if schedules == nil {
			schedules = []domain.RecurringSchedule{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"recurring": schedules})
	}
}

func createRecurringHandler(svc *service.RecurringService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/recurring")
		defer span.End()

		var draft domain.RecurringDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sc, err := svc.Create(ctx, &draft)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, sc)
	}
}

func getRecurringHandler(svc *service.RecurringService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/recurring/{id}")
		defer span.End()

		sc, err := svc.Get(ctx, chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, sc)
	}
}

func updateRecurringHandler(svc *service.RecurringService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/recurring/{id}")
		defer span.End()

		var draft domain.RecurringDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sc, err := svc.Update(ctx, chi.URLParam(r, "id"), &draft)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, sc)
	}
}

func deleteRecurringHandler(svc *service.RecurringService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/recurring/{id}")
		defer span.End()

		if err := svc.Delete(ctx, chi.URLParam(r, "id")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// processRecurringHandler serves POST /v1/recurring/process: run one
// materialization pass for the current month and report what happened.
func processRecurringHandler(svc *service.RecurringService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/recurring/process")
		defer span.End()

		result, err := svc.Materialize(ctx, time.Now().UTC())
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}
