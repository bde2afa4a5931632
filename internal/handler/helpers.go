package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/TomyRioss/misstress/internal/domain"
	"github.com/TomyRioss/misstress/internal/period"

	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// monthParams reads ?year= and ?month=, defaulting to the current UTC
// month. A month outside 1-12 is a validation error.
func monthParams(r *http.Request) (int, time.Month, error) {
	now := time.Now().UTC()
	year := now.Year()
	month := now.Month()

	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1970 || y > 9999 {
			return 0, 0, &domain.ErrValidation{Field: "year", Message: "must be a four-digit year"}
		}
		year = y
	}
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, &domain.ErrValidation{Field: "month", Message: "must be 1-12"}
		}
		month = time.Month(m)
	}
	return year, month, nil
}

// comparisonParams reads the month under review plus the optional
// ?compareYear= and ?compareMonth= pair, which defaults to the calendar
// month before the current one.
func comparisonParams(r *http.Request) (year int, month time.Month, cmpYear int, cmpMonth time.Month, err error) {
	year, month, err = monthParams(r)
	if err != nil {
		return 0, 0, 0, 0, err
	}

	cmpYear, cmpMonth = period.Previous(year, month)
	if v := r.URL.Query().Get("compareYear"); v != "" {
		y, convErr := strconv.Atoi(v)
		if convErr != nil || y < 1970 || y > 9999 {
			return 0, 0, 0, 0, &domain.ErrValidation{Field: "compareYear", Message: "must be a four-digit year"}
		}
		cmpYear = y
	}
	if v := r.URL.Query().Get("compareMonth"); v != "" {
		m, convErr := strconv.Atoi(v)
		if convErr != nil || m < 1 || m > 12 {
			return 0, 0, 0, 0, &domain.ErrValidation{Field: "compareMonth", Message: "must be 1-12"}
		}
		cmpMonth = time.Month(m)
	}
	return year, month, cmpYear, cmpMonth, nil
}

// dateParam parses a query date, accepting date-only or RFC 3339.
func dateParam(r *http.Request, name string) (time.Time, bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return time.Time{}, false, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t.UTC(), true, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), true, nil
	}
	return time.Time{}, false, &domain.ErrValidation{Field: name, Message: "must be YYYY-MM-DD or RFC 3339"}
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var notFound *domain.ErrNotFound
	var validation *domain.ErrValidation
	var duplicate *domain.ErrDuplicate
	var circuitOpen *domain.ErrCircuitOpen
	var timeout *domain.ErrTimeout

	switch {
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &duplicate):
		logger.Debug("duplicate resource", zap.String("error", err.Error()))
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &timeout):
		logger.Error("request timeout", zap.Error(err))
		writeError(w, http.StatusGatewayTimeout, err.Error())
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
