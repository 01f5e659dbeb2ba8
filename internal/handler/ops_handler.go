package handler

import (
	"net/http"
	"time"

	"github.com/kvothesson/chat-saas-gateway/internal/infra/observability"
)

const livenessBody = "Agent Worker OK"

func rootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusOK, livenessBody)
	}
}

func notFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusNotFound, "Not found")
	}
}

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// debugStatsHandler serves the widget's cost panel from in-process counters.
func debugStatsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period := r.URL.Query().Get("type")
		if period == "" {
			period = observability.PeriodToday
		}
		if period != observability.PeriodToday && period != observability.PeriodTotal {
			writeError(w, http.StatusBadRequest, "type must be 'today' or 'total'")
			return
		}

		stats, err := metrics.UsageSnapshot(period, time.Now())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
