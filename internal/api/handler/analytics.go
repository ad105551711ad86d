package handler

import (
	"net/http"

	"github.com/manas360/practice-api/internal/analytics"
	"github.com/manas360/practice-api/internal/api/response"
	"github.com/manas360/practice-api/internal/scheduling"
)

// AnalyticsHandler serves the derived dashboard figures
type AnalyticsHandler struct {
	scheduler *scheduling.Service
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(scheduler *scheduling.Service) *AnalyticsHandler {
	return &AnalyticsHandler{scheduler: scheduler}
}

// Stats returns the headline dashboard counters
func (h *AnalyticsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	response.OK(w, analytics.Stats(h.scheduler.Sessions(r.Context())))
}

// StatusDistribution returns per-status session counts in first-seen order
func (h *AnalyticsHandler) StatusDistribution(w http.ResponseWriter, r *http.Request) {
	response.OK(w, analytics.StatusDistribution(h.scheduler.Sessions(r.Context())))
}

// DurationSeries returns the most recent seven session durations, oldest first
func (h *AnalyticsHandler) DurationSeries(w http.ResponseWriter, r *http.Request) {
	response.OK(w, analytics.RecentDurationSeries(h.scheduler.Sessions(r.Context())))
}
