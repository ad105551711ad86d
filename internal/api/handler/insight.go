package handler

import (
	"errors"
	"net/http"

	"github.com/manas360/practice-api/internal/api/response"
	"github.com/manas360/practice-api/internal/domain"
	"github.com/manas360/practice-api/internal/insight"
)

// InsightHandler handles practice-wide AI insight endpoints
type InsightHandler struct {
	insights *insight.Service
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(insights *insight.Service) *InsightHandler {
	return &InsightHandler{insights: insights}
}

// Trends generates the attendance/mood trend digest
func (h *InsightHandler) Trends(w http.ResponseWriter, r *http.Request) {
	text, err := h.insights.TrendAnalysis(r.Context())
	if errors.Is(err, domain.ErrGatewayUnavailable) {
		response.BadGateway(w, text)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, map[string]string{"trends": text})
}
