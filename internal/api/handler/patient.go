package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/manas360/practice-api/internal/analytics"
	"github.com/manas360/practice-api/internal/api/response"
	"github.com/manas360/practice-api/internal/domain"
	"github.com/manas360/practice-api/internal/insight"
	"github.com/manas360/practice-api/internal/llm"
	"github.com/manas360/practice-api/internal/scheduling"
)

// PatientHandler handles patient endpoints
type PatientHandler struct {
	scheduler *scheduling.Service
	insights  *insight.Service
}

// NewPatientHandler creates a new patient handler
func NewPatientHandler(scheduler *scheduling.Service, insights *insight.Service) *PatientHandler {
	return &PatientHandler{scheduler: scheduler, insights: insights}
}

// List returns the deduplicated patient roster
func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	patients := h.scheduler.Patients(r.Context())
	response.OK(w, map[string]any{
		"patients": patients,
		"count":    len(patients),
	})
}

// History returns one patient's sessions newest first, plus their flattened
// response history
func (h *PatientHandler) History(w http.ResponseWriter, r *http.Request) {
	patient, sessions, err := h.scheduler.PatientSessions(r.Context(), chi.URLParam(r, "patientID"))
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"patient":   patient,
		"sessions":  sessions,
		"responses": analytics.ResponseHistory(sessions),
	})
}

// Predict generates an AI prognosis for one patient. The parsed label
// sections ride along as a display aid; the raw text stays authoritative.
func (h *PatientHandler) Predict(w http.ResponseWriter, r *http.Request) {
	patient, sessions, err := h.scheduler.PatientSessions(r.Context(), chi.URLParam(r, "patientID"))
	if err != nil {
		writeError(w, err)
		return
	}

	text, err := h.insights.OutcomePrediction(r.Context(), patient, sessions)
	if errors.Is(err, domain.ErrGatewayUnavailable) {
		response.BadGateway(w, text)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	response.OK(w, map[string]any{
		"prediction": text,
		"sections":   llm.SplitPredictionSections(text),
	})
}
