package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/manas360/practice-api/internal/analytics"
	"github.com/manas360/practice-api/internal/api/response"
	"github.com/manas360/practice-api/internal/domain"
	"github.com/manas360/practice-api/internal/export"
	"github.com/manas360/practice-api/internal/insight"
	"github.com/manas360/practice-api/internal/scheduling"
)

// SessionHandler handles session endpoints
type SessionHandler struct {
	scheduler *scheduling.Service
	insights  *insight.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(scheduler *scheduling.Service, insights *insight.Service) *SessionHandler {
	return &SessionHandler{scheduler: scheduler, insights: insights}
}

// List returns sessions filtered by ?status= and ?q=
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	sessions := h.filtered(r)
	response.OK(w, map[string]any{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// Get returns a single session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.scheduler.Session(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, session)
}

// Create books a new appointment
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.BookingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	session, err := h.scheduler.CreateAppointment(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, session)
}

type statusRequest struct {
	Status domain.SessionStatus `json:"status"`
}

// UpdateStatus applies a lifecycle transition
func (h *SessionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	session, err := h.scheduler.UpdateStatus(r.Context(), chi.URLParam(r, "sessionID"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, session)
}

// Reschedule moves a session to a new date and time
func (h *SessionHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	var input domain.RescheduleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	session, err := h.scheduler.Reschedule(r.Context(), chi.URLParam(r, "sessionID"), input)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, session)
}

type notesRequest struct {
	ClinicalNotes string `json:"clinical_notes"`
}

// SetNotes rewrites the clinical notes of a session
func (h *SessionHandler) SetNotes(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	session, err := h.scheduler.SetNotes(r.Context(), chi.URLParam(r, "sessionID"), req.ClinicalNotes)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, session)
}

// AddResponse records a patient-reported entry on a session
func (h *SessionHandler) AddResponse(w http.ResponseWriter, r *http.Request) {
	var input domain.ResponseInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	session, err := h.scheduler.AddResponse(r.Context(), chi.URLParam(r, "sessionID"), input)
	if err != nil {
		writeError(w, err)
		return
	}
	response.Created(w, session)
}

// Summarize generates and stores the AI summary for a session. On gateway
// failure the fallback text is still returned so clients have something to
// display.
func (h *SessionHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	text, err := h.insights.SessionSummary(r.Context(), chi.URLParam(r, "sessionID"))
	if errors.Is(err, domain.ErrGatewayUnavailable) {
		response.BadGateway(w, text)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, map[string]string{"summary": text})
}

// ExportJSON downloads one session as a JSON document
func (h *SessionHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	session, err := h.scheduler.Session(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}

	body, err := export.SessionJSON(session)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}
	response.Attachment(w, "application/json", export.JSONFilename(session.ID), body)
}

// ExportCSV downloads the filtered session list as a CSV report
func (h *SessionHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	body, err := export.SessionsCSV(h.filtered(r))
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}
	response.Attachment(w, "text/csv", "sessions_export.csv", body)
}

func (h *SessionHandler) filtered(r *http.Request) []domain.Session {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = analytics.StatusFilterAll
	}
	return analytics.Filter(h.scheduler.Sessions(r.Context()), status, r.URL.Query().Get("q"))
}
