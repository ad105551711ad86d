package domain

import (
	"context"
	"time"
)

// SessionStatus represents the lifecycle state of a therapy session
type SessionStatus string

const (
	StatusScheduled SessionStatus = "Scheduled"
	StatusOngoing   SessionStatus = "Ongoing"
	StatusCompleted SessionStatus = "Completed"
	StatusCancelled SessionStatus = "Cancelled"
	StatusMissed    SessionStatus = "Missed"
)

// Valid reports whether s is one of the defined lifecycle states
func (s SessionStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusOngoing, StatusCompleted, StatusCancelled, StatusMissed:
		return true
	}
	return false
}

// Terminal reports whether no transition leads out of s
func (s SessionStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusMissed:
		return true
	}
	return false
}

// Modality represents the medium a session is held over
type Modality string

const (
	ModalityInPerson Modality = "In-Person"
	ModalityVideo    Modality = "Video"
	ModalityPhone    Modality = "Phone"
)

// Valid reports whether m is a known modality
func (m Modality) Valid() bool {
	switch m {
	case ModalityInPerson, ModalityVideo, ModalityPhone:
		return true
	}
	return false
}

// SessionResponse is a single patient-reported question/answer entry.
// Entries are immutable once recorded and owned by their parent session.
type SessionResponse struct {
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Timestamp  time.Time `json:"timestamp"`
	MoodRating *int      `json:"mood_rating,omitempty"` // 1-10 when present
}

// Session represents a scheduled or completed therapeutic encounter.
// Patient is a snapshot taken at booking time; PatientID is the stable key.
type Session struct {
	ID               string            `json:"id"`
	PatientID        string            `json:"patient_id"`
	Patient          Patient           `json:"patient"`
	Date             time.Time         `json:"date"`
	DurationMinutes  int               `json:"duration_minutes"`
	Status           SessionStatus     `json:"status"`
	Modality         Modality          `json:"modality"`
	ClinicalNotes    string            `json:"clinical_notes"`
	PatientResponses []SessionResponse `json:"patient_responses"`
	AISummary        string            `json:"ai_summary,omitempty"`
}

// DashboardStats holds the headline numbers for the practice overview
type DashboardStats struct {
	TotalSessions   int `json:"total_sessions"`
	CompletionRate  int `json:"completion_rate"`
	AverageDuration int `json:"average_duration"`
	UpcomingCount   int `json:"upcoming_count"`
}

// SessionRepository defines the interface for the canonical session store.
// All returns sessions in insertion order as copies; mutation goes through
// the update methods, each of which replaces exactly one field.
type SessionRepository interface {
	Append(ctx context.Context, session Session) error
	Get(ctx context.Context, id string) (Session, error)
	All(ctx context.Context) []Session
	UpdateStatus(ctx context.Context, id string, status SessionStatus) (Session, error)
	Reschedule(ctx context.Context, id string, date time.Time) (Session, error)
	SetNotes(ctx context.Context, id string, notes string) (Session, error)
	SetSummary(ctx context.Context, id string, summary string) (Session, error)
	AppendResponse(ctx context.Context, id string, resp SessionResponse) (Session, error)
}
