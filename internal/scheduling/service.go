// Package scheduling owns the session lifecycle: booking, rescheduling,
// status transitions, and the sweep that marks past-due sessions missed.
package scheduling

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/manas360/practice-api/internal/analytics"
	"github.com/manas360/practice-api/internal/domain"
	"github.com/rs/zerolog/log"
)

// allowedTransitions is the lifecycle table. Completed, Cancelled and Missed
// are terminal; Missed is only ever produced by the sweep, which writes to
// the repository directly and never goes through this table.
var allowedTransitions = map[domain.SessionStatus][]domain.SessionStatus{
	domain.StatusScheduled: {domain.StatusOngoing, domain.StatusCompleted, domain.StatusCancelled},
	domain.StatusOngoing:   {domain.StatusCompleted, domain.StatusCancelled},
}

// Service coordinates all session mutations. The repository is constructor
// injected; nothing here touches shared globals.
type Service struct {
	repo            domain.SessionRepository
	validate        *validator.Validate
	observers       []func(domain.Session)
	updateObservers []func(domain.Session)
	now             func() time.Time
}

// NewService creates a scheduling service over the given repository
func NewService(repo domain.SessionRepository) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(),
		now:      time.Now,
	}
}

// OnSessionCreated registers a callback invoked after each successful booking.
// The presentation layer uses this to react (e.g. switch to the schedule view)
// without the workflow knowing about view state.
func (s *Service) OnSessionCreated(fn func(domain.Session)) {
	s.observers = append(s.observers, fn)
}

// OnSessionUpdated registers a callback invoked after any successful mutation
// of an existing session, including sweep writes. The insight layer uses this
// to drop cached text derived from the pre-mutation state.
func (s *Service) OnSessionUpdated(fn func(domain.Session)) {
	s.updateObservers = append(s.updateObservers, fn)
}

func (s *Service) notifyUpdated(session domain.Session) {
	for _, fn := range s.updateObservers {
		fn(session)
	}
}

// Sessions returns the current session list in insertion order
func (s *Service) Sessions(ctx context.Context) []domain.Session {
	return s.repo.All(ctx)
}

// Session returns a single session by identifier
func (s *Service) Session(ctx context.Context, id string) (domain.Session, error) {
	return s.repo.Get(ctx, id)
}

// Patients returns the deduplicated roster in first-seen order
func (s *Service) Patients(ctx context.Context) []domain.Patient {
	return analytics.UniquePatients(s.repo.All(ctx))
}

// PatientSessions returns the sessions of one patient, newest first,
// or ErrPatientNotFound when the identifier does not resolve.
func (s *Service) PatientSessions(ctx context.Context, patientID string) (domain.Patient, []domain.Session, error) {
	var (
		patient domain.Patient
		found   bool
		own     []domain.Session
	)
	for _, sess := range s.repo.All(ctx) {
		if sess.PatientID != patientID {
			continue
		}
		if !found {
			patient = sess.Patient
			found = true
		}
		own = append(own, sess)
	}
	if !found {
		return domain.Patient{}, nil, domain.ErrPatientNotFound
	}
	return patient, analytics.SessionsNewestFirst(own), nil
}

// CreateAppointment books a new session. Input carries either an existing
// patient identifier or inline new-patient fields; validation happens before
// any repository mutation, and an unresolvable patient is an explicit error
// rather than a silent no-op.
func (s *Service) CreateAppointment(ctx context.Context, input domain.BookingInput) (domain.Session, error) {
	if err := s.validate.Struct(input); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}

	date, err := combineDateTime(input.Date, input.Time)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}

	var patient domain.Patient
	switch {
	case input.NewPatient != nil:
		np := input.NewPatient
		patient = domain.Patient{
			ID:        uuid.NewString(),
			Name:      np.Name,
			Age:       np.Age,
			Condition: np.Condition,
			Email:     np.Email,
			Phone:     np.Phone,
			AvatarURL: avatarURL(np.Name),
		}
	case input.PatientID != "":
		found := false
		for _, p := range s.Patients(ctx) {
			if p.ID == input.PatientID {
				patient = p
				found = true
				break
			}
		}
		if !found {
			return domain.Session{}, domain.ErrPatientNotFound
		}
	default:
		return domain.Session{}, fmt.Errorf("%w: either patient_id or new_patient is required", domain.ErrInvalidInput)
	}

	session := domain.Session{
		ID:               uuid.NewString(),
		PatientID:        patient.ID,
		Patient:          patient,
		Date:             date,
		DurationMinutes:  input.DurationMinutes,
		Status:           domain.StatusScheduled,
		Modality:         input.Modality,
		ClinicalNotes:    input.ClinicalNotes,
		PatientResponses: []domain.SessionResponse{},
	}

	if err := s.repo.Append(ctx, session); err != nil {
		return domain.Session{}, err
	}

	log.Info().
		Str("session_id", session.ID).
		Str("patient_id", patient.ID).
		Time("date", date).
		Msg("appointment booked")

	for _, fn := range s.observers {
		fn(session)
	}
	return session, nil
}

// UpdateStatus applies a lifecycle transition. Re-applying the current
// status is an idempotent success; anything outside the transition table is
// ErrInvalidTransition.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.SessionStatus) (domain.Session, error) {
	if !status.Valid() {
		return domain.Session{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}

	if current.Status == status {
		return current, nil
	}

	if !transitionAllowed(current.Status, status) {
		return domain.Session{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, status)
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return domain.Session{}, err
	}
	s.notifyUpdated(updated)
	return updated, nil
}

// Reschedule replaces only the start instant of a scheduled session
func (s *Service) Reschedule(ctx context.Context, id string, input domain.RescheduleInput) (domain.Session, error) {
	if err := s.validate.Struct(input); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}

	date, err := combineDateTime(input.Date, input.Time)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}

	updated, err := s.repo.Reschedule(ctx, id, date)
	if err != nil {
		return domain.Session{}, err
	}
	s.notifyUpdated(updated)
	return updated, nil
}

// SetNotes rewrites the clinical notes of a session
func (s *Service) SetNotes(ctx context.Context, id string, notes string) (domain.Session, error) {
	updated, err := s.repo.SetNotes(ctx, id, notes)
	if err != nil {
		return domain.Session{}, err
	}
	s.notifyUpdated(updated)
	return updated, nil
}

// AddResponse records a patient-reported entry. A mood rating outside 1-10
// is rejected; recorded entries are immutable, so out-of-range values must
// never reach the store.
func (s *Service) AddResponse(ctx context.Context, id string, input domain.ResponseInput) (domain.Session, error) {
	if err := s.validate.Struct(input); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}
	if input.MoodRating != nil && (*input.MoodRating < 1 || *input.MoodRating > 10) {
		return domain.Session{}, fmt.Errorf("%w: mood rating must be between 1 and 10", domain.ErrInvalidInput)
	}

	resp := domain.SessionResponse{
		Question:   input.Question,
		Answer:     input.Answer,
		Timestamp:  s.now(),
		MoodRating: input.MoodRating,
	}
	updated, err := s.repo.AppendResponse(ctx, id, resp)
	if err != nil {
		return domain.Session{}, err
	}
	s.notifyUpdated(updated)
	return updated, nil
}

// SweepMissed marks every scheduled session whose start plus duration is
// already past as missed. Returns the number of sessions swept.
func (s *Service) SweepMissed(ctx context.Context, now time.Time) (int, error) {
	swept := 0
	for _, sess := range s.repo.All(ctx) {
		if sess.Status != domain.StatusScheduled {
			continue
		}
		end := sess.Date.Add(time.Duration(sess.DurationMinutes) * time.Minute)
		if !end.Before(now) {
			continue
		}
		updated, err := s.repo.UpdateStatus(ctx, sess.ID, domain.StatusMissed)
		if err != nil {
			return swept, err
		}
		s.notifyUpdated(updated)
		log.Info().Str("session_id", sess.ID).Time("ended", end).Msg("session marked missed")
		swept++
	}
	return swept, nil
}

func transitionAllowed(from, to domain.SessionStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// combineDateTime merges a date component and a time component into a single
// instant in the server's local zone
func combineDateTime(date, clock string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02T15:04", date+"T"+clock, time.Local)
}

// avatarURL derives a deterministic placeholder avatar from a patient name
func avatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random&color=fff"
}
