package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/manas360/practice-api/internal/domain"
	"github.com/manas360/practice-api/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T, sessions ...domain.Session) *memory.SessionStore {
	t.Helper()
	store := memory.NewSessionStore()
	for _, s := range sessions {
		require.NoError(t, store.Append(context.Background(), s))
	}
	return store
}

func scheduled(id string, date time.Time, minutes int) domain.Session {
	return domain.Session{
		ID:              id,
		PatientID:       "p1",
		Patient:         domain.Patient{ID: "p1", Name: "Sarah Jenkins", Condition: "Generalized Anxiety Disorder"},
		Date:            date,
		DurationMinutes: minutes,
		Status:          domain.StatusScheduled,
		Modality:        domain.ModalityVideo,
	}
}

func TestCreateAppointment_NewPatient(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)
	svc := NewService(store)

	var notified []domain.Session
	svc.OnSessionCreated(func(s domain.Session) { notified = append(notified, s) })

	session, err := svc.CreateAppointment(ctx, domain.BookingInput{
		NewPatient: &domain.NewPatientInput{
			Name:      "David Miller",
			Age:       45,
			Condition: "PTSD",
			Email:     "d.miller@example.com",
			Phone:     "555-0104",
		},
		Date:            "2026-09-01",
		Time:            "14:30",
		DurationMinutes: 90,
		Modality:        domain.ModalityInPerson,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, session.ID)
	assert.Equal(t, domain.StatusScheduled, session.Status)
	assert.Equal(t, session.Patient.ID, session.PatientID)
	assert.Equal(t, "David Miller", session.Patient.Name)
	assert.Contains(t, session.Patient.AvatarURL, "ui-avatars.com")
	assert.Contains(t, session.Patient.AvatarURL, "David+Miller")
	assert.Empty(t, session.ClinicalNotes)
	assert.Empty(t, session.PatientResponses)

	want := time.Date(2026, 9, 1, 14, 30, 0, 0, time.Local)
	assert.True(t, session.Date.Equal(want))

	require.Len(t, notified, 1)
	assert.Equal(t, session.ID, notified[0].ID)

	stored, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.Patient, stored.Patient)
}

func TestCreateAppointment_ExistingPatient(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t, scheduled("s1", time.Now().Add(time.Hour), 45))
	svc := NewService(store)

	session, err := svc.CreateAppointment(ctx, domain.BookingInput{
		PatientID:       "p1",
		Date:            "2026-09-02",
		Time:            "10:00",
		DurationMinutes: 60,
		Modality:        domain.ModalityPhone,
		ClinicalNotes:   "Follow-up on breathing exercises.",
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", session.PatientID)
	assert.Equal(t, "Sarah Jenkins", session.Patient.Name)
	assert.Equal(t, "Follow-up on breathing exercises.", session.ClinicalNotes)
}

func TestCreateAppointment_UnresolvablePatient(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t, scheduled("s1", time.Now().Add(time.Hour), 45))
	svc := NewService(store)

	_, err := svc.CreateAppointment(ctx, domain.BookingInput{
		PatientID:       "ghost",
		Date:            "2026-09-02",
		Time:            "10:00",
		DurationMinutes: 60,
		Modality:        domain.ModalityVideo,
	})
	assert.ErrorIs(t, err, domain.ErrPatientNotFound)

	// No repository mutation happened
	assert.Len(t, store.All(ctx), 1)
}

func TestCreateAppointment_NoPatientSelector(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)
	svc := NewService(store)

	_, err := svc.CreateAppointment(ctx, domain.BookingInput{
		Date:            "2026-09-02",
		Time:            "10:00",
		DurationMinutes: 60,
		Modality:        domain.ModalityVideo,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, store.All(ctx))
}

func TestCreateAppointment_ValidationRejectsBeforeMutation(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)
	svc := NewService(store)

	tests := []struct {
		name  string
		input domain.BookingInput
	}{
		{"missing date", domain.BookingInput{PatientID: "p1", Time: "10:00", DurationMinutes: 60, Modality: domain.ModalityVideo}},
		{"malformed time", domain.BookingInput{PatientID: "p1", Date: "2026-09-02", Time: "25:99", DurationMinutes: 60, Modality: domain.ModalityVideo}},
		{"zero duration", domain.BookingInput{PatientID: "p1", Date: "2026-09-02", Time: "10:00", Modality: domain.ModalityVideo}},
		{"unknown modality", domain.BookingInput{PatientID: "p1", Date: "2026-09-02", Time: "10:00", DurationMinutes: 60, Modality: "Telegraph"}},
		{"incomplete new patient", domain.BookingInput{
			NewPatient:      &domain.NewPatientInput{Name: "X"},
			Date:            "2026-09-02", Time: "10:00", DurationMinutes: 60, Modality: domain.ModalityVideo,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateAppointment(ctx, tt.input)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, store.All(ctx))
		})
	}
}

func TestUpdateStatus_Transitions(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		from    domain.SessionStatus
		to      domain.SessionStatus
		wantErr error
	}{
		{"start", domain.StatusScheduled, domain.StatusOngoing, nil},
		{"cancel scheduled", domain.StatusScheduled, domain.StatusCancelled, nil},
		{"finalize scheduled directly", domain.StatusScheduled, domain.StatusCompleted, nil},
		{"complete ongoing", domain.StatusOngoing, domain.StatusCompleted, nil},
		{"void ongoing", domain.StatusOngoing, domain.StatusCancelled, nil},
		{"missed is sweep-only", domain.StatusScheduled, domain.StatusMissed, domain.ErrInvalidTransition},
		{"ongoing cannot revert", domain.StatusOngoing, domain.StatusScheduled, domain.ErrInvalidTransition},
		{"completed is terminal", domain.StatusCompleted, domain.StatusScheduled, domain.ErrInvalidTransition},
		{"cancelled is terminal", domain.StatusCancelled, domain.StatusOngoing, domain.ErrInvalidTransition},
		{"missed is terminal", domain.StatusMissed, domain.StatusScheduled, domain.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := scheduled("s1", time.Now(), 45)
			sess.Status = tt.from
			store := seedStore(t, sess)
			svc := NewService(store)

			updated, err := svc.UpdateStatus(ctx, "s1", tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				got, gerr := store.Get(ctx, "s1")
				require.NoError(t, gerr)
				assert.Equal(t, tt.from, got.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, updated.Status)
		})
	}
}

func TestUpdateStatus_Idempotent(t *testing.T) {
	ctx := context.Background()
	sess := scheduled("s1", time.Now(), 45)
	sess.Status = domain.StatusCompleted
	store := seedStore(t, sess)
	svc := NewService(store)

	updated, err := svc.UpdateStatus(ctx, "s1", domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
}

func TestOnSessionUpdated(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t,
		scheduled("s1", time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local), 45),
		scheduled("s2", time.Date(2026, 3, 11, 9, 0, 0, 0, time.Local), 45),
	)
	svc := NewService(store)

	var updated []string
	svc.OnSessionUpdated(func(s domain.Session) { updated = append(updated, s.ID) })

	_, err := svc.UpdateStatus(ctx, "s1", domain.StatusOngoing)
	require.NoError(t, err)
	_, err = svc.Reschedule(ctx, "s2", domain.RescheduleInput{Date: "2026-03-14", Time: "11:00"})
	require.NoError(t, err)
	_, err = svc.SetNotes(ctx, "s1", "Reviewed coping strategies.")
	require.NoError(t, err)
	_, err = svc.AddResponse(ctx, "s1", domain.ResponseInput{Question: "Mood?", Answer: "Calm."})
	require.NoError(t, err)

	assert.Equal(t, []string{"s1", "s2", "s1", "s1"}, updated)

	// An idempotent same-status write mutates nothing and notifies nobody
	updated = nil
	_, err = svc.UpdateStatus(ctx, "s1", domain.StatusOngoing)
	require.NoError(t, err)
	assert.Empty(t, updated)

	// Sweep writes go through the hook too: s2 is still Scheduled and ends
	// well before the sweep instant
	updated = nil
	swept, err := svc.SweepMissed(ctx, time.Date(2026, 3, 20, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Equal(t, 1, swept)
	assert.Equal(t, []string{"s2"}, updated)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t, scheduled("s2", time.Now(), 45))
	svc := NewService(store)

	_, err := svc.UpdateStatus(ctx, "s1", domain.StatusOngoing)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	all := store.All(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, domain.StatusScheduled, all[0].Status)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t, scheduled("s1", time.Now(), 45))
	svc := NewService(store)

	_, err := svc.UpdateStatus(ctx, "s1", "Vanished")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReschedule(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t, scheduled("s1", time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local), 45))
	svc := NewService(store)

	updated, err := svc.Reschedule(ctx, "s1", domain.RescheduleInput{Date: "2026-03-12", Time: "16:15"})
	require.NoError(t, err)
	assert.True(t, updated.Date.Equal(time.Date(2026, 3, 12, 16, 15, 0, 0, time.Local)))
	assert.Equal(t, domain.StatusScheduled, updated.Status)
	assert.Equal(t, 45, updated.DurationMinutes)

	_, err = svc.Reschedule(ctx, "nope", domain.RescheduleInput{Date: "2026-03-12", Time: "16:15"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = svc.Reschedule(ctx, "s1", domain.RescheduleInput{Date: "12/03/2026", Time: "16:15"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAddResponse_MoodRange(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t, scheduled("s1", time.Now(), 45))
	svc := NewService(store)

	good := 7
	updated, err := svc.AddResponse(ctx, "s1", domain.ResponseInput{
		Question:   "How was your mood this week?",
		Answer:     "Better than last week.",
		MoodRating: &good,
	})
	require.NoError(t, err)
	require.Len(t, updated.PatientResponses, 1)
	assert.Equal(t, 7, *updated.PatientResponses[0].MoodRating)
	assert.False(t, updated.PatientResponses[0].Timestamp.IsZero())

	for _, bad := range []int{0, 11, -3} {
		rating := bad
		_, err := svc.AddResponse(ctx, "s1", domain.ResponseInput{
			Question:   "Mood?",
			Answer:     "n/a",
			MoodRating: &rating,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}

	// No mood rating at all is fine
	updated, err = svc.AddResponse(ctx, "s1", domain.ResponseInput{Question: "Homework?", Answer: "Done."})
	require.NoError(t, err)
	assert.Len(t, updated.PatientResponses, 2)
}

func TestPatientSessions(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	other := scheduled("s2", base.AddDate(0, 0, 1), 60)
	other.PatientID = "p2"
	other.Patient = domain.Patient{ID: "p2", Name: "Michael Chen"}

	store := seedStore(t,
		scheduled("s1", base, 45),
		other,
		scheduled("s3", base.AddDate(0, 0, 3), 45),
	)
	svc := NewService(store)

	patient, sessions, err := svc.PatientSessions(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Sarah Jenkins", patient.Name)
	require.Len(t, sessions, 2)
	assert.Equal(t, "s3", sessions[0].ID) // newest first
	assert.Equal(t, "s1", sessions[1].ID)

	_, _, err = svc.PatientSessions(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrPatientNotFound)
}

func TestSweepMissed(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	pastDue := scheduled("past", now.Add(-2*time.Hour), 45)
	future := scheduled("future", now.Add(time.Hour), 45)
	stillRunning := scheduled("running", now.Add(-30*time.Minute), 60) // ends after now
	ongoing := scheduled("ongoing", now.Add(-3*time.Hour), 45)
	ongoing.Status = domain.StatusOngoing
	done := scheduled("done", now.Add(-4*time.Hour), 45)
	done.Status = domain.StatusCompleted

	store := seedStore(t, pastDue, future, stillRunning, ongoing, done)
	svc := NewService(store)

	swept, err := svc.SweepMissed(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	want := map[string]domain.SessionStatus{
		"past":    domain.StatusMissed,
		"future":  domain.StatusScheduled,
		"running": domain.StatusScheduled,
		"ongoing": domain.StatusOngoing,
		"done":    domain.StatusCompleted,
	}
	for _, sess := range store.All(ctx) {
		assert.Equal(t, want[sess.ID], sess.Status, "session %s", sess.ID)
	}

	// Idempotent: a second sweep finds nothing new
	swept, err = svc.SweepMissed(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, swept)
}
