package analytics_test

import (
	"testing"
	"time"

	"github.com/manas360/practice-api/internal/analytics"
	"github.com/manas360/practice-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func session(id, patientID, name, condition string, status domain.SessionStatus, date time.Time, minutes int) domain.Session {
	return domain.Session{
		ID:        id,
		PatientID: patientID,
		Patient: domain.Patient{
			ID:        patientID,
			Name:      name,
			Condition: condition,
		},
		Date:            date,
		DurationMinutes: minutes,
		Status:          status,
		Modality:        domain.ModalityVideo,
	}
}

func TestStats_Empty(t *testing.T) {
	stats := analytics.Stats(nil)
	assert.Equal(t, domain.DashboardStats{}, stats)
}

func TestStats_Scenario(t *testing.T) {
	now := time.Now()
	sessions := []domain.Session{
		session("s1", "p1", "Sarah Jenkins", "Anxiety", domain.StatusCompleted, now, 45),
		session("s2", "p2", "Michael Chen", "Post-Stroke Recovery", domain.StatusScheduled, now, 60),
	}

	stats := analytics.Stats(sessions)
	assert.Equal(t, 2, stats.TotalSessions)
	assert.Equal(t, 50, stats.CompletionRate)
	assert.Equal(t, 53, stats.AverageDuration) // round(52.5)
	assert.Equal(t, 1, stats.UpcomingCount)
}

func TestStats_SingleSession(t *testing.T) {
	stats := analytics.Stats([]domain.Session{
		session("s1", "p1", "Emma Wilson", "Depression", domain.StatusCompleted, time.Now(), 50),
	})
	assert.Equal(t, 1, stats.TotalSessions)
	assert.Equal(t, 100, stats.CompletionRate)
	assert.Equal(t, 50, stats.AverageDuration)
	assert.Equal(t, 0, stats.UpcomingCount)
}

func TestStats_Bounds(t *testing.T) {
	now := time.Now()
	sessions := []domain.Session{
		session("s1", "p1", "A", "c", domain.StatusCompleted, now, 45),
		session("s2", "p1", "A", "c", domain.StatusCancelled, now, 90),
		session("s3", "p1", "A", "c", domain.StatusMissed, now, 30),
	}

	stats := analytics.Stats(sessions)
	assert.GreaterOrEqual(t, stats.CompletionRate, 0)
	assert.LessOrEqual(t, stats.CompletionRate, 100)
	assert.GreaterOrEqual(t, stats.AverageDuration, 0)
	assert.LessOrEqual(t, stats.AverageDuration, 90)
}

func TestUniquePatients(t *testing.T) {
	now := time.Now()
	sessions := []domain.Session{
		session("s1", "p2", "Michael Chen", "Post-Stroke Recovery", domain.StatusCompleted, now, 60),
		session("s2", "p1", "Sarah Jenkins", "Anxiety", domain.StatusScheduled, now, 45),
		session("s3", "p2", "Michael Chen", "Post-Stroke Recovery", domain.StatusScheduled, now, 60),
		session("s4", "p3", "Emma Wilson", "Depression", domain.StatusCancelled, now, 50),
	}

	patients := analytics.UniquePatients(sessions)
	require.Len(t, patients, 3)
	// First-seen order, no duplicate identifiers
	assert.Equal(t, []string{"p2", "p1", "p3"}, []string{patients[0].ID, patients[1].ID, patients[2].ID})

	seen := map[string]bool{}
	for _, p := range patients {
		assert.False(t, seen[p.ID])
		seen[p.ID] = true
	}
}

func TestFilter_Identity(t *testing.T) {
	now := time.Now()
	sessions := []domain.Session{
		session("s1", "p1", "Sarah Jenkins", "Anxiety", domain.StatusCompleted, now, 45),
		session("s2", "p2", "Michael Chen", "Post-Stroke Recovery", domain.StatusScheduled, now, 60),
	}

	got := analytics.Filter(sessions, analytics.StatusFilterAll, "")
	assert.Equal(t, sessions, got)
}

func TestFilter(t *testing.T) {
	now := time.Now()
	sessions := []domain.Session{
		session("s1", "p1", "Sarah Jenkins", "Generalized Anxiety Disorder", domain.StatusCompleted, now, 45),
		session("s2", "p2", "Michael Chen", "Post-Stroke Motor Recovery", domain.StatusScheduled, now, 60),
		session("s3", "p3", "Emma Wilson", "Depression", domain.StatusCancelled, now, 50),
	}

	tests := []struct {
		name    string
		status  string
		search  string
		wantIDs []string
	}{
		{"status only", "Scheduled", "", []string{"s2"}},
		{"search on name, case-insensitive", analytics.StatusFilterAll, "sarah", []string{"s1"}},
		{"search on condition", analytics.StatusFilterAll, "stroke", []string{"s2"}},
		{"search hits either field", analytics.StatusFilterAll, "depress", []string{"s3"}},
		{"status and search combined", "Completed", "anxiety", []string{"s1"}},
		{"no match", "Completed", "stroke", []string{}},
		{"empty status means all", "", "emma", []string{"s3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analytics.Filter(sessions, tt.status, tt.search)
			ids := make([]string, 0, len(got))
			for _, s := range got {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestStatusDistribution(t *testing.T) {
	now := time.Now()
	sessions := []domain.Session{
		session("s1", "p1", "A", "c", domain.StatusCompleted, now, 45),
		session("s2", "p2", "B", "c", domain.StatusScheduled, now, 60),
		session("s3", "p3", "C", "c", domain.StatusCompleted, now, 50),
	}

	dist := analytics.StatusDistribution(sessions)
	require.Len(t, dist, 2)
	assert.Equal(t, analytics.StatusCount{Name: "Completed", Value: 2}, dist[0])
	assert.Equal(t, analytics.StatusCount{Name: "Scheduled", Value: 1}, dist[1])

	// No zero-filled entries for absent statuses
	for _, c := range dist {
		assert.NotZero(t, c.Value)
	}
}

func TestStatusDistribution_Empty(t *testing.T) {
	assert.Empty(t, analytics.StatusDistribution(nil))
}

func TestRecentDurationSeries_KeepsLatestSeven(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	var sessions []domain.Session
	// Insert out of chronological order on purpose
	for _, day := range []int{4, 9, 1, 7, 2, 10, 5, 3, 8, 6} {
		sessions = append(sessions, session("s", "p1", "A", "c", domain.StatusCompleted,
			base.AddDate(0, 0, day), day))
	}

	series := analytics.RecentDurationSeries(sessions)
	require.Len(t, series, 7)

	// The 7 latest (days 4..10) in ascending chronological order
	for i, want := range []int{4, 5, 6, 7, 8, 9, 10} {
		assert.Equal(t, want, series[i].Minutes)
		assert.Equal(t, base.AddDate(0, 0, want).Format("Jan 2"), series[i].Date)
	}
}

func TestRecentDurationSeries_FewerThanSeven(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	sessions := []domain.Session{
		session("s2", "p1", "A", "c", domain.StatusCompleted, base.AddDate(0, 0, 1), 60),
		session("s1", "p1", "A", "c", domain.StatusCompleted, base, 45),
	}

	series := analytics.RecentDurationSeries(sessions)
	require.Len(t, series, 2)
	assert.Equal(t, 45, series[0].Minutes)
	assert.Equal(t, 60, series[1].Minutes)
}

func TestResponseHistory_NewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s1 := session("s1", "p1", "A", "c", domain.StatusCompleted, base, 45)
	s1.PatientResponses = []domain.SessionResponse{
		{Question: "oldest", Timestamp: base},
		{Question: "newest", Timestamp: base.Add(2 * time.Hour)},
	}
	s2 := session("s2", "p1", "A", "c", domain.StatusCompleted, base, 45)
	s2.PatientResponses = []domain.SessionResponse{
		{Question: "middle", Timestamp: base.Add(time.Hour)},
	}

	history := analytics.ResponseHistory([]domain.Session{s1, s2})
	require.Len(t, history, 3)
	assert.Equal(t, "newest", history[0].Question)
	assert.Equal(t, "middle", history[1].Question)
	assert.Equal(t, "oldest", history[2].Question)

	// Non-increasing by timestamp for any input ordering
	for i := 1; i < len(history); i++ {
		assert.False(t, history[i].Timestamp.After(history[i-1].Timestamp))
	}
}

func TestResponseHistory_TimestampTiesDoNotCrash(t *testing.T) {
	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := session("s1", "p1", "A", "c", domain.StatusCompleted, ts, 45)
	s.PatientResponses = []domain.SessionResponse{
		{Question: "first", Timestamp: ts},
		{Question: "second", Timestamp: ts},
	}

	history := analytics.ResponseHistory([]domain.Session{s})
	require.Len(t, history, 2)
	// Stable sort keeps input order among equal timestamps
	assert.Equal(t, "first", history[0].Question)
	assert.Equal(t, "second", history[1].Question)
}

func TestSessionsNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	sessions := []domain.Session{
		session("s1", "p1", "A", "c", domain.StatusCompleted, base, 45),
		session("s2", "p1", "A", "c", domain.StatusCompleted, base.AddDate(0, 0, 2), 45),
		session("s3", "p1", "A", "c", domain.StatusCompleted, base.AddDate(0, 0, 1), 45),
	}

	got := analytics.SessionsNewestFirst(sessions)
	assert.Equal(t, []string{"s2", "s3", "s1"}, []string{got[0].ID, got[1].ID, got[2].ID})
	// Input untouched
	assert.Equal(t, "s1", sessions[0].ID)
}
