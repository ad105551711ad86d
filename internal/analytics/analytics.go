// Package analytics computes the dashboard's derived views. Every function
// is pure: it takes a snapshot of the session list and returns a fresh value,
// recomputed on demand. At tens to low-thousands of sessions the O(n) scans
// are cheaper than maintaining incremental state.
package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/manas360/practice-api/internal/domain"
)

// StatusFilterAll disables status filtering in Filter
const StatusFilterAll = "All"

// StatusCount is one slice of the status distribution chart
type StatusCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// DurationPoint is one bar of the recent-duration chart
type DurationPoint struct {
	Date    string `json:"date"`
	Minutes int    `json:"duration"`
}

// UniquePatients returns one patient per distinct patient identifier, keeping
// the first occurrence in sequence order. Output order is first-seen order.
func UniquePatients(sessions []domain.Session) []domain.Patient {
	seen := make(map[string]struct{}, len(sessions))
	var out []domain.Patient
	for _, s := range sessions {
		if _, ok := seen[s.Patient.ID]; ok {
			continue
		}
		seen[s.Patient.ID] = struct{}{}
		out = append(out, s.Patient)
	}
	return out
}

// Stats computes the practice overview numbers. An empty session set yields
// all zeros; the divisions never run with a zero denominator.
func Stats(sessions []domain.Session) domain.DashboardStats {
	stats := domain.DashboardStats{TotalSessions: len(sessions)}
	if len(sessions) == 0 {
		return stats
	}

	var completed, upcoming, totalMinutes int
	for _, s := range sessions {
		switch s.Status {
		case domain.StatusCompleted:
			completed++
		case domain.StatusScheduled:
			upcoming++
		}
		totalMinutes += s.DurationMinutes
	}

	stats.CompletionRate = int(math.Round(float64(completed) / float64(len(sessions)) * 100))
	stats.AverageDuration = int(math.Round(float64(totalMinutes) / float64(len(sessions))))
	stats.UpcomingCount = upcoming
	return stats
}

// Filter returns the sessions matching both the status filter and the search
// term. StatusFilterAll (or empty) disables the status check; the search term
// matches case-insensitively against the patient name or condition.
func Filter(sessions []domain.Session, status, search string) []domain.Session {
	search = strings.ToLower(search)
	out := make([]domain.Session, 0, len(sessions))
	for _, s := range sessions {
		if status != "" && status != StatusFilterAll && string(s.Status) != status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(s.Patient.Name), search) &&
			!strings.Contains(strings.ToLower(s.Patient.Condition), search) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// StatusDistribution counts sessions per status present in the input, in
// first-seen status order. Absent statuses produce no zero entries.
func StatusDistribution(sessions []domain.Session) []StatusCount {
	index := make(map[domain.SessionStatus]int)
	var out []StatusCount
	for _, s := range sessions {
		if i, ok := index[s.Status]; ok {
			out[i].Value++
			continue
		}
		index[s.Status] = len(out)
		out = append(out, StatusCount{Name: string(s.Status), Value: 1})
	}
	return out
}

// RecentDurationSeries returns the seven chronologically latest sessions as
// (short date, duration) points in ascending date order.
func RecentDurationSeries(sessions []domain.Session) []DurationPoint {
	sorted := make([]domain.Session, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	if len(sorted) > 7 {
		sorted = sorted[len(sorted)-7:]
	}

	out := make([]DurationPoint, len(sorted))
	for i, s := range sorted {
		out[i] = DurationPoint{
			Date:    s.Date.Format("Jan 2"),
			Minutes: s.DurationMinutes,
		}
	}
	return out
}

// ResponseHistory flattens the patient responses of the given sessions and
// sorts them newest first. Ties keep their input order.
func ResponseHistory(sessions []domain.Session) []domain.SessionResponse {
	var out []domain.SessionResponse
	for _, s := range sessions {
		out = append(out, s.PatientResponses...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// SessionsNewestFirst orders a copy of the given sessions by start instant,
// newest first. Used for per-patient history views.
func SessionsNewestFirst(sessions []domain.Session) []domain.Session {
	sorted := make([]domain.Session, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	return sorted
}
