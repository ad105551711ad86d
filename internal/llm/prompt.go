package llm

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/manas360/practice-api/internal/domain"
)

// Section labels the prognosis prompt asks the model to emit. The gateway
// output stays opaque text in the core; splitting on these labels is a
// display aid only.
var PredictionSectionLabels = []string{
	"Short-Term Prognosis (3 Months)",
	"Long-Term Prognosis (6 Months)",
	"Risk Factors",
	"Recommended Intervention Adjustment",
	"Confidence Score",
}

// BuildSummaryPrompt creates the prompt for a single-session clinical summary
func BuildSummaryPrompt(session domain.Session) string {
	responses, _ := json.Marshal(session.PatientResponses)

	var b strings.Builder
	b.WriteString("As a clinical assistant, summarize the following therapy session details into a concise, professional medical summary paragraph.\n")
	b.WriteString("Highlight the patient's condition, the intervention used, and the outcome/patient response.\n\n")
	fmt.Fprintf(&b, "Patient Condition: %s\n", session.Patient.Condition)
	fmt.Fprintf(&b, "Session Type: %s\n", session.Modality)
	fmt.Fprintf(&b, "Status: %s\n", session.Status)
	fmt.Fprintf(&b, "Clinical Notes: %s\n", session.ClinicalNotes)
	fmt.Fprintf(&b, "Patient Responses: %s\n", responses)
	return b.String()
}

// trendRecord is the per-session shape handed to the trend analysis prompt
type trendRecord struct {
	Status string `json:"status"`
	Date   string `json:"date"`
	Mood   *int   `json:"mood,omitempty"`
}

// BuildTrendsPrompt creates the prompt for practice-wide trend analysis
func BuildTrendsPrompt(sessions []domain.Session) string {
	records := make([]trendRecord, len(sessions))
	for i, s := range sessions {
		records[i] = trendRecord{
			Status: string(s.Status),
			Date:   s.Date.Format("2006-01-02T15:04:05Z07:00"),
			Mood:   firstMoodRating(s),
		}
	}
	data, _ := json.Marshal(records)

	var b strings.Builder
	b.WriteString("Analyze these session records for a therapist. Identify key trends in patient attendance and mood based on the data.\n")
	b.WriteString("Keep it brief (max 3 bullet points).\n\n")
	fmt.Fprintf(&b, "Data: %s\n", data)
	return b.String()
}

// BuildPredictionPrompt creates the structured prognosis prompt for a patient.
// Sessions are presented oldest first so the model reads a chronological history.
func BuildPredictionPrompt(patient domain.Patient, sessions []domain.Session) string {
	lines := make([]string, len(sessions))
	for i, s := range sessions {
		mood := "N/A"
		if m := firstMoodRating(s); m != nil {
			mood = fmt.Sprintf("%d", *m)
		}
		lines[i] = fmt.Sprintf("Date: %s, Notes: %s, Mood: %s", s.Date.Format("2006-01-02"), s.ClinicalNotes, mood)
	}

	var b strings.Builder
	b.WriteString("You are an advanced medical predictive model. Based on the patient's demographics and session history, predict the patient's condition trajectory.\n\n")
	fmt.Fprintf(&b, "Patient: %s, Age: %d, Condition: %s\n\n", patient.Name, patient.Age, patient.Condition)
	b.WriteString("Session History:\n")
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\nPlease provide a structured prediction in the following format (do not use Markdown bolding, just plain text headers):\n\n")
	b.WriteString("Short-Term Prognosis (3 Months): [Prediction]\n")
	b.WriteString("Long-Term Prognosis (6 Months): [Prediction]\n")
	b.WriteString("Risk Factors: [List key risks]\n")
	b.WriteString("Recommended Intervention Adjustment: [One key suggestion]\n")
	b.WriteString("Confidence Score: [High/Medium/Low] (Brief reason)\n")
	return b.String()
}

// SplitPredictionSections slices prediction text into per-label sections.
// Labels the model omitted are absent from the result; when no label is
// found at all the map is empty and callers should show the raw text.
func SplitPredictionSections(text string) map[string]string {
	type mark struct {
		label string
		start int
	}
	marks := make([]mark, 0, len(PredictionSectionLabels))
	for _, label := range PredictionSectionLabels {
		if idx := strings.Index(text, label+":"); idx >= 0 {
			marks = append(marks, mark{label: label, start: idx})
		}
	}
	sort.Slice(marks, func(i, j int) bool { return marks[i].start < marks[j].start })

	sections := make(map[string]string, len(marks))
	for i, m := range marks {
		start := m.start + len(m.label) + 1
		end := len(text)
		if i+1 < len(marks) {
			end = marks[i+1].start
		}
		sections[m.label] = strings.TrimSpace(text[start:end])
	}
	return sections
}

// firstMoodRating returns the first recorded mood rating of a session, if any
func firstMoodRating(s domain.Session) *int {
	for _, r := range s.PatientResponses {
		if r.MoodRating != nil {
			return r.MoodRating
		}
	}
	return nil
}
