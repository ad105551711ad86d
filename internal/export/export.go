// Package export renders sessions into portable formats: a lossless JSON
// document per session and a CSV report over a session list.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/manas360/practice-api/internal/domain"
)

// CSVHeader is the fixed column order of the CSV report
var CSVHeader = []string{"Session ID", "Date", "Patient Name", "Status", "Duration (min)", "Type", "Notes"}

// SessionJSON renders a single session as an indented JSON document. The
// output round-trips through ParseSessionJSON without loss.
func SessionJSON(session domain.Session) ([]byte, error) {
	return json.MarshalIndent(session, "", "  ")
}

// ParseSessionJSON is the inverse of SessionJSON
func ParseSessionJSON(data []byte) (domain.Session, error) {
	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return domain.Session{}, fmt.Errorf("parse session export: %w", err)
	}
	return session, nil
}

// JSONFilename names the download for a session export
func JSONFilename(sessionID string) string {
	return "session_" + sessionID + ".json"
}

// SessionsCSV renders a session list as a CSV report. Fields containing
// commas or quotes are quoted with embedded quotes doubled.
func SessionsCSV(sessions []domain.Session) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(CSVHeader); err != nil {
		return nil, err
	}
	for _, s := range sessions {
		record := []string{
			s.ID,
			s.Date.Format(time.RFC3339),
			s.Patient.Name,
			string(s.Status),
			strconv.Itoa(s.DurationMinutes),
			string(s.Modality),
			s.ClinicalNotes,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
