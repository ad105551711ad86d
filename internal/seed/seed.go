// Package seed populates the session store on startup, either with the fixed
// demo roster or with generated data for load testing.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/manas360/practice-api/internal/domain"
)

// demoPatients is the fixed demo roster
var demoPatients = []domain.Patient{
	{
		ID:        "p1",
		Name:      "Sarah Jenkins",
		Age:       34,
		Condition: "Generalized Anxiety Disorder",
		Email:     "sarah.j@example.com",
		Phone:     "555-0101",
		AvatarURL: "https://picsum.photos/100/100?random=1",
	},
	{
		ID:        "p2",
		Name:      "Michael Chen",
		Age:       58,
		Condition: "Post-Stroke Motor Recovery",
		Email:     "m.chen@example.com",
		Phone:     "555-0102",
		AvatarURL: "https://picsum.photos/100/100?random=2",
	},
	{
		ID:        "p3",
		Name:      "Emma Wilson",
		Age:       22,
		Condition: "Depression",
		Email:     "emma.w@example.com",
		Phone:     "555-0103",
		AvatarURL: "https://picsum.photos/100/100?random=3",
	},
	{
		ID:        "p4",
		Name:      "David Miller",
		Age:       45,
		Condition: "PTSD",
		Email:     "d.miller@example.com",
		Phone:     "555-0104",
		AvatarURL: "https://picsum.photos/100/100?random=4",
	},
}

// Demo appends the fixed demo roster to the repository. Dates are relative
// to now so the dashboard always shows a live-looking week.
func Demo(ctx context.Context, repo domain.SessionRepository, now time.Time) error {
	mood7, mood6 := 7, 6
	sessions := []domain.Session{
		{
			ID:              "s1",
			PatientID:       "p1",
			Patient:         demoPatients[0],
			Date:            now.Add(-2 * 24 * time.Hour),
			DurationMinutes: 45,
			Status:          domain.StatusCompleted,
			Modality:        domain.ModalityVideo,
			ClinicalNotes:   "Patient reported improved sleep. Practiced CBT techniques for intrusive thoughts. Showed good engagement.",
			PatientResponses: []domain.SessionResponse{
				{
					Question:   "How was your mood this week?",
					Answer:     "Better than last week, about a 7/10.",
					Timestamp:  now.Add(-2*24*time.Hour + 30*time.Minute),
					MoodRating: &mood7,
				},
				{
					Question:  "Did you complete the homework?",
					Answer:    "Yes, I did the breathing exercises daily.",
					Timestamp: now.Add(-2*24*time.Hour + 40*time.Minute),
				},
			},
		},
		{
			ID:               "s2",
			PatientID:        "p2",
			Patient:          demoPatients[1],
			Date:             now.Add(30 * time.Minute),
			DurationMinutes:  60,
			Status:           domain.StatusScheduled,
			Modality:         domain.ModalityInPerson,
			PatientResponses: []domain.SessionResponse{},
		},
		{
			ID:               "s3",
			PatientID:        "p3",
			Patient:          demoPatients[2],
			Date:             now.Add(-5 * 24 * time.Hour),
			DurationMinutes:  50,
			Status:           domain.StatusCancelled,
			Modality:         domain.ModalityVideo,
			ClinicalNotes:    "Cancelled by patient due to illness.",
			PatientResponses: []domain.SessionResponse{},
		},
		{
			ID:              "s4",
			PatientID:       "p2",
			Patient:         demoPatients[1],
			Date:            now.Add(-7 * 24 * time.Hour),
			DurationMinutes: 60,
			Status:          domain.StatusCompleted,
			Modality:        domain.ModalityInPerson,
			ClinicalNotes:   "Worked on fine motor skills in right hand. Grip strength improved by 10%.",
			PatientResponses: []domain.SessionResponse{
				{
					Question:   "Pain level (1-10)?",
					Answer:     "About a 4, mostly stiff.",
					Timestamp:  now.Add(-7 * 24 * time.Hour),
					MoodRating: &mood6,
				},
			},
		},
		{
			ID:               "s5",
			PatientID:        "p4",
			Patient:          demoPatients[3],
			Date:             now,
			DurationMinutes:  90,
			Status:           domain.StatusOngoing,
			Modality:         domain.ModalityInPerson,
			ClinicalNotes:    "Session currently in progress. Focusing on exposure therapy.",
			PatientResponses: []domain.SessionResponse{},
		},
	}

	for _, s := range sessions {
		if err := repo.Append(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

var conditions = []string{
	"Generalized Anxiety Disorder",
	"Depression",
	"PTSD",
	"Post-Stroke Motor Recovery",
	"Chronic Lower Back Pain",
	"Insomnia",
	"Panic Disorder",
	"ACL Rehabilitation",
}

var modalities = []domain.Modality{
	domain.ModalityInPerson,
	domain.ModalityVideo,
	domain.ModalityPhone,
}

var seedableStatuses = []domain.SessionStatus{
	domain.StatusScheduled,
	domain.StatusCompleted,
	domain.StatusCancelled,
	domain.StatusMissed,
}

// Generate appends a synthetic roster of the given size. The same random
// seed always produces the same data.
func Generate(ctx context.Context, repo domain.SessionRepository, patientCount, sessionCount int, randomSeed uint64) error {
	faker := gofakeit.New(randomSeed)

	patients := make([]domain.Patient, patientCount)
	for i := range patients {
		name := faker.Name()
		patients[i] = domain.Patient{
			ID:        fmt.Sprintf("p%d", i+1),
			Name:      name,
			Age:       faker.Number(18, 85),
			Condition: conditions[faker.Number(0, len(conditions)-1)],
			Email:     faker.Email(),
			Phone:     faker.Phone(),
			AvatarURL: fmt.Sprintf("https://picsum.photos/100/100?random=%d", i+1),
		}
	}

	now := time.Now()
	for i := 0; i < sessionCount; i++ {
		patient := patients[faker.Number(0, len(patients)-1)]
		status := seedableStatuses[faker.Number(0, len(seedableStatuses)-1)]

		// Scheduled sessions sit in the future so the sweep leaves them alone
		var date time.Time
		if status == domain.StatusScheduled {
			date = now.Add(time.Duration(faker.Number(1, 14*24)) * time.Hour)
		} else {
			date = now.Add(-time.Duration(faker.Number(1, 30*24)) * time.Hour)
		}

		session := domain.Session{
			ID:               fmt.Sprintf("s%d", i+1),
			PatientID:        patient.ID,
			Patient:          patient,
			Date:             date,
			DurationMinutes:  faker.Number(1, 8) * 15,
			Status:           status,
			Modality:         modalities[faker.Number(0, len(modalities)-1)],
			PatientResponses: []domain.SessionResponse{},
		}
		if status == domain.StatusCompleted {
			session.ClinicalNotes = faker.Sentence(12)
			mood := faker.Number(1, 10)
			session.PatientResponses = append(session.PatientResponses, domain.SessionResponse{
				Question:   "How was your mood this week?",
				Answer:     faker.Sentence(8),
				Timestamp:  date.Add(time.Duration(session.DurationMinutes) * time.Minute),
				MoodRating: &mood,
			})
		}

		if err := repo.Append(ctx, session); err != nil {
			return err
		}
	}
	return nil
}
