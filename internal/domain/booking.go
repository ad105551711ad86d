package domain

// NewPatientInput carries inline profile fields for a first-time booking
type NewPatientInput struct {
	Name      string `json:"name" validate:"required,max=200"`
	Age       int    `json:"age" validate:"min=0,max=150"`
	Condition string `json:"condition" validate:"required,max=500"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Phone     string `json:"phone" validate:"required,max=50"`
}

// BookingInput represents an appointment request. Exactly one of PatientID
// and NewPatient must be set; NewPatient wins when both are present.
type BookingInput struct {
	PatientID       string           `json:"patient_id,omitempty"`
	NewPatient      *NewPatientInput `json:"new_patient,omitempty"`
	Date            string           `json:"date" validate:"required,datetime=2006-01-02"`
	Time            string           `json:"time" validate:"required,datetime=15:04"`
	DurationMinutes int              `json:"duration_minutes" validate:"required,min=1,max=480"`
	Modality        Modality         `json:"modality" validate:"required,oneof=In-Person Video Phone"`
	ClinicalNotes   string           `json:"clinical_notes,omitempty" validate:"max=10000"`
}

// RescheduleInput carries the new date and time for an existing session
type RescheduleInput struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	Time string `json:"time" validate:"required,datetime=15:04"`
}

// ResponseInput records a patient-reported answer during or after a session
type ResponseInput struct {
	Question   string `json:"question" validate:"required,max=1000"`
	Answer     string `json:"answer" validate:"required,max=5000"`
	MoodRating *int   `json:"mood_rating,omitempty"`
}
