package domain

// Patient represents a care recipient profile.
// Profiles are created on first booking and never edited in place; a session
// embeds a snapshot of the patient taken at creation time.
type Patient struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Age       int    `json:"age"`
	Condition string `json:"condition"` // e.g. "Post-Stroke Motor Recovery", "Generalized Anxiety Disorder"
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatar_url,omitempty"`
}
