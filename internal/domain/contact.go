package domain

// ContactSubmission is one contact-form post.
type ContactSubmission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ContactRecord is the persisted audit entry for a submission.
type ContactRecord struct {
	PK           string
	SK           string
	SubmissionID string
	Name         string
	Email        string
	Subject      string
	Message      string
	ReceivedAt   string
	TTL          int64
}
