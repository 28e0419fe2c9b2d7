package domain

import "time"

// ReviewSettings is the per-tenant review request policy. A tenant
// without a settings row never has its tickets processed.
type ReviewSettings struct {
	BusinessID         string
	EnableExternal     bool
	EnableInternal     bool
	ExternalReviewLink *string
	DelayMinutes       int
	SendEmail          bool
	SendSMS            bool
	UpdatedAt          time.Time
}

// ReviewSubmission is an internal review left by a customer through the
// link embedded in a review request. At most one per ticket.
type ReviewSubmission struct {
	ID         string
	TicketID   string
	BusinessID string
	Rating     int
	Comment    *string
	CreatedAt  time.Time
}
