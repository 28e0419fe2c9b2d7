package dto

import "time"

// SubmitReviewRequest payload.
type SubmitReviewRequest struct {
	Token   string `json:"token"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ReviewResponse response.
type ReviewResponse struct {
	ID         string    `json:"id"`
	TicketID   string    `json:"ticket_id"`
	BusinessID string    `json:"business_id"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
