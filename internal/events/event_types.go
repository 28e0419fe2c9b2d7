package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReviewRequestSent   EventType = "review_request_sent"
	EventReviewChannelFailed EventType = "review_channel_failed"
	EventReviewReceived      EventType = "review_received"
)

// Event represents a domain event emitted during review dispatch.
type Event struct {
	Type       EventType   `json:"type"`
	TicketID   string      `json:"ticket_id"`
	BusinessID string      `json:"business_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// ReviewRequestSentPayload payload.
type ReviewRequestSentPayload struct {
	EmailSent bool `json:"email_sent"`
	SMSSent   bool `json:"sms_sent"`
}

// ReviewChannelFailedPayload payload.
type ReviewChannelFailedPayload struct {
	Channel string `json:"channel"`
	Reason  string `json:"reason"`
}

// ReviewReceivedPayload payload.
type ReviewReceivedPayload struct {
	Rating int `json:"rating"`
}
