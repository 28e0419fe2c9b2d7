package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen        TicketStatus = "OPEN"
	TicketStatusInProgress  TicketStatus = "IN_PROGRESS"
	TicketStatusPendingUser TicketStatus = "PENDING_USER"
	TicketStatusResolved    TicketStatus = "RESOLVED"
	TicketStatusClosed      TicketStatus = "CLOSED"
	TicketStatusCancelled   TicketStatus = "CANCELLED"
)

// Ticket is a resolved support interaction as seen by the dispatcher.
// The ticketing subsystem owns creation and status transitions; the
// dispatcher only reads rows and flips ReviewSent false->true.
type Ticket struct {
	ID              string
	BusinessID      string
	Status          TicketStatus
	CustomerEmail   *string
	CustomerPhone   *string
	ReviewSent      bool
	ReviewClaimedAt *time.Time
	CreatedAt       time.Time
	ResolvedAt      *time.Time
}
