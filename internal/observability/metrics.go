package observability

import "sync"

// TicketOutcome classifies what a pass did with one candidate ticket.
type TicketOutcome string

const (
	TicketOutcomeSent        TicketOutcome = "sent"
	TicketOutcomeNotEligible TicketOutcome = "not_eligible"
	TicketOutcomeNoSettings  TicketOutcome = "no_settings"
	TicketOutcomeMarkFailed  TicketOutcome = "mark_failed"
)

// Metrics provides basic in-memory counters for dispatch activity.
type Metrics struct {
	mu             sync.Mutex
	passCount      int64
	passErrorCount int64
	ticketOutcomes map[TicketOutcome]int64
	channelSends   map[string]int64
	channelErrors  map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		ticketOutcomes: make(map[TicketOutcome]int64),
		channelSends:   make(map[string]int64),
		channelErrors:  make(map[string]int64),
	}
}

// RecordPass counts one completed pass; failed reports whether the
// candidate listing aborted it.
func (m *Metrics) RecordPass(failed bool) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.passCount++
	if failed {
		m.passErrorCount++
	}
}

// RecordTicket counts one per-ticket outcome.
func (m *Metrics) RecordTicket(outcome TicketOutcome) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticketOutcomes[outcome]++
}

// RecordChannelSend counts one successful channel delivery.
func (m *Metrics) RecordChannelSend(channel string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channelSends[channel]++
}

// RecordChannelError counts one failed channel delivery.
func (m *Metrics) RecordChannelError(channel string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channelErrors[channel]++
}

// Snapshot returns a copy of all counters for the ops endpoint.
func (m *Metrics) Snapshot() map[string]int64 {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := map[string]int64{
		"passes":        m.passCount,
		"passes_failed": m.passErrorCount,
	}
	for outcome, n := range m.ticketOutcomes {
		out["tickets_"+string(outcome)] = n
	}
	for ch, n := range m.channelSends {
		out["channel_"+ch+"_sent"] = n
	}
	for ch, n := range m.channelErrors {
		out["channel_"+ch+"_failed"] = n
	}
	return out
}
