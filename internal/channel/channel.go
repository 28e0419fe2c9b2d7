package channel

import "context"

// Content is the composed message handed to a channel. Each channel
// picks the representation it can carry.
type Content struct {
	Subject string
	HTML    string
	Text    string
}

// Channel is a best-effort sender with its own failure domain. A
// returned error is logged and counted by the caller; it never blocks
// the other channel or the ticket flag update.
type Channel interface {
	Name() string
	Send(ctx context.Context, destination string, content Content) error
}
