package ports

import "context"

// Notifier delivers a rendered report to an external channel (chat, webhook).
// The engine produces data only; formatting happens in the caller before the
// message reaches this port.
type Notifier interface {
	// Send delivers one message. Returns an error if delivery fails.
	Send(ctx context.Context, text string) error
}
