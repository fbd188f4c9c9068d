// Package notify delivers reminder notifications. A TriggerTable keeps the
// scheduled triggers in the key/value store, a Dispatcher fires the ones
// that are due, and a Desktop shows them using the platform's native
// mechanism (osascript on macOS, notify-send on Linux).
package notify

import "context"

// AppName is shown as the notification source where the platform supports it.
const AppName = "naamjap"

// Notification is one message to show.
type Notification struct {
	Title   string
	Message string
	Sound   bool
}

// Desktop shows notifications on the local machine.
type Desktop interface {
	// Send shows n. Sound is honoured where the platform allows it.
	Send(ctx context.Context, n Notification) error

	// IsSupported returns true if notifications can be shown on this platform.
	IsSupported() bool
}

type noopDesktop struct{}

func (noopDesktop) Send(context.Context, Notification) error { return nil }

func (noopDesktop) IsSupported() bool { return false }

// NewDesktop creates a platform-specific Desktop.
// Returns a no-op Desktop if the platform doesn't support notifications.
func NewDesktop() Desktop {
	d := newPlatformDesktop()
	if d == nil || !d.IsSupported() {
		return noopDesktop{}
	}
	return d
}
