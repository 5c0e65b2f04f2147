package notify

import (
	"github.com/gen2brain/beeep"
)

// DesktopNotifier decorates another Notifier with a desktop notification.
// Desktop delivery is optional: when the environment has no notification
// surface the failure is swallowed and the delegate's output stands alone.
type DesktopNotifier struct {
	delegate Notifier
}

// NewDesktopNotifier wraps delegate with desktop notification delivery.
func NewDesktopNotifier(delegate Notifier) *DesktopNotifier {
	return &DesktopNotifier{delegate: delegate}
}

// Notify forwards the outcome to the delegate, then raises a desktop
// notification. Errors from the desktop surface are discarded.
func (notifier *DesktopNotifier) Notify(title string, message string, isError bool) {
	notifier.delegate.Notify(title, message, isError)
	if isError {
		_ = beeep.Alert(title, message, "")
		return
	}
	_ = beeep.Notify(title, message, "")
}

var _ Notifier = (*DesktopNotifier)(nil)
