// Package notify reports scan outcomes to a human.
package notify

// Notifier delivers a short outcome message. Implementations must never
// fail: outcome reporting is best effort and may not interrupt the run.
type Notifier interface {
	Notify(title string, message string, isError bool)
}
