package notify_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cortexdev/cortex/internal/notify"
)

func TestConsoleNotifierWritesTitleAndMessage(testingInstance *testing.T) {
	var outputBuffer bytes.Buffer
	notifier := notify.NewConsoleNotifier(&outputBuffer)

	notifier.Notify("Analysis complete", "Done! Snapshot created.", false)

	written := outputBuffer.String()
	assert.Contains(testingInstance, written, "Analysis complete")
	assert.Contains(testingInstance, written, "Done! Snapshot created.")
	// A plain buffer is not a terminal, so no color codes leak in.
	assert.NotContains(testingInstance, written, "\x1b[")
}

func TestConsoleNotifierErrorOutcome(testingInstance *testing.T) {
	var outputBuffer bytes.Buffer
	notifier := notify.NewConsoleNotifier(&outputBuffer)

	notifier.Notify("Fatal error", "The scan could not be completed.", true)

	written := outputBuffer.String()
	assert.Contains(testingInstance, written, "Fatal error")
	assert.Contains(testingInstance, written, "The scan could not be completed.")
}

// failingWriter rejects every write to prove notification never panics.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, assert.AnError
}

func TestConsoleNotifierSwallowsWriteFailures(testingInstance *testing.T) {
	notifier := notify.NewConsoleNotifier(failingWriter{})
	assert.NotPanics(testingInstance, func() {
		notifier.Notify("title", "message", true)
	})
}
