package notify

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ConsoleNotifier writes outcome messages to a writer, normally stderr.
// Titles are colored when the writer is an interactive terminal.
type ConsoleNotifier struct {
	writer       io.Writer
	colorEnabled bool
}

// NewConsoleNotifier constructs a console notifier for the provided writer.
// Color is enabled only when the writer is a terminal.
func NewConsoleNotifier(writer io.Writer) *ConsoleNotifier {
	colorEnabled := false
	if fileWriter, isFile := writer.(*os.File); isFile {
		colorEnabled = isatty.IsTerminal(fileWriter.Fd()) || isatty.IsCygwinTerminal(fileWriter.Fd())
	}
	return &ConsoleNotifier{writer: writer, colorEnabled: colorEnabled}
}

// Notify prints the title followed by the message. Write errors are ignored.
func (notifier *ConsoleNotifier) Notify(title string, message string, isError bool) {
	renderedTitle := title
	if notifier.colorEnabled {
		if isError {
			renderedTitle = color.New(color.FgRed, color.Bold).Sprint(title)
		} else {
			renderedTitle = color.New(color.FgGreen, color.Bold).Sprint(title)
		}
	}
	fmt.Fprintf(notifier.writer, "%s\n%s\n", renderedTitle, message)
}

var _ Notifier = (*ConsoleNotifier)(nil)
