package notify

import (
	"context"
	"io"
	"os"

	"waterx/internal/logger"
)

// ConsoleNotifier prints notices as single status lines.
// Errors go to errOut, everything else to out.
type ConsoleNotifier struct {
	out    io.Writer
	errOut io.Writer
}

// NewConsoleNotifier creates a console notifier; nil writers default to stdout/stderr.
func NewConsoleNotifier(out, errOut io.Writer) *ConsoleNotifier {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return &ConsoleNotifier{out: out, errOut: errOut}
}

// Name returns the notifier name
func (c *ConsoleNotifier) Name() string { return "console" }

// IsEnabled always returns true
func (c *ConsoleNotifier) IsEnabled() bool { return true }

// Send writes the event message with a severity marker
func (c *ConsoleNotifier) Send(_ context.Context, event *Event) error {
	switch event.Severity {
	case SeveritySuccess:
		logger.Fsuccess(c.out, "%s", event.Message)
	case SeverityWarning:
		logger.Fwarning(c.out, "%s", event.Message)
	case SeverityError:
		logger.Ferror(c.errOut, "%s", event.Message)
	default:
		logger.Finfo(c.out, "%s", event.Message)
	}
	return nil
}
