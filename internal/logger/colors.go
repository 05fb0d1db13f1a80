package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// CLI output helpers using fatih/color for cross-platform support.
// The F* variants take an explicit writer so notifiers can be tested.

// Fsuccess prints a success message with green checkmark
func Fsuccess(w io.Writer, format string, args ...interface{}) {
	_, _ = SuccessColor.Fprint(w, "✓ ")
	fmt.Fprintln(w, fmt.Sprintf(format, args...))
}

// Ferror prints an error message with red X
func Ferror(w io.Writer, format string, args ...interface{}) {
	_, _ = ErrorColor.Fprint(w, "✗ ")
	fmt.Fprintln(w, fmt.Sprintf(format, args...))
}

// Fwarning prints a warning message with yellow exclamation
func Fwarning(w io.Writer, format string, args ...interface{}) {
	_, _ = WarnColor.Fprint(w, "⚠ ")
	fmt.Fprintln(w, fmt.Sprintf(format, args...))
}

// Finfo prints an info message with blue arrow
func Finfo(w io.Writer, format string, args ...interface{}) {
	_, _ = InfoColor.Fprint(w, "→ ")
	fmt.Fprintln(w, fmt.Sprintf(format, args...))
}

// Success prints a success message to stdout
func Success(format string, args ...interface{}) {
	Fsuccess(os.Stdout, format, args...)
}

// Error prints an error message to stderr
func Error(format string, args ...interface{}) {
	Ferror(os.Stderr, format, args...)
}

// Warning prints a warning message to stdout
func Warning(format string, args ...interface{}) {
	Fwarning(os.Stdout, format, args...)
}

// Info prints an info message to stdout
func Info(format string, args ...interface{}) {
	Finfo(os.Stdout, format, args...)
}

// Header prints a bold header
func Header(format string, args ...interface{}) {
	_, _ = HighlightColor.Println(fmt.Sprintf(format, args...))
}

// Dim prints dimmed/secondary text
func Dim(format string, args ...interface{}) {
	_, _ = DimColor.Println(fmt.Sprintf(format, args...))
}

// Bold returns bold text
func Bold(text string) string {
	return color.New(color.Bold).Sprint(text)
}

// Path returns an underlined path
func Path(text string) string {
	return PathColor.Sprint(text)
}

// StatusLine prints a key-value status line
func StatusLine(key, value string) {
	_, _ = DimColor.Printf("  %-12s ", key+":")
	fmt.Println(value)
}

// DisableColors disables all color output (for non-TTY or --no-color flag)
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables color output
func EnableColors() {
	color.NoColor = false
}

// IsColorEnabled returns whether colors are enabled
func IsColorEnabled() bool {
	return !color.NoColor
}
