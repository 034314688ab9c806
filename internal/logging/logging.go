// Package logging builds the process logger and prints colored status lines.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow, color.Bold)
	errColor  = color.New(color.FgRed, color.Bold)
)

// New returns a text logger on w; verbose enables debug records.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String(a.Key, a.Value.Time().Format(time.TimeOnly))
			}
			return a
		},
	})
	return slog.New(handler)
}

// Setup installs a stderr logger as the slog default.
func Setup(verbose bool) *slog.Logger {
	l := New(os.Stderr, verbose)
	slog.SetDefault(l)
	return l
}

// Status prints a green "✅ msg" line.
func Status(w io.Writer, format string, args ...any) {
	_, _ = okColor.Fprintf(w, "✅ "+format+"\n", args...)
}

// Warn prints a yellow warning line.
func Warn(w io.Writer, msg string, err error) {
	_, _ = warnColor.Fprintf(w, "⚠️  %s: %v\n", msg, err)
}

// Error prints the red "❌ err" line the commands end with on failure.
func Error(w io.Writer, err error) {
	_, _ = errColor.Fprintln(w, "❌", err)
}

// Wrote reports a written file.
func Wrote(w io.Writer, path string) {
	Status(w, "Wrote %s", path)
}

// DisableColor turns colors off on request. fatih/color already disables
// them when stdout is not a terminal or NO_COLOR is set.
func DisableColor(off bool) {
	color.NoColor = color.NoColor || off
}
