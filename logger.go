package ctxdump

import (
	"io"
	"log/slog"
	"os"

	"github.com/golang-cz/devslog"
	"golang.org/x/term"
)

// NewLogger returns a colored development logger when w is a terminal and a
// plain text logger otherwise.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return slog.New(devslog.NewHandler(w, &devslog.Options{
			HandlerOptions: opts,
			TimeFormat:     "[15:04:05]",
		}))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
