// Package ctxdump assembles "context bundles": a numbered listing of the files
// below a directory, a selection over that listing, and a single text file
// holding the selected files' contents.
package ctxdump

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hayeah/ctxdump/internal/selection"
)

// ErrAlreadyApplied is returned by Apply once a dump has been written.
var ErrAlreadyApplied = errors.New("selection already applied")

// Session owns the index of one root for one interactive selection. Parse may
// be called concurrently; Apply writes the dump at most once.
type Session struct {
	Root   string
	Output string
	Index  *selection.Index
	Dumper *Dumper
	Logger *slog.Logger

	mu      sync.Mutex
	applied bool
	done    chan struct{}
}

// NewSession wires a session from its parts.
func NewSession(cfg *Config, idx *selection.Index, dumper *Dumper, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		Root:   cfg.Root,
		Output: cfg.Output,
		Index:  idx,
		Dumper: dumper,
		Logger: logger,
		done:   make(chan struct{}),
	}
}

// Files returns the numbered file list.
func (s *Session) Files() []string {
	return s.Index.Files()
}

// Parse evaluates a selection expression.
func (s *Session) Parse(text string) ([]string, error) {
	files, err := selection.Parse(text, s.Index)
	if err != nil {
		s.Logger.Debug("selection rejected", "text", text, "error", err)
		return nil, err
	}
	return files, nil
}

// Indices maps selected paths to their 0-based positions in the listing.
func (s *Session) Indices(files []string) []int {
	indices := make([]int, 0, len(files))
	for _, f := range files {
		if i, ok := s.Index.Position(f); ok {
			indices = append(indices, i)
		}
	}
	return indices
}

// FilesAt maps 0-based positions back to paths, rejecting positions outside
// the listing.
func (s *Session) FilesAt(indices []int) ([]string, error) {
	files := make([]string, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= s.Index.Len() {
			return nil, fmt.Errorf("index out of range: %d", i)
		}
		path, _ := s.Index.At(i + 1)
		files = append(files, path)
	}
	return files, nil
}

// Apply dumps files to the session's output. After the first successful call
// Done is closed and further calls return ErrAlreadyApplied. A failed dump may
// be retried.
func (s *Session) Apply(files []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.applied {
		return ErrAlreadyApplied
	}

	if err := s.Dumper.DumpFile(files, s.Output); err != nil {
		s.Logger.Error("dump failed", "output", s.Output, "error", err)
		return err
	}

	s.Logger.Info("dump written", "output", s.Output, "files", len(files))
	s.applied = true
	close(s.done)
	return nil
}

// Done is closed after a successful Apply.
func (s *Session) Done() <-chan struct{} {
	return s.done
}
