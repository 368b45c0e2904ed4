package selection

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hayeah/ctxdump/ignore"
)

// Scanner walks a root directory and reports root-relative paths of regular
// files.
//
// Directories are visited pre-order. Within one directory the files come
// first, in name order, followed by the contents of each subdirectory, also in
// name order. Excluded subdirectories are pruned before they are opened.
type Scanner struct {
	Root   string
	Filter *ignore.Filter
	Logger *slog.Logger
}

// NewScanner creates a Scanner for root. A nil filter excludes nothing.
func NewScanner(root string, filter *ignore.Filter) *Scanner {
	return &Scanner{
		Root:   root,
		Filter: filter,
	}
}

// Walk calls fn for every file that survives the filter. An error is returned
// only when the root itself cannot be read, or when fn fails. Returning
// fs.SkipAll from fn stops the walk without error. Subdirectories that cannot
// be read are treated as empty.
func (s *Scanner) Walk(fn func(relPath string) error) error {
	info, err := os.Stat(s.Root)
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", s.Root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", s.Root)
	}

	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", s.Root, err)
	}

	err = s.walkEntries("", entries, fn)
	if errors.Is(err, fs.SkipAll) {
		return nil
	}
	return err
}

// Files materializes the walk.
func (s *Scanner) Files() ([]string, error) {
	var files []string
	err := s.Walk(func(relPath string) error {
		files = append(files, relPath)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Seq returns the walk as a pull-style sequence. Each range over the sequence
// performs a fresh scan. A root error is yielded once with an empty path.
func (s *Scanner) Seq() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := s.Walk(func(relPath string) error {
			if !yield(relPath, nil) {
				return fs.SkipAll
			}
			return nil
		})
		if err != nil {
			yield("", err)
		}
	}
}

func (s *Scanner) walkDir(relDir string, fn func(string) error) error {
	entries, err := os.ReadDir(filepath.Join(s.Root, relDir))
	if err != nil {
		s.logger().Debug("skipping unreadable directory", "path", relDir, "error", err)
		return nil
	}
	return s.walkEntries(relDir, entries, fn)
}

func (s *Scanner) walkEntries(relDir string, entries []os.DirEntry, fn func(string) error) error {
	var dirs []string

	for _, entry := range entries {
		relPath := entry.Name()
		if relDir != "" {
			relPath = filepath.Join(relDir, entry.Name())
		}

		if s.isDir(entry, relPath) {
			if s.Filter.SkipDir(relPath) {
				continue
			}
			// symlinked directories are listed but never followed
			if entry.Type()&fs.ModeSymlink == 0 {
				dirs = append(dirs, relPath)
			}
			continue
		}

		if !s.isRegular(entry, relPath) {
			s.logger().Debug("skipping non-regular file", "path", relPath)
			continue
		}
		if s.Filter.SkipFile(relPath) {
			continue
		}
		if err := fn(relPath); err != nil {
			return err
		}
	}

	for _, dir := range dirs {
		if err := s.walkDir(dir, fn); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scanner) isDir(entry os.DirEntry, relPath string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(s.Root, relPath))
	return err == nil && info.IsDir()
}

// isRegular reports whether entry is a regular file or a symlink to one.
// Devices, pipes, sockets, and dangling links are not.
func (s *Scanner) isRegular(entry os.DirEntry, relPath string) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(s.Root, relPath))
	return err == nil && info.Mode().IsRegular()
}

func (s *Scanner) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
