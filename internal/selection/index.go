package selection

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/hayeah/ctxdump/ignore"
	"github.com/hayeah/ctxdump/internal/pathutil"
)

// Index is a read-only snapshot of the files below a root. The order of Files
// defines the 1-based numbering users select by.
type Index struct {
	root       string
	files      []string
	position   map[string]int
	byRelative map[string]string // normalized relative path -> original
	byAbsolute map[string]string // normalized absolute path -> original
}

// BuildIndex scans root with filter and indexes the result.
func BuildIndex(root string, filter *ignore.Filter) (*Index, error) {
	return BuildIndexWithLogger(root, filter, nil)
}

// BuildIndexWithLogger is BuildIndex with scan diagnostics sent to logger.
func BuildIndexWithLogger(root string, filter *ignore.Filter, logger *slog.Logger) (*Index, error) {
	scanner := NewScanner(root, filter)
	scanner.Logger = logger

	files, err := scanner.Files()
	if err != nil {
		return nil, err
	}
	return NewIndex(root, files)
}

// NewIndex indexes an already collected list of root-relative paths. Later
// duplicates of a normalized path are dropped.
func NewIndex(root string, files []string) (*Index, error) {
	idx := &Index{
		root:       root,
		files:      make([]string, 0, len(files)),
		position:   make(map[string]int, len(files)),
		byRelative: make(map[string]string, len(files)),
		byAbsolute: make(map[string]string, len(files)),
	}

	for _, relPath := range files {
		normRel := pathutil.Normalize(relPath)
		if _, dup := idx.byRelative[normRel]; dup {
			continue
		}

		absPath, err := pathutil.Abs(filepath.Join(root, relPath))
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", relPath, err)
		}

		idx.position[relPath] = len(idx.files)
		idx.files = append(idx.files, relPath)
		idx.byRelative[normRel] = relPath
		idx.byAbsolute[absPath] = relPath
	}

	return idx, nil
}

// Root returns the directory the index was built from.
func (idx *Index) Root() string { return idx.root }

// Len returns the number of indexed files.
func (idx *Index) Len() int { return len(idx.files) }

// Files returns a copy of the ordered file list.
func (idx *Index) Files() []string {
	return append([]string(nil), idx.files...)
}

// At returns the file at 1-based position n.
func (idx *Index) At(n int) (string, bool) {
	if n < 1 || n > len(idx.files) {
		return "", false
	}
	return idx.files[n-1], true
}

// Position returns the 0-based position of an indexed path.
func (idx *Index) Position(relPath string) (int, bool) {
	i, ok := idx.position[relPath]
	return i, ok
}

// LookupRelative resolves a root-relative spelling of a path.
func (idx *Index) LookupRelative(path string) (string, bool) {
	rel, ok := idx.byRelative[pathutil.Normalize(path)]
	return rel, ok
}

// LookupAbsolute resolves path against the process working directory (not the
// index root) and looks the result up by absolute location.
func (idx *Index) LookupAbsolute(path string) (string, bool) {
	abs, err := pathutil.Abs(path)
	if err != nil {
		return "", false
	}
	rel, ok := idx.byAbsolute[abs]
	return rel, ok
}
