package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

const (
	gitDir          = ".git"
	gitignoreFile   = ".gitignore"
	infoExcludeFile = gitDir + "/info/exclude"
)

// Ignore encapsulates gitignore pattern matching for one scan root.
type Ignore struct {
	matcher  gitignore.Matcher
	patterns []gitignore.Pattern
	rootPath string
}

// NewIgnore reads every .gitignore below rootPath (plus .git/info/exclude)
// into a single matcher.
func NewIgnore(rootPath string) (*Ignore, error) {
	return LoadIgnore(rootPath, nil)
}

// LoadIgnore is NewIgnore with a directory filter. Directories for which
// skipDir returns true are neither descended into nor read, and neither are
// symlinked or unreadable ones. Only a failure to list rootPath itself is an
// error.
func LoadIgnore(rootPath string, skipDir func(relPath string) bool) (*Ignore, error) {
	fs := osfs.New(rootPath)
	entries, err := fs.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to read gitignore patterns: %w", err)
	}

	l := &patternLoader{fs: fs, skipDir: skipDir}
	l.patterns = l.readFile(nil, infoExcludeFile)
	l.visit(nil, entries)

	return &Ignore{
		matcher:  gitignore.NewMatcher(l.patterns),
		patterns: l.patterns,
		rootPath: rootPath,
	}, nil
}

// IsIgnored reports whether relPath (relative to the root the Ignore was built
// for) is ignored by gitignore rules.
func (ig *Ignore) IsIgnored(relPath string, isDir bool) bool {
	if relPath == "" || relPath == "." {
		return false
	}

	parts := strings.Split(relPath, string(os.PathSeparator))
	return ig.matcher.Match(parts, isDir)
}

// RootPath returns the directory the patterns were loaded from.
func (ig *Ignore) RootPath() string {
	return ig.rootPath
}

type patternLoader struct {
	fs       billy.Filesystem
	skipDir  func(relPath string) bool
	patterns []gitignore.Pattern
}

// visit collects dir's .gitignore, then recurses into its subdirectories in
// name order. Patterns end up in ascending priority.
func (l *patternLoader) visit(dir []string, entries []os.FileInfo) {
	l.patterns = append(l.patterns, l.readFile(dir, gitignoreFile)...)

	for _, fi := range entries {
		// ReadDir lstats, so symlinked directories are not IsDir
		if !fi.IsDir() || fi.Name() == gitDir {
			continue
		}

		sub := append(dir[:len(dir):len(dir)], fi.Name())
		if l.skipDir != nil && l.skipDir(filepath.Join(sub...)) {
			continue
		}
		if gitignore.NewMatcher(l.patterns).Match(sub, true) {
			continue
		}

		subEntries, err := l.fs.ReadDir(l.fs.Join(sub...))
		if err != nil {
			continue
		}
		l.visit(sub, subEntries)
	}
}

// readFile parses one ignore file. A missing or unreadable file contributes
// no patterns.
func (l *patternLoader) readFile(dir []string, name string) []gitignore.Pattern {
	f, err := l.fs.Open(l.fs.Join(append(dir[:len(dir):len(dir)], name)...))
	if err != nil {
		return nil
	}
	defer f.Close()

	var ps []gitignore.Pattern
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		ps = append(ps, gitignore.ParsePattern(line, dir))
	}
	return ps
}
