// Package ignore decides which directory entries a scan skips.
//
// Entry names are tested against two shell-glob pattern sets, one for
// directories and one for files. Optionally, path patterns with "**" support
// and the root's .gitignore rules are consulted as well.
package ignore

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/danwakefield/fnmatch"

	"github.com/hayeah/ctxdump/internal/pathutil"
)

// DefaultDirPatterns are directory names pruned from every scan unless the
// configuration replaces them.
var DefaultDirPatterns = []string{
	"venv",
	".idea",
	"__pycache__",
	".git",
	"node_modules",
	".*",
}

// DefaultFilePatterns are file names skipped by every scan unless the
// configuration replaces them.
var DefaultFilePatterns = []string{
	"detector.min.js",
	"Montserrat-Bold.ttf",
	"Montserrat-Regular.ttf",
	"Montserrat-SemiBold.ttf",
	"package-lock.json",
	".gitignore",
	"test_deploy.txt",
	"*.log",
	"*.csv",
	"*.txt",
	"*.jpg",
	"*.jpeg",
	"empty",
	"*.ico",
	"*.xlsx",
	"*.png",
}

// matchFlags follows the host filesystem's case convention. '*' crosses '/' so
// the same matcher works on full relative paths.
func matchFlags() int {
	flags := 0
	if runtime.GOOS == "windows" {
		flags |= fnmatch.FNM_CASEFOLD
	}
	return flags
}

// Match reports whether name matches the shell-glob pattern ('*', '?', '[seq]',
// '[!seq]').
//
// Only '*', '?' and a closed bracket expression are special. Backslash is an
// ordinary character, a '[' without a closing ']' matches itself, a ']' right
// after "[" or "[!" is a member of the class, and "[^...]" is a class that
// contains '^' rather than a negation.
func Match(pattern, name string) bool {
	return fnmatch.Match(translate(pattern), name, matchFlags())
}

// translate rewrites a glob into the escaped form fnmatch expects, spelling
// every character that is literal under the rules of Match with a backslash.
func translate(pattern string) string {
	p := []rune(pattern)
	var sb strings.Builder

	for i := 0; i < len(p); {
		c := p[i]
		switch c {
		case '*', '?':
			sb.WriteRune(c)
			i++

		case '[':
			end := classEnd(p, i)
			if end < 0 {
				sb.WriteString(`\[`)
				i++
				continue
			}

			sb.WriteRune('[')
			j := i + 1
			if p[j] == '!' {
				sb.WriteRune('!')
				j++
			}
			for ; j < end; j++ {
				switch p[j] {
				case '\\', ']', '^', '!', '[':
					sb.WriteRune('\\')
				}
				sb.WriteRune(p[j])
			}
			sb.WriteRune(']')
			i = end + 1

		case '\\':
			sb.WriteString(`\\`)
			i++

		default:
			sb.WriteRune(c)
			i++
		}
	}
	return sb.String()
}

// classEnd returns the index of the ']' closing the bracket expression that
// opens at p[start], or -1 when it is never closed.
func classEnd(p []rune, start int) int {
	j := start + 1
	if j < len(p) && p[j] == '!' {
		j++
	}
	if j < len(p) && p[j] == ']' {
		j++
	}
	for j < len(p) && p[j] != ']' {
		j++
	}
	if j >= len(p) {
		return -1
	}
	return j
}

// MatchPath matches a relative path against pattern using portable ('/')
// separators on both sides.
func MatchPath(pattern, path string) bool {
	return Match(strings.ReplaceAll(pattern, `\`, "/"), pathutil.ToPortable(path))
}

// PatternSet is an immutable set of glob patterns matched against bare names.
type PatternSet struct {
	patterns []string
}

// NewPatternSet copies patterns into a set, dropping blanks and duplicates.
func NewPatternSet(patterns ...string) PatternSet {
	seen := make(map[string]bool, len(patterns))
	ps := PatternSet{patterns: make([]string, 0, len(patterns))}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		ps.patterns = append(ps.patterns, p)
	}
	return ps
}

// Patterns returns a copy of the set's patterns.
func (ps PatternSet) Patterns() []string {
	return append([]string(nil), ps.patterns...)
}

// Len returns the number of patterns in the set.
func (ps PatternSet) Len() int {
	return len(ps.patterns)
}

// IsExcluded reports whether name matches at least one pattern.
func (ps PatternSet) IsExcluded(name string) bool {
	for _, p := range ps.patterns {
		if Match(p, name) {
			return true
		}
	}
	return false
}

// Filter combines everything a scan consults before yielding or descending.
type Filter struct {
	Dirs  PatternSet
	Files PatternSet

	// Paths are doublestar patterns matched against the portable relative
	// path of both directories and files.
	Paths []string

	// Git is nil unless gitignore rules are in effect.
	Git *Ignore
}

// DefaultFilter returns a Filter over the built-in pattern sets.
func DefaultFilter() *Filter {
	return &Filter{
		Dirs:  NewPatternSet(DefaultDirPatterns...),
		Files: NewPatternSet(DefaultFilePatterns...),
	}
}

// NewFilter validates the path patterns and builds a Filter.
func NewFilter(dirs, files, paths []string) (*Filter, error) {
	for _, p := range paths {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid path pattern '%s'", p)
		}
	}
	return &Filter{
		Dirs:  NewPatternSet(dirs...),
		Files: NewPatternSet(files...),
		Paths: append([]string(nil), paths...),
	}, nil
}

// WithGitignore loads the root's gitignore rules into the filter. Directories
// the filter already prunes are not searched for .gitignore files.
func (f *Filter) WithGitignore(root string) error {
	ig, err := LoadIgnore(root, f.SkipDir)
	if err != nil {
		return err
	}
	f.Git = ig
	return nil
}

// SkipDir reports whether the directory at relPath should be pruned.
func (f *Filter) SkipDir(relPath string) bool {
	if f == nil {
		return false
	}
	if f.Dirs.IsExcluded(filepath.Base(relPath)) {
		return true
	}
	return f.skipPath(relPath, true)
}

// SkipFile reports whether the file at relPath should be left out.
func (f *Filter) SkipFile(relPath string) bool {
	if f == nil {
		return false
	}
	if f.Files.IsExcluded(filepath.Base(relPath)) {
		return true
	}
	return f.skipPath(relPath, false)
}

func (f *Filter) skipPath(relPath string, isDir bool) bool {
	if len(f.Paths) > 0 {
		portable := pathutil.ToPortable(relPath)
		for _, p := range f.Paths {
			if ok, _ := doublestar.Match(p, portable); ok {
				return true
			}
		}
	}
	if f.Git != nil && f.Git.IsIgnored(relPath, isDir) {
		return true
	}
	return false
}
