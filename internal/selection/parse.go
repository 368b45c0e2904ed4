// Package selection indexes the files below a root directory and evaluates
// selection expressions against that index.
//
// # Selection Syntax
//
// A selection is a whitespace-separated list of tokens, applied left to right
// to an initially empty, ordered, duplicate-free result:
//
//   - "-<glob>" removes every file selected so far whose relative path
//     (with '/' separators) matches the glob. Later tokens are unaffected.
//     "-5" is therefore the glob "5", never a negative number.
//   - "<start>-<end>" appends files start..end (1-based, inclusive).
//   - "<n>" appends file n (1-based).
//   - anything else is a path, resolved first relative to the index root and
//     then as a path relative to the working directory.
//
// Files that are already selected keep their original position.
package selection

import (
	"strconv"
	"strings"

	"github.com/hayeah/ctxdump/ignore"
)

// TokenKind is the syntactic class of one selection token.
type TokenKind int

const (
	TokenExclude TokenKind = iota
	TokenRange
	TokenIndex
	TokenPath
)

func (k TokenKind) String() string {
	switch k {
	case TokenExclude:
		return "exclude"
	case TokenRange:
		return "range"
	case TokenIndex:
		return "index"
	default:
		return "path"
	}
}

// Token is a classified selection token. Start and End are 1-based positions
// for TokenIndex and TokenRange (Start == End for an index); they are -1 when
// the number is too large to represent.
type Token struct {
	Kind    TokenKind
	Raw     string
	Pattern string
	Start   int
	End     int
}

// ParseToken classifies raw. Exclusion is checked first, then range, then
// index; everything else is a path.
func ParseToken(raw string) Token {
	if strings.HasPrefix(raw, "-") && len(raw) > 1 {
		return Token{Kind: TokenExclude, Raw: raw, Pattern: raw[1:]}
	}

	if startStr, endStr, ok := strings.Cut(raw, "-"); ok {
		if isDigits(startStr) && isDigits(endStr) {
			return Token{Kind: TokenRange, Raw: raw, Start: atoi(startStr), End: atoi(endStr)}
		}
	}

	if isDigits(raw) {
		n := atoi(raw)
		return Token{Kind: TokenIndex, Raw: raw, Start: n, End: n}
	}

	return Token{Kind: TokenPath, Raw: raw}
}

// Tokenize splits text on whitespace and classifies every token.
func Tokenize(text string) []Token {
	fields := strings.Fields(text)
	tokens := make([]Token, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, ParseToken(f))
	}
	return tokens
}

// Parse evaluates a selection against idx and returns the selected relative
// paths in order. The first invalid token aborts the whole selection with an
// *Error; no partial result is returned.
func Parse(text string, idx *Index) ([]string, error) {
	selected := newOrderedSet()
	for _, tok := range Tokenize(text) {
		if err := apply(selected, tok, idx); err != nil {
			return nil, err
		}
	}
	return selected.Values(), nil
}

func apply(selected *orderedSet, tok Token, idx *Index) error {
	switch tok.Kind {
	case TokenExclude:
		selected.RemoveFunc(func(path string) bool {
			return ignore.MatchPath(tok.Pattern, path)
		})

	case TokenRange, TokenIndex:
		if tok.Start < 1 || tok.Start > tok.End || tok.End > idx.Len() {
			return &Error{Kind: OutOfBounds, Token: tok.Raw}
		}
		for n := tok.Start; n <= tok.End; n++ {
			path, _ := idx.At(n)
			selected.Add(path)
		}

	case TokenPath:
		path, ok := idx.LookupRelative(tok.Raw)
		if !ok {
			path, ok = idx.LookupAbsolute(tok.Raw)
		}
		if !ok {
			return &Error{Kind: PathNotFound, Token: tok.Raw}
		}
		selected.Add(path)
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}
