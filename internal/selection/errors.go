package selection

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a selection failure.
type Kind int

const (
	OutOfBounds  Kind = iota + 1 // index or range outside [1, len]
	PathNotFound                 // path literal not in the index
)

func (k Kind) String() string {
	switch k {
	case OutOfBounds:
		return "out_of_bounds"
	case PathNotFound:
		return "path_not_found"
	default:
		return "unknown"
	}
}

// Error reports the token that made a selection invalid.
type Error struct {
	Kind  Kind
	Token string
}

func (e *Error) Error() string {
	switch e.Kind {
	case OutOfBounds:
		if strings.Contains(e.Token, "-") {
			return fmt.Sprintf("range %s is out of bounds", e.Token)
		}
		return fmt.Sprintf("index %s is out of bounds", e.Token)
	case PathNotFound:
		return fmt.Sprintf("path not found: %s", e.Token)
	default:
		return fmt.Sprintf("invalid selection token: %s", e.Token)
	}
}

// IsOutOfBounds reports whether err is a selection OutOfBounds error.
func IsOutOfBounds(err error) bool {
	var selErr *Error
	return errors.As(err, &selErr) && selErr.Kind == OutOfBounds
}

// IsPathNotFound reports whether err is a selection PathNotFound error.
func IsPathNotFound(err error) bool {
	var selErr *Error
	return errors.As(err, &selErr) && selErr.Kind == PathNotFound
}
