// Package pathutil canonicalizes path strings so that differently spelled
// references to the same file compare equal.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Normalize returns the lexical canonical form of path: "." and ".." segments
// are resolved, repeated separators collapsed, and forward slashes converted to
// the host separator. Normalize("") is ".".
func Normalize(path string) string {
	return filepath.Clean(filepath.FromSlash(path))
}

// ToPortable is Normalize with every separator forced to '/'. It is only used
// for glob matching so that patterns are written the same way on every platform.
func ToPortable(path string) string {
	return strings.ReplaceAll(Normalize(path), `\`, "/")
}

// Abs resolves path against the current working directory and normalizes it.
func Abs(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return Normalize(abs), nil
}

// Same reports whether a and b normalize to the same path.
func Same(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
