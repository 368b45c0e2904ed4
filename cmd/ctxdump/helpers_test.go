package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// createTestTree lays out a small project and returns its root.
func createTestTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	for rel, content := range map[string]string{
		"main.go":           "package main\n",
		"README.md":         "# demo\n",
		"notes.txt":         "excluded by default\n",
		"pkg/util.go":       "package pkg\n",
		"pkg/logo.png":      "png",
		"web/app.js":        "console.log(1)\n",
		".git/HEAD":         "ref: refs/heads/main\n",
		"node_modules/x.js": "x",
	} {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}
