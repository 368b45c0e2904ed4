package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLsRunner(t *testing.T) {
	root := createTestTree(t)

	t.Run("all files", func(t *testing.T) {
		runner, err := NewLsRunner(LsCmd{CommonArgs: CommonArgs{Root: root}})
		require.NoError(t, err)

		var buf bytes.Buffer
		runner.Out = &buf
		require.NoError(t, runner.Run())

		expected := "1. README.md\n" +
			"2. main.go\n" +
			"3. " + filepath.FromSlash("pkg/util.go") + "\n" +
			"4. " + filepath.FromSlash("web/app.js") + "\n"
		assert.Equal(t, expected, buf.String())
	})

	t.Run("with selection", func(t *testing.T) {
		runner, err := NewLsRunner(LsCmd{CommonArgs: CommonArgs{Root: root}, Select: "4 1-3 -*.md"})
		require.NoError(t, err)

		var buf bytes.Buffer
		runner.Out = &buf
		require.NoError(t, runner.Run())

		expected := "4. " + filepath.FromSlash("web/app.js") + "\n" +
			"2. main.go\n" +
			"3. " + filepath.FromSlash("pkg/util.go") + "\n"
		assert.Equal(t, expected, buf.String())
	})

	t.Run("bad selection", func(t *testing.T) {
		runner, err := NewLsRunner(LsCmd{CommonArgs: CommonArgs{Root: root}, Select: "9"})
		require.NoError(t, err)
		assert.EqualError(t, runner.Run(), "index 9 is out of bounds")
	})

	t.Run("root is not a directory", func(t *testing.T) {
		_, err := NewLsRunner(LsCmd{CommonArgs: CommonArgs{Root: filepath.Join(root, "main.go")}})
		assert.ErrorContains(t, err, "path is not a directory")
	})
}
