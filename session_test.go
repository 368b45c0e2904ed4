package ctxdump

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayeah/ctxdump/internal/metrics"
	"github.com/hayeah/ctxdump/internal/selection"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()

	root := createTestDirectory(t, map[string]string{
		"a.go":      "A",
		"b.go":      "B",
		"sub/c.go":  "C",
		"sub/d.md":  "D",
		"notes.txt": "excluded",
		".git/HEAD": "excluded",
	})

	cfg := DefaultConfig(root)
	cfg.Output = filepath.Join(t.TempDir(), "out.txt")

	filter, err := cfg.Filter()
	require.NoError(t, err)
	idx, err := selection.BuildIndex(root, filter)
	require.NoError(t, err)

	return NewSession(cfg, idx, NewDumper(root), nil)
}

func TestSession_Files(t *testing.T) {
	s := newTestSession(t)
	assert.Equal(t, []string{
		"a.go",
		"b.go",
		filepath.FromSlash("sub/c.go"),
		filepath.FromSlash("sub/d.md"),
	}, s.Files())
}

func TestSession_ParseAndIndices(t *testing.T) {
	assert := assert.New(t)
	s := newTestSession(t)

	files, err := s.Parse("4 1-3 -*.md")
	assert.NoError(err)
	assert.Equal([]string{"a.go", "b.go", filepath.FromSlash("sub/c.go")}, files)
	assert.Equal([]int{0, 1, 2}, s.Indices(files))

	files, err = s.Parse("9")
	assert.Error(err)
	assert.Nil(files)
	assert.True(selection.IsOutOfBounds(err))
}

func TestSession_FilesAt(t *testing.T) {
	assert := assert.New(t)
	s := newTestSession(t)

	files, err := s.FilesAt([]int{3, 0})
	assert.NoError(err)
	assert.Equal([]string{filepath.FromSlash("sub/d.md"), "a.go"}, files)

	_, err = s.FilesAt([]int{4})
	assert.EqualError(err, "index out of range: 4")

	_, err = s.FilesAt([]int{-1})
	assert.Error(err)
}

func TestSession_ApplyOnce(t *testing.T) {
	assert := assert.New(t)
	s := newTestSession(t)

	select {
	case <-s.Done():
		t.Fatal("done before apply")
	default:
	}

	assert.NoError(s.Apply([]string{"b.go"}))

	data, err := os.ReadFile(s.Output)
	assert.NoError(err)
	assert.Equal("file listing b.go:\nB\n-------------\n", string(data))

	select {
	case <-s.Done():
	default:
		t.Fatal("done not closed after apply")
	}

	assert.ErrorIs(s.Apply([]string{"a.go"}), ErrAlreadyApplied)

	data, err = os.ReadFile(s.Output)
	assert.NoError(err)
	assert.Equal("file listing b.go:\nB\n-------------\n", string(data))
}

func TestSession_ApplyFailureCanBeRetried(t *testing.T) {
	assert := assert.New(t)
	s := newTestSession(t)

	good := s.Output
	s.Output = filepath.Join(t.TempDir(), "missing", "out.txt")
	assert.Error(s.Apply([]string{"a.go"}))

	select {
	case <-s.Done():
		t.Fatal("done closed after failed apply")
	default:
	}

	s.Output = good
	assert.NoError(s.Apply([]string{"a.go"}))
}

func TestSession_RetryAfterWriteFailureCountsFilesOnce(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	assert := assert.New(t)

	root := createTestDirectory(t, map[string]string{"a.go": "abcdefgh"})
	cfg := DefaultConfig(root)
	cfg.Output = "/dev/full"

	s, err := InitSession(cfg)
	require.NoError(t, err)

	assert.Error(s.Apply([]string{"a.go"}))

	s.Output = filepath.Join(t.TempDir(), "out.txt")
	assert.NoError(s.Apply([]string{"a.go"}))

	s.Dumper.Metrics.Wait()
	assert.Equal(8, s.Dumper.Metrics.SumBy(metrics.TypeFile).Bytes)
	assert.Equal(2, s.Dumper.Metrics.SumBy(metrics.TypeFile).Tokens)
}

func TestInitSession(t *testing.T) {
	assert := assert.New(t)

	root := createTestDirectory(t, map[string]string{
		"main.go":   "package main\n",
		"README.md": "# readme\n",
	})
	cfg, err := LoadConfig(root, "")
	require.NoError(t, err)
	cfg.Output = filepath.Join(t.TempDir(), "out.txt")

	s, err := InitSession(cfg)
	require.NoError(t, err)
	assert.Equal([]string{"README.md", "main.go"}, s.Files())
	assert.NotNil(s.Dumper.Metrics)

	assert.NoError(s.Apply(s.Files()))
	s.Dumper.Metrics.Wait()
	assert.Len(s.Dumper.Metrics.Items, 2)
}

func TestInitSession_UnknownEstimator(t *testing.T) {
	cfg := DefaultConfig(t.TempDir())
	cfg.TokenEstimator = "bogus"

	_, err := InitSession(cfg)
	assert.Error(t, err)
}
