package ctxdump

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hayeah/ctxdump/internal/metrics"
)

func createTestDirectory(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()

	for relPath, content := range files {
		path := filepath.Join(tempDir, filepath.FromSlash(relPath))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return tempDir
}

func TestDumper_Write(t *testing.T) {
	assert := assert.New(t)

	root := createTestDirectory(t, map[string]string{
		"a.go":     "package a\n",
		"sub/b.md": "# b",
	})

	var buf bytes.Buffer
	err := NewDumper(root).Write(&buf, []string{"a.go", filepath.FromSlash("sub/b.md")})
	assert.NoError(err)

	want := "file listing a.go:\n" +
		"package a\n" +
		"\n-------------\n" +
		"file listing " + filepath.FromSlash("sub/b.md") + ":\n" +
		"# b" +
		"\n-------------\n"
	assert.Equal(want, buf.String())
}

func TestDumper_MissingFileIsReportedInline(t *testing.T) {
	assert := assert.New(t)

	root := createTestDirectory(t, map[string]string{
		"a.go": "A",
		"b.go": "B",
		"c.go": "C",
	})
	assert.NoError(os.Remove(filepath.Join(root, "b.go")))

	dest := filepath.Join(t.TempDir(), "out.txt")
	assert.NoError(Dump(root, []string{"a.go", "b.go", "c.go"}, dest))

	data, err := os.ReadFile(dest)
	assert.NoError(err)
	out := string(data)

	assert.True(strings.HasPrefix(out, "file listing a.go:\nA\n-------------\nfile listing b.go:\nError reading file b.go: "))
	assert.True(strings.HasSuffix(out, "-------------\nfile listing c.go:\nC\n-------------\n"))
	assert.Equal(3, strings.Count(out, Separator+"\n"))
}

func TestDumper_DirectoryIsReportedInline(t *testing.T) {
	assert := assert.New(t)

	root := createTestDirectory(t, map[string]string{"dir/x.go": "x"})

	var buf bytes.Buffer
	assert.NoError(NewDumper(root).Write(&buf, []string{"dir"}))
	assert.Contains(buf.String(), "Error reading file dir: ")
	assert.True(strings.HasSuffix(buf.String(), "\n-------------\n"))
}

func TestDumper_InvalidUTF8IsReplaced(t *testing.T) {
	assert := assert.New(t)

	root := t.TempDir()
	assert.NoError(os.WriteFile(filepath.Join(root, "bin.dat"), []byte("ok\xffok"), 0644))

	var buf bytes.Buffer
	assert.NoError(NewDumper(root).Write(&buf, []string{"bin.dat"}))
	assert.Equal("file listing bin.dat:\nok�ok\n-------------\n", buf.String())
}

func TestDumper_PreservesLineEndings(t *testing.T) {
	assert := assert.New(t)

	root := createTestDirectory(t, map[string]string{"w.txt": "a\r\nb\r\n"})

	var buf bytes.Buffer
	assert.NoError(NewDumper(root).Write(&buf, []string{"w.txt"}))
	assert.Equal("file listing w.txt:\na\r\nb\r\n\n-------------\n", buf.String())
}

func TestDumper_EmptyList(t *testing.T) {
	assert := assert.New(t)

	dest := filepath.Join(t.TempDir(), "out.txt")
	assert.NoError(Dump(t.TempDir(), nil, dest))

	data, err := os.ReadFile(dest)
	assert.NoError(err)
	assert.Empty(data)
}

func TestDumper_UnwritableDestination(t *testing.T) {
	root := createTestDirectory(t, map[string]string{"a.go": "A"})

	err := Dump(root, []string{"a.go"}, filepath.Join(root, "missing-dir", "out.txt"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}

func TestDumper_RecordsMetrics(t *testing.T) {
	assert := assert.New(t)

	root := createTestDirectory(t, map[string]string{
		"a.go": strings.Repeat("a", 40),
		"b.go": strings.Repeat("b", 8),
	})

	m := metrics.NewOutputMetrics(&metrics.SimpleCounter{}, 2)
	d := &Dumper{Root: root, Metrics: m}

	var buf bytes.Buffer
	assert.NoError(d.Write(&buf, []string{"a.go", "missing.go", "b.go"}))
	m.Wait()

	assert.Len(m.Items, 2)
	assert.Equal(12, m.SumBy(metrics.TypeFile).Tokens)
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestDumper_FailedWriteRecordsNoMetrics(t *testing.T) {
	assert := assert.New(t)

	root := createTestDirectory(t, map[string]string{"a.go": strings.Repeat("a", 8)})

	m := metrics.NewOutputMetrics(&metrics.SimpleCounter{}, 1)
	d := &Dumper{Root: root, Metrics: m}

	assert.EqualError(d.Write(failingWriter{}, []string{"a.go"}), "disk full")

	var buf bytes.Buffer
	assert.NoError(d.Write(&buf, []string{"a.go"}))
	m.Wait()

	assert.Equal(metrics.MetricItem{Bytes: 8, Tokens: 2, Lines: 1}, m.SumBy(metrics.TypeFile))
}
