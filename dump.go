package ctxdump

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/hayeah/ctxdump/internal/metrics"
)

// Separator is the line written after every dumped file.
const Separator = "-------------"

// Dumper writes selected files into a single listing.
type Dumper struct {
	Root string

	// Metrics, when set, receives the decoded content of every file read.
	Metrics *metrics.OutputMetrics
	Logger  *slog.Logger
}

// NewDumper creates a Dumper reading files below root.
func NewDumper(root string) *Dumper {
	return &Dumper{Root: root}
}

// Dump writes files (relative to root) into destination.
func Dump(root string, files []string, destination string) error {
	return NewDumper(root).DumpFile(files, destination)
}

// DumpFile creates destination and writes the listing into it. Only failures
// to create, write, or close destination are returned; unreadable files are
// reported inside the listing. Metrics are recorded only once destination has
// been closed successfully.
func (d *Dumper) DumpFile(files []string, destination string) error {
	out, err := os.Create(destination)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", destination, err)
	}

	read, err := d.write(out, files)
	if err != nil {
		out.Close()
		return fmt.Errorf("failed to write output file %s: %w", destination, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close output file %s: %w", destination, err)
	}

	d.record(read)
	return nil
}

// Write writes the listing for files to w. Each entry is a header line, the
// file's content (or an error line), and a separator line.
func (d *Dumper) Write(w io.Writer, files []string) error {
	read, err := d.write(w, files)
	if err != nil {
		return err
	}
	d.record(read)
	return nil
}

type dumpedFile struct {
	path    string
	content []byte
}

func (d *Dumper) write(w io.Writer, files []string) ([]dumpedFile, error) {
	bw := bufio.NewWriter(w)
	var read []dumpedFile

	for _, file := range files {
		fmt.Fprintf(bw, "file listing %s:\n", file)

		content, err := readLossy(filepath.Join(d.Root, file))
		if err != nil {
			d.logger().Debug("failed to read file", "path", file, "error", err)
			fmt.Fprintf(bw, "Error reading file %s: %v\n%s\n", file, err, Separator)
			continue
		}

		bw.Write(content)
		fmt.Fprintf(bw, "\n%s\n", Separator)
		read = append(read, dumpedFile{path: file, content: content})
	}

	if err := bw.Flush(); err != nil {
		return nil, err
	}
	return read, nil
}

func (d *Dumper) record(read []dumpedFile) {
	if d.Metrics == nil {
		return
	}
	for _, f := range read {
		d.Metrics.AddFile(f.path, f.content)
	}
}

// readLossy reads a whole file as UTF-8, replacing undecodable bytes with
// U+FFFD. Byte order marks and line endings are left as they are.
func readLossy(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(transform.NewReader(f, unicode.UTF8.NewDecoder()))
}

func (d *Dumper) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}
