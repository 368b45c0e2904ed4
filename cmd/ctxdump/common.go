package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"

	"github.com/hayeah/ctxdump"
	"github.com/hayeah/ctxdump/internal/metrics"
	"github.com/hayeah/ctxdump/internal/pathutil"
)

// CommonArgs are shared by every subcommand.
type CommonArgs struct {
	Root           string `arg:"positional" default:"." help:"Directory to scan"`
	Output         string `arg:"-o,--output" help:"Dump destination (default: file_listing.txt, or the config's output)"`
	Config         string `arg:"--config" help:"Config file (default: <root>/.ctxdump.toml if present)"`
	Gitignore      bool   `arg:"--gitignore" help:"Also skip paths ignored by the root's .gitignore"`
	Clipboard      bool   `arg:"--clipboard" help:"Copy the dump to the clipboard after writing it"`
	TokenEstimator string `arg:"--token-estimator" help:"Token count estimator: 'simple' (size/4) or 'tiktoken'"`
	Metrics        bool   `arg:"--metrics" help:"Print a per-file token breakdown after writing the dump"`
	Verbose        bool   `arg:"-v,--verbose" help:"Enable debug logging"`
}

// LoadConfig resolves the root and applies the flags over the config file.
func (a CommonArgs) LoadConfig() (*ctxdump.Config, error) {
	root, err := filepath.Abs(a.Root)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", a.Root, err)
	}
	if !pathutil.IsDir(root) {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	cfg, err := ctxdump.LoadConfig(root, a.Config)
	if err != nil {
		return nil, err
	}

	if a.Output != "" {
		cfg.Output = a.Output
	}
	if a.Gitignore {
		cfg.Gitignore = true
	}
	if a.TokenEstimator != "" {
		cfg.TokenEstimator = a.TokenEstimator
	}
	cfg.Verbose = a.Verbose
	return cfg, nil
}

// finish runs the post-dump steps the flags ask for. Status goes to w.
func (a CommonArgs) finish(session *ctxdump.Session, w io.Writer) error {
	if a.Metrics && session.Dumper.Metrics != nil {
		if err := metrics.WriteSummary(w, session.Dumper.Metrics, metrics.TermWidth()); err != nil {
			return err
		}
	}

	if a.Clipboard {
		data, err := os.ReadFile(session.Output)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", session.Output, err)
		}
		if err := clipboard.WriteAll(string(data)); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Fprintln(w, "Output copied to clipboard")
	}

	fmt.Fprintf(w, "Wrote %s\n", session.Output)
	return nil
}
