package main

import (
	"fmt"
	"io"
	"os"

	"github.com/hayeah/ctxdump"
)

// LsCmd defines the command-line arguments for the ls subcommand
type LsCmd struct {
	CommonArgs
	Select string `arg:"-s,--select" help:"Only print the files a selection expression picks"`
}

// LsRunner prints the numbered file list.
type LsRunner struct {
	Args    LsCmd
	Session *ctxdump.Session
	Out     io.Writer
}

// NewLsRunner scans the root named by cmd.
func NewLsRunner(cmd LsCmd) (*LsRunner, error) {
	cfg, err := cmd.LoadConfig()
	if err != nil {
		return nil, err
	}
	session, err := ctxdump.InitSession(cfg)
	if err != nil {
		return nil, err
	}
	return &LsRunner{Args: cmd, Session: session, Out: os.Stdout}, nil
}

// Run writes one "N. path" line per file. Numbers are positions in the full
// listing, so they stay valid as selection input.
func (r *LsRunner) Run() error {
	files := r.Session.Files()

	if r.Args.Select != "" {
		selected, err := r.Session.Parse(r.Args.Select)
		if err != nil {
			return err
		}
		for i, pos := range r.Session.Indices(selected) {
			fmt.Fprintf(r.Out, "%d. %s\n", pos+1, selected[i])
		}
		return nil
	}

	for i, f := range files {
		fmt.Fprintf(r.Out, "%d. %s\n", i+1, f)
	}
	return nil
}
