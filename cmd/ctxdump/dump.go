package main

import (
	"io"
	"os"

	"github.com/hayeah/ctxdump"
)

// DumpCmd defines the command-line arguments for the dump subcommand
type DumpCmd struct {
	CommonArgs
	Select string `arg:"-s,--select,required" help:"Selection expression, e.g. \"1-5 8 -*.png\""`
}

// DumpRunner writes the dump without any interaction.
type DumpRunner struct {
	Args    DumpCmd
	Session *ctxdump.Session
	Status  io.Writer
}

// NewDumpRunner scans the root named by cmd.
func NewDumpRunner(cmd DumpCmd) (*DumpRunner, error) {
	cfg, err := cmd.LoadConfig()
	if err != nil {
		return nil, err
	}
	session, err := ctxdump.InitSession(cfg)
	if err != nil {
		return nil, err
	}
	return &DumpRunner{Args: cmd, Session: session, Status: os.Stderr}, nil
}

// Run parses the selection and writes the dump.
func (r *DumpRunner) Run() error {
	files, err := r.Session.Parse(r.Args.Select)
	if err != nil {
		return err
	}
	if err := r.Session.Apply(files); err != nil {
		return err
	}
	return r.Args.finish(r.Session, r.Status)
}
