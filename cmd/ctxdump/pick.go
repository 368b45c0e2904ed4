package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hayeah/ctxdump"
)

// PickCmd defines the command-line arguments for the pick subcommand
type PickCmd struct {
	CommonArgs
	Select string `arg:"-s,--select" help:"Initial selection expression"`
}

// PickRunner runs the terminal picker and writes the dump on confirm.
type PickRunner struct {
	Args    PickCmd
	Session *ctxdump.Session
	Status  io.Writer
}

// NewPickRunner scans the root named by cmd.
func NewPickRunner(cmd PickCmd) (*PickRunner, error) {
	cfg, err := cmd.LoadConfig()
	if err != nil {
		return nil, err
	}
	session, err := ctxdump.InitSession(cfg)
	if err != nil {
		return nil, err
	}
	return &PickRunner{Args: cmd, Session: session, Status: os.Stderr}, nil
}

// Run shows the picker. Aborting leaves the output untouched.
func (r *PickRunner) Run() error {
	m := newPickModel(r.Session)
	m.setExpression(r.Args.Select)

	// Render on stderr so stdout stays clean
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	finalM, ok := finalModel.(pickModel)
	if !ok {
		return fmt.Errorf("could not get final model state")
	}
	if finalM.exitState != ExitStateConfirm {
		fmt.Fprintln(r.Status, "Aborted, nothing written")
		return nil
	}

	if err := r.Session.Apply(finalM.selection); err != nil {
		return err
	}
	return r.Args.finish(r.Session, r.Status)
}
