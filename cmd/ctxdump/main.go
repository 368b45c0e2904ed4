package main

import (
	"fmt"
	"log"
	"os"

	"github.com/alexflint/go-arg"
)

// Args defines the command-line arguments with subcommands
type Args struct {
	Serve *ServeCmd `arg:"subcommand:serve" help:"Pick files in the browser and write the dump"`
	Pick  *PickCmd  `arg:"subcommand:pick" help:"Pick files in the terminal and write the dump"`
	Ls    *LsCmd    `arg:"subcommand:ls" help:"Print the numbered file list"`
	Dump  *DumpCmd  `arg:"subcommand:dump" help:"Write the dump for a selection expression"`
}

// Runner dispatches to the selected subcommand
type Runner struct {
	Args Args
}

// NewRunner creates and initializes a new Runner
func NewRunner(args Args) *Runner {
	return &Runner{Args: args}
}

// Run dispatches to the appropriate subcommand
func (r *Runner) Run() error {
	switch {
	case r.Args.Serve != nil:
		runner, err := NewServeRunner(*r.Args.Serve)
		if err != nil {
			return err
		}
		return runner.Run()
	case r.Args.Pick != nil:
		runner, err := NewPickRunner(*r.Args.Pick)
		if err != nil {
			return err
		}
		return runner.Run()
	case r.Args.Ls != nil:
		runner, err := NewLsRunner(*r.Args.Ls)
		if err != nil {
			return err
		}
		return runner.Run()
	case r.Args.Dump != nil:
		runner, err := NewDumpRunner(*r.Args.Dump)
		if err != nil {
			return err
		}
		return runner.Run()
	default:
		return fmt.Errorf("no subcommand specified, use 'serve', 'pick', 'ls', or 'dump'")
	}
}

func main() {
	var args Args
	parser := arg.MustParse(&args)

	if args.Serve == nil && args.Pick == nil && args.Ls == nil && args.Dump == nil {
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}

	if err := NewRunner(args).Run(); err != nil {
		log.Fatal(err)
	}
}
