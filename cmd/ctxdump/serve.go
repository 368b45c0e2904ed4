package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/hayeah/ctxdump/internal/server"
)

// ServeCmd defines the command-line arguments for the serve subcommand
type ServeCmd struct {
	CommonArgs
	Addr      string `arg:"--addr" help:"Listen address (default: 127.0.0.1:5000, or the config's addr)"`
	NoBrowser bool   `arg:"--no-browser" help:"Do not open the browser"`
}

// ServeRunner runs the browser UI until a selection is applied.
type ServeRunner struct {
	Args        ServeCmd
	Server      *server.Server
	Addr        string
	OpenBrowser bool
	Status      io.Writer
}

// NewServeRunner scans the root and prepares the server.
func NewServeRunner(cmd ServeCmd) (*ServeRunner, error) {
	cfg, err := cmd.LoadConfig()
	if err != nil {
		return nil, err
	}
	if cmd.Addr != "" {
		cfg.Addr = cmd.Addr
	}
	if cmd.NoBrowser {
		cfg.OpenBrowser = false
	}

	srv, err := InitServer(cfg)
	if err != nil {
		return nil, err
	}

	return &ServeRunner{
		Args:        cmd,
		Server:      srv,
		Addr:        cfg.Addr,
		OpenBrowser: cfg.OpenBrowser,
		Status:      os.Stderr,
	}, nil
}

// Run serves until the selection is applied or the process is interrupted.
func (r *ServeRunner) Run() error {
	url, err := r.Server.Listen(r.Addr)
	if err != nil {
		return err
	}

	logger := r.Server.Logger
	logger.Info("serving file selector", "url", url, "files", len(r.Server.Session.Files()))
	fmt.Fprintf(r.Status, "Open %s to select files\n", url)

	if r.OpenBrowser {
		server.OpenBrowserAfter(url, server.BrowserDelay, func(err error) {
			logger.Warn("could not open browser", "error", err)
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := r.Server.Serve(ctx); err != nil {
		return err
	}

	select {
	case <-r.Server.Session.Done():
		return r.Args.finish(r.Server.Session, r.Status)
	default:
		logger.Info("interrupted, nothing written")
		return nil
	}
}
