package main

import (
	"log/slog"

	"github.com/hayeah/ctxdump"
	"github.com/hayeah/ctxdump/internal/server"
)

// ProvideServer builds the HTTP front end for a session.
func ProvideServer(session *ctxdump.Session, logger *slog.Logger) (*server.Server, error) {
	return server.New(session, logger)
}
