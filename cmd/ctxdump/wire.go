//go:build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/hayeah/ctxdump"
	"github.com/hayeah/ctxdump/internal/server"
)

func InitServer(cfg *ctxdump.Config) (*server.Server, error) {
	wire.Build(
		ctxdump.Wires,
		ProvideServer,
	)
	return nil, nil
}
