//go:build wireinject

package ctxdump

import (
	"github.com/google/wire"
)

// InitSession builds a Session for cfg.
func InitSession(cfg *Config) (*Session, error) {
	panic(wire.Build(Wires))
}
