package cloud

import (
	"context"

	"github.com/pseudomuto/dwh/pkg/config"
	"go.uber.org/fx"
)

// Module provides *Clients. The clients are nil when no configuration was found, leaving
// commands to report the missing config through their Before hooks.
var Module = fx.Module("cloud", fx.Provide(
	func(cfg *config.Config) (*Clients, error) {
		if cfg == nil {
			return nil, nil
		}

		return New(context.Background(), cfg.AWS)
	},
))
