package config

import (
	"os"

	"github.com/pseudomuto/dwh/pkg/consts"
	"go.uber.org/fx"
)

// Path is the location of the configuration file.
type Path string

var Module = fx.Module("config", fx.Provide(
	func() Path {
		if p := os.Getenv(consts.EnvPrefix + "CONFIG"); p != "" {
			return Path(p)
		}

		return Path(consts.DefaultConfigFile)
	},
	// Function attempts to load the configuration if it exists. Returns nil if the file
	// doesn't exist, allowing commands that don't require config (like help and version)
	// to function properly.
	func(path Path) (*Config, error) {
		if err := LoadDotEnv(".env"); err != nil {
			return nil, err
		}

		if _, err := os.Stat(string(path)); os.IsNotExist(err) {
			return nil, nil
		}

		return LoadConfigFile(string(path))
	},
))
