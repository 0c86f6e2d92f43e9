package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/pseudomuto/dwh/pkg/consts"
)

// LookupFunc matches os.LookupEnv so tests can supply their own environment.
type LookupFunc func(string) (string, bool)

// LoadDotEnv loads variables from the given .env files into the process environment.
// Files that don't exist are ignored; variables already set are never overwritten.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		if err := godotenv.Load(path); err != nil {
			return errors.Wrapf(err, "failed to load env file: %s", path)
		}
	}

	return nil
}

// ApplyEnv overrides configuration values with DWH_* environment variables.
//
// Supported variables:
//   - DWH_AWS_REGION, DWH_AWS_ACCESS_KEY_ID, DWH_AWS_SECRET_ACCESS_KEY, DWH_AWS_ENDPOINT
//   - DWH_CLUSTER_IDENTIFIER
//   - DWH_DB_HOST, DWH_DB_NAME, DWH_DB_USER, DWH_DB_PASSWORD, DWH_DB_PORT
//   - DWH_IAM_ROLE_NAME, DWH_IAM_ROLE_ARN
//
// A DWH_DB_PORT that isn't a number is reported as an error.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	strs := map[string]*string{
		"AWS_REGION":            &cfg.AWS.Region,
		"AWS_ACCESS_KEY_ID":     &cfg.AWS.AccessKeyID,
		"AWS_SECRET_ACCESS_KEY": &cfg.AWS.SecretAccessKey,
		"AWS_ENDPOINT":          &cfg.AWS.Endpoint,
		"CLUSTER_IDENTIFIER":    &cfg.Cluster.Identifier,
		"DB_HOST":               &cfg.Database.Host,
		"DB_NAME":               &cfg.Database.Name,
		"DB_USER":               &cfg.Database.User,
		"DB_PASSWORD":           &cfg.Database.Password,
		"IAM_ROLE_NAME":         &cfg.IAM.RoleName,
		"IAM_ROLE_ARN":          &cfg.IAM.RoleARN,
	}

	for name, field := range strs {
		if v, ok := lookup(consts.EnvPrefix + name); ok && v != "" {
			*field = v
		}
	}

	if v, ok := lookup(consts.EnvPrefix + "DB_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "invalid %sDB_PORT: %q", consts.EnvPrefix, v)
		}

		cfg.Database.Port = port
	}

	return nil
}
