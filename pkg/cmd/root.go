package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dwh/pkg/config"
	"github.com/pseudomuto/dwh/pkg/consts"
	"github.com/pseudomuto/dwh/pkg/logging"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type (
	Params struct {
		fx.In

		Commands []*cli.Command `group:"commands"`
		Logger   *logrus.Logger
		Version  *Version
	}

	Version struct {
		Version   string
		Commit    string
		Timestamp string
	}

	// CLI is the dwh command line application.
	CLI struct {
		root *cli.Command
		log  logrus.FieldLogger
	}
)

// New creates the dwh CLI application from the registered commands.
//
// Global Flags:
//   - --log-level: logrus level (debug, info, warn, error). Also read from DWH_LOG_LEVEL.
//
// The configuration file is located through DWH_CONFIG (default dwh.yaml) while the fx
// graph is built, so commands receive an already loaded *config.Config (or nil when the
// file doesn't exist).
//
// Example usage:
//
//	dwh start-cluster
//	dwh --log-level debug create-tables
//	dwh etl --dry-run
//	dwh list-bucket-contents s3://udacity-dend/log_data
func New(p Params) *CLI {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Writer, "Version:", p.Version.Version)
		fmt.Fprintln(cmd.Writer, "Commit:", p.Version.Commit)
		fmt.Fprintln(cmd.Writer, "Date:", p.Version.Timestamp)
	}

	root := &cli.Command{
		Name:  "dwh",
		Usage: "Provision a Redshift warehouse and load the song play data mart",
		Description: `dwh manages the lifecycle of a Redshift cluster and the IAM role it uses to
read from S3, creates the staging and mart tables, and runs the load-and-transform
pipeline that fills the star schema from the raw event and song logs.`,
		Version: p.Version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "the log level (debug, info, warn, error)",
				Sources: cli.EnvVars(consts.EnvPrefix + "LOG_LEVEL"),
				Value:   consts.DefaultLogLevel,
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return ctx, logging.SetLevel(p.Logger, cmd.String("log-level"))
		},
		Commands: p.Commands,
	}

	return &CLI{root: root, log: p.Logger}
}

// Command returns the root command.
func (c *CLI) Command() *cli.Command {
	return c.root
}

// Run executes the command selected by args and returns the process exit code: 0 on
// success, 1 when the command failed.
//
// Commands run on the caller's goroutine with ctx, so they are bounded only by their own
// timeouts and by ctx's cancellation.
func (c *CLI) Run(ctx context.Context, args []string) int {
	if err := c.root.Run(ctx, args); err != nil {
		c.log.WithError(err).Error("Error running command")
		return 1
	}

	return 0
}

func requireConfig(cfg *config.Config) func(context.Context, *cli.Command) (context.Context, error) {
	return func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		if cfg == nil {
			return ctx, errors.Errorf("config file not found (set %sCONFIG or create %s)", consts.EnvPrefix, consts.DefaultConfigFile)
		}

		return ctx, cfg.Validate()
	}
}
