package cmd

import (
	"context"

	"github.com/pseudomuto/dwh/pkg/executor"
	"github.com/pseudomuto/dwh/pkg/schema"
	"github.com/urfave/cli/v3"
)

// createTables drops and recreates the staging and mart schemas and tables.
//
// Example usage:
//
//	# Print the statements without connecting
//	dwh create-tables --dry-run
//
//	# Recreate everything on the cluster
//	dwh create-tables
func createTables(d deps) *cli.Command {
	return &cli.Command{
		Name:  "create-tables",
		Usage: "Drop and recreate the staging and mart tables",
		Description: `Drops both schemas and all seven tables and creates them again. Every
statement is committed as it runs; the first failure stops the sequence and the
report shows which statements were applied.`,
		Before: requireConfig(d.Config),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "print the statements instead of executing them",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := output(cmd)
			if cmd.Bool("dry-run") {
				return executor.WritePlan(w, schema.Plan())
			}

			log := d.runLogger(cmd)
			conn, err := d.connect(ctx, log)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close(ctx) }()

			results, err := schema.New(conn, log).Provision(ctx)
			executor.WriteResults(w, results)
			return err
		},
	}
}
