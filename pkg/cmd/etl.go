package cmd

import (
	"context"

	"github.com/pseudomuto/dwh/pkg/etl"
	"github.com/pseudomuto/dwh/pkg/executor"
	"github.com/pseudomuto/dwh/pkg/queries"
	"github.com/urfave/cli/v3"
)

// etlCmd loads the staging tables from S3 and fills the mart tables from them.
//
// The role used by COPY is iam.role_arn when configured, otherwise the ARN of the existing
// iam.role_name role. A dry run never calls AWS; without iam.role_arn it prints a
// placeholder ARN for the configured role name.
//
// Example usage:
//
//	dwh etl --dry-run
//	dwh etl
func etlCmd(d deps) *cli.Command {
	return &cli.Command{
		Name:   "etl",
		Usage:  "Load the staging tables from S3 and transform them into the star schema",
		Before: requireConfig(d.Config),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "print the statements instead of executing them",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := d.Config.ValidateStaging(); err != nil {
				return err
			}

			log := d.runLogger(cmd)
			w := output(cmd)

			dryRun := cmd.Bool("dry-run")

			arn, err := d.stagingRoleARN(ctx, log, dryRun)
			if err != nil {
				return err
			}

			params := queries.StagingParams{
				LogData:     d.Config.S3.LogData,
				LogJSONPath: d.Config.S3.LogJSONPath,
				SongData:    d.Config.S3.SongData,
				RoleARN:     arn,
				Region:      d.Config.S3.Region,
			}

			if dryRun {
				batches, err := etl.Plan(params)
				if err != nil {
					return err
				}

				return executor.WritePlan(w, batches)
			}

			conn, err := d.connect(ctx, log)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close(ctx) }()

			results, err := etl.New(conn, log).Run(ctx, params)
			executor.WriteResults(w, results)
			return err
		},
	}
}
