package cmd

import (
	"context"

	"github.com/urfave/cli/v3"
)

// testRoleRoundtrip creates (or finds) the cluster role and removes it again.
//
// Example usage:
//
//	dwh test-role-roundtrip
func testRoleRoundtrip(d deps) *cli.Command {
	return &cli.Command{
		Name:  "test-role-roundtrip",
		Usage: "Create the IAM role, then detach its policy and delete it",
		Description: `Verifies the AWS credentials can manage the cluster role by running the
ensure and remove steps back to back. Both steps are safe to repeat.`,
		Before: requireConfig(d.Config),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := d.runLogger(cmd)
			w := output(cmd)

			m, err := d.manager(log)
			if err != nil {
				return err
			}

			role, err := m.EnsureRole(ctx)
			printResults(w, role)
			if err != nil {
				return err
			}

			removed, err := m.RemoveRole(ctx)
			printResults(w, removed...)
			return err
		},
	}
}
