package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// startCluster ensures the role and brings the cluster up.
//
// The command blocks until the cluster is available (bounded by cluster.wait) and then
// opens the database port on the cluster's security group.
//
// Example usage:
//
//	dwh start-cluster
func startCluster(d deps) *cli.Command {
	return &cli.Command{
		Name:   "start-cluster",
		Usage:  "Create the IAM role and the Redshift cluster and wait until it is available",
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

			res, err := m.StartCluster(ctx, role.ARN)
			printResults(w, res.Results...)
			printCluster(w, res.Cluster)
			return err
		},
	}
}

// stopCluster deletes the cluster without a final snapshot and removes the role.
//
// Example usage:
//
//	dwh stop-cluster
func stopCluster(d deps) *cli.Command {
	return &cli.Command{
		Name:   "stop-cluster",
		Usage:  "Delete the Redshift cluster and the IAM role",
		Before: requireConfig(d.Config),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := d.runLogger(cmd)

			m, err := d.manager(log)
			if err != nil {
				return err
			}

			results, err := m.StopCluster(ctx)
			printResults(output(cmd), results...)
			return err
		},
	}
}

// testClusterRoundtrip brings the cluster up and tears it down again.
//
// Teardown runs even when the cluster failed to become available so a failed run doesn't
// leave a billed cluster behind.
//
// Example usage:
//
//	dwh test-cluster-roundtrip
func testClusterRoundtrip(d deps) *cli.Command {
	return &cli.Command{
		Name:   "test-cluster-roundtrip",
		Usage:  "Create the role and cluster, print the cluster description, then delete both",
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

			res, startErr := m.StartCluster(ctx, role.ARN)
			printResults(w, res.Results...)
			printCluster(w, res.Cluster)
			if startErr != nil {
				fmt.Fprintln(w, "Cluster failed to start, tearing down")
			}

			results, stopErr := m.StopCluster(ctx)
			printResults(w, results...)

			if startErr != nil {
				return startErr
			}

			return stopErr
		},
	}
}
