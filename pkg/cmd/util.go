package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/pseudomuto/dwh/pkg/cloud"
	"github.com/pseudomuto/dwh/pkg/config"
	"github.com/pseudomuto/dwh/pkg/lifecycle"
	"github.com/pseudomuto/dwh/pkg/warehouse"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

// placeholderRoleARN stands in for the role ARN in offline dry runs.
const placeholderRoleARN = "arn:aws:iam::<account-id>:role/%s"

// deps are the dependencies shared by every command.
type deps struct {
	fx.In

	Config  *config.Config
	Clients *cloud.Clients
	Dialer  warehouse.Dialer
	Logger  logrus.FieldLogger
}

// runLogger tags every entry of a single command invocation with a unique run id.
func (d deps) runLogger(cmd *cli.Command) logrus.FieldLogger {
	return d.Logger.WithFields(logrus.Fields{
		"command": cmd.Name,
		"run_id":  uuid.NewString(),
	})
}

func (d deps) manager(log logrus.FieldLogger) (*lifecycle.Manager, error) {
	if d.Clients == nil {
		return nil, errors.New("AWS clients are not configured")
	}

	return lifecycle.NewFromClients(d.Clients, d.Config, log), nil
}

// connect opens a warehouse connection. When database.host is empty the endpoint of the
// configured cluster is used.
func (d deps) connect(ctx context.Context, log logrus.FieldLogger) (warehouse.Conn, error) {
	connector := warehouse.NewConnector(warehouse.ConnectorParams{
		Database: d.Config.Database,
		Dialer:   d.Dialer,
		Logger:   log,
		Resolve: func(ctx context.Context) (string, error) {
			m, err := d.manager(log)
			if err != nil {
				return "", err
			}

			cluster, err := m.DescribeCluster(ctx)
			if err != nil {
				return "", err
			}

			if cluster.Address == "" {
				return "", errors.Errorf("cluster %s has no endpoint (status: %s)", cluster.Identifier, cluster.Status)
			}

			return cluster.Address, nil
		},
	})

	return connector.Connect(ctx)
}

// roleARN returns iam.role_arn when configured, otherwise the ARN of the existing role.
func (d deps) roleARN(ctx context.Context, log logrus.FieldLogger) (string, error) {
	if d.Config.IAM.RoleARN != "" {
		return d.Config.IAM.RoleARN, nil
	}

	m, err := d.manager(log)
	if err != nil {
		return "", err
	}

	return m.LookupRole(ctx)
}

// stagingRoleARN is roleARN, except that a dry run without iam.role_arn uses a
// placeholder instead of looking the role up.
func (d deps) stagingRoleARN(ctx context.Context, log logrus.FieldLogger, dryRun bool) (string, error) {
	if dryRun && d.Config.IAM.RoleARN == "" {
		return fmt.Sprintf(placeholderRoleARN, d.Config.IAM.RoleName), nil
	}

	return d.roleARN(ctx, log)
}

func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return cmd.Writer
}

func printResults(w io.Writer, results ...*lifecycle.Result) {
	for _, r := range results {
		if r == nil {
			continue
		}

		mark := "✅"
		if r.Status == lifecycle.StatusFailed {
			mark = "❌"
		}

		fmt.Fprintf(w, "%s %s\n", mark, r)
	}
}

func printCluster(w io.Writer, c *lifecycle.Cluster) {
	if c == nil {
		return
	}

	fmt.Fprintf(w, "Cluster:  %s (%s)\n", c.Identifier, c.Status)
	fmt.Fprintf(w, "Endpoint: %s:%d\n", c.Address, c.Port)
	fmt.Fprintf(w, "VPC:      %s\n", c.VPCID)
	for _, arn := range c.RoleARNs {
		fmt.Fprintf(w, "Role:     %s\n", arn)
	}
}
