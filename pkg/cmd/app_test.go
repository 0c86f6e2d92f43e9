package cmd_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pseudomuto/dwh/pkg/cmd"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

const appConfig = `aws:
  region: us-west-2
  access_key_id: AKIAEXAMPLE
  secret_access_key: secret
cluster:
  identifier: dwhCluster
database:
  name: dwh
  user: dwhuser
  password: Passw0rd
iam:
  role_name: dwhRole
  role_arn: arn:aws:iam::999999999999:role/etl
s3:
  log_data: s3://udacity-dend/log_data
  song_data: s3://udacity-dend/song_data
`

var testVersion = &cmd.Version{Version: "1.2.3", Commit: "abc123", Timestamp: "2024-01-01"}

// useConfig points DWH_CONFIG at a file holding contents, or at a missing file when
// contents is empty.
func useConfig(t *testing.T, contents string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dwh.yaml")
	if contents != "" {
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	}

	t.Setenv("DWH_CONFIG", path)
	t.Setenv("DWH_LOG_LEVEL", "error")
}

// newApp starts the full dwh graph plus opts and returns the CLI writing to out.
func newApp(t *testing.T, out *bytes.Buffer, opts ...fx.Option) *cmd.CLI {
	t.Helper()

	var c *cmd.CLI
	app := fxtest.New(t, append([]fx.Option{cmd.Modules(testVersion), fx.Populate(&c)}, opts...)...)
	app.RequireStart()
	t.Cleanup(func() { app.RequireStop() })

	c.Command().Writer = out
	return c
}

func TestModules(t *testing.T) {
	useConfig(t, appConfig)

	var c *cmd.CLI
	require.NoError(t, fx.ValidateApp(cmd.Modules(testVersion), fx.Populate(&c)))
}

func TestCLI_Run(t *testing.T) {
	t.Run("version", func(t *testing.T) {
		useConfig(t, "")

		var out bytes.Buffer
		code := newApp(t, &out).Run(context.Background(), []string{"dwh", "--version"})
		require.Equal(t, 0, code)
		require.Contains(t, out.String(), "Version: 1.2.3")
		require.Contains(t, out.String(), "Commit: abc123")
	})

	t.Run("etl dry run", func(t *testing.T) {
		useConfig(t, appConfig)

		var out bytes.Buffer
		code := newApp(t, &out).Run(context.Background(), []string{"dwh", "etl", "--dry-run"})
		require.Equal(t, 0, code)
		require.Contains(t, out.String(), "-- load (2 statements)")
		require.Contains(t, out.String(), "aws_iam_role=arn:aws:iam::999999999999:role/etl")
		require.Contains(t, out.String(), "-- transform (5 statements)")
	})

	t.Run("missing config", func(t *testing.T) {
		useConfig(t, "")

		var out bytes.Buffer
		code := newApp(t, &out).Run(context.Background(), []string{"dwh", "stop-cluster"})
		require.Equal(t, 1, code)
		require.NotContains(t, out.String(), "cluster dwhCluster")
	})

	t.Run("invalid log level", func(t *testing.T) {
		useConfig(t, appConfig)

		var out bytes.Buffer
		code := newApp(t, &out).Run(context.Background(), []string{"dwh", "--log-level", "loud", "etl", "--dry-run"})
		require.Equal(t, 1, code)
		require.NotContains(t, out.String(), "-- load")
	})

	t.Run("commands outlive the start timeout", func(t *testing.T) {
		useConfig(t, "")

		slow := func() *cli.Command {
			return &cli.Command{
				Name: "slow",
				Action: func(ctx context.Context, c *cli.Command) error {
					time.Sleep(100 * time.Millisecond)
					_, err := fmt.Fprintln(c.Root().Writer, "finished")
					return err
				},
			}
		}

		var out bytes.Buffer
		c := newApp(t, &out,
			fx.StartTimeout(10*time.Millisecond),
			fx.Provide(fx.Annotate(slow, fx.ResultTags(`group:"commands"`))),
		)

		code := c.Run(context.Background(), []string{"dwh", "slow"})
		require.Equal(t, 0, code)
		require.Equal(t, "finished\n", out.String())
	})
}
