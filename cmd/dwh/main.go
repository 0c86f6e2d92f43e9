package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pseudomuto/dwh/pkg/cmd"
	"go.uber.org/fx"
)

// NB: These are set by GoReleaser during a build.
var (
	version string
	commit  string
	date    string
)

func main() {
	os.Exit(run())
}

func run() int {
	var cli *cmd.CLI
	app := fx.New(
		fx.NopLogger,
		cmd.Modules(&cmd.Version{
			Version:   version,
			Commit:    commit,
			Timestamp: date,
		}),
		fx.Populate(&cli),
	)

	if err := app.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "Error starting dwh:", err)
		return 1
	}

	// Interrupting stops long waits early. Commands still print what they completed.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.Run(ctx, os.Args)
}
