package cmd

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/pseudomuto/dwh/pkg/storage"
	"github.com/urfave/cli/v3"
)

// listBucketContents prints every object under a bucket (and optional prefix).
//
// Example usage:
//
//	dwh list-bucket-contents udacity-dend
//	dwh list-bucket-contents udacity-dend song_data/A/A
//	dwh list-bucket-contents s3://udacity-dend/log_data
func listBucketContents(d deps) *cli.Command {
	return &cli.Command{
		Name:      "list-bucket-contents",
		Usage:     "List the objects in an S3 bucket",
		ArgsUsage: "<bucket|s3://bucket/prefix> [prefix]",
		Before:    requireConfig(d.Config),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() < 1 {
				return errors.New("a bucket is required")
			}

			bucket, prefix := storage.ParseURI(cmd.Args().Get(0))
			if cmd.NArg() > 1 {
				prefix = cmd.Args().Get(1)
			}

			if d.Clients == nil {
				return errors.New("AWS clients are not configured")
			}

			browser := storage.New(d.Clients.S3, d.runLogger(cmd))
			return browser.ListBucket(ctx, output(cmd), bucket, prefix)
		},
	}
}

// printObject downloads an object and prints it, pretty printing JSON content.
//
// Example usage:
//
//	dwh print-object udacity-dend log_json_path.json
//	dwh print-object s3://udacity-dend/log_data/2018/11/2018-11-01-events.json
func printObject(d deps) *cli.Command {
	return &cli.Command{
		Name:      "print-object",
		Usage:     "Print an S3 object, pretty printing JSON documents",
		ArgsUsage: "<bucket> <key> | <s3://bucket/key>",
		Before:    requireConfig(d.Config),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var bucket, key string
			switch {
			case cmd.NArg() >= 2:
				bucket, key = cmd.Args().Get(0), cmd.Args().Get(1)
			case cmd.NArg() == 1 && strings.HasPrefix(cmd.Args().Get(0), "s3://"):
				bucket, key = storage.ParseURI(cmd.Args().Get(0))
			}

			if bucket == "" || key == "" {
				return errors.New("a bucket and key are required")
			}

			if d.Clients == nil {
				return errors.New("AWS clients are not configured")
			}

			browser := storage.New(d.Clients.S3, d.runLogger(cmd))
			return browser.PrintObject(ctx, output(cmd), bucket, key)
		},
	}
}
