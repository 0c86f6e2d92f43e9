// Package cmd provides the CLI commands for the dwh tool.
//
// Each command is a function returning a *cli.Command that is registered in the
// "commands" fx value group and mounted under the root command by Run.
//
// # Available Commands
//
//   - test-role-roundtrip: ensure the IAM role, then remove it
//   - test-cluster-roundtrip: ensure the role, start the cluster, then stop it
//   - start-cluster: ensure the role and start the cluster
//   - stop-cluster: delete the cluster and remove the role
//   - list-bucket-contents: list objects in an S3 bucket
//   - print-object: print an S3 object
//   - create-tables: drop and recreate the staging and mart tables
//   - etl: load the staging tables and fill the mart tables
//
// # Configuration
//
// Commands that talk to AWS or the warehouse require a configuration file, found through
// DWH_CONFIG (default dwh.yaml). Values can be overridden with DWH_* environment
// variables, which are also read from a .env file in the working directory.
//
// # Example Usage
//
//	dwh start-cluster
//	dwh create-tables
//	dwh etl
//	dwh stop-cluster
package cmd
