// Package etl runs the load-and-transform pipeline.
//
// The load stage copies the event logs and song metadata from S3 into
// staging_schema.events and staging_schema.songs. The transform stage then fills the
// users, songs, artists and time dimensions before the songplay fact table.
package etl
