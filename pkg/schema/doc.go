// Package schema provisions the warehouse schemas and tables.
//
// Provisioning runs four batches in order: drop schemas, create schemas, drop tables and
// create tables. The result is an empty staging_schema (events, songs) and an empty
// bi_schema (songplay, users, songs, artists, time).
package schema
