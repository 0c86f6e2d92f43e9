// Package queries holds the warehouse SQL.
//
// The schema and transform scripts are embedded from sql/*.sql and split into statements
// with pkg/parser. The staging loads are rendered from a text/template using the sprig
// function library so the configured S3 locations and role ARN are quoted consistently.
package queries
