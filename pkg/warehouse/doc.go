// Package warehouse opens connections to the Redshift cluster using pgx.
//
// Statements are sent through the simple query protocol without arguments, so every
// statement runs in its own implicit transaction and is committed when it completes.
package warehouse
