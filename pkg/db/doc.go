// Package db wraps github.com/jackc/pgx/v5/pgxpool with the connection,
// migration, and transaction plumbing the service needs.
//
// Connect retries with backoff so restarts during database failovers do not
// kill the process. Migrate applies embedded goose migrations. WithTx runs a
// function inside a transaction with rollback on error or panic; the domain
// store uses it to keep a health-check snapshot write atomic.
package db
