// Package postgres implements the mailauth.Store interface on PostgreSQL
// using pgx, with goose-managed schema migrations embedded alongside.
package postgres
