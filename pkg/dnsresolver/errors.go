package dnsresolver

import "errors"

var (
	// ErrNotFound indicates the name does not exist or has no records of the
	// requested type (NXDOMAIN or an empty answer section).
	ErrNotFound = errors.New("dnsresolver: no records found")

	// ErrTimeout indicates the query exceeded its deadline.
	ErrTimeout = errors.New("dnsresolver: query timed out")

	// ErrServFail indicates the upstream nameserver failed or refused the query.
	ErrServFail = errors.New("dnsresolver: server failure")
)
