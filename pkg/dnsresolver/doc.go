// Package dnsresolver provides the DNS lookup capability used by domain
// verification and record health checks.
//
// The Resolver interface covers exactly the record types the platform
// validates (TXT, CNAME, MX). The production implementation queries
// nameservers directly via github.com/miekg/dns with a bounded timeout;
// MockResolver serves canned answer sets in tests.
//
// # Usage
//
//	r := dnsresolver.New(dnsresolver.Config{})
//	records, err := r.LookupTXT(ctx, "example.com")
//	if errors.Is(err, dnsresolver.ErrNotFound) {
//		// no TXT records published
//	}
//
// Lookup errors are reduced to three sentinels (ErrNotFound, ErrTimeout,
// ErrServFail) so callers can treat "cannot confirm" uniformly without
// inspecting resolver internals.
package dnsresolver
