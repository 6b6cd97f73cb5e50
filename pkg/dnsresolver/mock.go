package dnsresolver

import (
	"context"
	"net"
	"slices"
	"sync/atomic"
)

// MockResolver is a Resolver for tests. Record maps are keyed by the queried
// name without a trailing dot.
type MockResolver struct {
	TXT   map[string][]string
	CNAME map[string]string
	MX    map[string][]*net.MX

	// Fail lists queries that return ErrServFail, as "type name"
	// (e.g. "txt example.com").
	Fail []string

	// Timeout lists queries that return ErrTimeout, same format as Fail.
	Timeout []string

	calls atomic.Int64
}

var _ Resolver = (*MockResolver)(nil)

// Calls reports how many lookups were performed, across all record types.
func (m *MockResolver) Calls() int {
	return int(m.calls.Load())
}

func (m *MockResolver) check(ctx context.Context, qtype, name string) error {
	m.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return err
	}
	key := qtype + " " + name
	if slices.Contains(m.Timeout, key) {
		return ErrTimeout
	}
	if slices.Contains(m.Fail, key) {
		return ErrServFail
	}
	return nil
}

func (m *MockResolver) LookupTXT(ctx context.Context, name string) ([]string, error) {
	if err := m.check(ctx, "txt", name); err != nil {
		return nil, err
	}
	records, ok := m.TXT[name]
	if !ok || len(records) == 0 {
		return nil, ErrNotFound
	}
	return records, nil
}

func (m *MockResolver) LookupCNAME(ctx context.Context, name string) (string, error) {
	if err := m.check(ctx, "cname", name); err != nil {
		return "", err
	}
	target, ok := m.CNAME[name]
	if !ok || target == "" {
		return "", ErrNotFound
	}
	return target, nil
}

func (m *MockResolver) LookupMX(ctx context.Context, name string) ([]*net.MX, error) {
	if err := m.check(ctx, "mx", name); err != nil {
		return nil, err
	}
	records, ok := m.MX[name]
	if !ok || len(records) == 0 {
		return nil, ErrNotFound
	}
	return records, nil
}
