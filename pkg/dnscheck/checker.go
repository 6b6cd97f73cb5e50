package dnscheck

import (
	"context"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/mailauth/pkg/dnsresolver"
)

// Checker runs full health checks over a domain's DNS records.
//
// The four lookups of one run are issued concurrently and buffered into a
// single Snapshot. Concurrent runs for the same domain are coalesced: the
// second caller waits for the in-flight run and shares its snapshot, so two
// racing checks never produce divergent results.
type Checker struct {
	resolver dnsresolver.Resolver
	log      *slog.Logger
	group    singleflight.Group
	cfg      Config
}

// NewChecker creates a checker. A nil logger discards log output.
func NewChecker(cfg Config, resolver dnsresolver.Resolver, log *slog.Logger) *Checker {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Checker{cfg: cfg, resolver: resolver, log: log}
}

// Expectations returns the expected records for a domain under this checker's
// configuration.
func (c *Checker) Expectations(domain, token string) []Record {
	return Expectations(c.cfg, domain, token)
}

// Config returns the checker's platform configuration.
func (c *Checker) Config() Config {
	return c.cfg
}

// Check resolves and validates all four record kinds for a domain. Resolver
// failures are absorbed into per-record Missing results; the only returned
// error is context cancellation.
//
// Concurrent calls for the same domain share one run. The shared run is bound
// to the first caller's context, so its cancellation cancels waiters too.
func (c *Checker) Check(ctx context.Context, domain, token string) (Snapshot, error) {
	v, err, _ := c.group.Do(domain, func() (any, error) {
		return c.check(ctx, domain, token)
	})
	if err != nil {
		return Snapshot{}, err
	}
	return v.(Snapshot), nil
}

func (c *Checker) check(ctx context.Context, domain, token string) (Snapshot, error) {
	expected := make(map[Kind]Record, len(Kinds))
	for _, rec := range Expectations(c.cfg, domain, token) {
		expected[rec.Kind] = rec
	}

	var snapshot Snapshot
	var g errgroup.Group

	g.Go(func() error {
		txts, err := c.resolver.LookupTXT(ctx, expected[KindSPF].Name)
		c.logLookupErr(KindSPF, domain, err)
		snapshot.SPF = ValidateSPF(c.cfg.SPFInclude, txts, err)
		return nil
	})
	g.Go(func() error {
		txts, err := c.resolver.LookupTXT(ctx, expected[KindDKIM].Name)
		c.logLookupErr(KindDKIM, domain, err)
		snapshot.DKIM = ValidateDKIM(expected[KindDKIM].Value, txts, err)
		return nil
	})
	g.Go(func() error {
		target, err := c.resolver.LookupCNAME(ctx, expected[KindReturnPath].Name)
		c.logLookupErr(KindReturnPath, domain, err)
		snapshot.ReturnPath = ValidateReturnPath(c.cfg.ReturnPathDomain, target, err)
		return nil
	})
	g.Go(func() error {
		records, err := c.resolver.LookupMX(ctx, expected[KindMX].Name)
		c.logLookupErr(KindMX, domain, err)
		snapshot.MX = ValidateMX(c.cfg.MXRecords, records, err)
		return nil
	})

	// Lookup errors never propagate; only cancellation can fail the run.
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	snapshot.CheckedAt = time.Now().UTC()
	return snapshot, nil
}

func (c *Checker) logLookupErr(kind Kind, domain string, err error) {
	if err == nil {
		return
	}
	c.log.Warn("dns lookup failed",
		slog.String("domain", domain),
		slog.String("record", string(kind)),
		slog.String("error", err.Error()))
}
