package dnsresolver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	mdns "github.com/miekg/dns"
)

// Resolver performs the DNS lookups needed for domain authentication checks.
// Implementations must honor context cancellation and bound every query.
type Resolver interface {
	// LookupTXT returns all TXT values published at name. Multi-part
	// character strings are joined per RFC 7208 section 3.3.
	LookupTXT(ctx context.Context, name string) ([]string, error)

	// LookupCNAME returns the canonical name target published at name.
	LookupCNAME(ctx context.Context, name string) (string, error)

	// LookupMX returns the MX records published at name.
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// Config holds resolver settings.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	// Nameservers to query as "host:port". Empty means /etc/resolv.conf
	// with public DNS fallback.
	Nameservers []string `env:"DNS_NAMESERVERS"`

	// Timeout bounds a single query exchange.
	Timeout time.Duration `env:"DNS_TIMEOUT" envDefault:"5s"`
}

// Client implements Resolver by querying nameservers directly with
// github.com/miekg/dns. A single health-check invocation performs exactly one
// query per record; only nameserver rotation within that query retries.
type Client struct {
	client      *mdns.Client
	nameservers []string
}

// New creates a resolver client. Zero-value config gets a 5s timeout and the
// system nameservers.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	servers := cfg.Nameservers
	if len(servers) == 0 {
		servers = systemNameservers()
	}
	return &Client{
		client:      &mdns.Client{Timeout: cfg.Timeout},
		nameservers: servers,
	}
}

// systemNameservers reads /etc/resolv.conf, falling back to public DNS.
func systemNameservers() []string {
	conf, err := mdns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(conf.Servers) == 0 {
		return []string{"8.8.8.8:53", "1.1.1.1:53"}
	}
	servers := make([]string, 0, len(conf.Servers))
	for _, s := range conf.Servers {
		servers = append(servers, net.JoinHostPort(s, conf.Port))
	}
	return servers
}

func (c *Client) LookupTXT(ctx context.Context, name string) ([]string, error) {
	resp, err := c.query(ctx, name, mdns.TypeTXT)
	if err != nil {
		return nil, err
	}

	var records []string
	for _, rr := range resp.Answer {
		if txt, ok := rr.(*mdns.TXT); ok {
			records = append(records, strings.Join(txt.Txt, ""))
		}
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records, nil
}

func (c *Client) LookupCNAME(ctx context.Context, name string) (string, error) {
	resp, err := c.query(ctx, name, mdns.TypeCNAME)
	if err != nil {
		return "", err
	}

	for _, rr := range resp.Answer {
		if cname, ok := rr.(*mdns.CNAME); ok {
			return cname.Target, nil
		}
	}
	return "", ErrNotFound
}

func (c *Client) LookupMX(ctx context.Context, name string) ([]*net.MX, error) {
	resp, err := c.query(ctx, name, mdns.TypeMX)
	if err != nil {
		return nil, err
	}

	var records []*net.MX
	for _, rr := range resp.Answer {
		if mx, ok := rr.(*mdns.MX); ok {
			records = append(records, &net.MX{Host: mx.Mx, Pref: mx.Preference})
		}
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records, nil
}

// query exchanges one question with the configured nameservers, trying the
// next server only when the previous one errored.
func (c *Client) query(ctx context.Context, name string, qtype uint16) (*mdns.Msg, error) {
	m := new(mdns.Msg)
	m.SetQuestion(mdns.Fqdn(name), qtype)
	m.RecursionDesired = true

	var lastErr error
	for _, server := range c.nameservers {
		if err := ctx.Err(); err != nil {
			return nil, ErrTimeout
		}

		resp, _, err := c.client.ExchangeContext(ctx, m, server)
		if err != nil {
			if isTimeout(err) {
				lastErr = ErrTimeout
			} else {
				lastErr = fmt.Errorf("%w: %v", ErrServFail, err)
			}
			continue
		}

		switch resp.Rcode {
		case mdns.RcodeSuccess:
			return resp, nil
		case mdns.RcodeNameError:
			return nil, ErrNotFound
		default:
			lastErr = fmt.Errorf("%w: rcode %s from %s", ErrServFail, mdns.RcodeToString[resp.Rcode], server)
		}
	}

	if lastErr == nil {
		lastErr = ErrServFail
	}
	return nil, lastErr
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
