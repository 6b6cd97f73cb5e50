package dnscheck

import "crypto/rsa"

// Config holds the platform-side expected values for domain DNS records.
// Embed this in your app config for env parsing with caarlos0/env.
// DKIMKey is loaded separately from PEM key material.
type Config struct {
	// SPFInclude is the hostname domain owners must include in their SPF
	// record, e.g. "spf.mailauth.app".
	SPFInclude string `env:"DNS_SPF_INCLUDE,required"`

	// ReturnPathPrefix is the subdomain label for the bounce-handling CNAME.
	ReturnPathPrefix string `env:"DNS_RETURN_PATH_PREFIX" envDefault:"psrp"`

	// ReturnPathDomain is the CNAME target for the return-path record,
	// e.g. "rp.mailauth.app".
	ReturnPathDomain string `env:"DNS_RETURN_PATH_DOMAIN,required"`

	// MXRecords are the hostnames inbound mail must route to. Every host is
	// expected at priority 10.
	MXRecords []string `env:"DNS_MX_RECORDS,required"`

	// DKIMKey signs outbound mail; its public half is the expected DKIM TXT
	// payload. Populated by the caller, not from the environment.
	DKIMKey *rsa.PrivateKey `env:"-"`
}
