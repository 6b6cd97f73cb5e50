package dnscheck

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// Kind identifies one of the tracked record kinds.
type Kind string

const (
	KindSPF        Kind = "spf"
	KindDKIM       Kind = "dkim"
	KindReturnPath Kind = "return_path"
	KindMX         Kind = "mx"
)

// Kinds lists all tracked record kinds in presentation order.
var Kinds = []Kind{KindSPF, KindDKIM, KindReturnPath, KindMX}

// MXPriority is the priority every platform MX host must be published at.
const MXPriority = 10

// Record describes one expected DNS record for a domain, suitable both for
// validation and for rendering setup instructions.
type Record struct {
	Kind     Kind
	Type     string // "TXT", "CNAME" or "MX"
	Name     string // fully qualified lookup name
	Value    string // expected value ("; "-joined hosts for MX)
	Priority int    // MX only
}

// Expectations computes the four expected records for a domain. The DKIM
// selector is derived from the domain's verification token, so expectations
// are stable for the lifetime of the domain.
func Expectations(cfg Config, domain, token string) []Record {
	return []Record{
		{
			Kind:  KindSPF,
			Type:  "TXT",
			Name:  domain,
			Value: fmt.Sprintf("v=spf1 a mx include:%s ~all", cfg.SPFInclude),
		},
		{
			Kind:  KindDKIM,
			Type:  "TXT",
			Name:  fmt.Sprintf("%s._domainkey.%s", DKIMSelector(token), domain),
			Value: DKIMRecordValue(cfg),
		},
		{
			Kind:  KindReturnPath,
			Type:  "CNAME",
			Name:  fmt.Sprintf("%s.%s", cfg.ReturnPathPrefix, domain),
			Value: cfg.ReturnPathDomain,
		},
		{
			Kind:     KindMX,
			Type:     "MX",
			Name:     domain,
			Value:    strings.Join(cfg.MXRecords, "; "),
			Priority: MXPriority,
		},
	}
}

// DKIMSelector derives the stable DKIM selector label for a verification
// token. The token never changes after domain creation, so neither does the
// selector.
func DKIMSelector(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "mailauth-" + hex.EncodeToString(sum[:])[:8]
}

// DKIMRecordValue renders the TXT payload publishing the platform's DKIM
// public key. Returns an empty string when no key is configured.
func DKIMRecordValue(cfg Config) string {
	if cfg.DKIMKey == nil {
		return ""
	}
	der, err := x509.MarshalPKIXPublicKey(&cfg.DKIMKey.PublicKey)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("v=DKIM1; t=s; h=sha256; p=%s;", base64.StdEncoding.EncodeToString(der))
}
