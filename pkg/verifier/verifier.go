package verifier

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/dmitrymomot/mailauth/pkg/dnsresolver"
)

// Method selects how a domain proves ownership. Exactly one method is active
// per domain; changing methods means re-creating the domain.
type Method string

const (
	MethodDNS   Method = "DNS"
	MethodEmail Method = "Email"
)

// Valid reports whether the method is one of the supported variants.
func (m Method) Valid() bool {
	return m == MethodDNS || m == MethodEmail
}

// localParts are the mailbox names accepted for email verification, following
// the conventional administrative addresses of a domain.
var localParts = []string{"webmaster", "postmaster", "admin", "administrator", "hostmaster"}

// GenerateToken returns a new 32-character hex verification token.
func GenerateToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// AllowedAddresses returns the email addresses a verification code may be
// sent to for the given domain.
func AllowedAddresses(domain string) []string {
	addrs := make([]string, len(localParts))
	for i, lp := range localParts {
		addrs[i] = lp + "@" + domain
	}
	return addrs
}

// AddressAllowed reports whether addr is an acceptable verification recipient
// for the domain. Comparison is case-insensitive.
func AddressAllowed(domain, addr string) bool {
	addr = strings.ToLower(strings.TrimSpace(addr))
	for _, allowed := range AllowedAddresses(strings.ToLower(domain)) {
		if addr == allowed {
			return true
		}
	}
	return false
}

// CodeMatches reports whether a submitted confirmation code matches the
// domain's verification token. Surrounding whitespace is ignored; the
// comparison itself is exact and case-sensitive.
func CodeMatches(token, code string) bool {
	return strings.TrimSpace(code) == token
}

// Verifier checks DNS ownership proofs.
type Verifier struct {
	resolver dnsresolver.Resolver
}

// New creates a Verifier using the given resolver.
func New(resolver dnsresolver.Resolver) *Verifier {
	return &Verifier{resolver: resolver}
}

// CheckDNSProof looks up TXT records at the domain apex and reports whether
// any value exactly equals the verification token. Lookup failures count as
// "not proven": the owner is told to check the TXT record, never shown raw
// resolver errors. The returned error is reserved for context cancellation.
func (v *Verifier) CheckDNSProof(ctx context.Context, domain, token string) (bool, error) {
	records, err := v.resolver.LookupTXT(ctx, domain)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, nil
	}

	for _, record := range records {
		if record == token {
			return true, nil
		}
	}
	return false, nil
}
