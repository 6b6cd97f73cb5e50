package mailauth

import (
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mailauth/pkg/dnscheck"
	"github.com/dmitrymomot/mailauth/pkg/verifier"
)

// Domain is a sending domain owned by an organization, optionally scoped to
// one of its mail servers. The verification token is assigned at creation and
// never changes: it is the DNS ownership proof, the email confirmation code,
// and the seed for the domain's DKIM selector.
type Domain struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	ServerID       *uuid.UUID
	Name           string

	VerificationMethod verifier.Method
	VerificationToken  string
	VerifiedAt         *time.Time

	// Latest DNS health snapshot. The four status/error pairs and
	// DNSCheckedAt always change together; empty status means never checked.
	SPFStatus        string
	SPFError         string
	DKIMStatus       string
	DKIMError        string
	ReturnPathStatus string
	ReturnPathError  string
	MXStatus         string
	MXError          string
	DNSCheckedAt     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Verified reports whether ownership of the domain has been proven. Only
// verified domains may send mail or run DNS health checks.
func (d *Domain) Verified() bool {
	return d.VerifiedAt != nil
}

// DKIMSelector returns the domain's stable DKIM selector label.
func (d *Domain) DKIMSelector() string {
	return dnscheck.DKIMSelector(d.VerificationToken)
}

// DNSSnapshot reconstructs the stored health snapshot.
func (d *Domain) DNSSnapshot() dnscheck.Snapshot {
	var checkedAt time.Time
	if d.DNSCheckedAt != nil {
		checkedAt = *d.DNSCheckedAt
	}
	return dnscheck.Snapshot{
		SPF:        dnscheck.Result{Status: d.SPFStatus, Error: d.SPFError},
		DKIM:       dnscheck.Result{Status: d.DKIMStatus, Error: d.DKIMError},
		ReturnPath: dnscheck.Result{Status: d.ReturnPathStatus, Error: d.ReturnPathError},
		MX:         dnscheck.Result{Status: d.MXStatus, Error: d.MXError},
		CheckedAt:  checkedAt,
	}
}

// ApplyDNSSnapshot overwrites the domain's health fields from a snapshot.
func (d *Domain) ApplyDNSSnapshot(s dnscheck.Snapshot) {
	d.SPFStatus, d.SPFError = s.SPF.Status, s.SPF.Error
	d.DKIMStatus, d.DKIMError = s.DKIM.Status, s.DKIM.Error
	d.ReturnPathStatus, d.ReturnPathError = s.ReturnPath.Status, s.ReturnPath.Error
	d.MXStatus, d.MXError = s.MX.Status, s.MX.Error
	checkedAt := s.CheckedAt
	d.DNSCheckedAt = &checkedAt
}

// Hostname per RFC 1123: dot-separated labels of letters, digits and hyphens,
// at least two labels.
var domainNameRe = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,}$`)

// ValidDomainName reports whether name is an acceptable sending domain name.
func ValidDomainName(name string) bool {
	return len(name) <= 253 && domainNameRe.MatchString(name)
}
