package mailauth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mailauth/pkg/dnscheck"
)

// RecordDetail is one expected DNS record annotated with the domain's latest
// stored check result and owner-facing setup guidance.
type RecordDetail struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Value       string `json:"value"`
	Priority    int    `json:"priority,omitempty"`
	Status      string `json:"status,omitempty"`
	Error       string `json:"error,omitempty"`
	Description string `json:"description"`
}

// RecordsReport is the full DNS setup sheet for a domain: the four expected
// records with their last known statuses plus the summary counts.
type RecordsReport struct {
	Domain        string           `json:"domain"`
	LastCheckedAt *time.Time       `json:"last_checked_at,omitempty"`
	Instructions  string           `json:"instructions"`
	Note          string           `json:"note"`
	SPF           RecordDetail     `json:"spf"`
	DKIM          RecordDetail     `json:"dkim"`
	ReturnPath    RecordDetail     `json:"return_path"`
	MX            RecordDetail     `json:"mx"`
	Summary       dnscheck.Summary `json:"summary"`
}

// DNSRecords builds the setup report for a verified domain. It reflects the
// stored snapshot; it does not trigger new lookups.
func (s *Service) DNSRecords(ctx context.Context, orgID uuid.UUID, name string) (*RecordsReport, error) {
	domain, err := s.GetDomain(ctx, orgID, name)
	if err != nil {
		return nil, err
	}
	if !domain.Verified() {
		return nil, ErrDomainNotVerified
	}

	expected := s.checker.Expectations(domain.Name, domain.VerificationToken)
	byKind := make(map[dnscheck.Kind]dnscheck.Record, len(expected))
	for _, rec := range expected {
		byKind[rec.Kind] = rec
	}
	snapshot := domain.DNSSnapshot()

	detail := func(kind dnscheck.Kind, description string) RecordDetail {
		rec, result := byKind[kind], snapshot.Result(kind)
		return RecordDetail{
			Type:        rec.Type,
			Name:        rec.Name,
			Value:       rec.Value,
			Priority:    rec.Priority,
			Status:      result.Status,
			Error:       result.Error,
			Description: description,
		}
	}

	report := &RecordsReport{
		Domain:        domain.Name,
		LastCheckedAt: domain.DNSCheckedAt,
		Instructions:  "Add these DNS records to your domain's DNS settings to ensure proper email delivery",
		Note:          "Allow up to 24 hours for DNS propagation. Check records after setup using the check_dns endpoint.",
		SPF: detail(dnscheck.KindSPF, fmt.Sprintf(
			"Add this TXT record at the domain root. If you already send mail from another service, you may just need to add 'include:%s' to your existing record.",
			s.checker.Config().SPFInclude)),
		DKIM: detail(dnscheck.KindDKIM,
			"Add this TXT record with the exact name shown above. This record contains your domain's public DKIM key."),
		ReturnPath: detail(dnscheck.KindReturnPath,
			"Optional but recommended. Add this CNAME record to improve deliverability and achieve DMARC alignment."),
		MX: detail(dnscheck.KindMX, fmt.Sprintf(
			"Add these MX records at the domain root if you want to receive incoming email. All records should have priority %d.",
			dnscheck.MXPriority)),
		Summary: snapshot.Summarize(),
	}
	return report, nil
}
