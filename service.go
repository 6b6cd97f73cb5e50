package mailauth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mailauth/pkg/dnscheck"
	"github.com/dmitrymomot/mailauth/pkg/logger"
	"github.com/dmitrymomot/mailauth/pkg/mailer"
	"github.com/dmitrymomot/mailauth/pkg/verifier"
)

// MailSender dispatches templated mail. Satisfied by *mailer.Mailer.
type MailSender interface {
	Send(ctx context.Context, params mailer.SendParams) error
}

// Service drives the domain verification lifecycle and DNS health checks.
type Service struct {
	store    Store
	verifier *verifier.Verifier
	checker  *dnscheck.Checker
	mail     MailSender
	log      *slog.Logger
}

// NewService wires the engine together. A nil log discards output.
func NewService(store Store, v *verifier.Verifier, checker *dnscheck.Checker, mail MailSender, log *slog.Logger) *Service {
	if log == nil {
		log = logger.NewNope()
	}
	return &Service{store: store, verifier: v, checker: checker, mail: mail, log: log}
}

// CreateDomainParams describes a new domain registration.
type CreateDomainParams struct {
	OrganizationID uuid.UUID
	ServerID       *uuid.UUID
	Name           string
	Method         verifier.Method // defaults to MethodDNS

	// Preverified skips ownership proof, for administrator-created domains.
	Preverified bool
}

// CreateDomain registers a domain, unverified, with a fresh verification
// token and the chosen proof method.
func (s *Service) CreateDomain(ctx context.Context, params CreateDomainParams) (*Domain, error) {
	name := strings.ToLower(strings.TrimSpace(params.Name))
	if !ValidDomainName(name) {
		return nil, ErrInvalidDomainName
	}

	method := params.Method
	if method == "" {
		method = verifier.MethodDNS
	}
	if !method.Valid() {
		return nil, ErrInvalidMethod
	}

	token, err := verifier.GenerateToken()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	domain := &Domain{
		ID:                 uuid.New(),
		OrganizationID:     params.OrganizationID,
		ServerID:           params.ServerID,
		Name:               name,
		VerificationMethod: method,
		VerificationToken:  token,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if params.Preverified {
		domain.VerifiedAt = &now
	}

	if err := s.store.CreateDomain(ctx, domain); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "domain created",
		slog.String("domain", domain.Name),
		slog.String("method", string(method)))
	return domain, nil
}

// GetDomain returns a domain by name within an organization.
func (s *Service) GetDomain(ctx context.Context, orgID uuid.UUID, name string) (*Domain, error) {
	return s.store.GetDomain(ctx, orgID, strings.ToLower(name))
}

// ListDomains returns the organization's domains ordered by name.
func (s *Service) ListDomains(ctx context.Context, orgID uuid.UUID) ([]*Domain, error) {
	return s.store.ListDomains(ctx, orgID)
}

// DeleteDomain removes a domain.
func (s *Service) DeleteDomain(ctx context.Context, orgID uuid.UUID, name string) error {
	return s.store.DeleteDomain(ctx, orgID, strings.ToLower(name))
}

// Verify attempts DNS-method ownership verification. An already verified
// domain short-circuits to true without a lookup. A failed proof returns
// (false, nil): the owner should check their TXT record, raw resolver errors
// are not surfaced.
func (s *Service) Verify(ctx context.Context, orgID uuid.UUID, name string) (bool, error) {
	domain, err := s.GetDomain(ctx, orgID, name)
	if err != nil {
		return false, err
	}
	if domain.Verified() {
		return true, nil
	}
	if domain.VerificationMethod != verifier.MethodDNS {
		return false, ErrWrongVerificationMethod
	}

	ok, err := s.verifier.CheckDNSProof(ctx, domain.Name, domain.VerificationToken)
	if err != nil {
		return false, err
	}
	if !ok {
		s.log.InfoContext(ctx, "dns verification failed", slog.String("domain", domain.Name))
		return false, nil
	}

	if err := s.store.MarkVerified(ctx, domain.ID, time.Now().UTC()); err != nil {
		return false, err
	}
	s.log.InfoContext(ctx, "domain verified", slog.String("domain", domain.Name), slog.String("method", "DNS"))
	return true, nil
}

// SendVerificationEmail dispatches the confirmation code to one of the
// domain's administrative addresses. Domain state is not mutated; the
// transition happens in VerifyWithCode. Sending for an already verified
// domain is a no-op.
func (s *Service) SendVerificationEmail(ctx context.Context, orgID uuid.UUID, name, address string) error {
	domain, err := s.GetDomain(ctx, orgID, name)
	if err != nil {
		return err
	}
	if domain.VerificationMethod != verifier.MethodEmail {
		return ErrWrongVerificationMethod
	}
	if domain.Verified() {
		return nil
	}
	if !verifier.AddressAllowed(domain.Name, address) {
		return ErrInvalidRecipient
	}

	err = s.mail.Send(ctx, mailer.SendParams{
		To:       strings.TrimSpace(address),
		Template: "verify_domain.md",
		Data: map[string]string{
			"Domain": domain.Name,
			"Code":   domain.VerificationToken,
		},
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "verification email sent",
		slog.String("domain", domain.Name),
		slog.String("address", address))
	return nil
}

// VerifyWithCode confirms email-method ownership with a submitted code.
// Surrounding whitespace in the code is ignored; the match itself is exact.
func (s *Service) VerifyWithCode(ctx context.Context, orgID uuid.UUID, name, code string) (bool, error) {
	domain, err := s.GetDomain(ctx, orgID, name)
	if err != nil {
		return false, err
	}
	if domain.Verified() {
		return true, nil
	}
	if domain.VerificationMethod != verifier.MethodEmail {
		return false, ErrWrongVerificationMethod
	}
	if !verifier.CodeMatches(domain.VerificationToken, code) {
		return false, ErrInvalidCode
	}

	if err := s.store.MarkVerified(ctx, domain.ID, time.Now().UTC()); err != nil {
		return false, err
	}
	s.log.InfoContext(ctx, "domain verified", slog.String("domain", domain.Name), slog.String("method", "Email"))
	return true, nil
}

// CheckDNS runs a full health check, persists the snapshot atomically, and
// reports whether every record is OK. Callers needing per-record reasons
// should inspect the returned snapshot, not just the boolean.
func (s *Service) CheckDNS(ctx context.Context, orgID uuid.UUID, name string) (bool, dnscheck.Snapshot, error) {
	domain, err := s.GetDomain(ctx, orgID, name)
	if err != nil {
		return false, dnscheck.Snapshot{}, err
	}
	if !domain.Verified() {
		return false, dnscheck.Snapshot{}, ErrDomainNotVerified
	}

	snapshot, err := s.checker.Check(ctx, domain.Name, domain.VerificationToken)
	if err != nil {
		return false, dnscheck.Snapshot{}, err
	}
	if err := s.store.SaveDNSSnapshot(ctx, domain.ID, snapshot); err != nil {
		return false, dnscheck.Snapshot{}, err
	}

	ok := snapshot.AllOK()
	s.log.InfoContext(ctx, "dns health check completed",
		slog.String("domain", domain.Name),
		slog.Bool("ok", ok))
	return ok, snapshot, nil
}
