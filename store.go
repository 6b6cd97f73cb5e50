package mailauth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mailauth/pkg/dnscheck"
)

// Store persists domains and API keys. Implementations must enforce
// uniqueness of (organization, domain name) and keep snapshot writes atomic:
// readers never observe a partially updated set of DNS status fields.
type Store interface {
	CreateDomain(ctx context.Context, domain *Domain) error
	GetDomain(ctx context.Context, orgID uuid.UUID, name string) (*Domain, error)
	ListDomains(ctx context.Context, orgID uuid.UUID) ([]*Domain, error)
	DeleteDomain(ctx context.Context, orgID uuid.UUID, name string) error

	// MarkVerified stamps verified_at exactly once. Calling it on an already
	// verified domain is a no-op: racing verifiers converge on the first
	// writer's timestamp.
	MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) error

	// SaveDNSSnapshot writes all four status/error pairs plus the checked
	// timestamp in a single atomic update.
	SaveDNSSnapshot(ctx context.Context, id uuid.UUID, snapshot dnscheck.Snapshot) error

	CreateAPIKey(ctx context.Context, key *APIKey) error
	GetAPIKeyByDigest(ctx context.Context, digest string) (*APIKey, error)
	TouchAPIKey(ctx context.Context, id uuid.UUID, at time.Time) error
}
