package mailauth

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mailauth/pkg/dnscheck"
)

// MemoryStore is an in-memory Store for tests and local development.
// All methods are safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	domains map[uuid.UUID]*Domain
	keys    map[uuid.UUID]*APIKey
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		domains: make(map[uuid.UUID]*Domain),
		keys:    make(map[uuid.UUID]*APIKey),
	}
}

func (s *MemoryStore) CreateDomain(_ context.Context, domain *Domain) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.domains {
		if existing.OrganizationID == domain.OrganizationID && strings.EqualFold(existing.Name, domain.Name) {
			return ErrDuplicateDomain
		}
	}
	clone := *domain
	s.domains[domain.ID] = &clone
	return nil
}

func (s *MemoryStore) GetDomain(_ context.Context, orgID uuid.UUID, name string) (*Domain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.domains {
		if d.OrganizationID == orgID && strings.EqualFold(d.Name, name) {
			clone := *d
			return &clone, nil
		}
	}
	return nil, ErrDomainNotFound
}

func (s *MemoryStore) ListDomains(_ context.Context, orgID uuid.UUID) ([]*Domain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Domain
	for _, d := range s.domains {
		if d.OrganizationID == orgID {
			clone := *d
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) DeleteDomain(_ context.Context, orgID uuid.UUID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, d := range s.domains {
		if d.OrganizationID == orgID && strings.EqualFold(d.Name, name) {
			delete(s.domains, id)
			return nil
		}
	}
	return ErrDomainNotFound
}

func (s *MemoryStore) MarkVerified(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.domains[id]
	if !ok {
		return ErrDomainNotFound
	}
	if d.VerifiedAt == nil {
		stamp := at
		d.VerifiedAt = &stamp
		d.UpdatedAt = at
	}
	return nil
}

func (s *MemoryStore) SaveDNSSnapshot(_ context.Context, id uuid.UUID, snapshot dnscheck.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.domains[id]
	if !ok {
		return ErrDomainNotFound
	}
	d.ApplyDNSSnapshot(snapshot)
	d.UpdatedAt = snapshot.CheckedAt
	return nil
}

func (s *MemoryStore) CreateAPIKey(_ context.Context, key *APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *key
	s.keys[key.ID] = &clone
	return nil
}

func (s *MemoryStore) GetAPIKeyByDigest(_ context.Context, digest string) (*APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, k := range s.keys {
		if k.TokenDigest == digest {
			clone := *k
			return &clone, nil
		}
	}
	return nil, ErrAPIKeyNotFound
}

func (s *MemoryStore) TouchAPIKey(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, ok := s.keys[id]
	if !ok {
		return ErrAPIKeyNotFound
	}
	stamp := at
	k.LastUsedAt = &stamp
	return nil
}
