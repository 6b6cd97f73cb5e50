package mailauth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailauth"
	"github.com/dmitrymomot/mailauth/pkg/dnscheck"
	"github.com/dmitrymomot/mailauth/pkg/verifier"
)

func newStoredDomain(t *testing.T, store *mailauth.MemoryStore, orgID uuid.UUID, name string) *mailauth.Domain {
	t.Helper()

	now := time.Now().UTC()
	domain := &mailauth.Domain{
		ID:                 uuid.New(),
		OrganizationID:     orgID,
		Name:               name,
		VerificationMethod: verifier.MethodDNS,
		VerificationToken:  "abc123",
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	require.NoError(t, store.CreateDomain(context.Background(), domain))
	return domain
}

func TestMemoryStore_MarkVerified_AtMostOnce(t *testing.T) {
	t.Parallel()

	store := mailauth.NewMemoryStore()
	orgID := uuid.New()
	domain := newStoredDomain(t, store, orgID, "example.com")
	ctx := context.Background()

	first := time.Now().UTC()
	require.NoError(t, store.MarkVerified(ctx, domain.ID, first))

	// A second transition keeps the first timestamp.
	require.NoError(t, store.MarkVerified(ctx, domain.ID, first.Add(time.Hour)))

	stored, err := store.GetDomain(ctx, orgID, "example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.VerifiedAt)
	assert.Equal(t, first, *stored.VerifiedAt)

	require.ErrorIs(t, store.MarkVerified(ctx, uuid.New(), first), mailauth.ErrDomainNotFound)
}

func TestMemoryStore_SaveDNSSnapshot(t *testing.T) {
	t.Parallel()

	store := mailauth.NewMemoryStore()
	orgID := uuid.New()
	domain := newStoredDomain(t, store, orgID, "example.com")
	ctx := context.Background()

	snapshot := dnscheck.Snapshot{
		SPF:        dnscheck.Result{Status: dnscheck.StatusOK},
		DKIM:       dnscheck.Result{Status: dnscheck.StatusMissing, Error: "no TXT record found"},
		ReturnPath: dnscheck.Result{Status: dnscheck.StatusOK},
		MX:         dnscheck.Result{Status: "Incorrect priority", Error: "expected priority 10"},
		CheckedAt:  time.Now().UTC(),
	}
	require.NoError(t, store.SaveDNSSnapshot(ctx, domain.ID, snapshot))

	stored, err := store.GetDomain(ctx, orgID, "example.com")
	require.NoError(t, err)
	assert.Equal(t, snapshot, stored.DNSSnapshot())
}

func TestMemoryStore_ReadsReturnClones(t *testing.T) {
	t.Parallel()

	store := mailauth.NewMemoryStore()
	orgID := uuid.New()
	newStoredDomain(t, store, orgID, "example.com")
	ctx := context.Background()

	first, err := store.GetDomain(ctx, orgID, "example.com")
	require.NoError(t, err)
	first.SPFStatus = "tampered"

	second, err := store.GetDomain(ctx, orgID, "example.com")
	require.NoError(t, err)
	assert.Empty(t, second.SPFStatus)
}

func TestMemoryStore_APIKeys(t *testing.T) {
	t.Parallel()

	store := mailauth.NewMemoryStore()
	ctx := context.Background()

	key, raw, err := mailauth.NewAPIKey(uuid.New(), "ci")
	require.NoError(t, err)
	require.NoError(t, store.CreateAPIKey(ctx, key))

	found, err := store.GetAPIKeyByDigest(ctx, mailauth.DigestToken(raw))
	require.NoError(t, err)
	assert.Equal(t, key.ID, found.ID)
	assert.Nil(t, found.LastUsedAt)

	used := time.Now().UTC()
	require.NoError(t, store.TouchAPIKey(ctx, key.ID, used))

	found, err = store.GetAPIKeyByDigest(ctx, mailauth.DigestToken(raw))
	require.NoError(t, err)
	require.NotNil(t, found.LastUsedAt)
	assert.Equal(t, used, *found.LastUsedAt)

	_, err = store.GetAPIKeyByDigest(ctx, mailauth.DigestToken("wrong"))
	require.ErrorIs(t, err, mailauth.ErrAPIKeyNotFound)
}

func TestValidDomainName(t *testing.T) {
	t.Parallel()

	valid := []string{"example.com", "sub.example.com", "a-b.example.co.uk", "xn--bcher-kva.example"}
	for _, name := range valid {
		assert.True(t, mailauth.ValidDomainName(name), name)
	}

	invalid := []string{"", "example", "not a domain", "-bad.example.com", "example..com", ".example.com"}
	for _, name := range invalid {
		assert.False(t, mailauth.ValidDomainName(name), name)
	}
}
