package mailauth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// APIKey authenticates API callers within an organization. Only the SHA-256
// digest of the token is stored; the raw token is returned once at creation.
type APIKey struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	Name           string
	TokenDigest    string
	LastUsedAt     *time.Time
	CreatedAt      time.Time
}

// NewAPIKey creates a key for an organization and returns it together with
// the raw token. The raw token is not recoverable afterwards.
func NewAPIKey(orgID uuid.UUID, name string) (*APIKey, string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, "", err
	}
	raw := hex.EncodeToString(buf)

	return &APIKey{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Name:           name,
		TokenDigest:    DigestToken(raw),
		CreatedAt:      time.Now().UTC(),
	}, raw, nil
}

// DigestToken hashes a raw API token for storage and lookup.
func DigestToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
