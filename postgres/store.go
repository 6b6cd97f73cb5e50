package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/mailauth"
	"github.com/dmitrymomot/mailauth/pkg/db"
	"github.com/dmitrymomot/mailauth/pkg/dnscheck"
)

// Store is the PostgreSQL-backed mailauth.Store.
type Store struct {
	pool *pgxpool.Pool
}

var _ mailauth.Store = (*Store)(nil)

// NewStore creates a store over an established connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const domainColumns = `id, organization_id, server_id, name,
	verification_method, verification_token, verified_at,
	spf_status, spf_error, dkim_status, dkim_error,
	return_path_status, return_path_error, mx_status, mx_error,
	dns_checked_at, created_at, updated_at`

func scanDomain(row pgx.Row) (*mailauth.Domain, error) {
	var d mailauth.Domain
	err := row.Scan(
		&d.ID, &d.OrganizationID, &d.ServerID, &d.Name,
		&d.VerificationMethod, &d.VerificationToken, &d.VerifiedAt,
		&d.SPFStatus, &d.SPFError, &d.DKIMStatus, &d.DKIMError,
		&d.ReturnPathStatus, &d.ReturnPathError, &d.MXStatus, &d.MXError,
		&d.DNSCheckedAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, mailauth.ErrDomainNotFound
		}
		return nil, err
	}
	return &d, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *Store) CreateDomain(ctx context.Context, domain *mailauth.Domain) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO domains (id, organization_id, server_id, name,
			verification_method, verification_token, verified_at,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		domain.ID, domain.OrganizationID, domain.ServerID, domain.Name,
		domain.VerificationMethod, domain.VerificationToken, domain.VerifiedAt,
		domain.CreatedAt, domain.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return mailauth.ErrDuplicateDomain
	}
	return err
}

func (s *Store) GetDomain(ctx context.Context, orgID uuid.UUID, name string) (*mailauth.Domain, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+domainColumns+`
		FROM domains
		WHERE organization_id = $1 AND name = $2`,
		orgID, name,
	)
	return scanDomain(row)
}

func (s *Store) ListDomains(ctx context.Context, orgID uuid.UUID) ([]*mailauth.Domain, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+domainColumns+`
		FROM domains
		WHERE organization_id = $1
		ORDER BY name`,
		orgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var domains []*mailauth.Domain
	for rows.Next() {
		d, err := scanDomain(rows)
		if err != nil {
			return nil, err
		}
		domains = append(domains, d)
	}
	return domains, rows.Err()
}

func (s *Store) DeleteDomain(ctx context.Context, orgID uuid.UUID, name string) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM domains
		WHERE organization_id = $1 AND name = $2`,
		orgID, name,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return mailauth.ErrDomainNotFound
	}
	return nil
}

// MarkVerified sets verified_at only when it is still NULL, so racing
// verifiers converge on the first writer's timestamp. Updating an already
// verified domain succeeds without touching the row.
func (s *Store) MarkVerified(ctx context.Context, id uuid.UUID, at time.Time) error {
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE domains
			SET verified_at = $2, updated_at = $2
			WHERE id = $1 AND verified_at IS NULL`,
			id, at,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			// Either already verified (fine) or the domain is gone.
			var exists bool
			if err := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM domains WHERE id = $1)`, id,
			).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return mailauth.ErrDomainNotFound
			}
		}
		return nil
	})
}

// SaveDNSSnapshot writes all eight status/error columns and the checked
// timestamp in one statement, so readers never see a half-applied check.
func (s *Store) SaveDNSSnapshot(ctx context.Context, id uuid.UUID, snapshot dnscheck.Snapshot) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE domains
		SET spf_status = $2, spf_error = $3,
			dkim_status = $4, dkim_error = $5,
			return_path_status = $6, return_path_error = $7,
			mx_status = $8, mx_error = $9,
			dns_checked_at = $10, updated_at = $10
		WHERE id = $1`,
		id,
		snapshot.SPF.Status, snapshot.SPF.Error,
		snapshot.DKIM.Status, snapshot.DKIM.Error,
		snapshot.ReturnPath.Status, snapshot.ReturnPath.Error,
		snapshot.MX.Status, snapshot.MX.Error,
		snapshot.CheckedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return mailauth.ErrDomainNotFound
	}
	return nil
}

func (s *Store) CreateAPIKey(ctx context.Context, key *mailauth.APIKey) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO api_keys (id, organization_id, name, token_digest, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		key.ID, key.OrganizationID, key.Name, key.TokenDigest, key.CreatedAt,
	)
	return err
}

func (s *Store) GetAPIKeyByDigest(ctx context.Context, digest string) (*mailauth.APIKey, error) {
	var k mailauth.APIKey
	err := s.pool.QueryRow(ctx, `
		SELECT id, organization_id, name, token_digest, last_used_at, created_at
		FROM api_keys
		WHERE token_digest = $1`,
		digest,
	).Scan(&k.ID, &k.OrganizationID, &k.Name, &k.TokenDigest, &k.LastUsedAt, &k.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, mailauth.ErrAPIKeyNotFound
		}
		return nil, err
	}
	return &k, nil
}

func (s *Store) TouchAPIKey(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE api_keys SET last_used_at = $2 WHERE id = $1`,
		id, at,
	)
	return err
}
