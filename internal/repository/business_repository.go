package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/review-service/internal/domain"
)

// BusinessRepository reads tenant branding and encrypted credentials.
// Profile and credentials are separate aggregates so branding lookups
// never carry secret material.
type BusinessRepository interface {
	GetProfile(ctx context.Context, id string) (*domain.BusinessProfile, error)
	GetCredentials(ctx context.Context, businessID string) (*domain.BusinessCredentials, error)
}

type businessRepository struct {
	pool *pgxpool.Pool
}

// NewBusinessRepository instantiates repository.
func NewBusinessRepository(pool *pgxpool.Pool) BusinessRepository {
	return &businessRepository{pool: pool}
}

func (r *businessRepository) GetProfile(ctx context.Context, id string) (*domain.BusinessProfile, error) {
	const query = `
        SELECT id, name, logo_ref, created_at, updated_at
        FROM businesses WHERE id = $1`
	var profile domain.BusinessProfile
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.Name,
		&profile.LogoRef,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetCredentials returns the ciphertext blobs as stored. Absence is
// reported as pgx.ErrNoRows; callers treat that as "no SMS configured".
func (r *businessRepository) GetCredentials(ctx context.Context, businessID string) (*domain.BusinessCredentials, error) {
	const query = `
        SELECT business_id, sms_account_sid_cipher, sms_auth_token_cipher, sms_from_number, updated_at
        FROM business_credentials WHERE business_id = $1`
	var creds domain.BusinessCredentials
	if err := r.pool.QueryRow(ctx, query, businessID).Scan(
		&creds.BusinessID,
		&creds.AccountSIDCipher,
		&creds.AuthTokenCipher,
		&creds.SMSFromNumber,
		&creds.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &creds, nil
}
