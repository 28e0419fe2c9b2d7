package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/review-service/internal/domain"
)

// SettingsRepository reads the per-tenant review request policy.
type SettingsRepository interface {
	GetByBusiness(ctx context.Context, businessID string) (*domain.ReviewSettings, error)
}

type settingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository instantiates repository.
func NewSettingsRepository(pool *pgxpool.Pool) SettingsRepository {
	return &settingsRepository{pool: pool}
}

func (r *settingsRepository) GetByBusiness(ctx context.Context, businessID string) (*domain.ReviewSettings, error) {
	const query = `
        SELECT business_id, enable_external, enable_internal, external_review_link,
               delay_minutes, send_email, send_sms, updated_at
        FROM review_settings WHERE business_id = $1`
	var settings domain.ReviewSettings
	if err := r.pool.QueryRow(ctx, query, businessID).Scan(
		&settings.BusinessID,
		&settings.EnableExternal,
		&settings.EnableInternal,
		&settings.ExternalReviewLink,
		&settings.DelayMinutes,
		&settings.SendEmail,
		&settings.SendSMS,
		&settings.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &settings, nil
}
