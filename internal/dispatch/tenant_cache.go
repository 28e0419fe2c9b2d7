package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/review-service/internal/domain"
	"github.com/spec-kit/review-service/internal/repository"
)

// tenantCache memoizes per-tenant lookups for the duration of one pass.
// Decryption results, including failures, are memoized too: one bad
// credential set poisons SMS for that tenant's whole batch without
// re-attempting the decrypt per ticket.
type tenantCache struct {
	businesses repository.BusinessRepository
	settings   repository.SettingsRepository
	vault      CredentialOpener

	settingsByID map[string]*domain.ReviewSettings
	profilesByID map[string]*domain.BusinessProfile
	credsByID    map[string]credentialsResult
}

type credentialsResult struct {
	creds *domain.SMSCredentials
	err   error
}

func newTenantCache(businesses repository.BusinessRepository, settings repository.SettingsRepository, vault CredentialOpener) *tenantCache {
	return &tenantCache{
		businesses:   businesses,
		settings:     settings,
		vault:        vault,
		settingsByID: make(map[string]*domain.ReviewSettings),
		profilesByID: make(map[string]*domain.BusinessProfile),
		credsByID:    make(map[string]credentialsResult),
	}
}

// Settings returns the tenant's review settings, or (nil, nil) when the
// tenant has none configured.
func (c *tenantCache) Settings(ctx context.Context, businessID string) (*domain.ReviewSettings, error) {
	if cached, ok := c.settingsByID[businessID]; ok {
		return cached, nil
	}
	settings, err := c.settings.GetByBusiness(ctx, businessID)
	if errors.Is(err, pgx.ErrNoRows) {
		c.settingsByID[businessID] = nil
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.settingsByID[businessID] = settings
	return settings, nil
}

// Profile returns the tenant branding profile.
func (c *tenantCache) Profile(ctx context.Context, businessID string) (*domain.BusinessProfile, error) {
	if cached, ok := c.profilesByID[businessID]; ok {
		return cached, nil
	}
	profile, err := c.businesses.GetProfile(ctx, businessID)
	if err != nil {
		return nil, err
	}
	c.profilesByID[businessID] = profile
	return profile, nil
}

// Credentials returns the tenant's decrypted SMS credentials, (nil,
// nil) when none are stored, or the memoized decryption error.
func (c *tenantCache) Credentials(ctx context.Context, businessID string) (*domain.SMSCredentials, error) {
	if cached, ok := c.credsByID[businessID]; ok {
		return cached.creds, cached.err
	}

	stored, err := c.businesses.GetCredentials(ctx, businessID)
	if errors.Is(err, pgx.ErrNoRows) {
		c.credsByID[businessID] = credentialsResult{}
		return nil, nil
	}
	if err != nil {
		// Transient store error: not memoized, retried on the next
		// ticket of this tenant.
		return nil, err
	}

	creds, err := c.decrypt(stored)
	c.credsByID[businessID] = credentialsResult{creds: creds, err: err}
	return creds, err
}

func (c *tenantCache) decrypt(stored *domain.BusinessCredentials) (*domain.SMSCredentials, error) {
	sid, err := c.vault.DecryptString(stored.AccountSIDCipher)
	if err != nil {
		return nil, fmt.Errorf("account sid: %w", err)
	}
	token, err := c.vault.DecryptString(stored.AuthTokenCipher)
	if err != nil {
		return nil, fmt.Errorf("auth token: %w", err)
	}

	creds := &domain.SMSCredentials{AccountSID: sid, AuthToken: token}
	if stored.SMSFromNumber != nil {
		creds.FromNumber = *stored.SMSFromNumber
	}
	return creds, nil
}
