package domain

import "time"

// BusinessProfile carries tenant branding used when composing messages.
// Credentials live in BusinessCredentials so branding reads never touch
// secret material.
type BusinessProfile struct {
	ID        string
	Name      string
	LogoRef   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BusinessCredentials holds the tenant's SMS gateway secrets as stored:
// ciphertext only. Plaintext exists solely inside a dispatch attempt.
type BusinessCredentials struct {
	BusinessID       string
	AccountSIDCipher []byte
	AuthTokenCipher  []byte
	SMSFromNumber    *string
	UpdatedAt        time.Time
}

// SMSCredentials is the decrypted form handed to the SMS channel. Never
// persisted or logged.
type SMSCredentials struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}
