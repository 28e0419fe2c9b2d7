package linktoken

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Manager signs and validates the tokens embedded in internal review
// links, so the submission endpoint can authenticate a customer without
// a session.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager builds a new manager.
func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Claims describes the review link token payload.
type Claims struct {
	TicketID   string `json:"ticket_id"`
	BusinessID string `json:"business_id"`
	jwt.RegisteredClaims
}

// Generate builds and signs a token for one ticket's review link.
func (m *Manager) Generate(ticketID, businessID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		TicketID:   ticketID,
		BusinessID: businessID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ticketID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates and returns claims.
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
