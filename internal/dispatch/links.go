package dispatch

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spec-kit/review-service/internal/linktoken"
)

// ReviewLinkBuilder builds signed internal review links pointing at the
// public submission endpoint.
type ReviewLinkBuilder struct {
	tokens  *linktoken.Manager
	baseURL string
}

// NewReviewLinkBuilder constructs the builder.
func NewReviewLinkBuilder(tokens *linktoken.Manager, baseURL string) *ReviewLinkBuilder {
	return &ReviewLinkBuilder{tokens: tokens, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// InternalReviewLink returns the URL a customer follows to leave an
// internal review for one ticket.
func (b *ReviewLinkBuilder) InternalReviewLink(ticketID, businessID string) (string, error) {
	token, err := b.tokens.Generate(ticketID, businessID)
	if err != nil {
		return "", fmt.Errorf("review link token: %w", err)
	}
	return fmt.Sprintf("%s/reviews/submit?token=%s", b.baseURL, url.QueryEscape(token)), nil
}
