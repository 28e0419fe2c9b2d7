package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/review-service/internal/domain"
	"github.com/spec-kit/review-service/internal/linktoken"
	apperrors "github.com/spec-kit/review-service/pkg/util"
)

type fakeTicketStore struct {
	tickets map[string]*domain.Ticket
}

func (f *fakeTicketStore) ListUnsentResolved(ctx context.Context, limit int) ([]domain.Ticket, error) {
	return nil, nil
}

func (f *fakeTicketStore) ClaimBatch(ctx context.Context, ids []string, staleBefore time.Time) ([]string, error) {
	return nil, nil
}

func (f *fakeTicketStore) MarkReviewSent(ctx context.Context, id string) error {
	return nil
}

func (f *fakeTicketStore) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return t, nil
}

type fakeReviewStore struct {
	byTicket map[string]*domain.ReviewSubmission
}

func (f *fakeReviewStore) Create(ctx context.Context, submission *domain.ReviewSubmission) error {
	submission.CreatedAt = time.Now()
	f.byTicket[submission.TicketID] = submission
	return nil
}

func (f *fakeReviewStore) GetByTicket(ctx context.Context, ticketID string) (*domain.ReviewSubmission, error) {
	s, ok := f.byTicket[ticketID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s, nil
}

func newReviewFixture() (*ReviewService, *linktoken.Manager, *fakeReviewStore) {
	tokens := linktoken.NewManager("test-secret", time.Hour)
	reviews := &fakeReviewStore{byTicket: map[string]*domain.ReviewSubmission{}}
	tickets := &fakeTicketStore{tickets: map[string]*domain.Ticket{
		"t-1": {ID: "t-1", BusinessID: "biz-1", Status: domain.TicketStatusResolved},
	}}
	svc := NewReviewService(ReviewDependencies{
		ReviewRepo: reviews,
		TicketRepo: tickets,
		Tokens:     tokens,
	})
	return svc, tokens, reviews
}

func TestSubmitReview(t *testing.T) {
	svc, tokens, reviews := newReviewFixture()
	token, err := tokens.Generate("t-1", "biz-1")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	submission, err := svc.SubmitReview(context.Background(), ReviewSubmitInput{
		Token:   token,
		Rating:  5,
		Comment: "  great service  ",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submission.TicketID != "t-1" || submission.BusinessID != "biz-1" || submission.Rating != 5 {
		t.Fatalf("unexpected submission %+v", submission)
	}
	if submission.Comment == nil || *submission.Comment != "great service" {
		t.Fatalf("comment not trimmed: %+v", submission.Comment)
	}
	if reviews.byTicket["t-1"] == nil {
		t.Fatal("submission not stored")
	}
}

func TestSubmitReviewRejectsSecondSubmission(t *testing.T) {
	svc, tokens, _ := newReviewFixture()
	token, _ := tokens.Generate("t-1", "biz-1")

	if _, err := svc.SubmitReview(context.Background(), ReviewSubmitInput{Token: token, Rating: 4}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := svc.SubmitReview(context.Background(), ReviewSubmitInput{Token: token, Rating: 2})
	de := apperrors.ToDomainError(err)
	if de == nil || de.Code != "CONFLICT" {
		t.Fatalf("expected conflict on second submission, got %v", err)
	}
}

func TestSubmitReviewRejectsBadToken(t *testing.T) {
	svc, _, _ := newReviewFixture()
	_, err := svc.SubmitReview(context.Background(), ReviewSubmitInput{Token: "not-a-token", Rating: 5})
	de := apperrors.ToDomainError(err)
	if de == nil || de.Code != "UNAUTHORIZED" {
		t.Fatalf("expected unauthorized for bad token, got %v", err)
	}
}

func TestSubmitReviewRejectsTenantMismatch(t *testing.T) {
	svc, tokens, _ := newReviewFixture()
	token, _ := tokens.Generate("t-1", "biz-other")
	_, err := svc.SubmitReview(context.Background(), ReviewSubmitInput{Token: token, Rating: 5})
	de := apperrors.ToDomainError(err)
	if de == nil || de.Code != "UNAUTHORIZED" {
		t.Fatalf("expected unauthorized for tenant mismatch, got %v", err)
	}
}

func TestSubmitReviewValidatesRating(t *testing.T) {
	svc, tokens, _ := newReviewFixture()
	token, _ := tokens.Generate("t-1", "biz-1")
	for _, rating := range []int{0, -1, 6} {
		_, err := svc.SubmitReview(context.Background(), ReviewSubmitInput{Token: token, Rating: rating})
		de := apperrors.ToDomainError(err)
		if de == nil || de.Code != "VALIDATION_FAILED" {
			t.Fatalf("rating %d: expected validation error, got %v", rating, err)
		}
	}
}
