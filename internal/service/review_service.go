package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/review-service/internal/domain"
	"github.com/spec-kit/review-service/internal/events"
	"github.com/spec-kit/review-service/internal/linktoken"
	"github.com/spec-kit/review-service/internal/repository"
	apperrors "github.com/spec-kit/review-service/pkg/util"
)

// ReviewService accepts internal review submissions arriving through
// the signed links embedded in review requests.
type ReviewService struct {
	reviews    repository.ReviewRepository
	tickets    repository.TicketRepository
	tokens     *linktoken.Manager
	dispatcher events.Dispatcher
}

// ReviewDependencies bundles collaborators for the review service.
type ReviewDependencies struct {
	ReviewRepo repository.ReviewRepository
	TicketRepo repository.TicketRepository
	Tokens     *linktoken.Manager
	Dispatcher events.Dispatcher
}

// ReviewSubmitInput describes a submission payload.
type ReviewSubmitInput struct {
	Token   string
	Rating  int
	Comment string
}

// NewReviewService constructs the service.
func NewReviewService(deps ReviewDependencies) *ReviewService {
	return &ReviewService{
		reviews:    deps.ReviewRepo,
		tickets:    deps.TicketRepo,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
	}
}

// SubmitReview validates the link token and stores the review. At most
// one review per ticket is accepted.
func (s *ReviewService) SubmitReview(ctx context.Context, input ReviewSubmitInput) (*domain.ReviewSubmission, error) {
	claims, err := s.tokens.Parse(input.Token)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid or expired review link")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5", nil)
	}

	ticket, err := s.tickets.GetByID(ctx, claims.TicketID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("ticket", nil)
	}
	if err != nil {
		return nil, err
	}
	if ticket.BusinessID != claims.BusinessID {
		return nil, apperrors.NewUnauthorized("review link does not match ticket")
	}

	if _, err := s.reviews.GetByTicket(ctx, ticket.ID); err == nil {
		return nil, apperrors.NewConflict("a review was already submitted for this ticket", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	submission := &domain.ReviewSubmission{
		ID:         uuid.NewString(),
		TicketID:   ticket.ID,
		BusinessID: ticket.BusinessID,
		Rating:     input.Rating,
	}
	if trimmed := strings.TrimSpace(input.Comment); trimmed != "" {
		submission.Comment = &trimmed
	}

	if err := s.reviews.Create(ctx, submission); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventReviewReceived,
		TicketID:   ticket.ID,
		BusinessID: ticket.BusinessID,
		Timestamp:  time.Now(),
		Payload:    events.ReviewReceivedPayload{Rating: submission.Rating},
	})
	return submission, nil
}

func (s *ReviewService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Publish(ctx, event)
}
