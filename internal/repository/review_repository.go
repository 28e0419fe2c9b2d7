package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/review-service/internal/domain"
)

// ReviewRepository stores internal review submissions.
type ReviewRepository interface {
	Create(ctx context.Context, submission *domain.ReviewSubmission) error
	GetByTicket(ctx context.Context, ticketID string) (*domain.ReviewSubmission, error)
}

type reviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository instantiates repository.
func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

func (r *reviewRepository) Create(ctx context.Context, submission *domain.ReviewSubmission) error {
	const query = `
        INSERT INTO review_submissions (id, ticket_id, business_id, rating, comment)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		submission.ID,
		submission.TicketID,
		submission.BusinessID,
		submission.Rating,
		submission.Comment,
	).Scan(&submission.CreatedAt)
}

func (r *reviewRepository) GetByTicket(ctx context.Context, ticketID string) (*domain.ReviewSubmission, error) {
	const query = `
        SELECT id, ticket_id, business_id, rating, comment, created_at
        FROM review_submissions WHERE ticket_id = $1`
	var submission domain.ReviewSubmission
	if err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&submission.ID,
		&submission.TicketID,
		&submission.BusinessID,
		&submission.Rating,
		&submission.Comment,
		&submission.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &submission, nil
}
