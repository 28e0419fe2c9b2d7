package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/review-service/internal/domain"
)

// TicketRepository exposes the dispatcher's view of the ticket store:
// candidate listing, batch claiming and the sent-flag mutation. Ticket
// creation and status transitions belong to the ticketing subsystem.
type TicketRepository interface {
	ListUnsentResolved(ctx context.Context, limit int) ([]domain.Ticket, error)
	ClaimBatch(ctx context.Context, ids []string, staleBefore time.Time) ([]string, error)
	MarkReviewSent(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

// ListUnsentResolved returns resolved tickets whose sent-flag is unset
// or false, ordered by id so pass processing is deterministic.
func (r *ticketRepository) ListUnsentResolved(ctx context.Context, limit int) ([]domain.Ticket, error) {
	const query = `
        SELECT id, business_id, status, customer_email, customer_phone,
               COALESCE(review_sent, FALSE), review_claimed_at, created_at, resolved_at
        FROM tickets
        WHERE status = 'RESOLVED' AND review_sent IS NOT TRUE
        ORDER BY id
        LIMIT $1`
	if limit <= 0 {
		limit = 200
	}
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

// ClaimBatch stamps a claim on the given tickets and returns the ids it
// won. A ticket is claimable when unsent and either unclaimed or its
// claim predates staleBefore, so two dispatcher instances never process
// the same ticket.
func (r *ticketRepository) ClaimBatch(ctx context.Context, ids []string, staleBefore time.Time) ([]string, error) {
	const query = `
        UPDATE tickets SET review_claimed_at = NOW()
        WHERE id = ANY($1)
          AND review_sent IS NOT TRUE
          AND (review_claimed_at IS NULL OR review_claimed_at < $2)
        RETURNING id`
	rows, err := r.pool.Query(ctx, query, ids, staleBefore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claimed []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		claimed = append(claimed, id)
	}
	return claimed, rows.Err()
}

// MarkReviewSent flips the sent-flag. Re-applying to an already marked
// ticket is a no-op, not an error.
func (r *ticketRepository) MarkReviewSent(ctx context.Context, id string) error {
	const query = `
        UPDATE tickets SET review_sent = TRUE, review_claimed_at = NULL
        WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, business_id, status, customer_email, customer_phone,
               COALESCE(review_sent, FALSE), review_claimed_at, created_at, resolved_at
        FROM tickets WHERE id = $1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.BusinessID,
		&ticket.Status,
		&ticket.CustomerEmail,
		&ticket.CustomerPhone,
		&ticket.ReviewSent,
		&ticket.ReviewClaimedAt,
		&ticket.CreatedAt,
		&ticket.ResolvedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.BusinessID,
			&ticket.Status,
			&ticket.CustomerEmail,
			&ticket.CustomerPhone,
			&ticket.ReviewSent,
			&ticket.ReviewClaimedAt,
			&ticket.CreatedAt,
			&ticket.ResolvedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
