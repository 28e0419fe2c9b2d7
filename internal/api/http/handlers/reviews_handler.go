package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/review-service/internal/api/dto"
	"github.com/spec-kit/review-service/internal/domain"
	"github.com/spec-kit/review-service/internal/service"
	apperrors "github.com/spec-kit/review-service/pkg/util"
)

// ReviewsHandler manages internal review submissions.
type ReviewsHandler struct {
	service *service.ReviewService
}

// NewReviewsHandler constructs handler.
func NewReviewsHandler(reviewService *service.ReviewService) *ReviewsHandler {
	return &ReviewsHandler{service: reviewService}
}

// Submit POST /reviews.
func (h *ReviewsHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Token) == "" {
		return apperrors.NewValidationError("token required", nil)
	}

	submission, err := h.service.SubmitReview(c.Context(), service.ReviewSubmitInput{
		Token:   req.Token,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": reviewResponse(submission)})
}

func reviewResponse(s *domain.ReviewSubmission) dto.ReviewResponse {
	return dto.ReviewResponse{
		ID:         s.ID,
		TicketID:   s.TicketID,
		BusinessID: s.BusinessID,
		Rating:     s.Rating,
		Comment:    s.Comment,
		CreatedAt:  s.CreatedAt,
	}
}
