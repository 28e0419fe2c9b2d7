package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/review-service/internal/events"
)

// ActivityService records review lifecycle events in the operational
// log. Failures surface nowhere else; this is the audit trail.
type ActivityService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, logger *zap.Logger) *ActivityService {
	return &ActivityService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventReviewRequestSent, a.handleRequestSent)
	a.dispatcher.Subscribe(events.EventReviewChannelFailed, a.handleChannelFailed)
	a.dispatcher.Subscribe(events.EventReviewReceived, a.handleReviewReceived)
}

func (a *ActivityService) handleRequestSent(ctx context.Context, event events.Event) {
	a.logger.Info("ReviewRequestSent",
		zap.String("ticket_id", event.TicketID),
		zap.String("business_id", event.BusinessID),
		zap.Any("payload", event.Payload))
}

func (a *ActivityService) handleChannelFailed(ctx context.Context, event events.Event) {
	a.logger.Warn("ReviewChannelFailed",
		zap.String("ticket_id", event.TicketID),
		zap.String("business_id", event.BusinessID),
		zap.Any("payload", event.Payload))
}

func (a *ActivityService) handleReviewReceived(ctx context.Context, event events.Event) {
	a.logger.Info("ReviewReceived",
		zap.String("ticket_id", event.TicketID),
		zap.String("business_id", event.BusinessID),
		zap.Any("payload", event.Payload))
}
