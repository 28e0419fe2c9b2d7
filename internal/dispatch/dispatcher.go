package dispatch

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/review-service/internal/channel"
	"github.com/spec-kit/review-service/internal/compose"
	"github.com/spec-kit/review-service/internal/config"
	"github.com/spec-kit/review-service/internal/domain"
	"github.com/spec-kit/review-service/internal/events"
	"github.com/spec-kit/review-service/internal/observability"
	"github.com/spec-kit/review-service/internal/repository"
)

// ErrPassInProgress indicates an overlapping trigger; the later pass is
// skipped, never run concurrently against the same candidate set.
var ErrPassInProgress = errors.New("dispatch: pass already in progress")

// CredentialOpener decrypts stored credential blobs.
type CredentialOpener interface {
	DecryptString(ciphertext []byte) (string, error)
}

// LinkBuilder produces the internal review link embedded in composed
// messages.
type LinkBuilder interface {
	InternalReviewLink(ticketID, businessID string) (string, error)
}

// Dependencies bundles everything a Dispatcher needs.
type Dependencies struct {
	Tickets    repository.TicketRepository
	Businesses repository.BusinessRepository
	Settings   repository.SettingsRepository
	Vault      CredentialOpener
	Email      channel.Channel
	SMSFor     func(creds domain.SMSCredentials) channel.Channel
	Links      LinkBuilder
	Guard      Guard
	Events     events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Now        func() time.Time
}

// Dispatcher runs the periodic review request pass: list candidates,
// claim them, then per ticket filter, decrypt, compose, deliver and
// mark. Ticket failures are isolated; only a candidate listing failure
// aborts a pass.
type Dispatcher struct {
	cfg        config.DispatchConfig
	tickets    repository.TicketRepository
	businesses repository.BusinessRepository
	settings   repository.SettingsRepository
	vault      CredentialOpener
	email      channel.Channel
	smsFor     func(creds domain.SMSCredentials) channel.Channel
	links      LinkBuilder
	guard      Guard
	events     events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
	running    atomic.Bool
}

// NewDispatcher constructs the dispatcher.
func NewDispatcher(cfg config.DispatchConfig, deps Dependencies) *Dispatcher {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Dispatcher{
		cfg:        cfg,
		tickets:    deps.Tickets,
		businesses: deps.Businesses,
		settings:   deps.Settings,
		vault:      deps.Vault,
		email:      deps.Email,
		smsFor:     deps.SMSFor,
		links:      deps.Links,
		guard:      deps.Guard,
		events:     deps.Events,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		now:        now,
	}
}

// Run executes passes on the configured interval until ctx is done.
// The first pass starts immediately.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		if err := d.RunPass(ctx); err != nil && !errors.Is(err, ErrPassInProgress) {
			d.logger.Error("dispatch pass failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(d.cfg.Interval()):
		}
	}
}

// RunPass executes one pass. Overlapping invocations return
// ErrPassInProgress instead of running concurrently.
func (d *Dispatcher) RunPass(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return ErrPassInProgress
	}
	defer d.running.Store(false)

	if d.guard != nil {
		release, err := d.guard.Acquire(ctx)
		switch {
		case errors.Is(err, ErrPassInProgress):
			return ErrPassInProgress
		case err != nil:
			// Lease backend unreachable. The in-process guard still
			// holds; single-instance deployments stay correct.
			d.logger.Warn("pass lease unavailable; proceeding without it", zap.Error(err))
		default:
			defer release()
		}
	}

	now := d.now()
	tickets, err := d.tickets.ListUnsentResolved(ctx, d.cfg.BatchSize)
	if err != nil {
		d.metrics.RecordPass(true)
		return err
	}
	if len(tickets) == 0 {
		d.metrics.RecordPass(false)
		return nil
	}

	ids := make([]string, 0, len(tickets))
	for i := range tickets {
		ids = append(ids, tickets[i].ID)
	}
	claimedIDs, err := d.tickets.ClaimBatch(ctx, ids, now.Add(-d.cfg.ClaimStaleAfter()))
	if err != nil {
		d.metrics.RecordPass(true)
		return err
	}
	claimed := make(map[string]bool, len(claimedIDs))
	for _, id := range claimedIDs {
		claimed[id] = true
	}

	cache := newTenantCache(d.businesses, d.settings, d.vault)
	processed := 0
	for i := range tickets {
		if !claimed[tickets[i].ID] {
			continue
		}
		d.processTicket(ctx, now, &tickets[i], cache)
		processed++
	}

	d.metrics.RecordPass(false)
	d.logger.Info("dispatch pass complete",
		zap.Int("candidates", len(tickets)),
		zap.Int("claimed", processed))
	return nil
}

// processTicket handles one claimed ticket. Nothing it does may abort
// the pass; every failure is logged and absorbed here.
func (d *Dispatcher) processTicket(ctx context.Context, now time.Time, ticket *domain.Ticket, cache *tenantCache) {
	log := d.logger.With(
		zap.String("ticket_id", ticket.ID),
		zap.String("business_id", ticket.BusinessID))

	settings, err := cache.Settings(ctx, ticket.BusinessID)
	if err != nil {
		log.Warn("review settings unavailable; ticket left for next pass", zap.Error(err))
		return
	}
	if settings == nil {
		d.metrics.RecordTicket(observability.TicketOutcomeNoSettings)
		log.Debug("no review settings for tenant; skipping")
		return
	}

	if ticket.ResolvedAt == nil || !Eligible(*ticket.ResolvedAt, now, settings.DelayMinutes) {
		d.metrics.RecordTicket(observability.TicketOutcomeNotEligible)
		return
	}

	profile, err := cache.Profile(ctx, ticket.BusinessID)
	if err != nil {
		log.Warn("business profile unavailable; ticket left for next pass", zap.Error(err))
		return
	}

	content, composeErr := d.composeContent(ticket, profile, settings)
	if composeErr != nil {
		log.Error("compose failed; marking ticket attempted", zap.Error(composeErr))
	}

	emailSent := false
	if composeErr == nil && settings.SendEmail && hasValue(ticket.CustomerEmail) {
		if err := d.deliver(ctx, d.email, *ticket.CustomerEmail, content); err != nil {
			d.recordChannelFailure(ctx, log, ticket, d.email.Name(), err)
		} else {
			emailSent = true
			d.metrics.RecordChannelSend(d.email.Name())
		}
	}

	smsSent := false
	if composeErr == nil && settings.SendSMS && hasValue(ticket.CustomerPhone) {
		smsSent = d.attemptSMS(ctx, log, ticket, cache, content)
	}

	if err := d.mark(ctx, ticket.ID); err != nil {
		// The one failure that risks a duplicate send next pass.
		d.metrics.RecordTicket(observability.TicketOutcomeMarkFailed)
		log.Error("failed to persist sent-flag after delivery attempts", zap.Error(err))
		return
	}

	d.metrics.RecordTicket(observability.TicketOutcomeSent)
	d.publish(ctx, events.Event{
		Type:       events.EventReviewRequestSent,
		TicketID:   ticket.ID,
		BusinessID: ticket.BusinessID,
		Timestamp:  now,
		Payload:    events.ReviewRequestSentPayload{EmailSent: emailSent, SMSSent: smsSent},
	})
}

// attemptSMS runs the SMS attempt when the tenant's gateway identity is
// usable. A decryption failure is memoized per tenant, so SMS is
// skipped for every ticket of that tenant this pass while email keeps
// flowing.
func (d *Dispatcher) attemptSMS(ctx context.Context, log *zap.Logger, ticket *domain.Ticket, cache *tenantCache, content channel.Content) bool {
	creds, err := cache.Credentials(ctx, ticket.BusinessID)
	switch {
	case err != nil:
		log.Warn("sms skipped: tenant credentials unusable", zap.Error(err))
		return false
	case creds == nil:
		log.Debug("sms skipped: no credentials configured")
		return false
	case creds.FromNumber == "":
		log.Debug("sms skipped: sending number not configured")
		return false
	}

	sms := d.smsFor(*creds)
	if err := d.deliver(ctx, sms, *ticket.CustomerPhone, content); err != nil {
		d.recordChannelFailure(ctx, log, ticket, sms.Name(), err)
		return false
	}
	d.metrics.RecordChannelSend(sms.Name())
	return true
}

func (d *Dispatcher) composeContent(ticket *domain.Ticket, profile *domain.BusinessProfile, settings *domain.ReviewSettings) (channel.Content, error) {
	in := compose.Input{BusinessName: profile.Name}
	if profile.LogoRef != nil {
		in.LogoRef = *profile.LogoRef
	}
	if settings.EnableExternal && hasValue(settings.ExternalReviewLink) {
		in.ExternalLink = *settings.ExternalReviewLink
	}
	if settings.EnableInternal {
		link, err := d.links.InternalReviewLink(ticket.ID, ticket.BusinessID)
		if err != nil {
			return channel.Content{}, err
		}
		in.InternalLink = link
	}

	msg, err := compose.Compose(in)
	if err != nil {
		return channel.Content{}, err
	}
	return channel.Content{Subject: msg.Subject, HTML: msg.EmailHTML, Text: msg.SMSText}, nil
}

// deliver runs one channel attempt under the configured timeout.
func (d *Dispatcher) deliver(ctx context.Context, ch channel.Channel, destination string, content channel.Content) error {
	sendCtx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout())
	defer cancel()
	return ch.Send(sendCtx, destination, content)
}

// mark flips the sent-flag, retrying once after a short backoff. A
// ticket already marked counts as success.
func (d *Dispatcher) mark(ctx context.Context, ticketID string) error {
	err := d.tickets.MarkReviewSent(ctx, ticketID)
	if err == nil || errors.Is(err, pgx.ErrNoRows) {
		return nil
	}

	d.logger.Warn("sent-flag write failed; retrying",
		zap.String("ticket_id", ticketID), zap.Error(err))
	select {
	case <-ctx.Done():
		return err
	case <-time.After(d.cfg.MarkRetryBackoff()):
	}
	err = d.tickets.MarkReviewSent(ctx, ticketID)
	if err == nil || errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return err
}

func (d *Dispatcher) recordChannelFailure(ctx context.Context, log *zap.Logger, ticket *domain.Ticket, channelName string, err error) {
	d.metrics.RecordChannelError(channelName)
	log.Warn("channel delivery failed",
		zap.String("channel", channelName), zap.Error(err))
	d.publish(ctx, events.Event{
		Type:       events.EventReviewChannelFailed,
		TicketID:   ticket.ID,
		BusinessID: ticket.BusinessID,
		Timestamp:  d.now(),
		Payload:    events.ReviewChannelFailedPayload{Channel: channelName, Reason: err.Error()},
	})
}

func (d *Dispatcher) publish(ctx context.Context, event events.Event) {
	if d.events == nil {
		return
	}
	d.events.Publish(ctx, event)
}

func hasValue(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
