package slo

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/ssokit/slogate/pkg/metrics"
	"github.com/ssokit/slogate/pkg/service"
	"github.com/ssokit/slogate/pkg/ticket"
)

var _ SingleLogoutHandler = &MessageHandler{}

// MessageHandler decides per-service logout eligibility and channel, resolves
// the destination, builds the logout message, and for back-channel services
// dispatches it.
type MessageHandler struct {
	services     service.Manager
	strategy     service.SelectionStrategy
	urls         URLBuilder
	messages     MessageCreator
	dispatcher   Dispatcher
	asynchronous bool
	order        int
}

func NewMessageHandler(
	services service.Manager,
	strategy service.SelectionStrategy,
	urls URLBuilder,
	messages MessageCreator,
	dispatcher Dispatcher,
	asynchronous bool,
) *MessageHandler {
	return &MessageHandler{
		services:     services,
		strategy:     strategy,
		urls:         urls,
		messages:     messages,
		dispatcher:   dispatcher,
		asynchronous: asynchronous,
	}
}

func (h *MessageHandler) Order() int {
	return h.order
}

// Handle returns nil when the service is not applicable for single logout:
// already processed, unknown to the registry, access-disabled, logout type
// none, or no usable logout URL. None of these are errors.
//
// For back-channel services the returned request carries the dispatch
// outcome. For front-channel services it is returned with
// StatusNotAttempted for the browser layer to complete.
func (h *MessageHandler) Handle(ctx context.Context, svc *service.Service, ticketID string, session *ticket.TicketGrantingTicket) *RequestContext {
	if svc == nil || svc.LoggedOutAlready() {
		return nil
	}

	selected := h.strategy.ResolveService(svc)

	registered := h.services.FindServiceBy(selected)
	if registered == nil {
		log.Debugf("slo: no registered service matches %q; skipping", svc.OriginalURL())
		return nil
	}

	if !registered.AccessEnabled || registered.LogoutType == service.LogoutTypeNone {
		log.Debugf("slo: registered service %q does not participate in single logout; skipping", registered.ID)
		return nil
	}

	logoutURL := h.urls.DetermineLogoutURL(registered, svc)
	if logoutURL == nil {
		log.Debugf("slo: no usable logout url for %q; skipping", registered.ID)
		return nil
	}

	// At-most-once dispatch per service, also under concurrent fan-out over
	// overlapping ticket trees.
	if !svc.MarkLoggedOut() {
		return nil
	}

	rc := NewRequestContext(ticketID, svc.ID(), registered.ID, registered.LogoutType, logoutURL)

	switch registered.LogoutType {
	case service.LogoutTypeBackChannel:
		h.handleBackChannel(ctx, rc, registered)
	case service.LogoutTypeFrontChannel:
		// Delivery is owned by the browser; success or failure is unknowable
		// from here.
		metrics.ObserveLogoutRequest(metrics.ChannelFront, metrics.ResultNotAttempted)
	}

	return rc
}

func (h *MessageHandler) handleBackChannel(ctx context.Context, rc *RequestContext, registered *service.RegisteredService) {
	encoded, err := h.messages.Create(rc)
	if err != nil {
		log.Errorf("slo: building logout message for %q (ticket %q): %+v", registered.ID, rc.TicketID, err)
		rc.Conclude(StatusFailure)
		metrics.ObserveLogoutRequest(metrics.ChannelBack, metrics.ResultFailure)
		return
	}

	if err := h.dispatcher.Dispatch(ctx, rc.LogoutURL, encoded, h.asynchronous); err != nil {
		log.Warnf("slo: logout message for %q (ticket %q) to %q failed: %+v", registered.ID, rc.TicketID, rc.LogoutURL, err)
		rc.Conclude(StatusFailure)
		metrics.ObserveLogoutRequest(metrics.ChannelBack, metrics.ResultFailure)
		return
	}

	rc.Conclude(StatusSuccess)
	metrics.ObserveLogoutRequest(metrics.ChannelBack, metrics.ResultSuccess)
}
