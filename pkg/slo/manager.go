package slo

import (
	"context"
	"net/url"
	"runtime/debug"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ssokit/slogate/internal/otel"
	"github.com/ssokit/slogate/pkg/metrics"
	"github.com/ssokit/slogate/pkg/ticket"
)

const (
	// samlRequestParameter carries the encoded logout message on
	// front-channel redirects.
	samlRequestParameter = "SAMLRequest"
	relayStateParameter  = "RelayState"
)

// Manager orchestrates single logout for a session: it flattens the ticket
// tree into service grants, fans out over the execution plan's handlers, and
// runs post-logout side effects.
type Manager struct {
	plan        *ExecutionPlan
	messages    MessageCreator
	disabled    bool
	parallelism int
}

func NewManager(plan *ExecutionPlan, messages MessageCreator, disabled bool, parallelism int) *Manager {
	if parallelism < 1 {
		parallelism = 1
	}

	return &Manager{
		plan:        plan,
		messages:    messages,
		disabled:    disabled,
		parallelism: parallelism,
	}
}

// PerformLogout terminates single sign-on for the given session and returns
// one request per applicable service. Results carry no ordering guarantee.
// Failures never propagate; they surface as StatusFailure on the
// corresponding request.
func (m *Manager) PerformLogout(ctx context.Context, session *ticket.TicketGrantingTicket) []*RequestContext {
	ctx, span := otel.StartSpan(ctx, "Manager.PerformLogout")
	defer span.End()

	results := make([]*RequestContext, 0)

	if m.disabled {
		log.Infof("slo: single logout callbacks are disabled; skipping fan-out for %q", session.ID)
		return results
	}

	grants := make([]ticket.ServiceGrant, 0)
	for _, grant := range session.AllGrants() {
		if grant.Service == nil || !grant.Service.IsWebApplication() {
			continue
		}
		grants = append(grants, grant)
	}

	log.Debugf("slo: processing %d service grants for session %q", len(grants), session.ID)

	handlers := m.plan.Handlers()

	var mu sync.Mutex
	var group errgroup.Group
	group.SetLimit(m.parallelism)

	for _, grant := range grants {
		group.Go(func() error {
			// A panicking handler must not take sibling grants down with it.
			defer func() {
				if r := recover(); r != nil {
					log.Errorf("slo: panic while handling ticket %q: %v\n%s", grant.TicketID, r, debug.Stack())
				}
			}()

			for _, handler := range handlers {
				rc := handler.Handle(ctx, grant.Service, grant.TicketID, session)
				if rc == nil {
					continue
				}

				mu.Lock()
				results = append(results, rc)
				mu.Unlock()
			}

			return nil
		})
	}

	// Handlers never return errors; Wait only synchronizes the fan-out.
	_ = group.Wait()

	for _, postProcessor := range m.plan.PostProcessors() {
		postProcessor.Handle(ctx, session)
	}

	metrics.ObserveLogout()
	log.Infof("slo: session %q produced %d logout requests", session.ID, len(results))

	return results
}

// CreateFrontChannelLogoutMessage renders and transport-encodes the logout
// message for a front-channel request, for embedding in a browser redirect or
// auto-submitting form.
func (m *Manager) CreateFrontChannelLogoutMessage(rc *RequestContext) (string, error) {
	return m.messages.Create(rc)
}

// BuildFrontChannelURL returns the full browser redirect URL for a
// front-channel request: the resolved logout URL with the encoded message and
// optional relay state as query parameters.
func (m *Manager) BuildFrontChannelURL(rc *RequestContext, relayState string) (*url.URL, error) {
	message, err := m.CreateFrontChannelLogoutMessage(rc)
	if err != nil {
		return nil, err
	}

	redirect := *rc.LogoutURL
	query := redirect.Query()
	query.Set(samlRequestParameter, message)

	if relayState != "" {
		query.Set(relayStateParameter, relayState)
		rc.SetProperty(relayStateParameter, relayState)
	}

	redirect.RawQuery = query.Encode()
	return &redirect, nil
}
