package slo

import (
	"context"
	"sort"

	"github.com/ssokit/slogate/pkg/service"
	"github.com/ssokit/slogate/pkg/ticket"
)

// SingleLogoutHandler produces the logout request for a single service grant,
// or nil when it does not apply (wrong channel, unknown service, already
// processed). Implementations never return an error; delivery failures are
// recorded on the returned request's status.
type SingleLogoutHandler interface {
	Order() int
	Handle(ctx context.Context, svc *service.Service, ticketID string, session *ticket.TicketGrantingTicket) *RequestContext
}

// PostProcessor runs a side effect after logout fan-out has completed, e.g.
// registry cleanup of descendant tickets.
type PostProcessor interface {
	Order() int
	Handle(ctx context.Context, session *ticket.TicketGrantingTicket)
}

// ExecutionPlan is the boot-time registry of logout handlers. It is
// append-only during wiring and read-only thereafter, so no locking is needed
// during dispatch. Duplicate registration is the caller's error.
type ExecutionPlan struct {
	handlers       []SingleLogoutHandler
	postProcessors []PostProcessor
}

func NewExecutionPlan() *ExecutionPlan {
	return &ExecutionPlan{}
}

func (p *ExecutionPlan) RegisterHandler(h SingleLogoutHandler) {
	p.handlers = append(p.handlers, h)
}

func (p *ExecutionPlan) RegisterPostProcessor(pp PostProcessor) {
	p.postProcessors = append(p.postProcessors, pp)
}

// Handlers returns the registered handlers by ascending order value. The sort
// is stable; ties keep registration order.
func (p *ExecutionPlan) Handlers() []SingleLogoutHandler {
	handlers := make([]SingleLogoutHandler, len(p.handlers))
	copy(handlers, p.handlers)

	sort.SliceStable(handlers, func(i, j int) bool {
		return handlers[i].Order() < handlers[j].Order()
	})

	return handlers
}

// PostProcessors returns the registered post processors by ascending order
// value, stable for ties.
func (p *ExecutionPlan) PostProcessors() []PostProcessor {
	postProcessors := make([]PostProcessor, len(p.postProcessors))
	copy(postProcessors, p.postProcessors)

	sort.SliceStable(postProcessors, func(i, j int) bool {
		return postProcessors[i].Order() < postProcessors[j].Order()
	})

	return postProcessors
}
