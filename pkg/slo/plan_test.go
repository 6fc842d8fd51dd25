package slo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ssokit/slogate/pkg/service"
	"github.com/ssokit/slogate/pkg/slo"
	"github.com/ssokit/slogate/pkg/ticket"
)

type orderedHandler struct {
	name  string
	order int
}

func (h *orderedHandler) Order() int {
	return h.order
}

func (h *orderedHandler) Handle(_ context.Context, _ *service.Service, _ string, _ *ticket.TicketGrantingTicket) *slo.RequestContext {
	return nil
}

type orderedPostProcessor struct {
	name  string
	order int
}

func (p *orderedPostProcessor) Order() int {
	return p.order
}

func (p *orderedPostProcessor) Handle(_ context.Context, _ *ticket.TicketGrantingTicket) {}

func TestExecutionPlan_HandlerOrdering(t *testing.T) {
	plan := slo.NewExecutionPlan()
	plan.RegisterHandler(&orderedHandler{name: "late", order: 10})
	plan.RegisterHandler(&orderedHandler{name: "first-tie", order: 1})
	plan.RegisterHandler(&orderedHandler{name: "second-tie", order: 1})

	names := make([]string, 0)
	for _, h := range plan.Handlers() {
		names = append(names, h.(*orderedHandler).name)
	}

	// ascending order; ties keep registration order
	assert.Equal(t, []string{"first-tie", "second-tie", "late"}, names)
}

func TestExecutionPlan_PostProcessorOrdering(t *testing.T) {
	plan := slo.NewExecutionPlan()
	plan.RegisterPostProcessor(&orderedPostProcessor{name: "b", order: 2})
	plan.RegisterPostProcessor(&orderedPostProcessor{name: "a", order: 1})

	names := make([]string, 0)
	for _, p := range plan.PostProcessors() {
		names = append(names, p.(*orderedPostProcessor).name)
	}

	assert.Equal(t, []string{"a", "b"}, names)
}

func TestExecutionPlan_Empty(t *testing.T) {
	plan := slo.NewExecutionPlan()
	assert.Empty(t, plan.Handlers())
	assert.Empty(t, plan.PostProcessors())
}
