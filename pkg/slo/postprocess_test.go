package slo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ssokit/slogate/pkg/slo"
	"github.com/ssokit/slogate/pkg/ticket"
)

type flakyRegistry struct {
	ticket.Registry
	failOn  string
	deleted []string
}

func (r *flakyRegistry) Delete(_ context.Context, ids ...string) error {
	for _, id := range ids {
		if id == r.failOn {
			return errors.New("registry unavailable")
		}
		r.deleted = append(r.deleted, id)
	}
	return nil
}

func TestDescendantTicketsPostProcessor_FailureIsolation(t *testing.T) {
	registry := &flakyRegistry{failOn: "PGT-2"}

	session := ticket.NewTicketGrantingTicket("TGT-1", "alice")
	session.AddChild(ticket.NewTicketGrantingTicket("PGT-1", "alice"))
	session.AddChild(ticket.NewTicketGrantingTicket("PGT-2", "alice"))
	session.AddChild(ticket.NewTicketGrantingTicket("PGT-3", "alice"))

	processor := slo.NewDescendantTicketsPostProcessor(registry)
	processor.Handle(context.Background(), session)

	// the failing ticket does not abort the remaining deletions
	assert.Equal(t, []string{"PGT-1", "PGT-3"}, registry.deleted)
}

func TestDescendantTicketsPostProcessor_NoDescendants(t *testing.T) {
	registry := &flakyRegistry{}
	session := ticket.NewTicketGrantingTicket("TGT-1", "alice")

	processor := slo.NewDescendantTicketsPostProcessor(registry)
	processor.Handle(context.Background(), session)

	assert.Empty(t, registry.deleted)
}
