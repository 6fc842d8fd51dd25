package slo

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/ssokit/slogate/pkg/ticket"
)

var _ PostProcessor = &DescendantTicketsPostProcessor{}

// DescendantTicketsPostProcessor removes every descendant ticket of the
// session from the registry. It runs after fan-out so that downstream
// services are notified before their backing tickets disappear.
type DescendantTicketsPostProcessor struct {
	registry ticket.Registry
}

func NewDescendantTicketsPostProcessor(registry ticket.Registry) *DescendantTicketsPostProcessor {
	return &DescendantTicketsPostProcessor{registry: registry}
}

func (p *DescendantTicketsPostProcessor) Order() int {
	return 0
}

// Handle deletes descendant tickets one by one; a failed deletion is logged
// and does not abort the remaining deletions.
func (p *DescendantTicketsPostProcessor) Handle(ctx context.Context, session *ticket.TicketGrantingTicket) {
	for _, id := range session.DescendantTicketIDs() {
		if err := p.registry.Delete(ctx, id); err != nil {
			log.Warnf("slo: deleting descendant ticket %q of %q: %+v", id, session.ID, err)
			continue
		}

		log.Debugf("slo: deleted descendant ticket %q of %q", id, session.ID)
	}
}
