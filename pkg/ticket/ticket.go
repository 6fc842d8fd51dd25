package ticket

import (
	"time"

	"github.com/ssokit/slogate/pkg/service"
)

// TicketGrantingTicket is the server-side representation of an authenticated
// session: the services it has granted tickets to, any proxy-granting child
// sessions, and the flat list of descendant ticket IDs issued under it.
//
// The hierarchy is acyclic by construction; a child is only ever created
// under an existing parent.
type TicketGrantingTicket struct {
	ID        string    `json:"id"`
	Principal string    `json:"principal"`
	CreatedAt time.Time `json:"created-at"`

	// Services maps granted ticket IDs to the granted service.
	Services map[string]*service.Service `json:"services"`

	// Children holds proxy-granting sessions issued under this session.
	Children []*TicketGrantingTicket `json:"children,omitempty"`
}

func NewTicketGrantingTicket(id, principal string) *TicketGrantingTicket {
	return &TicketGrantingTicket{
		ID:        id,
		Principal: principal,
		CreatedAt: time.Now().UTC(),
		Services:  make(map[string]*service.Service),
	}
}

// Grant records a service grant under the given ticket ID.
func (t *TicketGrantingTicket) Grant(ticketID string, svc *service.Service) {
	t.Services[ticketID] = svc
}

// AddChild attaches a proxy-granting session issued under this session.
func (t *TicketGrantingTicket) AddChild(child *TicketGrantingTicket) {
	t.Children = append(t.Children, child)
}

// DescendantTicketIDs walks the proxy-granting hierarchy and returns the IDs
// of every ticket transitively issued under this session, used for registry
// cleanup after logout.
func (t *TicketGrantingTicket) DescendantTicketIDs() []string {
	ids := make([]string, 0, len(t.Children))
	for _, child := range t.Children {
		ids = append(ids, child.ID)
		ids = append(ids, child.DescendantTicketIDs()...)
	}
	return ids
}

// relinkSharedServices restores object identity for services appearing in
// more than one grant set. JSON encoding materializes each appearance as a
// distinct object, which would give a shared service one logged-out flag per
// appearance instead of one flag total.
func (t *TicketGrantingTicket) relinkSharedServices(seen map[string]*service.Service) {
	for ticketID, svc := range t.Services {
		if svc == nil {
			continue
		}
		if shared, ok := seen[svc.ID()]; ok {
			t.Services[ticketID] = shared
			continue
		}
		seen[svc.ID()] = svc
	}

	for _, child := range t.Children {
		child.relinkSharedServices(seen)
	}
}

// ServiceGrant is a flattened (ticketID, service) pair from the ticket tree.
type ServiceGrant struct {
	TicketID string
	Service  *service.Service
}

// AllGrants flattens the session and all of its proxy-granting descendants,
// depth-first, into a single list of grants. No deduplication happens here;
// the logged-out flag on each service guards against double-processing.
func (t *TicketGrantingTicket) AllGrants() []ServiceGrant {
	grants := make([]ServiceGrant, 0, len(t.Services))

	for ticketID, svc := range t.Services {
		grants = append(grants, ServiceGrant{TicketID: ticketID, Service: svc})
	}

	for _, child := range t.Children {
		grants = append(grants, child.AllGrants()...)
	}

	return grants
}
