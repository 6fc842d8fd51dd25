package ticket

import (
	"context"
	"fmt"
	"sync"
)

type memoryRegistry struct {
	lock    sync.Mutex
	tickets map[string]*TicketGrantingTicket
}

var _ Registry = &memoryRegistry{}

func NewMemory() Registry {
	return &memoryRegistry{
		tickets: make(map[string]*TicketGrantingTicket),
	}
}

func (r *memoryRegistry) Get(_ context.Context, id string) (*TicketGrantingTicket, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	tgt, ok := r.tickets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	return tgt, nil
}

func (r *memoryRegistry) Add(_ context.Context, tgt *TicketGrantingTicket) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.tickets[tgt.ID] = tgt
	return nil
}

func (r *memoryRegistry) Delete(_ context.Context, ids ...string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, id := range ids {
		delete(r.tickets, id)
	}

	return nil
}
