package slo

import (
	"net/url"
	"sync/atomic"

	"github.com/ssokit/slogate/pkg/service"
)

// Status is the terminal outcome of a single per-service logout request.
type Status int32

const (
	// StatusNotAttempted means no delivery has been made by the server; it is
	// the terminal state for front-channel requests, where the browser owns
	// delivery.
	StatusNotAttempted Status = iota
	StatusSuccess
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusNotAttempted:
		return "not_attempted"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	}
	return "unknown"
}

// Property is a single ordered key/value pair of channel-specific data, e.g.
// relay parameters for front-channel redirects.
type Property struct {
	Key   string
	Value string
}

// RequestContext is the per-(ticket, service) record produced during logout
// fan-out. It holds lookup keys rather than the owned service objects, and is
// discarded after the caller has consumed the outcome; it is never persisted.
type RequestContext struct {
	// TicketID is the ID of the service ticket being invalidated.
	TicketID string
	// ServiceID identifies the granted service; resolve via the session.
	ServiceID string
	// RegisteredServiceID identifies the registered definition; resolve via
	// the services manager.
	RegisteredServiceID string
	// LogoutURL is the resolved destination. Nil means do not dispatch.
	LogoutURL *url.URL
	// LogoutType is the delivery channel for this request.
	LogoutType service.LogoutType

	status     atomic.Int32
	properties []Property
}

func NewRequestContext(ticketID, serviceID, registeredServiceID string, logoutType service.LogoutType, logoutURL *url.URL) *RequestContext {
	return &RequestContext{
		TicketID:            ticketID,
		ServiceID:           serviceID,
		RegisteredServiceID: registeredServiceID,
		LogoutType:          logoutType,
		LogoutURL:           logoutURL,
	}
}

func (rc *RequestContext) Status() Status {
	return Status(rc.status.Load())
}

// Conclude transitions the request from StatusNotAttempted to the given
// terminal status. The transition happens at most once; later attempts are
// no-ops and report false.
func (rc *RequestContext) Conclude(status Status) bool {
	if status == StatusNotAttempted {
		return false
	}
	return rc.status.CompareAndSwap(int32(StatusNotAttempted), int32(status))
}

// SetProperty appends or replaces a channel-specific property, preserving
// insertion order.
func (rc *RequestContext) SetProperty(key, value string) {
	for i := range rc.properties {
		if rc.properties[i].Key == key {
			rc.properties[i].Value = value
			return
		}
	}
	rc.properties = append(rc.properties, Property{Key: key, Value: value})
}

// Property returns the value for the given key, if set.
func (rc *RequestContext) Property(key string) (string, bool) {
	for _, p := range rc.properties {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Properties returns the ordered channel-specific properties.
func (rc *RequestContext) Properties() []Property {
	return rc.properties
}
