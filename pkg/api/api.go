package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/ssokit/slogate/pkg/middleware/correlationid"
	"github.com/ssokit/slogate/pkg/middleware/prometheus"
	"github.com/ssokit/slogate/pkg/service"
	"github.com/ssokit/slogate/pkg/slo"
	"github.com/ssokit/slogate/pkg/ticket"
)

// Handler exposes the logout engine over HTTP for the controller layer: it
// terminates a session and reports the per-service outcomes, including
// prepared redirect URLs for front-channel services.
type Handler struct {
	Manager  *slo.Manager
	Registry ticket.Registry
}

func New(manager *slo.Manager, registry ticket.Registry) *Handler {
	return &Handler{
		Manager:  manager,
		Registry: registry,
	}
}

func Router(h *Handler) chi.Router {
	r := chi.NewRouter()
	prometheusMiddleware := prometheus.NewMiddleware("slogate")

	r.Route("/v1", func(r chi.Router) {
		r.Use(prometheusMiddleware.Handler())
		r.Use(correlationid.Handler)
		r.Use(chi_middleware.NoCache)
		r.Get("/ping", h.Ping)
		r.Post("/sessions/{id}/logout", h.Logout)
	})

	return r
}

func (h *Handler) Ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

type logoutResult struct {
	TicketID          string `json:"ticket-id"`
	ServiceID         string `json:"service-id"`
	RegisteredService string `json:"registered-service"`
	LogoutType        string `json:"logout-type"`
	Status            string `json:"status"`
	RedirectURL       string `json:"redirect-url,omitempty"`
}

type logoutResponse struct {
	SessionID string         `json:"session-id"`
	Results   []logoutResult `json:"results"`
}

// Logout terminates the identified session: runs single logout fan-out,
// deletes the root ticket, and returns one result per applicable service.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	logger := log.NewEntry(log.StandardLogger())
	if correlationID, ok := correlationid.GetFromContext(ctx); ok {
		logger = logger.WithField("correlation_id", correlationID)
	}

	session, err := h.Registry.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ticket.ErrNotFound) {
			http.Error(w, "no such session", http.StatusNotFound)
			return
		}

		logger.Errorf("api: fetching session %q: %+v", id, err)
		http.Error(w, "could not fetch session", http.StatusInternalServerError)
		return
	}

	requests := h.Manager.PerformLogout(ctx, session)

	if err := h.Registry.Delete(ctx, session.ID); err != nil {
		logger.Warnf("api: deleting session %q: %+v", session.ID, err)
	}

	response := logoutResponse{
		SessionID: session.ID,
		Results:   make([]logoutResult, 0, len(requests)),
	}

	for _, rc := range requests {
		result := logoutResult{
			TicketID:          rc.TicketID,
			ServiceID:         rc.ServiceID,
			RegisteredService: rc.RegisteredServiceID,
			LogoutType:        string(rc.LogoutType),
			Status:            rc.Status().String(),
		}

		if rc.LogoutType == service.LogoutTypeFrontChannel {
			redirect, err := h.Manager.BuildFrontChannelURL(rc, session.ID)
			if err != nil {
				log.Errorf("api: building front-channel url for %q: %+v", rc.RegisteredServiceID, err)
			} else {
				result.RedirectURL = redirect.String()
			}
		}

		response.Results = append(response.Results, result)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Errorf("api: writing logout response: %+v", err)
	}
}
