package service

import (
	"encoding/json"
	"sync/atomic"
)

// Service is a single grant issued to a downstream application under a
// session. The logged-out flag guards against double-dispatch when the same
// service appears in both the root session and a descendant's grant set.
type Service struct {
	id             string
	originalURL    string
	webApplication bool
	loggedOut      atomic.Bool
}

func NewService(id, originalURL string) *Service {
	return &Service{
		id:             id,
		originalURL:    originalURL,
		webApplication: true,
	}
}

// NewProxyService returns a grant for a non-web caller, e.g. an API client
// authenticating through a proxy ticket. These are excluded from logout
// fan-out.
func NewProxyService(id, originalURL string) *Service {
	return &Service{
		id:          id,
		originalURL: originalURL,
	}
}

func (s *Service) ID() string {
	return s.id
}

func (s *Service) OriginalURL() string {
	return s.originalURL
}

func (s *Service) IsWebApplication() bool {
	return s.webApplication
}

func (s *Service) LoggedOutAlready() bool {
	return s.loggedOut.Load()
}

// MarkLoggedOut atomically flips the logged-out flag and reports whether this
// caller won. At most one caller observes true for a given service.
func (s *Service) MarkLoggedOut() bool {
	return s.loggedOut.CompareAndSwap(false, true)
}

type serviceJSON struct {
	ID             string `json:"id"`
	OriginalURL    string `json:"original-url"`
	WebApplication bool   `json:"web-application"`
	LoggedOut      bool   `json:"logged-out"`
}

func (s *Service) MarshalJSON() ([]byte, error) {
	return json.Marshal(serviceJSON{
		ID:             s.id,
		OriginalURL:    s.originalURL,
		WebApplication: s.webApplication,
		LoggedOut:      s.loggedOut.Load(),
	})
}

func (s *Service) UnmarshalJSON(data []byte) error {
	var sj serviceJSON
	if err := json.Unmarshal(data, &sj); err != nil {
		return err
	}

	s.id = sj.ID
	s.originalURL = sj.OriginalURL
	s.webApplication = sj.WebApplication
	s.loggedOut.Store(sj.LoggedOut)
	return nil
}
