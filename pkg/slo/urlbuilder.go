package slo

import (
	"net/url"

	log "github.com/sirupsen/logrus"

	"github.com/ssokit/slogate/pkg/service"
	urlpkg "github.com/ssokit/slogate/pkg/url"
)

// URLBuilder resolves the logout destination for a service. Nil means no
// usable URL, in which case the service is skipped.
type URLBuilder interface {
	DetermineLogoutURL(registered *service.RegisteredService, svc *service.Service) *url.URL
}

var _ URLBuilder = &defaultURLBuilder{}

type defaultURLBuilder struct {
	validator urlpkg.Validator
}

func NewURLBuilder(validator urlpkg.Validator) URLBuilder {
	return &defaultURLBuilder{validator: validator}
}

// DetermineLogoutURL prefers the explicitly registered logout URL. Without
// one, the service's originally requested URL is used, but only if it passes
// the URL acceptance policy. Deterministic for the same inputs.
func (b *defaultURLBuilder) DetermineLogoutURL(registered *service.RegisteredService, svc *service.Service) *url.URL {
	if registered != nil && registered.LogoutURL != "" {
		u, err := url.Parse(registered.LogoutURL)
		if err != nil {
			log.Warnf("slo: registered logout url %q for %q does not parse: %+v", registered.LogoutURL, registered.ID, err)
			return nil
		}
		return u
	}

	if svc == nil {
		return nil
	}

	original := svc.OriginalURL()
	if !b.validator.IsValid(original) {
		log.Debugf("slo: service url %q rejected by acceptance policy", original)
		return nil
	}

	u, err := url.Parse(original)
	if err != nil {
		return nil
	}

	return u
}
