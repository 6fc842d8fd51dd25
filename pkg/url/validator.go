package url

import (
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"
)

var _ Validator = &AbsoluteValidator{}

type Validator interface {
	IsValid(rawURL string) bool
}

// AbsoluteValidator accepts absolute http(s) URLs whose host matches the
// configured list of allowed domains. It is the acceptance policy applied to
// logout URLs derived from a service's originally requested URL.
type AbsoluteValidator struct {
	allowedDomains []string
}

func NewAbsoluteValidator(allowedDomains []string) *AbsoluteValidator {
	return &AbsoluteValidator{allowedDomains: allowedDomains}
}

// IsValid validates that the given string is a valid absolute URL.
// It must use the 'http' or 'https' scheme.
// It must point to a host that matches the configured list of allowed domains.
func (v *AbsoluteValidator) IsValid(rawURL string) bool {
	u, ok := parsable(rawURL)
	if !ok {
		return false
	}

	if isRelativeURL(u) {
		log.Debugf("validator: %q is not an absolute URL", rawURL)
		return false
	}

	if !isValidScheme(u) {
		log.Debugf("validator: %q has an invalid scheme; must be one of ['http', 'https']", rawURL)
		return false
	}

	if !isAllowedHost(u, v.allowedDomains) {
		log.Debugf("validator: host of %q does not match any allowlisted domains: %q", rawURL, v.allowedDomains)
		return false
	}

	return true
}

func parsable(rawURL string) (*url.URL, bool) {
	if rawURL == "" {
		return nil, false
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		log.Debugf("validator: %+v", err)
		return nil, false
	}

	return u, true
}

func isAllowedHost(u *url.URL, allowedDomains []string) bool {
	host := u.Host
	hostname := u.Hostname()

	if host == "" || hostname == "" || len(allowedDomains) == 0 {
		return false
	}

	for _, allowed := range allowedDomains {
		if isAllowedDomain(u, allowed) {
			return true
		}
	}

	return false
}

func isValidScheme(u *url.URL) bool {
	return u.Scheme == "http" || u.Scheme == "https"
}

func isRelativeURL(u *url.URL) bool {
	return u.Scheme == "" && u.Host == ""
}

func isAllowedDomain(u *url.URL, allowed string) bool {
	if len(allowed) == 0 {
		return false
	}

	host := u.Host
	hostname := u.Hostname()

	// exact match on host:port or host
	if host == allowed || hostname == allowed {
		return true
	}

	// subdomain of allowed domain
	if !strings.HasPrefix(allowed, ".") {
		allowed = "." + allowed
	}
	return strings.HasSuffix(host, allowed)
}
