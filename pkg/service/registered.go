package service

import (
	"fmt"
)

// LogoutType is the delivery channel negotiated for a registered service.
type LogoutType string

const (
	LogoutTypeNone         LogoutType = "none"
	LogoutTypeBackChannel  LogoutType = "back_channel"
	LogoutTypeFrontChannel LogoutType = "front_channel"
)

func (t LogoutType) Valid() bool {
	switch t {
	case LogoutTypeNone, LogoutTypeBackChannel, LogoutTypeFrontChannel:
		return true
	}
	return false
}

// RegisteredService is the static, operator-provided definition of a
// downstream service.
type RegisteredService struct {
	// ID uniquely identifies the definition within the registry.
	ID string `yaml:"id" json:"id"`
	// Name is a human-readable label, used for logging only.
	Name string `yaml:"name" json:"name"`
	// URLPattern is a glob matched against a granted service's URL to
	// associate the grant with this definition, e.g. "https://app.example.com/**".
	URLPattern string `yaml:"url-pattern" json:"url-pattern"`
	// LogoutType selects the logout delivery channel. Defaults to "none".
	LogoutType LogoutType `yaml:"logout-type" json:"logout-type"`
	// LogoutURL, when set, is used as the logout destination instead of the
	// service's originally requested URL.
	LogoutURL string `yaml:"logout-url" json:"logout-url"`
	// AccessEnabled gates the service entirely; disabled services are skipped
	// during logout fan-out.
	AccessEnabled bool `yaml:"access-enabled" json:"access-enabled"`
}

func (rs *RegisteredService) Validate() error {
	if rs.ID == "" {
		return fmt.Errorf("registered service is missing an id")
	}

	if rs.URLPattern == "" {
		return fmt.Errorf("registered service %q is missing a url-pattern", rs.ID)
	}

	if rs.LogoutType == "" {
		rs.LogoutType = LogoutTypeNone
	}

	if !rs.LogoutType.Valid() {
		return fmt.Errorf("registered service %q has unknown logout-type %q", rs.ID, rs.LogoutType)
	}

	return nil
}
