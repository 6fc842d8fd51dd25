package service

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Manager resolves a granted service to its registered definition, if any.
type Manager interface {
	FindServiceBy(svc *Service) *RegisteredService
}

var _ Manager = &registryManager{}

type registryManager struct {
	services []RegisteredService
}

func NewManager(services []RegisteredService) Manager {
	return &registryManager{services: services}
}

// FindServiceBy returns the first registered definition whose URL pattern
// matches the service's URL, in registry file order. Nil means unknown
// service.
func (m *registryManager) FindServiceBy(svc *Service) *RegisteredService {
	if svc == nil {
		return nil
	}

	for i := range m.services {
		rs := &m.services[i]

		match, err := doublestar.Match(rs.URLPattern, svc.OriginalURL())
		if err != nil {
			log.Warnf("services: invalid url-pattern %q for %q: %+v", rs.URLPattern, rs.ID, err)
			continue
		}

		if match {
			return rs
		}
	}

	return nil
}

type registryFile struct {
	Services []RegisteredService `yaml:"services"`
	Aliases  map[string]string   `yaml:"aliases"`
}

// LoadRegistry reads registered service definitions and service aliases from
// a YAML file.
func LoadRegistry(path string) ([]RegisteredService, map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading service registry: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, nil, fmt.Errorf("parsing service registry: %w", err)
	}

	seen := make(map[string]bool, len(file.Services))
	for i := range file.Services {
		rs := &file.Services[i]

		if err := rs.Validate(); err != nil {
			return nil, nil, fmt.Errorf("service registry: %w", err)
		}

		if seen[rs.ID] {
			return nil, nil, fmt.Errorf("service registry: duplicate id %q", rs.ID)
		}
		seen[rs.ID] = true
	}

	log.Infof("services: loaded %d registered services from %q", len(file.Services), path)
	return file.Services, file.Aliases, nil
}
