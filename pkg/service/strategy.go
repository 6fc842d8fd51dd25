package service

// SelectionStrategy resolves the service to use for registry lookup. This is
// where alias or vanity URLs are mapped to the canonical service before the
// registered definition is resolved.
type SelectionStrategy interface {
	ResolveService(svc *Service) *Service
}

var (
	_ SelectionStrategy = identityStrategy{}
	_ SelectionStrategy = &aliasStrategy{}
)

type identityStrategy struct{}

func (identityStrategy) ResolveService(svc *Service) *Service {
	return svc
}

// DefaultSelectionStrategy resolves every service to itself.
func DefaultSelectionStrategy() SelectionStrategy {
	return identityStrategy{}
}

type aliasStrategy struct {
	// alias URL -> canonical URL
	aliases map[string]string
}

// NewAliasSelectionStrategy maps known alias URLs to their canonical URL
// before lookup. The returned service is a lookup-only view; the original
// grant keeps ownership of the logged-out state.
func NewAliasSelectionStrategy(aliases map[string]string) SelectionStrategy {
	if len(aliases) == 0 {
		return identityStrategy{}
	}
	return &aliasStrategy{aliases: aliases}
}

func (s *aliasStrategy) ResolveService(svc *Service) *Service {
	if svc == nil {
		return nil
	}

	canonical, ok := s.aliases[svc.OriginalURL()]
	if !ok {
		return svc
	}

	resolved := NewService(svc.ID(), canonical)
	resolved.webApplication = svc.webApplication
	return resolved
}
