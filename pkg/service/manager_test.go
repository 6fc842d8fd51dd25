package service_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssokit/slogate/pkg/service"
)

func TestManager_FindServiceBy(t *testing.T) {
	manager := service.NewManager([]service.RegisteredService{
		{
			ID:            "app-a",
			URLPattern:    "https://a.example.com/**",
			LogoutType:    service.LogoutTypeBackChannel,
			AccessEnabled: true,
		},
		{
			ID:            "app-b",
			URLPattern:    "https://b.example.com/**",
			LogoutType:    service.LogoutTypeNone,
			AccessEnabled: true,
		},
	})

	for _, tt := range []struct {
		name   string
		url    string
		wantID string
	}{
		{
			name:   "match on first service",
			url:    "https://a.example.com/callback",
			wantID: "app-a",
		},
		{
			name:   "match on second service",
			url:    "https://b.example.com/some/deep/path",
			wantID: "app-b",
		},
		{
			name: "no match",
			url:  "https://unknown.example.com/callback",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			found := manager.FindServiceBy(service.NewService("st", tt.url))
			if tt.wantID == "" {
				assert.Nil(t, found)
				return
			}
			require.NotNil(t, found)
			assert.Equal(t, tt.wantID, found.ID)
		})
	}

	t.Run("nil service", func(t *testing.T) {
		assert.Nil(t, manager.FindServiceBy(nil))
	})
}

func TestLoadRegistry(t *testing.T) {
	path := writeRegistry(t, `
services:
  - id: app-a
    name: Application A
    url-pattern: "https://a.example.com/**"
    logout-type: back_channel
    logout-url: "https://a.example.com/logout"
    access-enabled: true
  - id: app-b
    url-pattern: "https://b.example.com/**"
aliases:
  "https://alias.example.com/cb": "https://a.example.com/cb"
`)

	services, aliases, err := service.LoadRegistry(path)
	require.NoError(t, err)
	require.Len(t, services, 2)

	assert.Equal(t, "app-a", services[0].ID)
	assert.Equal(t, service.LogoutTypeBackChannel, services[0].LogoutType)
	assert.Equal(t, "https://a.example.com/logout", services[0].LogoutURL)
	assert.True(t, services[0].AccessEnabled)

	// omitted logout-type defaults to none
	assert.Equal(t, service.LogoutTypeNone, services[1].LogoutType)
	assert.False(t, services[1].AccessEnabled)

	assert.Equal(t, map[string]string{
		"https://alias.example.com/cb": "https://a.example.com/cb",
	}, aliases)
}

func TestLoadRegistry_Invalid(t *testing.T) {
	for _, tt := range []struct {
		name     string
		contents string
	}{
		{
			name: "missing id",
			contents: `
services:
  - url-pattern: "https://a.example.com/**"
`,
		},
		{
			name: "missing url-pattern",
			contents: `
services:
  - id: app-a
`,
		},
		{
			name: "unknown logout type",
			contents: `
services:
  - id: app-a
    url-pattern: "https://a.example.com/**"
    logout-type: sideways
`,
		},
		{
			name: "duplicate id",
			contents: `
services:
  - id: app-a
    url-pattern: "https://a.example.com/**"
  - id: app-a
    url-pattern: "https://aa.example.com/**"
`,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := service.LoadRegistry(writeRegistry(t, tt.contents))
			assert.Error(t, err)
		})
	}
}

func TestAliasSelectionStrategy(t *testing.T) {
	strategy := service.NewAliasSelectionStrategy(map[string]string{
		"https://alias.example.com/cb": "https://a.example.com/cb",
	})

	t.Run("alias resolves to canonical url", func(t *testing.T) {
		svc := service.NewService("st-1", "https://alias.example.com/cb")
		resolved := strategy.ResolveService(svc)
		assert.Equal(t, "https://a.example.com/cb", resolved.OriginalURL())
		assert.Equal(t, "st-1", resolved.ID())

		// the original grant keeps its own logged-out state
		resolved.MarkLoggedOut()
		assert.False(t, svc.LoggedOutAlready())
	})

	t.Run("unknown url resolves to itself", func(t *testing.T) {
		svc := service.NewService("st-2", "https://b.example.com/cb")
		assert.Same(t, svc, strategy.ResolveService(svc))
	})

	t.Run("empty aliases is identity", func(t *testing.T) {
		strategy := service.NewAliasSelectionStrategy(nil)
		svc := service.NewService("st-3", "https://alias.example.com/cb")
		assert.Same(t, svc, strategy.ResolveService(svc))
	})
}

func writeRegistry(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "services.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}
