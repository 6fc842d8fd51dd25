package slo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ssokit/slogate/pkg/service"
	"github.com/ssokit/slogate/pkg/slo"
)

func TestRequestContext_ConcludeOnce(t *testing.T) {
	rc := slo.NewRequestContext("ST-1", "svc-a", "app-a", service.LogoutTypeBackChannel, nil)
	assert.Equal(t, slo.StatusNotAttempted, rc.Status())

	assert.True(t, rc.Conclude(slo.StatusFailure))
	assert.Equal(t, slo.StatusFailure, rc.Status())

	// first outcome wins
	assert.False(t, rc.Conclude(slo.StatusSuccess))
	assert.Equal(t, slo.StatusFailure, rc.Status())
}

func TestRequestContext_ConcludeToNotAttempted(t *testing.T) {
	rc := slo.NewRequestContext("ST-1", "svc-a", "app-a", service.LogoutTypeFrontChannel, nil)
	assert.False(t, rc.Conclude(slo.StatusNotAttempted))
	assert.Equal(t, slo.StatusNotAttempted, rc.Status())
}

func TestRequestContext_Properties(t *testing.T) {
	rc := slo.NewRequestContext("ST-1", "svc-a", "app-a", service.LogoutTypeFrontChannel, nil)

	_, ok := rc.Property("RelayState")
	assert.False(t, ok)

	rc.SetProperty("RelayState", "abc")
	rc.SetProperty("Binding", "redirect")
	rc.SetProperty("RelayState", "def")

	value, ok := rc.Property("RelayState")
	assert.True(t, ok)
	assert.Equal(t, "def", value)

	// insertion order is preserved on update
	props := rc.Properties()
	assert.Equal(t, []slo.Property{
		{Key: "RelayState", Value: "def"},
		{Key: "Binding", Value: "redirect"},
	}, props)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "not_attempted", slo.StatusNotAttempted.String())
	assert.Equal(t, "success", slo.StatusSuccess.String())
	assert.Equal(t, "failure", slo.StatusFailure.String())
}
