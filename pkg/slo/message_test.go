package slo_test

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"io"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssokit/slogate/pkg/service"
	"github.com/ssokit/slogate/pkg/slo"
)

func TestMessageCreator_RoundTrip(t *testing.T) {
	creator := slo.NewMessageCreator()
	rc := slo.NewRequestContext("ST-1", "svc-a", "app-a", service.LogoutTypeBackChannel, nil)

	encoded, err := creator.Create(rc)
	require.NoError(t, err)

	xml := inflate(t, encoded)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(xml), "logout message must be well-formed XML")

	root := doc.Root()
	require.NotNil(t, root)
	assert.Equal(t, "LogoutRequest", root.Tag)
	assert.Equal(t, "2.0", root.SelectAttrValue("Version", ""))
	assert.True(t, strings.HasPrefix(root.SelectAttrValue("ID", ""), "LR-"))
	assert.NotEmpty(t, root.SelectAttrValue("IssueInstant", ""))

	sessionIndex := root.FindElement("./SessionIndex")
	require.NotNil(t, sessionIndex)
	assert.Equal(t, "ST-1", sessionIndex.Text())

	nameID := root.FindElement("./NameID")
	require.NotNil(t, nameID)
	assert.Equal(t, "@NOT_YET_IMPLEMENTED@", nameID.Text())
}

func TestMessageCreator_UniqueMessageIDs(t *testing.T) {
	creator := slo.NewMessageCreator()
	rc := slo.NewRequestContext("ST-1", "svc-a", "app-a", service.LogoutTypeBackChannel, nil)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		encoded, err := creator.Create(rc)
		require.NoError(t, err)

		doc := etree.NewDocument()
		require.NoError(t, doc.ReadFromString(inflate(t, encoded)))

		id := doc.Root().SelectAttrValue("ID", "")
		assert.False(t, seen[id], "message ID %q repeated", id)
		seen[id] = true
	}
}

func inflate(t *testing.T, encoded string) string {
	t.Helper()

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	reader := flate.NewReader(bytes.NewReader(raw))
	defer reader.Close()

	out, err := io.ReadAll(reader)
	require.NoError(t, err)

	return string(out)
}
