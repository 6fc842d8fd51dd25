package slo

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
)

const (
	samlProtocolNamespace  = "urn:oasis:names:tc:SAML:2.0:protocol"
	samlAssertionNamespace = "urn:oasis:names:tc:SAML:2.0:assertion"

	// nameIDPlaceholder is deliberately not the authenticated subject.
	// Receiving services correlate solely on SessionIndex, and the historical
	// wire format is preserved as-is.
	nameIDPlaceholder = "@NOT_YET_IMPLEMENTED@"
)

// MessageCreator renders the logout protocol message for a request. The
// output is transport-encoded: raw-deflate compressed, then base64.
type MessageCreator interface {
	Create(rc *RequestContext) (string, error)
}

var _ MessageCreator = &samlMessageCreator{}

type samlMessageCreator struct{}

func NewMessageCreator() MessageCreator {
	return &samlMessageCreator{}
}

// Create builds a minimal SAML2 LogoutRequest: a fresh random message ID, the
// current UTC issue instant, the placeholder subject, and a SessionIndex
// carrying the ticket ID being invalidated.
func (c *samlMessageCreator) Create(rc *RequestContext) (string, error) {
	doc := etree.NewDocument()

	root := doc.CreateElement("samlp:LogoutRequest")
	root.CreateAttr("xmlns:samlp", samlProtocolNamespace)
	root.CreateAttr("xmlns:saml", samlAssertionNamespace)
	root.CreateAttr("ID", newMessageID())
	root.CreateAttr("Version", "2.0")
	root.CreateAttr("IssueInstant", time.Now().UTC().Format(time.RFC3339))

	nameID := root.CreateElement("saml:NameID")
	nameID.SetText(nameIDPlaceholder)

	sessionIndex := root.CreateElement("samlp:SessionIndex")
	sessionIndex.SetText(rc.TicketID)

	xml, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("serializing logout request: %w", err)
	}

	return deflateAndEncode(xml)
}

func newMessageID() string {
	return "LR-" + uuid.NewString()
}

func deflateAndEncode(message string) (string, error) {
	var buf bytes.Buffer

	writer, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return "", fmt.Errorf("creating deflate writer: %w", err)
	}

	if _, err := writer.Write([]byte(message)); err != nil {
		return "", fmt.Errorf("compressing logout request: %w", err)
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("compressing logout request: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
