package slo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	internalhttp "github.com/ssokit/slogate/internal/http"
	"github.com/ssokit/slogate/pkg/metrics"
)

// logoutRequestParameter is the fixed form field carrying the encoded logout
// message on back-channel calls.
const logoutRequestParameter = "logoutRequest"

// Dispatcher delivers an encoded logout message to a URL.
//
// Synchronous dispatch blocks until the endpoint responds or the configured
// deadline elapses; nil is returned only for 2xx/3xx responses. Asynchronous
// dispatch hands the call to a background goroutine and returns nil
// immediately; nil then only means "submitted", never "delivered".
type Dispatcher interface {
	Dispatch(ctx context.Context, logoutURL *url.URL, encodedMessage string, asynchronous bool) error
}

var _ Dispatcher = &httpDispatcher{}

type httpDispatcher struct {
	client  *http.Client
	timeout time.Duration
}

func NewDispatcher(timeout time.Duration) Dispatcher {
	return &httpDispatcher{
		client: &http.Client{
			Transport: internalhttp.Transport(),
		},
		timeout: timeout,
	}
}

func (d *httpDispatcher) Dispatch(ctx context.Context, logoutURL *url.URL, encodedMessage string, asynchronous bool) error {
	if asynchronous {
		// Detached from the caller's context on purpose: the originating
		// request may complete before the message is delivered, and there is
		// no cancellation contract for fire-and-forget sends.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			defer cancel()

			defer func() {
				if r := recover(); r != nil {
					log.Errorf("slo: panic during async logout dispatch to %q: %v", logoutURL, r)
				}
			}()

			if err := d.send(ctx, logoutURL, encodedMessage); err != nil {
				log.Warnf("slo: async logout dispatch to %q failed: %+v", logoutURL, err)
			}
		}()

		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	return d.send(ctx, logoutURL, encodedMessage)
}

func (d *httpDispatcher) send(ctx context.Context, logoutURL *url.URL, encodedMessage string) error {
	form := url.Values{
		logoutRequestParameter: {encodedMessage},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, logoutURL.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating logout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timer := time.Now()
	resp, err := d.client.Do(req)
	if err != nil {
		metrics.ObserveDispatchLatency(metrics.ResultFailure, time.Since(timer))
		return fmt.Errorf("posting logout message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		metrics.ObserveDispatchLatency(metrics.ResultFailure, time.Since(timer))
		return fmt.Errorf("logout endpoint %q responded with %q", logoutURL, resp.Status)
	}

	metrics.ObserveDispatchLatency(metrics.ResultSuccess, time.Since(timer))
	return nil
}
