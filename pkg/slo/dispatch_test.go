package slo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssokit/slogate/pkg/slo"
)

func TestDispatcher_Synchronous(t *testing.T) {
	t.Run("2xx response is success", func(t *testing.T) {
		var received atomic.Value
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			received.Store(r.PostFormValue("logoutRequest"))
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		dispatcher := slo.NewDispatcher(time.Second)
		err := dispatcher.Dispatch(context.Background(), mustParse(t, srv.URL), "encoded-message", false)

		assert.NoError(t, err)
		assert.Equal(t, "encoded-message", received.Load())
	})

	t.Run("3xx response is success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusFound)
		}))
		defer srv.Close()

		dispatcher := slo.NewDispatcher(time.Second)
		assert.NoError(t, dispatcher.Dispatch(context.Background(), mustParse(t, srv.URL), "msg", false))
	})

	t.Run("5xx response is failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		dispatcher := slo.NewDispatcher(time.Second)
		assert.Error(t, dispatcher.Dispatch(context.Background(), mustParse(t, srv.URL), "msg", false))
	})

	t.Run("hung endpoint times out", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		// cleanups run last-in-first-out: unblock the handler before Close
		// waits for it
		t.Cleanup(srv.Close)
		t.Cleanup(func() { close(release) })

		dispatcher := slo.NewDispatcher(50 * time.Millisecond)

		start := time.Now()
		err := dispatcher.Dispatch(context.Background(), mustParse(t, srv.URL), "msg", false)

		assert.Error(t, err)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("unreachable endpoint is failure", func(t *testing.T) {
		dispatcher := slo.NewDispatcher(time.Second)
		u := mustParse(t, "http://127.0.0.1:1/logout")
		assert.Error(t, dispatcher.Dispatch(context.Background(), u, "msg", false))
	})
}

func TestDispatcher_Asynchronous(t *testing.T) {
	t.Run("returns immediately and delivers in background", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		dispatcher := slo.NewDispatcher(time.Second)
		err := dispatcher.Dispatch(context.Background(), mustParse(t, srv.URL), "msg", true)

		assert.NoError(t, err)
		assert.Eventually(t, func() bool {
			return hits.Load() == 1
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("reports success even when delivery fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		dispatcher := slo.NewDispatcher(time.Second)
		assert.NoError(t, dispatcher.Dispatch(context.Background(), mustParse(t, srv.URL), "msg", true))
	})
}

func mustParse(t *testing.T, rawURL string) *url.URL {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return u
}
