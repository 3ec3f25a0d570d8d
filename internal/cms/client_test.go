package cms

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Zachkp/folio/internal/query"
)

func newObservedClient(t *testing.T, baseURL string, opts Options) (*Client, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.WarnLevel)
	opts.BaseURL = baseURL
	opts.Logger = zap.New(core)
	return New(opts), logs
}

func TestGetUnconfiguredSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c, logs := newObservedClient(t, "", Options{HTTPClient: srv.Client()})

	for _, resource := range []string{ResourceHeader, ResourceHome, ResourceFooter, ResourceProjects} {
		var out map[string]any
		err := c.Get(t.Context(), resource, nil, &out)
		assert.ErrorIs(t, err, ErrNotConfigured)
	}

	assert.Nil(t, c.Header(t.Context()))
	assert.Nil(t, c.Home(t.Context()))
	assert.Nil(t, c.Profile(t.Context()))
	assert.Equal(t, []Entity[Project]{}, c.Projects(t.Context()))
	assert.Equal(t, []Entity[TechnologyCategory]{}, c.TechnologyCategories(t.Context()))
	assert.ErrorIs(t, c.SubmitContact(t.Context(), ContactMessage{Name: "a"}), ErrNotConfigured)

	assert.Zero(t, calls.Load(), "no request may be issued without a base url")
	assert.NotZero(t, logs.Len())
}

func TestGetNonSuccessLogsOnce(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusUnauthorized, http.StatusMovedPermanently} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = io.WriteString(w, `{"error":"boom"}`)
		}))

		c, logs := newObservedClient(t, srv.URL, Options{HTTPClient: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		}})

		doc := c.Header(t.Context())
		assert.Nil(t, doc)

		require.Equal(t, 1, logs.Len(), "status %d", status)
		entry := logs.All()[0]
		assert.Equal(t, ResourceHeader, entry.ContextMap()["resource"])
		assert.EqualValues(t, status, entry.ContextMap()["status"])
		assert.Contains(t, entry.ContextMap()["body"], "boom")

		srv.Close()
	}
}

func TestGetMissingDataBehavesLikeFailure(t *testing.T) {
	for _, body := range []string{`{"meta":{}}`, `{"data":null,"meta":{}}`, `not json`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		}))

		c, logs := newObservedClient(t, srv.URL, Options{})

		var out HomeDocument
		err := c.Get(t.Context(), ResourceHome, nil, &out)
		assert.ErrorIs(t, err, ErrMissingData, body)
		assert.Nil(t, c.Home(t.Context()))
		assert.Equal(t, []Entity[Project]{}, c.Projects(t.Context()))
		assert.Equal(t, 3, logs.Len(), "one entry per failed read")

		srv.Close()
	}
}

func TestListDistinguishesEmptyFromFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[],"meta":{"pagination":{"page":1,"pageSize":25,"pageCount":0,"total":0}}}`)
	}))
	defer srv.Close()

	c, logs := newObservedClient(t, srv.URL, Options{})

	var out []Entity[Project]
	require.NoError(t, c.Get(t.Context(), ResourceProjects, nil, &out))
	assert.Empty(t, out)
	assert.Equal(t, []Entity[Project]{}, c.Projects(t.Context()))
	assert.Zero(t, logs.Len(), "an empty list is not a failure")
}

func TestGetBuildsRequest(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		_, _ = io.WriteString(w, `{"data":{"id":1,"heading":"bye"},"meta":{}}`)
	}))
	defer srv.Close()

	c, _ := newObservedClient(t, srv.URL+"/", Options{Token: "t0k"})
	footer := c.Footer(t.Context())
	require.NotNil(t, footer)
	assert.Equal(t, "bye", footer.Heading)

	require.NotNil(t, got)
	assert.Equal(t, "/api/footer", got.URL.Path)
	assert.Equal(t, "Bearer t0k", got.Header.Get("Authorization"))

	c.Header(t.Context())
	assert.Equal(t, "/api/header", got.URL.Path)
	assert.Equal(t, "populate[logo][populate]=%2A&populate[navLinks]=%2A", got.URL.RawQuery)
}

func TestGetAnonymousOmitsAuthorization(t *testing.T) {
	var header string
	var seen bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header, seen = r.Header.Get("Authorization"), true
		_, _ = io.WriteString(w, `{"data":{"id":1},"meta":{}}`)
	}))
	defer srv.Close()

	c, _ := newObservedClient(t, srv.URL, Options{})
	require.NotNil(t, c.Footer(t.Context()))
	assert.True(t, seen)
	assert.Empty(t, header)
}

func TestGetTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, logs := newObservedClient(t, url, Options{})
	assert.Nil(t, c.Footer(t.Context()))
	require.Equal(t, 1, logs.Len())
	assert.EqualValues(t, 0, logs.All()[0].ContextMap()["status"])
}

func TestRevalidationWindow(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if n == 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, `{"data":{"id":1,"heading":"cached"},"meta":{}}`)
	}))
	defer srv.Close()

	cache := NewCache(nil)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	c, _ := newObservedClient(t, srv.URL, Options{Cache: cache, Revalidate: 30 * time.Second})

	first := c.Footer(t.Context())
	second := c.Footer(t.Context())
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, int32(1), calls.Load(), "second read inside the window is served from cache")
	assert.NotSame(t, first, second, "every read decodes its own value")

	now = now.Add(31 * time.Second)
	assert.Nil(t, c.Footer(t.Context()), "expired entry triggers a fetch, which fails")
	assert.Equal(t, int32(2), calls.Load())

	assert.NotNil(t, c.Footer(t.Context()), "failures are never cached")
	assert.Equal(t, int32(3), calls.Load())
}

func TestSubmitContact(t *testing.T) {
	var got ContactMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/contact", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		if got.Name == "fail" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c, logs := newObservedClient(t, srv.URL, Options{})

	msg := ContactMessage{Name: "Ada", Email: "ada@example.com", Message: "hi"}
	require.NoError(t, c.SubmitContact(t.Context(), msg))
	assert.Equal(t, msg, got)

	err := c.SubmitContact(t.Context(), ContactMessage{Name: "fail"})
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.Status)
	assert.Equal(t, 1, logs.Len())
}

func TestURLEncodesValuesOnly(t *testing.T) {
	c := New(Options{BaseURL: "https://cms.example.com"})
	u := c.URL(ResourceProjects, query.PopulateAll().Merge(query.Featured()))
	assert.Equal(t, "https://cms.example.com/api/projects?populate=%2A&filters[featured][$eq]=true", u)
}
