package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/folio/internal/analytics"
	"github.com/Zachkp/folio/internal/config"
)

func login(t *testing.T, h http.Handler, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return serve(h, req)
}

func withCookies(req *http.Request, w *httptest.ResponseRecorder) *http.Request {
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestAdminLogin(t *testing.T) {
	s := newTestServer(t, testConfig(""), true)
	h := s.routes()

	w := serve(h, httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = login(t, h, "admin", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
	assert.Empty(t, w.Result().Cookies())

	w = login(t, h, "admin", "hunter2")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/dashboard", w.Header().Get("Location"))
	require.Len(t, w.Result().Cookies(), 1)
	assert.Equal(t, adminCookie, w.Result().Cookies()[0].Name)
	assert.True(t, w.Result().Cookies()[0].HttpOnly)
}

func TestAdminRoutesRequireSession(t *testing.T) {
	s := newTestServer(t, testConfig(""), true)
	h := s.routes()

	for _, path := range []string{"/admin/dashboard", "/admin/visitors", "/admin/api/stats", "/admin/export/stats"} {
		w := serve(h, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/admin/login", w.Header().Get("Location"), path)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: adminCookie, Value: "forged"})
	w := serve(h, req)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestAdminDashboardAndStats(t *testing.T) {
	s := newTestServer(t, testConfig(""), true)
	h := s.routes()
	ctx := t.Context()

	require.NoError(t, s.store.RecordVisit(ctx, "203.0.113.1", "test-agent", "/"))
	require.NoError(t, s.store.RecordVisit(ctx, "203.0.113.2", "test-agent", "/"))
	require.NoError(t, s.store.RecordContact(ctx, "error"))

	session := login(t, h, "admin", "hunter2")

	w := serve(h, withCookies(httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil), session))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="total-visitors">2<`)
	assert.NotContains(t, w.Body.String(), "203.0.113.1", "raw addresses are never shown")

	w = serve(h, withCookies(httptest.NewRequest(http.MethodGet, "/admin/visitors", nil), session))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), s.store.HashIP("203.0.113.2"))

	w = serve(h, withCookies(httptest.NewRequest(http.MethodGet, "/admin/api/stats", nil), session))
	require.Equal(t, http.StatusOK, w.Code)
	var stats analytics.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.EqualValues(t, 2, stats.TotalVisitors)
	assert.EqualValues(t, 1, stats.ContactError)

	w = serve(h, withCookies(httptest.NewRequest(http.MethodGet, "/admin/export/stats", nil), session))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attachment; filename=admin-stats.json", w.Header().Get("Content-Disposition"))

	w = serve(h, withCookies(httptest.NewRequest(http.MethodPost, "/admin/privacy/cleanup", nil), session))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"removed":0}`, w.Body.String())
}

func TestAdminLogout(t *testing.T) {
	s := newTestServer(t, testConfig(""), true)
	h := s.routes()

	w := serve(h, httptest.NewRequest(http.MethodGet, "/admin/logout", nil))
	require.Equal(t, http.StatusFound, w.Code)
	require.Len(t, w.Result().Cookies(), 1)
	assert.Negative(t, w.Result().Cookies()[0].MaxAge)
}

func TestAdminDisabledWithoutCredentials(t *testing.T) {
	cfg := testConfig("")
	cfg.Admin = config.AdminConfig{}
	s := newTestServer(t, cfg, true)

	assert.Nil(t, s.admin)
	w := serve(s.routes(), httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminDisabledWithoutStore(t *testing.T) {
	s := newTestServer(t, testConfig(""), false)
	assert.Nil(t, s.admin)
}
