package analytics

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "analytics.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestHashIPIsStableAndOpaque(t *testing.T) {
	s := newTestStore(t)

	h := s.HashIP("203.0.113.7")
	assert.Len(t, h, 16)
	assert.Equal(t, h, s.HashIP("203.0.113.7"))
	assert.NotEqual(t, h, s.HashIP("203.0.113.8"))
	assert.NotContains(t, h, "203")
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.RecordVisit(ctx, "1.1.1.1", "ua", "/"))
	require.NoError(t, s.RecordVisit(ctx, "1.1.1.1", "ua", "/"))
	require.NoError(t, s.RecordVisit(ctx, "2.2.2.2", "ua", "/projects"))

	s.now = func() time.Time { return now.Add(-3 * 24 * time.Hour) }
	require.NoError(t, s.RecordVisit(ctx, "3.3.3.3", "ua", "/"))
	s.now = func() time.Time { return now.Add(-30 * 24 * time.Hour) }
	require.NoError(t, s.RecordVisit(ctx, "4.4.4.4", "ua", "/"))

	s.now = func() time.Time { return now }
	require.NoError(t, s.RecordContact(ctx, "success"))
	require.NoError(t, s.RecordContact(ctx, "error"))
	require.NoError(t, s.RecordContact(ctx, "success"))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)

	assert.EqualValues(t, 5, stats.TotalVisitors)
	assert.EqualValues(t, 4, stats.UniqueVisitors)
	assert.EqualValues(t, 3, stats.VisitorsToday)
	assert.EqualValues(t, 4, stats.VisitorsThisWeek)
	assert.EqualValues(t, 2, stats.ContactSuccess)
	assert.EqualValues(t, 1, stats.ContactError)
	require.NotEmpty(t, stats.TopPaths)
	assert.Equal(t, PathStat{Path: "/", Visits: 4}, stats.TopPaths[0])
	require.Len(t, stats.RecentVisitors, 5)
	assert.Equal(t, now, stats.RecentVisitors[0].Timestamp)
}

func TestCleanupRemovesOldRows(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now.Add(-400 * 24 * time.Hour) }
	require.NoError(t, s.RecordVisit(ctx, "1.1.1.1", "ua", "/"))
	s.now = func() time.Time { return now }
	require.NoError(t, s.RecordVisit(ctx, "1.1.1.1", "ua", "/"))

	removed, err := s.Cleanup(ctx, DefaultRetention)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalVisitors)
}

func TestScheduleCleanupRejectsBadSpec(t *testing.T) {
	s := newTestStore(t)
	_, err := s.ScheduleCleanup("not a schedule", DefaultRetention)
	assert.Error(t, err)
}

func TestTracked(t *testing.T) {
	assert.True(t, Tracked("/"))
	assert.True(t, Tracked("/contact-form"))
	assert.False(t, Tracked("/static/site.css"))
	assert.False(t, Tracked("/admin/dashboard"))
	assert.False(t, Tracked("/widgets/wave"))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newTestStore(t)

	r := gin.New()
	r.Use(s.Middleware())
	r.GET("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	send := func(path string, dnt bool) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if dnt {
			req.Header.Set("DNT", "1")
		}
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	send("/", false)
	send("/", true)
	send("/static/app.js", false)

	assert.Eventually(t, func() bool {
		stats, err := s.Stats(t.Context())
		return err == nil && stats.TotalVisitors == 1
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	stats, err := s.Stats(t.Context())
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalVisitors, "DNT and static requests are not recorded")
}
