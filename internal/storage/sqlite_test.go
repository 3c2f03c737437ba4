package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/theme"
)

var _ theme.Storage = (*PreferenceStore)(nil)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	require.NoError(t, err)
	v1, err := s1.AppliedMigrations()
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()
	v2, err := s2.AppliedMigrations()
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Equal(t, []int{1, 2}, v2)
}

func TestParseMigrationVersion(t *testing.T) {
	v, err := parseMigrationVersion("002_visitors.sql")
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = parseMigrationVersion("visitors.sql")
	assert.Error(t, err)
}

func TestPreferences(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetPreference("theme")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetPreference("theme", "dark"))
	require.NoError(t, s.SetPreference("theme", "light"))
	v, err := s.GetPreference("theme")
	require.NoError(t, err)
	assert.Equal(t, "light", v)

	require.NoError(t, s.DeletePreference("theme"))
	_, err = s.GetPreference("theme")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPreferenceStore(t *testing.T) {
	p := openTestStore(t).Preferences()

	_, ok, err := p.Get("theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, p.Set("theme", "dark"))
	v, ok, err := p.Get("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", v)

	require.NoError(t, p.Delete("theme"))
	_, ok, err = p.Get("theme")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPreferencesSurviveReopen(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s1.SetPreference("theme", "light"))
	require.NoError(t, s1.Close())

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()
	v, err := s2.GetPreference("theme")
	require.NoError(t, err)
	assert.Equal(t, "light", v)
}

func TestVisitStats(t *testing.T) {
	s := openTestStore(t)
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	require.NoError(t, s.RecordVisit("aaaa", "curl", "/", now.Add(-1*time.Hour)))
	require.NoError(t, s.RecordVisit("aaaa", "curl", "/api/portfolio", now.Add(-2*time.Hour)))
	require.NoError(t, s.RecordVisit("bbbb", "firefox", "/", now.Add(-3*24*time.Hour)))
	require.NoError(t, s.RecordVisit("cccc", "safari", "/", now.Add(-30*24*time.Hour)))

	stats, err := s.VisitStats(now)
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalVisitors)
	assert.Equal(t, int64(3), stats.UniqueVisitors)
	assert.Equal(t, int64(2), stats.VisitorsToday)
	assert.Equal(t, int64(3), stats.VisitorsThisWeek)
	require.NotEmpty(t, stats.TopPaths)
	assert.Equal(t, PathCount{Path: "/", Count: 3}, stats.TopPaths[0])
	require.Len(t, stats.RecentVisitors, 4)
	assert.Equal(t, "/", stats.RecentVisitors[0].Path)
	assert.Equal(t, now.Add(-1*time.Hour), stats.RecentVisitors[0].Timestamp)
}

func TestVisitStats_Empty(t *testing.T) {
	stats, err := openTestStore(t).VisitStats(time.Now())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalVisitors)
	assert.Empty(t, stats.TopPaths)
	assert.Empty(t, stats.RecentVisitors)
}

func TestPruneVisits(t *testing.T) {
	s := openTestStore(t)
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	require.NoError(t, s.RecordVisit("aaaa", "", "/", now.AddDate(-2, 0, 0)))
	require.NoError(t, s.RecordVisit("bbbb", "", "/", now.AddDate(0, -1, 0)))

	n, err := s.PruneVisits(now.AddDate(-1, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	visits, err := s.RecentVisits(10)
	require.NoError(t, err)
	require.Len(t, visits, 1)
	assert.Equal(t, "bbbb", visits[0].HashedIP)
}
