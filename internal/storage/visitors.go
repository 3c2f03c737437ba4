package storage

import (
	"fmt"
	"time"
)

// Visit is one recorded page view. The client IP is only kept as a hash.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

type PathCount struct {
	Path  string `json:"path"`
	Count int64  `json:"count"`
}

// VisitStats summarizes the visitors table for the admin API.
type VisitStats struct {
	TotalVisitors    int64       `json:"total_visitors"`
	UniqueVisitors   int64       `json:"unique_visitors"`
	VisitorsToday    int64       `json:"visitors_today"`
	VisitorsThisWeek int64       `json:"visitors_this_week"`
	TopPaths         []PathCount `json:"top_paths"`
	RecentVisitors   []Visit     `json:"recent_visitors"`
}

// RecordVisit stores a page view.
func (s *Store) RecordVisit(hashedIP, userAgent, path string, at time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)`,
		hashedIP, userAgent, path, at.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	return nil
}

// VisitStats computes visitor counts relative to now. "Today" starts at
// midnight UTC.
func (s *Store) VisitStats(now time.Time) (*VisitStats, error) {
	now = now.UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Format(timeLayout)
	weekAgo := now.Add(-7 * 24 * time.Hour).Format(timeLayout)

	stats := &VisitStats{}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM visitors").Scan(&stats.TotalVisitors); err != nil {
		return nil, fmt.Errorf("counting visitors: %w", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(DISTINCT hashed_ip) FROM visitors").Scan(&stats.UniqueVisitors); err != nil {
		return nil, fmt.Errorf("counting unique visitors: %w", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM visitors WHERE timestamp >= ?", dayStart).Scan(&stats.VisitorsToday); err != nil {
		return nil, fmt.Errorf("counting visitors today: %w", err)
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM visitors WHERE timestamp >= ?", weekAgo).Scan(&stats.VisitorsThisWeek); err != nil {
		return nil, fmt.Errorf("counting visitors this week: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT COALESCE(path, ''), COUNT(*) AS hits
		FROM visitors
		GROUP BY path
		ORDER BY hits DESC, path ASC
		LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("loading top paths: %w", err)
	}
	for rows.Next() {
		var pc PathCount
		if err := rows.Scan(&pc.Path, &pc.Count); err != nil {
			rows.Close()
			return nil, err
		}
		stats.TopPaths = append(stats.TopPaths, pc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	recent, err := s.RecentVisits(50)
	if err != nil {
		return nil, err
	}
	stats.RecentVisitors = recent
	return stats, nil
}

// RecentVisits returns the newest visits first.
func (s *Store) RecentVisits(limit int) ([]Visit, error) {
	rows, err := s.db.Query(`
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("loading recent visits: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var v Visit
		var ts string
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, err
		}
		t, err := time.Parse(timeLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing visit timestamp %q: %w", ts, err)
		}
		v.Timestamp = t
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// PruneVisits deletes visits older than before and returns how many went.
func (s *Store) PruneVisits(before time.Time) (int64, error) {
	result, err := s.db.Exec("DELETE FROM visitors WHERE timestamp < ?", before.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("pruning visits: %w", err)
	}
	return result.RowsAffected()
}
