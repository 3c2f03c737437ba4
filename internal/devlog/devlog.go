// Package devlog produces the "what I'm building" status line from recent
// GitHub activity, cached between requests.
package devlog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Source tells the client where a Response came from.
type Source string

const (
	SourceLive  Source = "live"
	SourceCache Source = "cache"
	SourceStale Source = "stale-cache"
)

const (
	// DefaultTTL is how long a generated summary is served from cache.
	DefaultTTL = 5 * time.Minute

	// LastUpdateLayout formats Response.LastUpdate.
	LastUpdateLayout = "2006-01-02 15:04:05"

	DisconnectedSummary = "System Error: Neural Link Disconnected (Missing API Key). Please configure the satellite uplink."
	DefaultSummary      = "Analysis complete. Systems nominal (Default Response)."
	OfflineSummary      = "System Update: Offline (Retrying...)"
)

type Response struct {
	Summary    string `json:"summary"`
	LastUpdate string `json:"last_update"`
	Source     Source `json:"source"`
}

// Activity lists recent work for a user as plain text.
type Activity interface {
	RecentActivity(ctx context.Context, user string) (string, error)
}

// Config configures a Service.
type Config struct {
	// User is the GitHub account whose activity is summarized.
	User string

	// Author is the name the summary is written as; defaults to User.
	Author string

	TTL    time.Duration
	Logger *slog.Logger

	// Now is overridable for tests.
	Now func() time.Time
}

// Service caches generated summaries. A nil Summarizer means no API key is
// configured.
type Service struct {
	activity   Activity
	summarizer Summarizer
	user       string
	author     string
	ttl        time.Duration
	logger     *slog.Logger
	now        func() time.Time

	group     singleflight.Group
	mu        sync.Mutex
	cached    Response
	expiresAt time.Time
}

func NewService(activity Activity, summarizer Summarizer, cfg Config) *Service {
	s := &Service{
		activity:   activity,
		summarizer: summarizer,
		user:       cfg.User,
		author:     cfg.Author,
		ttl:        cfg.TTL,
		logger:     cfg.Logger,
		now:        cfg.Now,
	}
	if s.author == "" {
		s.author = s.user
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Status returns the cached summary while it is fresh, otherwise generates a
// new one. If generation fails a previous summary is returned as stale; with
// nothing cached the error is returned.
func (s *Service) Status(ctx context.Context) (Response, error) {
	if resp, ok := s.fresh(); ok {
		s.logger.Debug("serving status from cache")
		return resp, nil
	}

	v, err, _ := s.group.Do("status", func() (any, error) {
		if resp, ok := s.fresh(); ok {
			return resp, nil
		}
		s.logger.Debug("status cache expired, generating")
		return s.refresh(ctx)
	})
	if err != nil {
		s.mu.Lock()
		stale := s.cached
		s.mu.Unlock()
		if stale.Summary != "" {
			s.logger.Warn("status refresh failed, serving stale cache", "error", err)
			stale.Source = SourceStale
			return stale, nil
		}
		return Response{}, err
	}
	return v.(Response), nil
}

func (s *Service) fresh() (Response, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached.Summary == "" || !s.now().Before(s.expiresAt) {
		return Response{}, false
	}
	resp := s.cached
	resp.Source = SourceCache
	return resp, true
}

func (s *Service) refresh(ctx context.Context) (Response, error) {
	summary, err := s.generate(ctx)
	if err != nil {
		return Response{}, err
	}

	now := s.now()
	resp := Response{
		Summary:    summary,
		LastUpdate: now.Format(LastUpdateLayout),
		Source:     SourceLive,
	}
	s.mu.Lock()
	s.cached = resp
	s.expiresAt = now.Add(s.ttl)
	s.mu.Unlock()
	return resp, nil
}

func (s *Service) generate(ctx context.Context) (string, error) {
	if s.summarizer == nil {
		return DisconnectedSummary, nil
	}
	activity, err := s.activity.RecentActivity(ctx, s.user)
	if err != nil {
		return "", err
	}
	summary, err := s.summarizer.Summarize(ctx, buildPrompt(s.author, activity))
	if err != nil {
		return "", err
	}
	if summary == "" {
		return DefaultSummary, nil
	}
	return summary, nil
}
