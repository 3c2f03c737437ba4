package devlog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultGitHubAPI = "https://api.github.com"
	maxEvents        = 30
)

// GitHub fetches public activity for a user.
type GitHub struct {
	BaseURL string
	Client  *http.Client
}

// NewGitHub returns a client for the public GitHub API.
func NewGitHub() *GitHub {
	return &GitHub{
		BaseURL: defaultGitHubAPI,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type event struct {
	Type string `json:"type"`
	Repo struct {
		Name string `json:"name"`
	} `json:"repo"`
	Payload struct {
		Commits []struct {
			Message string `json:"message"`
		} `json:"commits"`
	} `json:"payload"`
}

// RecentActivity returns one line per recent public event, with pushed
// commit messages appended, for at most 30 events.
func (g *GitHub) RecentActivity(ctx context.Context, user string) (string, error) {
	endpoint := fmt.Sprintf("%s/users/%s/events/public", strings.TrimRight(g.BaseURL, "/"), url.PathEscape(user))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("building github request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching github events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("github api error: %d", resp.StatusCode)
	}

	var events []event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return "", fmt.Errorf("decoding github events: %w", err)
	}
	return summarizeEvents(events), nil
}

func summarizeEvents(events []event) string {
	var b strings.Builder
	for i, e := range events {
		if i >= maxEvents {
			break
		}
		fmt.Fprintf(&b, "- %s on %s", e.Type, e.Repo.Name)
		for _, c := range e.Payload.Commits {
			fmt.Fprintf(&b, ": %s", c.Message)
		}
		b.WriteString("\n")
	}
	return b.String()
}
