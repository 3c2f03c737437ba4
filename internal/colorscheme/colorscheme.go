// Package colorscheme reads the desktop's light/dark preference.
package colorscheme

import (
	"context"
	"fmt"
	"sync"
)

// Scheme is a configured color-scheme source.
type Scheme string

const (
	SchemeSystem Scheme = "system"
	SchemeLight  Scheme = "light"
	SchemeDark   Scheme = "dark"
)

// ValidSchemes returns all valid scheme values.
func ValidSchemes() []Scheme {
	return []Scheme{SchemeSystem, SchemeLight, SchemeDark}
}

// ParseScheme converts a config string to a Scheme. Empty means system.
func ParseScheme(s string) (Scheme, error) {
	if s == "" {
		return SchemeSystem, nil
	}
	for _, v := range ValidSchemes() {
		if Scheme(s) == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown color scheme %q (want system, light or dark)", s)
}

// Static is a color-scheme source with a fixed value that changes only when
// Change is called.
type Static struct {
	mu       sync.Mutex
	dark     bool
	nextID   int
	watchers map[int]func(bool)
}

// NewStatic returns a Static source reporting dark.
func NewStatic(dark bool) *Static {
	return &Static{dark: dark, watchers: make(map[int]func(bool))}
}

func (s *Static) PrefersDark() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dark, nil
}

// Watch registers fn until ctx is done.
func (s *Static) Watch(ctx context.Context, fn func(dark bool)) error {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}()
	return nil
}

// Change sets the reported preference and notifies watchers synchronously.
// Setting the current value again still notifies, like a desktop re-emitting
// a setting.
func (s *Static) Change(dark bool) {
	s.mu.Lock()
	s.dark = dark
	fns := make([]func(bool), 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(dark)
	}
}
