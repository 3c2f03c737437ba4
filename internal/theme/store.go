package theme

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Storage is a durable key-value store. Implementations may fail; the theme
// store treats every call as best-effort.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// OSSignal reports the operating system's color-scheme preference.
type OSSignal interface {
	PrefersDark() (bool, error)
	// Watch registers fn to be called on every change until ctx is done.
	// It returns once the registration is in place.
	Watch(ctx context.Context, fn func(dark bool)) error
}

// Options configures a Store. A nil Storage or OS means the collaborator is
// unavailable, as in a headless process.
type Options struct {
	Storage Storage
	OS      OSSignal
	Logger  *slog.Logger
}

// Store holds the current preference and notifies subscribers on change.
type Store struct {
	storage Storage
	os      OSSignal
	logger  *slog.Logger

	// writeMu orders mutations: the explicit check, the new value, the
	// write to storage and the notifications happen as one step. Observers
	// must not mutate the store from inside a notification.
	writeMu sync.Mutex

	mu       sync.Mutex
	value    Preference
	explicit bool
	nextID   int
	subs     map[int]func(Preference)
}

// New determines the starting preference and, when an OS signal is present,
// registers the change handler for the lifetime of ctx.
//
// Precedence: a persisted "dark"/"light", then the OS preference, then dark.
func New(ctx context.Context, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		storage: opts.Storage,
		os:      opts.OS,
		logger:  logger,
		subs:    make(map[int]func(Preference)),
	}

	if p, ok := s.persisted(); ok {
		s.value = p
		s.explicit = true
	} else {
		s.value = s.osValue()
	}
	s.logger.Debug("theme initialized", "theme", s.value, "explicit", s.explicit)

	if s.os != nil {
		if err := s.os.Watch(ctx, s.HandleOSChange); err != nil {
			s.logger.Warn("color-scheme changes will not be followed", "error", err)
		}
	}
	return s
}

// Value returns the current preference.
func (s *Store) Value() Preference {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Explicit reports whether a user choice is in effect, meaning OS changes
// are ignored.
func (s *Store) Explicit() bool {
	s.mu.Lock()
	explicit := s.explicit
	s.mu.Unlock()
	return s.hasExplicit(explicit)
}

// Subscribe calls fn with the current value right away and again after every
// change. The returned function removes the subscription; calling it more
// than once is harmless.
func (s *Store) Subscribe(fn func(Preference)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	current := s.value
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Toggle flips the preference, persists it and notifies subscribers.
func (s *Store) Toggle() Preference {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	next := s.value.Opposite()
	s.value = next
	s.explicit = true
	subs := s.snapshot()
	s.mu.Unlock()

	s.save(next)
	notify(subs, next)
	return next
}

// Set stores an explicit preference. Anything but Dark or Light is rejected
// and leaves the store untouched.
func (s *Store) Set(p Preference) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPreference, string(p))
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.value = p
	s.explicit = true
	subs := s.snapshot()
	s.mu.Unlock()

	s.save(p)
	notify(subs, p)
	return nil
}

// Reset forgets the explicit choice and follows the OS preference again.
func (s *Store) Reset() Preference {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.storage != nil {
		if err := s.storage.Delete(StorageKey); err != nil {
			s.logger.Warn("failed to clear theme preference", "error", err)
		}
	}
	next := s.osValue()

	s.mu.Lock()
	s.explicit = false
	changed := s.value != next
	s.value = next
	subs := s.snapshot()
	s.mu.Unlock()

	if changed {
		notify(subs, next)
	}
	return next
}

// HandleOSChange adopts the OS preference unless the user made an explicit
// choice. The adopted value is not persisted.
func (s *Store) HandleOSChange(dark bool) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	explicit := s.explicit
	s.mu.Unlock()
	if s.hasExplicit(explicit) {
		s.logger.Debug("ignoring color-scheme change, explicit preference set")
		return
	}

	next := fromOS(dark)
	s.mu.Lock()
	if s.value == next {
		s.mu.Unlock()
		return
	}
	s.value = next
	subs := s.snapshot()
	s.mu.Unlock()

	s.logger.Debug("theme follows OS", "theme", next)
	notify(subs, next)
}

// hasExplicit asks storage whether a preference is persisted, falling back
// to the in-memory flag when storage is missing or failing.
func (s *Store) hasExplicit(memory bool) bool {
	if s.storage == nil {
		return memory
	}
	v, ok, err := s.storage.Get(StorageKey)
	if err != nil {
		s.logger.Warn("failed to read theme preference", "error", err)
		return memory
	}
	// An empty value counts as unset.
	return ok && v != ""
}

func (s *Store) persisted() (Preference, bool) {
	if s.storage == nil {
		return "", false
	}
	v, ok, err := s.storage.Get(StorageKey)
	if err != nil {
		s.logger.Warn("failed to read theme preference", "error", err)
		return "", false
	}
	if !ok {
		return "", false
	}
	p, err := ParsePreference(v)
	if err != nil {
		s.logger.Debug("ignoring unrecognized stored theme", "value", v)
		return "", false
	}
	return p, true
}

func (s *Store) osValue() Preference {
	if s.os == nil {
		return Dark
	}
	dark, err := s.os.PrefersDark()
	if err != nil {
		s.logger.Debug("color-scheme query failed, defaulting to dark", "error", err)
		return Dark
	}
	return fromOS(dark)
}

func (s *Store) save(p Preference) {
	if s.storage == nil {
		return
	}
	if err := s.storage.Set(StorageKey, string(p)); err != nil {
		s.logger.Warn("failed to persist theme preference", "theme", p, "error", err)
	}
}

// snapshot must be called with mu held.
func (s *Store) snapshot() []func(Preference) {
	subs := make([]func(Preference), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(Preference), p Preference) {
	for _, fn := range subs {
		fn(p)
	}
}
