// Package theme keeps the light/dark preference in sync with durable
// storage and the operating system's color-scheme setting.
package theme

import (
	"errors"
	"fmt"
)

// Preference is the current color scheme.
type Preference string

const (
	Dark  Preference = "dark"
	Light Preference = "light"
)

// StorageKey is the key under which an explicit choice is persisted.
const StorageKey = "theme"

// ErrInvalidPreference is returned for anything other than "dark" or "light".
var ErrInvalidPreference = errors.New("invalid theme preference")

// ParsePreference accepts exactly "dark" or "light".
func ParsePreference(s string) (Preference, error) {
	switch Preference(s) {
	case Dark, Light:
		return Preference(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPreference, s)
}

// Valid reports whether p is one of the two known values.
func (p Preference) Valid() bool {
	return p == Dark || p == Light
}

func (p Preference) Opposite() Preference {
	if p == Dark {
		return Light
	}
	return Dark
}

func (p Preference) String() string { return string(p) }

func fromOS(dark bool) Preference {
	if dark {
		return Dark
	}
	return Light
}
