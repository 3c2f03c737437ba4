package colorscheme

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/godbus/dbus/v5"
)

const (
	portalBusName    = "org.freedesktop.portal.Desktop"
	portalPath       = "/org/freedesktop/portal/desktop"
	settingsIface    = "org.freedesktop.portal.Settings"
	appearanceNS     = "org.freedesktop.appearance"
	colorSchemeKey   = "color-scheme"
	settingChanged   = "SettingChanged"
	portalPreferDark = 1
)

// Portal reads the color scheme from xdg-desktop-portal over the session bus.
type Portal struct {
	conn   *dbus.Conn
	obj    dbus.BusObject
	logger *slog.Logger
}

// DialPortal connects to the session bus. It fails on headless hosts.
func DialPortal(logger *slog.Logger) (*Portal, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connecting to session bus: %w", err)
	}
	p := &Portal{
		conn:   conn,
		obj:    conn.Object(portalBusName, portalPath),
		logger: logger,
	}
	if _, err := p.PrefersDark(); err != nil {
		conn.Close()
		return nil, err
	}
	return p, nil
}

// Close closes the bus connection.
func (p *Portal) Close() error {
	return p.conn.Close()
}

// PrefersDark queries the current setting. "No preference" counts as light.
func (p *Portal) PrefersDark() (bool, error) {
	var v dbus.Variant
	err := p.obj.Call(settingsIface+".ReadOne", 0, appearanceNS, colorSchemeKey).Store(&v)
	if err != nil {
		// Portals older than version 2 only have the deprecated Read, which
		// wraps the value in a second variant.
		var outer dbus.Variant
		if rerr := p.obj.Call(settingsIface+".Read", 0, appearanceNS, colorSchemeKey).Store(&outer); rerr != nil {
			return false, fmt.Errorf("reading %s.%s: %w", appearanceNS, colorSchemeKey, errors.Join(err, rerr))
		}
		v = outer
		if inner, ok := outer.Value().(dbus.Variant); ok {
			v = inner
		}
	}
	return schemeIsDark(v)
}

// Watch subscribes to SettingChanged and calls fn for color-scheme changes
// until ctx is done.
func (p *Portal) Watch(ctx context.Context, fn func(dark bool)) error {
	opts := []dbus.MatchOption{
		dbus.WithMatchObjectPath(portalPath),
		dbus.WithMatchInterface(settingsIface),
		dbus.WithMatchMember(settingChanged),
		dbus.WithMatchArg(0, appearanceNS),
	}
	if err := p.conn.AddMatchSignal(opts...); err != nil {
		return fmt.Errorf("subscribing to %s: %w", settingChanged, err)
	}

	signals := make(chan *dbus.Signal, 8)
	p.conn.Signal(signals)

	go func() {
		defer func() {
			p.conn.RemoveSignal(signals)
			if err := p.conn.RemoveMatchSignal(opts...); err != nil {
				p.logger.Debug("removing signal match", "error", err)
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-signals:
				if !ok {
					return
				}
				dark, ok := p.parseSignal(sig)
				if ok {
					fn(dark)
				}
			}
		}
	}()
	return nil
}

func (p *Portal) parseSignal(sig *dbus.Signal) (bool, bool) {
	if sig.Name != settingsIface+"."+settingChanged || len(sig.Body) != 3 {
		return false, false
	}
	ns, _ := sig.Body[0].(string)
	key, _ := sig.Body[1].(string)
	if ns != appearanceNS || key != colorSchemeKey {
		return false, false
	}
	v, ok := sig.Body[2].(dbus.Variant)
	if !ok {
		return false, false
	}
	dark, err := schemeIsDark(v)
	if err != nil {
		p.logger.Debug("ignoring malformed color-scheme signal", "error", err)
		return false, false
	}
	return dark, true
}

// schemeIsDark decodes the portal value: 0 no preference, 1 dark, 2 light.
func schemeIsDark(v dbus.Variant) (bool, error) {
	switch n := v.Value().(type) {
	case uint32:
		return n == portalPreferDark, nil
	case int32:
		return n == portalPreferDark, nil
	default:
		return false, fmt.Errorf("unexpected color-scheme value type %s", v.Signature())
	}
}
