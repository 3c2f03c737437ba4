package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/colorscheme"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/prefs"
	"github.com/Zachkp/portfolio/internal/storage"
	"github.com/Zachkp/portfolio/internal/theme"
)

var (
	cfg        *config.Config
	logger     *slog.Logger
	globalOpts struct {
		verbose bool
	}
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal portfolio API and theme preference tool",
	Long: `portfolio serves the portfolio data, theme preference and dev-log
status over HTTP, and manages the light/dark preference from the command line.

Running portfolio without a subcommand starts the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false, "enable debug logging")
}

func setupLogger() {
	level := slog.LevelInfo
	if globalOpts.verbose {
		level = slog.LevelDebug
	}
	// stderr keeps stdout clean for command output
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// preferenceStorage picks the configured backend. db may be nil unless the
// sqlite backend is selected.
func preferenceStorage(db *storage.Store) theme.Storage {
	switch cfg.PrefsBackend {
	case config.BackendTOML:
		return prefs.NewFileStore(cfg.PrefsFile())
	case config.BackendMemory:
		return prefs.NewMemoryStore()
	default:
		return db.Preferences()
	}
}

// osSignal returns the color-scheme source, or nil when the desktop portal
// cannot be reached. The returned func releases it.
func osSignal() (theme.OSSignal, func()) {
	scheme, err := colorscheme.ParseScheme(cfg.OSScheme)
	if err != nil {
		logger.Warn("ignoring color scheme override", "error", err)
		scheme = colorscheme.SchemeSystem
	}

	switch scheme {
	case colorscheme.SchemeDark:
		return colorscheme.NewStatic(true), func() {}
	case colorscheme.SchemeLight:
		return colorscheme.NewStatic(false), func() {}
	}

	portal, err := colorscheme.DialPortal(logger)
	if err != nil {
		logger.Debug("desktop color-scheme unavailable", "error", err)
		return nil, func() {}
	}
	return portal, func() { portal.Close() }
}

// openThemeStore wires the theme store for a command. The cleanup func
// closes everything it opened.
func openThemeStore(ctx context.Context) (*theme.Store, func(), error) {
	var db *storage.Store
	if cfg.PrefsBackend == config.BackendSQLite {
		var err error
		db, err = storage.Open(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
	}

	source, closeSource := osSignal()
	store := theme.New(ctx, theme.Options{
		Storage: preferenceStorage(db),
		OS:      source,
		Logger:  logger,
	})

	cleanup := func() {
		closeSource()
		if db != nil {
			db.Close()
		}
	}
	return store, cleanup, nil
}
