package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/theme"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show or change the light/dark preference",
	Long: `Show the current theme. Without an explicit choice the theme follows
the desktop color scheme; toggle and set record an explicit choice, reset
forgets it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withThemeStore(cmd.Context(), func(s *theme.Store) error {
			printTheme(cmd.OutOrStdout(), s)
			return nil
		})
	},
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch between dark and light",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withThemeStore(cmd.Context(), func(s *theme.Store) error {
			s.Toggle()
			printTheme(cmd.OutOrStdout(), s)
			return nil
		})
	},
}

var themeSetCmd = &cobra.Command{
	Use:       "set <dark|light>",
	Short:     "Choose dark or light explicitly",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(theme.Dark), string(theme.Light)},
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := theme.ParsePreference(args[0])
		if err != nil {
			return err
		}
		return withThemeStore(cmd.Context(), func(s *theme.Store) error {
			if err := s.Set(p); err != nil {
				return err
			}
			printTheme(cmd.OutOrStdout(), s)
			return nil
		})
	},
}

var themeResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the explicit choice and follow the desktop again",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withThemeStore(cmd.Context(), func(s *theme.Store) error {
			s.Reset()
			printTheme(cmd.OutOrStdout(), s)
			return nil
		})
	},
}

var themeWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the theme every time it changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return withThemeStore(ctx, func(s *theme.Store) error {
			out := cmd.OutOrStdout()
			unsubscribe := s.Subscribe(func(p theme.Preference) {
				fmt.Fprintln(out, p)
			})
			defer unsubscribe()
			<-ctx.Done()
			return nil
		})
	},
}

func init() {
	themeCmd.AddCommand(themeToggleCmd)
	themeCmd.AddCommand(themeSetCmd)
	themeCmd.AddCommand(themeResetCmd)
	themeCmd.AddCommand(themeWatchCmd)
	rootCmd.AddCommand(themeCmd)
}

// withThemeStore opens the store for the duration of fn.
func withThemeStore(ctx context.Context, fn func(*theme.Store) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s, cleanup, err := openThemeStore(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(s)
}

func printTheme(w io.Writer, s *theme.Store) {
	mode := "following desktop"
	if s.Explicit() {
		mode = "explicit"
	}
	fmt.Fprintf(w, "%s (%s)\n", s.Value(), mode)
}
