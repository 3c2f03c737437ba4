package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/devlog"
	"github.com/Zachkp/portfolio/internal/portfolio"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Generate the dev-log status line once and print it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cleanup, err := newStatusService(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		resp, err := svc.Status(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetching status: %w", err)
		}
		printStatus(cmd.OutOrStdout(), resp, time.Now())
		return nil
	},
}

var profileOpts struct {
	json bool
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Print the portfolio data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data := portfolio.Get()
		if profileOpts.json {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(data)
		}
		printProfile(cmd.OutOrStdout(), data)
		return nil
	},
}

func init() {
	profileCmd.Flags().BoolVar(&profileOpts.json, "json", false, "print as JSON")
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(profileCmd)
}

func printStatus(w io.Writer, resp devlog.Response, now time.Time) {
	fmt.Fprintln(w, resp.Summary)
	updated, err := time.ParseInLocation(devlog.LastUpdateLayout, resp.LastUpdate, now.Location())
	if err != nil {
		return
	}
	fmt.Fprintf(w, "updated %s (%s)\n", humanize.RelTime(updated, now, "ago", "from now"), resp.Source)
}

func printProfile(w io.Writer, d portfolio.Data) {
	p := d.Profile
	fmt.Fprintf(w, "%s - %s\n%s\n%s | %s\n\n", p.Name, p.Role, p.Tagline, p.Location, p.Status)
	fmt.Fprintln(w, d.About.Bio)
	fmt.Fprintln(w)
	for _, s := range d.About.Stats {
		fmt.Fprintf(w, "%-12s %s\n", s.Label, s.Value)
	}

	skills := make([]string, 0, len(d.Skills))
	for _, s := range d.Skills {
		skills = append(skills, s.Name)
	}
	fmt.Fprintf(w, "\nSkills: %s\n\nProjects:\n", strings.Join(skills, ", "))
	for _, pr := range d.Projects {
		live := ""
		if pr.IsLive {
			live = " [live]"
		}
		fmt.Fprintf(w, "  %s%s [%s]\n", pr.Name, live, strings.Join(pr.Tags, ", "))
		for _, l := range pr.Links {
			fmt.Fprintf(w, "    %s: %s\n", l.Label, l.URL)
		}
	}
	fmt.Fprintln(w)
	for _, s := range p.Socials {
		fmt.Fprintf(w, "%s: %s\n", s.Name, s.URL)
	}
}
