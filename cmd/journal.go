package main

import (
	"context"
	"fmt"
	"time"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
	"github.com/urfave/cli/v3"
)

// JournalList prints recorded resolution outcomes, newest first.
func (r *Runner) JournalList(ctx context.Context, cmd *cli.Command) error {
	canonicalID := cmd.String("canonical")
	matchedOnly := cmd.Bool("matched")
	unmatchedOnly := cmd.Bool("unmatched")
	limit := cmd.Int("limit")

	if r.journal == nil {
		return fmt.Errorf("%w: journal not configured (set database.path in config.toml)", shared.ErrServiceUnavailable)
	}

	if matchedOnly && unmatchedOnly {
		return fmt.Errorf("%w: cannot specify both --matched and --unmatched", shared.ErrInvalidArgument)
	}

	criteria := map[string]any{}
	if canonicalID != "" {
		criteria["canonical_id"] = canonicalID
	}
	if matchedOnly {
		criteria["matched"] = true
	}
	if unmatchedOnly {
		criteria["matched"] = false
	}
	if limit > 0 {
		criteria["limit"] = limit
	}

	r.logger.Info("listing resolutions", "criteria", criteria)

	resolutions, err := r.journal.List(ctx, criteria)
	if err != nil {
		return fmt.Errorf("failed to list resolutions: %w", err)
	}

	if len(resolutions) == 0 {
		r.writePlain("No resolutions recorded.\n")
		return nil
	}

	r.writePlain("Found %d resolutions:\n\n", len(resolutions))
	for i, res := range resolutions {
		marker := "✗"
		if res.Matched() {
			marker = "✓"
		}
		r.writePlain("%d. %s %s\n", i+1, marker, res.CanonicalID())
		r.writePlain("   Query: %s\n", res.Query())
		if res.Matched() {
			r.writePlain("   Spotify: %s (%s)\n", res.SpotifyTitle(), res.SpotifyID())
			r.writePlain("   Delta: %.2fs\n", res.DurationDelta())
		}
		r.writePlain("   Recorded: %s\n", res.CreatedAt().Format(time.RFC3339))
		r.writePlain("\n")
	}

	return nil
}

// JournalStats summarizes match counts across the resolution journal.
func (r *Runner) JournalStats(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.journal == nil {
		return fmt.Errorf("%w: journal not configured (set database.path in config.toml)", shared.ErrServiceUnavailable)
	}

	r.logger.Info("computing journal stats")

	stats, err := r.journal.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute stats: %w", err)
	}

	if useJSON {
		return r.writeJSON(stats, pretty)
	}

	r.writePlainHeader("Resolution Journal")
	r.writePlain("Total:     %d\n", stats.Total)
	r.writePlain("Matched:   %d\n", stats.Matched)
	r.writePlain("Unmatched: %d\n", stats.Unmatched)
	if stats.Matched > 0 {
		r.writePlain("Avg delta: %.2fs\n", stats.AvgDelta)
	}

	return nil
}

// journalCommand inspects the resolution audit journal
func journalCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "journal",
		Usage: "Inspect recorded resolution outcomes",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List resolutions, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "canonical",
						Usage: "Only resolutions for this canonical track id",
					},
					&cli.BoolFlag{
						Name:  "matched",
						Usage: "Only matched resolutions",
					},
					&cli.BoolFlag{
						Name:  "unmatched",
						Usage: "Only unmatched resolutions",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Usage:   "Maximum rows to show",
					},
				},
				Action: r.JournalList,
			},
			{
				Name:  "stats",
				Usage: "Show match counts and the mean duration delta",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print stats as JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
						Value: true,
					},
				},
				Action: r.JournalStats,
			},
		},
	}
}
