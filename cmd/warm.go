package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/tasks"
	"github.com/urfave/cli/v3"
)

// WarmCache bulk-resolves tracks to pre-populate the conversion cache.
func (r *Runner) WarmCache(ctx context.Context, cmd *cli.Command) error {
	idsFile := cmd.String("file")
	workers := cmd.Int("workers")
	rateLimit := cmd.Float("rate")
	manifestPath := cmd.String("manifest")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	ids := cmd.Args().Slice()
	if idsFile != "" {
		fileIDs, err := readIDFile(idsFile)
		if err != nil {
			return err
		}
		ids = append(ids, fileIDs...)
	}

	if len(ids) == 0 {
		return fmt.Errorf("%w: provide track ids as arguments or via --file", shared.ErrMissingArgument)
	}

	r.logger.Infof("warming resolution cache for %v tracks", len(ids))
	r.writePlain("Warming resolution cache...\n")
	r.writePlain("Tracks: %d\n\n", len(ids))

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			if update.Step == 0 {
				r.writePlain("🔥 %s\n", update.Message)
			} else {
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.Warm(ctx, progressCh, ids, tasks.WarmOpts{
		NumWorkers:   workers,
		RateLimit:    rateLimit,
		ManifestPath: manifestPath,
	})
	close(progressCh)

	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(result, pretty)
	}

	r.writePlain("\n")
	r.writePlainHeader("Warm Complete")
	r.writePlain("Total:     %d\n", result.Total)
	r.writePlain("Resolved:  %d\n", result.Resolved)
	r.writePlain("Unmatched: %d\n", result.Unmatched)
	r.writePlain("Failed:    %d\n", result.Failed)

	if manifestPath != "" {
		r.writePlain("\n✓ Manifest saved to %s\n", manifestPath)
	}

	if result.Failed > 0 {
		r.writePlain("\nFailed tracks:\n")
		for _, outcome := range result.Outcomes {
			if outcome.Error != "" {
				r.writePlain("  - %s: %s\n", outcome.TrackID, outcome.Error)
			}
		}
	}

	return nil
}

// readIDFile loads track ids from a newline-delimited file. Blank lines and
// lines starting with # are skipped.
func readIDFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read id file: %w", err)
	}

	var ids []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ids = append(ids, line)
	}

	return ids, nil
}

// warmCommand bulk-resolves tracks ahead of serving traffic
func warmCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "warm",
		Usage:     "Bulk-resolve tracks to warm the conversion cache",
		ArgsUsage: "[track ids...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"F"},
				Usage:   "File with one track id per line",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent resolution workers (max 10)",
				Value: 5,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Upstream requests per second",
				Value: 5,
			},
			&cli.StringFlag{
				Name:  "manifest",
				Usage: "Write a JSON outcome manifest to this path",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the summary as JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
		},
		Action: r.WarmCache,
	}
}
