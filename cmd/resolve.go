package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/formatter"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ResolveTrack maps a canonical track to its Spotify counterpart.
func (r *Runner) ResolveTrack(ctx context.Context, cmd *cli.Command) error {
	trackID := cmd.StringArg("id")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	artwork := cmd.Bool("artwork")

	if trackID == "" {
		return fmt.Errorf("%w: track id argument is required", shared.ErrMissingArgument)
	}

	r.logger.Info("resolving track", "track", trackID)

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchTrack:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ResolveMatch:
				r.writePlain("🔍 %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.Resolve(ctx, progressCh, trackID)
	close(progressCh)

	if err != nil {
		return err
	}

	if artwork {
		if result.Track.Metadata.Image == "" {
			r.logger.Warn("track has no artwork URL, skipping download")
		} else if path, artErr := formatter.WriteArtwork(result.Track.Metadata.Image, cmd.String("artwork-file")); artErr != nil {
			r.logger.Warn("failed to save artwork", "error", artErr)
		} else {
			r.writePlain("✓ Artwork saved to %s\n", path)
		}
	}

	if useJSON {
		return r.writeJSON(result, pretty)
	}

	match := result.Match

	r.writePlain("\n")
	r.writePlainHeader("Resolution Result")
	r.writePlain("Canonical: %s - %s (%s)\n", result.Track.Metadata.Title, result.Track.DisplayArtists(), shared.FormatDuration(result.Track.Metadata.Duration))
	r.writePlain("Spotify:   %s - %s (%s)\n", match.Name, strings.Join(match.ArtistNames(), ", "), shared.FormatDuration(match.Duration()))
	r.writePlain("ID:        %s\n", match.ID)
	r.writePlain("Delta:     %.2fs\n", result.Delta)

	return nil
}

// resolveCommand maps canonical tracks to Spotify counterparts
func resolveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "Resolve a track to its Spotify counterpart",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the result as JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "artwork",
				Usage: "Download the canonical track's cover image",
			},
			&cli.StringFlag{
				Name:  "artwork-file",
				Usage: "Cover image file path (defaults to cover.jpg)",
			},
		},
		Action: r.ResolveTrack,
	}
}
