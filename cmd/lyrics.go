package main

import (
	"context"
	"fmt"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/formatter"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Lyrics fetches synced or plain lyrics for a canonical track.
func (r *Runner) Lyrics(ctx context.Context, cmd *cli.Command) error {
	trackID := cmd.StringArg("id")
	format := cmd.String("format")
	outputFile := cmd.String("output")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if trackID == "" {
		return fmt.Errorf("%w: track id argument is required", shared.ErrMissingArgument)
	}

	r.logger.Info("lyrics lookup", "track", trackID)

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchTrack:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.FetchLyrics:
				r.writePlain("🎤 %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.Lyrics(ctx, progressCh, trackID)
	close(progressCh)

	if err != nil {
		return err
	}

	if format != "" || outputFile != "" {
		if format == "" {
			format = "lrc"
		}

		var path string
		switch format {
		case "lrc":
			path, err = formatter.WriteLRCExport(result.Track, result.Lyrics, outputFile)
		case "text", "txt":
			path, err = formatter.WriteTextExport(result.Track, result.Lyrics, outputFile)
		case "json":
			path, err = formatter.WriteJSONExport(result.Track, result.Lyrics, outputFile)
		default:
			return fmt.Errorf("%w: unknown format '%s' (must be lrc, text, or json)", shared.ErrInvalidFlag, format)
		}
		if err != nil {
			return fmt.Errorf("failed to export lyrics: %w", err)
		}

		r.logger.Infof("lyrics exported to %v", path)

		r.writePlain("\n✓ Lyrics exported to %s\n", path)
		r.writePlain("  Track: %s\n", result.Track.Metadata.Title)
		r.writePlain("  Lines: %d\n", len(result.Lyrics.Lines))
		return nil
	}

	if useJSON {
		return r.writeJSON(result, pretty)
	}

	lyr := result.Lyrics
	kind := "plain"
	if lyr.Synced {
		kind = "synced"
	}

	r.writePlain("\n")
	r.writePlainHeader(fmt.Sprintf("%s - %s", result.Track.Metadata.Title, result.Track.DisplayArtists()))
	r.writePlain("Provider: %s (%s, %d lines)\n\n", lyr.Provider, kind, len(lyr.Lines))

	for _, line := range lyr.Lines {
		if lyr.Synced {
			r.writePlain("[%s] %s\n", shared.FormatTimestamp(line.Time), line.Text)
		} else {
			r.writePlain("%s\n", line.Text)
		}
	}

	return nil
}

// lyricsCommand fetches, prints, and exports lyrics
func lyricsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "lyrics",
		Usage: "Fetch lyrics for a track",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "id",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: lrc, text, or json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Export file path (defaults to one derived from the track id)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the result as JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
		},
		Action: r.Lyrics,
	}
}
