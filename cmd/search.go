package main

import (
	"context"
	"fmt"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/services"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
	"github.com/urfave/cli/v3"
)

// SearchTracks queries a streaming service for tracks matching free text.
func (r *Runner) SearchTracks(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	serviceName := cmd.String("service")
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if query == "" {
		return fmt.Errorf("%w: search query argument is required", shared.ErrMissingArgument)
	}

	if r.registry == nil {
		return fmt.Errorf("%w: service registry not initialized", shared.ErrServiceUnavailable)
	}

	var svc services.Service
	var err error
	if serviceName != "" {
		svc, err = r.registry.Get(serviceName)
	} else {
		svc, err = r.registry.Default()
	}
	if err != nil {
		return err
	}

	r.logger.Infof("searching %v for %q", svc.Name(), query)

	tracks, err := svc.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if limit > 0 && limit < len(tracks) {
		tracks = tracks[:limit]
	}

	if useJSON {
		return r.writeJSON(tracks, pretty)
	}

	r.writePlain("Found %d tracks on %s:\n\n", len(tracks), svc.Name())
	for i, track := range tracks {
		r.writePlain("%d. %s - %s\n", i+1, track.Metadata.Title, track.DisplayArtists())
		r.writePlain("   ID: %s\n", track.TrackID)
		if track.Metadata.Duration > 0 {
			r.writePlain("   Duration: %s\n", shared.FormatDuration(track.Metadata.Duration))
		}
		r.writePlain("\n")
	}

	return nil
}

// searchCommand queries a registered streaming service
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search a streaming service for tracks",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "service",
				Aliases: []string{"s"},
				Usage:   "Service to search (defaults to the registry default)",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"l"},
				Usage:   "Maximum number of results to show",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print results as JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
		},
		Action: r.SearchTracks,
	}
}
