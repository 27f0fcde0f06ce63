package main

import (
	"context"
	"os"

	"github.com/Lualttt/Pipe-Bomb-Server/internal/lyrics"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/repositories"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/resolver"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/services"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/session"
	"github.com/Lualttt/Pipe-Bomb-Server/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.toml, using defaults", "error", err)
		}
	}

	registry := services.NewRegistry()
	registry.Register(services.NewProxyService(config.Services.Proxy.URL, config.Services.Proxy.APIKey))

	spotify := services.NewSpotifyClient(nil)
	granter := session.NewClientCredentialsGranter(
		config.Credentials.Spotify.ClientID,
		config.Credentials.Spotify.ClientSecret,
		nil,
	)
	sess := session.New(granter, spotify, config.Credentials.Spotify.Configured(), logger)

	var journal *repositories.ResolutionRepository
	if config.Database.Path != "" {
		if db, err := shared.NewDatabase(config.Database); err != nil {
			logger.Warn("journal disabled, database unavailable", "error", err)
		} else if err := shared.RunMigrations(db); err != nil {
			logger.Warn("journal disabled, migrations failed", "error", err)
			db.Close()
		} else {
			journal = repositories.NewResolutionRepository(db)
		}
	}

	// A typed nil pointer would slip past the resolver's nil-journal check.
	var journalSink resolver.Journal
	if journal != nil {
		journalSink = journal
	}
	trackResolver := resolver.New(spotify, sess, journalSink, config.Cache.TrackConversionTTL(), logger)

	lyricsAPI := services.NewLyricsAPIClient("", nil, logger)
	lyricsRegistry := lyrics.NewRegistry()
	lyricsRegistry.Register(lyrics.NewSpotifySource(trackResolver, lyricsAPI, config.Cache.LyricsTTL(), logger))
	if config.Credentials.Musixmatch.Configured() {
		mxmClient := lyrics.NewMusixmatchClient(config.Credentials.Musixmatch.APIKey, nil)
		lyricsRegistry.Register(lyrics.NewMusixmatchSource(mxmClient, config.Cache.LyricsTTL()))
	}

	apiService := services.NewAPIService(config.Services.Proxy.URL, config.Services.Proxy.APIKey, nil)

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Registry: registry,
		Resolver: trackResolver,
		Lyrics:   lyricsRegistry,
		Session:  sess,
		Journal:  journal,
		API:      apiService,
		Logger:   logger,
	})

	app := &cli.Command{
		Name:     "pipebomb",
		Usage:    "Aggregate track metadata and lyrics across streaming services",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize the config file and journal database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.SetupDatabase,
	}
}
