package main

import (
	"context"
	"os"

	"github.com/nicholasnucifora/spotify-filterer/internal/services"
	"github.com/nicholasnucifora/spotify-filterer/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const configPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		}
	}

	var library services.Library
	spotify := config.Credentials.Spotify
	if spotify.ClientID != "" && spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(spotify.Map()); err == nil {
			if spotify.HasToken() {
				if err := svc.Authenticate(context.Background(), spotify.Token()); err != nil {
					logger.Warn("saved token rejected, run 'auth login'", "error", err)
				} else {
					// Persist refreshed tokens so the next invocation can
					// skip the browser.
					svc.SetTokenRefreshCallback(func(token *oauth2.Token) {
						if err := config.Credentials.Spotify.Update(token); err != nil {
							return
						}
						if err := shared.SaveConfig(configPath, config); err != nil {
							logger.Warn("failed to persist refreshed token", "error", err)
						}
					})
				}
			}
			library = svc
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Library: library,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "spotify-filterer",
		Usage:    "Remove unavailable tracks and duplicates from Spotify playlists",
		Version:  "1.0.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
