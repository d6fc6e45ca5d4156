package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/nicholasnucifora/spotify-filterer/internal/server"
	"github.com/nicholasnucifora/spotify-filterer/internal/services"
	"github.com/nicholasnucifora/spotify-filterer/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// AuthLogin performs the OAuth2 authorization flow for Spotify.
//
// Starts a local HTTP server, opens the browser for user authorization,
// exchanges the auth code for tokens and saves them to the config file.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	config := r.config
	if _, err := os.Stat(path); err == nil {
		if loaded, loadErr := shared.LoadConfig(path); loadErr == nil {
			config = loaded
		}
	}

	if config.Credentials.Spotify.ClientID == "" || config.Credentials.Spotify.ClientSecret == "" {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in %s", shared.ErrMissingCredentials, path)
	}

	service, err := services.NewSpotifyService(config.Credentials.Spotify.Map())
	if err != nil {
		return fmt.Errorf("failed to create Spotify service: %w", err)
	}

	token, err := r.doOAuth(config, service)
	if err != nil {
		return err
	}

	if err := config.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	if err := shared.SaveConfig(path, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Tokens saved to %s\n\n", path)
	r.writePlain("You can now use: spotify-filterer playlists\n")

	return nil
}

// AuthStatus checks the saved credentials by fetching the user profile.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if !r.config.Credentials.Spotify.HasToken() {
		r.writePlain("Authentication: ✗ Not logged in (run 'auth login')\n")
		return nil
	}

	service, ok := r.library.(*services.SpotifyService)
	if !ok {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	profile, err := service.UserProfile(ctx)
	if err != nil {
		r.writePlain("Authentication: ✗ Saved token rejected (%v)\n", err)
		return nil
	}

	r.writePlain("Authentication: ✓ Logged in\n")
	r.writePlain("User: %s (%s)\n", profile.DisplayName, profile.ID)
	return nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server.
func (r *Runner) doOAuth(config *shared.Config, service *services.SpotifyService) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := service.GetAuthURL(state)
	oauthHandler := server.NewOAuthHandler(service.OAuthConfig(), state)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	serverAddr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}
