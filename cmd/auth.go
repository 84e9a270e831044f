package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/classificone/internal/server"
	"github.com/desertthunder/classificone/internal/services"
	"github.com/desertthunder/classificone/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// authTimeout bounds how long the callback server waits for the user.
const authTimeout = 2 * time.Minute

// SpotifyAuth performs the OAuth2 authorization code flow for the account that owns the queue playlist.
//
// Starts a local HTTP server, opens the browser for user authorization, exchanges the code and saves the token.
func (r *Runner) SpotifyAuth(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	if config.Spotify.ClientID == "" || config.Spotify.ClientSecret == "" {
		return fmt.Errorf("%w: spotify client_id and client_secret must be set", shared.ErrMissingCredentials)
	}

	token, err := r.doOAuth(ctx, services.SpotifyOAuthConfig(config.Spotify), config.Server, authTimeout)
	if err != nil {
		return err
	}

	if err := r.saveTokens(token); err != nil {
		return err
	}

	r.writePlain("✓ Authorization successful\n")
	r.writePlain("✓ Token saved to %s\n", r.configPath)
	return nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(ctx context.Context, oauthConfig *oauth2.Config, srvConfig shared.ServerConfig, timeout time.Duration) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	oauthHandler := server.NewOAuthHandler(oauthConfig, state)
	router := server.NewBasicRouter()
	router.Use(server.LoggingMiddleware(r.logger))
	router.Handler(oauthHandler)

	addr := fmt.Sprintf("%s:%d", srvConfig.Host, srvConfig.Port)
	callback, err := server.Listen(addr, router)
	if err != nil {
		return nil, err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := callback.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down callback server", "error", err)
		}
	}()
	r.logger.Info("waiting for OAuth callback", "addr", callback.Addr())

	authURL := oauthConfig.AuthCodeURL(state)
	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warn("failed to open browser automatically", "error", err)
		r.writePlain("⚠ Could not open browser automatically.\n")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (%s timeout)...\n", timeout)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var result server.OAuthResult
	select {
	case result = <-oauthHandler.Result():
	case <-timer.C:
		return nil, fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}
	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}
	return result.Token, nil
}
