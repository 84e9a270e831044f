// HTTP plumbing shared by the Spotify clients: rate limiting and token refresh
package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/desertthunder/classificone/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// rateLimitedTransport waits on a shared [rate.Limiter] before every request.
type rateLimitedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// newRateLimitedTransport wraps base so at most rps requests per second are issued. rps <= 0 disables the limit.
func newRateLimitedTransport(base http.RoundTripper, rps float64) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	if rps <= 0 {
		return base
	}
	return &rateLimitedTransport{base: base, limiter: rate.NewLimiter(rate.Limit(rps), 1)}
}

// refreshableTokenSource reports every new token to callback so refreshed credentials can be persisted.
type refreshableTokenSource struct {
	source   oauth2.TokenSource
	callback func(*oauth2.Token)

	mu   sync.Mutex
	last string
}

func (s *refreshableTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.source.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	changed := token.AccessToken != s.last
	s.last = token.AccessToken
	s.mu.Unlock()

	if changed && s.callback != nil {
		s.callback(token)
	}
	return token, nil
}

// NewSpotifyHTTPClient returns an HTTP client authorized with the stored user token.
//
// Expired tokens are refreshed through the token endpoint and handed to onRefresh; all requests share one rate limit.
func NewSpotifyHTTPClient(ctx context.Context, cfg shared.SpotifyConfig, onRefresh func(*oauth2.Token)) (*http.Client, error) {
	token := cfg.Token()
	if token == nil {
		return nil, fmt.Errorf("%w: no spotify token stored, run `classificone auth spotify`", shared.ErrNotAuthenticated)
	}

	source := &refreshableTokenSource{
		source:   SpotifyOAuthConfig(cfg).TokenSource(ctx, token),
		callback: onRefresh,
		last:     token.AccessToken,
	}

	return &http.Client{
		Transport: &oauth2.Transport{
			Source: source,
			Base:   newRateLimitedTransport(http.DefaultTransport, cfg.RequestsPerSecond),
		},
	}, nil
}
