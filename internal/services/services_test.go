package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/classificone/internal/shared"
	"golang.org/x/oauth2"
)

type mockTokenSource struct {
	token *oauth2.Token
	err   error
}

func (m *mockTokenSource) Token() (*oauth2.Token, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.token, nil
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestRefreshableTokenSource(t *testing.T) {
	t.Run("calls callback on first token fetch", func(t *testing.T) {
		var captured *oauth2.Token

		source := &refreshableTokenSource{
			source:   &mockTokenSource{token: &oauth2.Token{AccessToken: "test_token"}},
			callback: func(token *oauth2.Token) { captured = token },
		}

		token, err := source.Token()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if captured == nil || captured.AccessToken != "test_token" {
			t.Errorf("expected callback with 'test_token', got %v", captured)
		}
		if token.AccessToken != "test_token" {
			t.Errorf("expected returned token to be 'test_token', got %s", token.AccessToken)
		}
	})

	t.Run("calls callback when token changes", func(t *testing.T) {
		callCount := 0
		mockSource := &mockTokenSource{token: &oauth2.Token{AccessToken: "token1"}}

		source := &refreshableTokenSource{
			source:   mockSource,
			callback: func(*oauth2.Token) { callCount++ },
		}

		_, _ = source.Token()
		mockSource.token = &oauth2.Token{AccessToken: "token2"}
		token, _ := source.Token()

		if callCount != 2 {
			t.Errorf("expected callback called twice, got %d", callCount)
		}
		if token.AccessToken != "token2" {
			t.Errorf("expected new token, got %s", token.AccessToken)
		}
	})

	t.Run("skips callback for the seeded token", func(t *testing.T) {
		source := &refreshableTokenSource{
			source:   &mockTokenSource{token: &oauth2.Token{AccessToken: "stored"}},
			callback: func(*oauth2.Token) { t.Error("callback should not fire for the stored token") },
			last:     "stored",
		}

		source.Token()
		source.Token()
	})

	t.Run("handles nil callback gracefully", func(t *testing.T) {
		source := &refreshableTokenSource{
			source: &mockTokenSource{token: &oauth2.Token{AccessToken: "test_token"}},
		}

		token, err := source.Token()
		if err != nil {
			t.Fatalf("expected no error with nil callback, got %v", err)
		}
		if token.AccessToken != "test_token" {
			t.Error("expected token to be returned despite nil callback")
		}
	})

	t.Run("propagates source errors", func(t *testing.T) {
		source := &refreshableTokenSource{
			source:   &mockTokenSource{err: errors.New("token source error")},
			callback: func(*oauth2.Token) { t.Error("callback should not be called on error") },
		}

		token, err := source.Token()
		if err == nil || !strings.Contains(err.Error(), "token source error") {
			t.Fatalf("expected source error, got %v", err)
		}
		if token != nil {
			t.Error("expected nil token on error")
		}
	})
}

func TestRateLimitedTransport(t *testing.T) {
	ok := roundTripFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})

	t.Run("disabled without a rate", func(t *testing.T) {
		if _, limited := newRateLimitedTransport(ok, 0).(*rateLimitedTransport); limited {
			t.Error("expected base transport when rps is 0")
		}
	})

	t.Run("passes requests through", func(t *testing.T) {
		transport := newRateLimitedTransport(ok, 10)
		req := httptest.NewRequest(http.MethodGet, "http://example.test", nil)

		resp, err := transport.RoundTrip(req)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		transport := newRateLimitedTransport(ok, 1)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		req := httptest.NewRequest(http.MethodGet, "http://example.test", nil).WithContext(ctx)
		if _, err := transport.RoundTrip(req); err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}

func TestNewSpotifyHTTPClient(t *testing.T) {
	t.Run("requires a stored token", func(t *testing.T) {
		_, err := NewSpotifyHTTPClient(context.Background(), shared.SpotifyConfig{ClientID: "id"}, nil)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("sends the stored access token", func(t *testing.T) {
		var auth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
		}))
		defer srv.Close()

		cfg := shared.SpotifyConfig{
			ClientID:    "id",
			AccessToken: "access",
			TokenType:   "Bearer",
		}
		client, err := NewSpotifyHTTPClient(context.Background(), cfg, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		resp, err := client.Get(srv.URL)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		resp.Body.Close()

		if auth != "Bearer access" {
			t.Errorf("expected bearer header, got %q", auth)
		}
	})
}

func TestSpotifyOAuthConfig(t *testing.T) {
	t.Run("default redirect", func(t *testing.T) {
		config := SpotifyOAuthConfig(shared.SpotifyConfig{ClientID: "id", ClientSecret: "secret"})
		if config.RedirectURL != "http://127.0.0.1:3000/callback" {
			t.Errorf("unexpected redirect %s", config.RedirectURL)
		}
		if len(config.Scopes) != 4 {
			t.Errorf("expected 4 scopes, got %v", config.Scopes)
		}
	})

	t.Run("auth URL carries state", func(t *testing.T) {
		config := SpotifyOAuthConfig(shared.SpotifyConfig{ClientID: "id", RedirectURI: "http://localhost:9999/callback"})
		url := config.AuthCodeURL("xyz")
		if !strings.Contains(url, "state=xyz") || !strings.Contains(url, "client_id=id") {
			t.Errorf("unexpected auth url %s", url)
		}
		if !strings.HasPrefix(url, "https://accounts.spotify.com/authorize") {
			t.Errorf("unexpected auth host %s", url)
		}
	})
}
