package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/classificone/internal/shared"
	"golang.org/x/oauth2"
)

// newTokenServer fakes the token endpoint, accepting only code "good".
func newTokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.FormValue("code") != "good" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error": "invalid_grant"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token": "access", "refresh_token": "refresh", "token_type": "Bearer", "expires_in": 3600}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newHandler(t *testing.T) *OAuthHandler {
	tokenSrv := newTokenServer(t)
	config := &oauth2.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		Endpoint:     oauth2.Endpoint{AuthURL: tokenSrv.URL + "/authorize", TokenURL: tokenSrv.URL + "/token"},
	}
	return NewOAuthHandler(config, "state123")
}

func TestOAuthHandler(t *testing.T) {
	t.Run("exchanges code", func(t *testing.T) {
		h := newHandler(t)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=good", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Spotify connected") {
			t.Error("expected success page")
		}

		result := <-h.Result()
		if result.Error() != nil {
			t.Fatalf("expected no error, got %v", result.Error())
		}
		if result.Token.AccessToken != "access" || result.Token.RefreshToken != "refresh" {
			t.Errorf("unexpected token %+v", result.Token)
		}
	})

	tests := []struct {
		name   string
		query  string
		status int
	}{
		{"state mismatch", "state=wrong&code=good", http.StatusBadRequest},
		{"denied", "state=state123&error=access_denied", http.StatusBadRequest},
		{"bad code", "state=state123&code=bad", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(t)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?"+tt.query, nil))

			if rec.Code != tt.status {
				t.Errorf("expected %d, got %d", tt.status, rec.Code)
			}
			result := <-h.Result()
			if !errors.Is(result.Error(), shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", result.Error())
			}
		})
	}

	t.Run("second callback rejected", func(t *testing.T) {
		h := newHandler(t)
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=good", nil))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=good", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 on replay, got %d", rec.Code)
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("method filtering", func(t *testing.T) {
		r := NewBasicRouter()
		r.Handle("get", "/ping", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, "pong")
		}))

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rec.Body.String() != "pong" {
			t.Errorf("expected pong, got %q", rec.Body.String())
		}

		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
	})

	t.Run("middleware order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mark("outer"), mark("inner"))
		r.Handler(newHandler(t))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback?state=x", nil))
		if strings.Join(order, ",") != "outer,inner" {
			t.Errorf("unexpected order %v", order)
		}
	})

	t.Run("logging middleware", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf)
		logger.SetLevel(log.DebugLevel)

		r := NewBasicRouter()
		r.Use(LoggingMiddleware(logger))
		r.Handle(http.MethodGet, "/teapot", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/teapot", nil))
		if !strings.Contains(buf.String(), "status=418") || !strings.Contains(buf.String(), "path=/teapot") {
			t.Errorf("unexpected log output %q", buf.String())
		}
	})
}

func TestCallbackServer(t *testing.T) {
	r := NewBasicRouter()
	r.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "pong")
	}))

	srv, err := Listen("127.0.0.1:0", r)
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	resp, err := http.Get("http://" + srv.Addr() + "/ping")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "pong" {
		t.Errorf("expected pong, got %q", body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
}
