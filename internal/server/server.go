// package server contains the router, middleware & OAuth callback handler used by `auth spotify`
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers that own their routes.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs method, path, status and duration of every request at debug level.
func LoggingMiddleware(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
		})
	}
}

// CallbackServer is a short-lived local HTTP server for the OAuth redirect.
type CallbackServer struct {
	srv      *http.Server
	listener net.Listener
}

// Listen binds addr and starts serving handler in the background.
func Listen(addr string, handler http.Handler) (*CallbackServer, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s := &CallbackServer{
		srv:      &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second},
		listener: listener,
	}
	go func() {
		if err := s.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("callback server stopped", "error", err)
		}
	}()
	return s, nil
}

// Addr returns the bound address, useful when listening on port 0.
func (s *CallbackServer) Addr() string {
	return s.listener.Addr().String()
}

// Shutdown stops the server, waiting at most until ctx is done.
func (s *CallbackServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
