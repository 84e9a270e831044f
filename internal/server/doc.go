// Package server runs the local HTTP endpoint that completes the Spotify authorization code flow.
//
// `classificone auth spotify` opens the authorization URL in a browser, starts a [CallbackServer] on the
// configured redirect address and waits on [OAuthHandler.Result]. The handler checks the state parameter,
// exchanges the code for a token and answers exactly one callback. The CLI then stores the token in the
// config file, from which the bot refreshes it on its own.
//
// # Router
//
// [BasicRouter] wraps [http.ServeMux] with method-qualified patterns and a [Middleware] stack.
// [LoggingMiddleware] logs each request at debug level.
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes.
package server
