// Package server provides HTTP routing, middleware, OAuth handling, and the
// web interface for playlist filtering.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern. [RequestLogger] is the one middleware
// shipped here.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with
// method filtering.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback flow for
// CLI login: a temporary server on the configured redirect host handles the
// Spotify callback, validates the state parameter, exchanges the code for a
// token, and delivers it over a channel before shutting down. It only
// processes one callback to prevent replay.
//
// # Web Interface
//
// [WebApp] serves the browser flow: a login page redirecting into the
// Spotify consent screen, an index page listing the user's playlists as
// filter-source checkboxes, and a run-filter form whose submission executes
// a full filter pass and renders the removal report. Sessions are in-memory
// cookie-keyed clients; the tool is single-user and local.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib
// handler interface and adds routes, allowing one implementation to register
// all of its routes at once. Both [OAuthHandler] and [WebApp] implement it.
package server
