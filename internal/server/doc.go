// Package server provides HTTP routing, middleware and handlers for the player service.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # Routes
//
//	GET /api/meta            → catalog as a JSON array of song metadata
//	GET /ui/download/{ref}   → audio file by blob ref
//	GET /api/search?q=       → ranked hits from the current player session
//	GET /api/player          → AmplitudeJS configuration
//	GET /                    → player page
//	GET /static/             → embedded assets
//	GET /healthz             → catalog and session status
//
// All routes are also reachable under the configured prefix (default /player), which is
// stripped before routing.
//
// # Sessions
//
// [PlayerProvider] owns the current [player.Session]. It is rebuilt after every catalog
// refresh, so the page, search and config handlers always agree on song ordinals.
package server
