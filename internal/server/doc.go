// Package server provides HTTP routing, middleware, and the v1 aggregation API handlers.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// Middleware must be registered before handlers because handlers are wrapped at registration time.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally, so registered patterns may carry
// method prefixes and path wildcards ("GET /v1/lyrics/{id}").
//
// # Middleware
//
// [RequestID] tags each request with a unique id, stored on the context and echoed in the
// X-Request-ID response header. [Logging] emits one structured log line per request with
// method, path, status, duration, and request id.
//
// # API Handler
//
// [APIHandler] implements the [Handler] interface and serves the whole v1 surface:
// health diagnostics, lyrics lookup, cross-service resolution, and track search.
// Canonical ids in paths are routed through the service registry, so "proxy:abc123"
// and a bare "abc123" (default service) both work.
//
// Errors from the shared taxonomy map onto status codes: service-unavailable → 503,
// track/lyrics not found → 404, invalid input → 400, upstream request or decode
// failures → 502, anything else → 500. Every error body is a JSON object with the
// message and the request id.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
