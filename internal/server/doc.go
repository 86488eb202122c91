// Package server exposes the cart and setup stores over a small JSON HTTP API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering. Middleware runs before the
// method filter so CORS preflight requests are answered for every route.
//
// # Middleware
//
//   - [CORS] sets a fixed permissive header set and answers OPTIONS with 200 "ok"
//   - [RequestLogger] tags each request with a uuid and logs method, path, status and duration
//   - [CartProvider] puts the session cart in the request context; handlers read it with [cart.FromContext]
//
// # Handlers
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
//	GET|POST|DELETE  /setup        backend coordinates and setup flag
//	GET|POST|DELETE  /cart         snapshot, add item, clear
//	DELETE           /cart/items   remove ?hookId=&licenseType=
//
// Errors are returned as {"error": "..."}.
package server
