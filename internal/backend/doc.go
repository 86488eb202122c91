// package backend is the client for the hosted backend that serves hooks, playlists and billing.
//
// # Coordinates
//
// [Resolve] picks the backend url and anon key in order of precedence:
//
//  1. the config saved by the setup wizard
//  2. defaults from config.toml or the HOOKX_BACKEND_* environment variables
//  3. placeholders
//
// A client built from placeholders reports false from [Client.IsConfigured] and fails every
// call with [shared.ErrNotConfigured] without touching the network, so callers can disable
// network features instead of crashing.
//
// # Authentication
//
// Every request carries the anon key twice: as the apikey header and as a bearer token. The
// bearer token is attached by an [oauth2.StaticTokenSource] transport.
//
// # Functions
//
// Serverless functions answer with either a success payload or {"error": "..."}. Failures
// surface as [*FunctionError].
package backend
