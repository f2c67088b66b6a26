// Package client contains the client-side building blocks that talk to the
// outside world: the job-board REST API and the local session database.
//
// # Overview
//
//  1. A transport-agnostic API contract (see the Client interface):
//     RequestToken, CurrentUser and Register.
//  2. A concrete HTTP implementation (see HTTPClient). Credentials go to
//     POST /token form-encoded, the current user comes from GET /users/me with
//     a bearer token, and registration is POST /users/register with JSON.
//     Every request carries an X-Request-ID.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) that opens
//     the SQLite database and applies embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. A rejected token on CurrentUser
// wraps ErrUnauthorized. Other non-2xx answers are returned as *APIError with
// the server's detail message. Success bodies that cannot be decoded, and
// error bodies that are not JSON, wrap ErrMalformedResponse. Match with errors.Is / errors.As.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honour cancellation; each request is additionally
// bounded by the timeout given to NewHTTPClient.
package client
