// Package client contains the transport side of the dashboard client.
//
// # Overview
//
// The package provides:
//  1. A Gateway interface describing the marketplace REST API (auth,
//     categories, products, farmers) and HTTPGateway, its net/http
//     implementation. Every answer is unwrapped from the
//     {success, data, message} envelope.
//  2. RequestBuilder, which prefixes the configured base URL, encodes JSON
//     bodies, stamps an X-Request-Id and attaches the bearer credential read
//     fresh from a TokenSource on every call.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Failed calls return *APIError. Use errors.Is with common.ErrNetwork,
// common.ErrServer, common.ErrorUnauthorized or common.ErrorNotFound to
// classify them, and UserMessage to obtain displayable text.
//
// Concurrency & Contexts
//
// HTTPGateway and RequestBuilder are safe for concurrent use. All operations
// accept context.Context and honor cancellation.
package client
