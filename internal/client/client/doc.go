// Package client contains the client-side transport of the wallet.
//
// # Overview
//
//  1. The Client interface is the backend API as the stores consume it:
//     authentication, account data, payments and transaction history.
//  2. HTTPClient implements it over REST. Credentials are HTTP cookies held
//     in a jar owned by the client and mirrored to the metadata repository,
//     every request carries an X-Request-ID and calls are throttled with a
//     token bucket.
//  3. InitDatabase and RunMigrations open the local SQLite state database
//     and apply the embedded goose migrations.
//
// # Error Handling
//
// Network failures are returned as *common.TransportError wrapping
// ErrUnavailable. Non-2xx responses are *APIError values that keep the raw
// body; ExtractMessage and FieldErrors read the backend's error shapes.
// A 401 or 403 APIError matches ErrUnauthorized with errors.Is.
package client
