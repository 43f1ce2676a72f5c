// Package common contains shared constants and error types used across
// CheWallet client components.
package common

// RequestIDHeaderName is the HTTP header carrying the client-generated id of
// an outbound request. The transfer flow reuses it as the operation id of a
// receipt when the backend does not return one.
const RequestIDHeaderName = "X-Request-ID"

// Placeholder is rendered for receipt fields that neither the backend nor the
// client can resolve.
const Placeholder = "---"
