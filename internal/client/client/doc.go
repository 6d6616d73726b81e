// Package client talks to the TaskKeeper HTTP API on behalf of the CLI.
//
// # Overview
//
// Client is the transport-agnostic contract used by the CLI; HTTPClient is
// its JSON-over-HTTP implementation. HTTPClient keeps the session token
// returned by Login and sends it as a bearer credential on every task call.
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError, carrying the status and the
// server's {"error": ...} message. APIError matches the sentinels
// ErrUnauthorized, ErrNotFound and ErrBadRequest through errors.Is.
// Transport failures wrap ErrUnavailable.
package client
