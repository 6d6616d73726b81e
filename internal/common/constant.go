// Package common contains shared constants and sentinel errors used across
// TaskKeeper components.
package common

// AuthorizationHeaderName is the HTTP header carrying the access token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the only authorization scheme accepted by protected routes.
const BearerScheme = "Bearer"

// DefaultTaskStatus is assigned to tasks created without an explicit status.
const DefaultTaskStatus = "pending"
