// Package config handles configuration for the TaskKeeper server,
// including defaults, a JSON or YAML file overlay, environment variables and command-line flags.
package config

import (
	"strings"
	"time"
)

// AddrDisabled turns off an optional listener when given as its address in
// any configuration layer.
const AddrDisabled = "off"

// Config holds runtime settings for the TaskKeeper server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the JSON API.
//   - EndpointAddrGRPC: bind address for the gRPC health service; empty or
//     "off" disables it.
//   - DatabaseDriver / DatabaseDSN: "pgx" (PostgreSQL) or "sqlite" plus its DSN.
//   - SecretKey: HMAC secret for signing JWTs (HS256). When empty, a random
//     per-process secret is generated at startup.
//   - KeyID: identifier written to the "kid" header of issued tokens.
//   - VerificationKeys: retired kid -> secret pairs still accepted on verification.
//   - AccessTokenValidityDuration: token lifetime; 0 issues tokens without expiry.
//   - TokenLeeway: clock skew tolerated when checking exp/iat.
//   - PasswordCost: bcrypt work factor.
//   - S3*: object storage used by task export; an empty bucket disables export.
type Config struct {
	EndpointAddrHTTP            string
	EndpointAddrGRPC            string
	DatabaseDriver              string
	DatabaseDSN                 string
	SecretKey                   string
	KeyID                       string
	VerificationKeys            map[string]string
	AccessTokenValidityDuration time.Duration
	TokenLeeway                 time.Duration
	PasswordCost                int
	LogLevel                    string
	S3Bucket                    string
	S3Region                    string
	S3BaseEndpoint              string
	S3AccessKey                 string
	S3SecretKey                 string
}

// LoadDefaults populates Config with development defaults: a local SQLite
// file and no signing secret.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":3000"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "tasks.db"
	c.SecretKey = ""
	c.KeyID = "v1"
	c.AccessTokenValidityDuration = 24 * time.Hour
	c.TokenLeeway = 30 * time.Second
	c.PasswordCost = 10
	c.LogLevel = "info"
	c.S3Region = "us-east-1"
}

// ExportEnabled reports whether object storage is configured for task export.
func (c *Config) ExportEnabled() bool {
	return c.S3Bucket != ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON or YAML file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	cfg.normalize()
	return cfg
}

// normalize resolves AddrDisabled to an empty address.
func (c *Config) normalize() {
	if strings.EqualFold(strings.TrimSpace(c.EndpointAddrGRPC), AddrDisabled) {
		c.EndpointAddrGRPC = ""
	}
}
