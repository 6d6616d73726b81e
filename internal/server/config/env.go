package config

import (
	"fmt"
	"os"
	"time"
)

const envPrefix = "TASKKEEPER_"

// parseEnv overlays TASKKEEPER_* variables. PORT is honoured for the HTTP
// address when TASKKEEPER_HTTP_ADDR is unset. Malformed durations panic.
func parseEnv(config *Config) {
	if port, ok := os.LookupEnv("PORT"); ok && port != "" {
		config.EndpointAddrHTTP = ":" + port
	}

	envString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	envString(&config.EndpointAddrGRPC, "GRPC_ADDR")
	envString(&config.DatabaseDriver, "DB_DRIVER")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.SecretKey, "SECRET_KEY")
	envString(&config.KeyID, "KEY_ID")
	envString(&config.LogLevel, "LOG_LEVEL")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envString(&config.S3AccessKey, "S3_ACCESS_KEY")
	envString(&config.S3SecretKey, "S3_SECRET_KEY")

	envDuration(&config.AccessTokenValidityDuration, "TOKEN_TTL")
	envDuration(&config.TokenLeeway, "TOKEN_LEEWAY")
}

func envString(dst *string, name string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok && v != "" {
		*dst = v
	}
}

func envDuration(dst *time.Duration, name string) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", envPrefix, name, err))
	}
	*dst = d
}
