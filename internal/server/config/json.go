package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
	"github.com/dmitrijs2005/taskkeeper/internal/timex"
	"gopkg.in/yaml.v3"
)

// JsonConfig is the on-disk shape of the configuration file, JSON or YAML.
// Durations accept "24h"-style strings or integer nanoseconds.
type JsonConfig struct {
	EndpointAddrHTTP            string            `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	EndpointAddrGRPC            string            `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	DatabaseDriver              string            `json:"database_driver" yaml:"database_driver"`
	DatabaseDSN                 string            `json:"database_dsn" yaml:"database_dsn"`
	SecretKey                   string            `json:"secret_key" yaml:"secret_key"`
	KeyID                       string            `json:"key_id" yaml:"key_id"`
	VerificationKeys            map[string]string `json:"verification_keys" yaml:"verification_keys"`
	AccessTokenValidityDuration *timex.Duration   `json:"access_token_validity_duration" yaml:"access_token_validity_duration"`
	TokenLeeway                 *timex.Duration   `json:"token_leeway" yaml:"token_leeway"`
	PasswordCost                int               `json:"password_cost" yaml:"password_cost"`
	LogLevel                    string            `json:"log_level" yaml:"log_level"`
	S3Bucket                    string            `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region                    string            `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint              string            `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	S3AccessKey                 string            `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey                 string            `json:"s3_secret_key" yaml:"s3_secret_key"`
}

// parseJson loads the file named by -c/-config, if any, and copies every
// field present in it over config. Missing fields keep their current value.
// Files ending in .yaml or .yml are read as YAML, anything else as JSON.
// Unreadable files and invalid content panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	switch strings.ToLower(filepath.Ext(jsonConfigFile)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(file, c)
	default:
		err = json.Unmarshal(file, c)
	}
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.KeyID, c.KeyID)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)

	if len(c.VerificationKeys) > 0 {
		config.VerificationKeys = c.VerificationKeys
	}
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.TokenLeeway != nil {
		config.TokenLeeway = c.TokenLeeway.Duration
	}
	if c.PasswordCost != 0 {
		config.PasswordCost = c.PasswordCost
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
