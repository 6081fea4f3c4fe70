package config

import (
	"fmt"
	"os"
	"time"
)

// parseEnv overlays Config fields from environment variables. Secrets are
// normally supplied this way in deployment; unset variables leave the
// current value untouched.
//
// Recognized variables: ADDRESS, DATABASE_DSN, ACCESS_TOKEN_SECRET,
// REFRESH_TOKEN_SECRET, ACCESS_TOKEN_EXPIRY, REFRESH_TOKEN_EXPIRY (Go
// duration strings, e.g. "15m", "240h"), S3_ROOT_USER, S3_ROOT_PASSWORD,
// S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT.
func parseEnv(config *Config) {
	setString := func(name string, target *string) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*target = v
		}
	}
	// A malformed duration is a startup failure, same as an unreadable JSON
	// config: running with a silently-kept default lifetime is worse than
	// failing loudly.
	setDuration := func(name string, target *time.Duration) {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(fmt.Sprintf("invalid duration in %s: %v", name, err))
			}
			*target = d
		}
	}

	setString("ADDRESS", &config.EndpointAddr)
	setString("DATABASE_DSN", &config.DatabaseDSN)
	setString("ACCESS_TOKEN_SECRET", &config.AccessTokenSecret)
	setString("REFRESH_TOKEN_SECRET", &config.RefreshTokenSecret)
	setDuration("ACCESS_TOKEN_EXPIRY", &config.AccessTokenValidityDuration)
	setDuration("REFRESH_TOKEN_EXPIRY", &config.RefreshTokenValidityDuration)
	setString("S3_ROOT_USER", &config.S3RootUser)
	setString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	setString("S3_BUCKET", &config.S3Bucket)
	setString("S3_REGION", &config.S3Region)
	setString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
}
