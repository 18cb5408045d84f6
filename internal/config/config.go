package config

import (
	"errors"
	"time"
)

type Config interface {
	EnvConfig
	CorsConfig
	TokenConfig
	StoreConfig
	CodenameConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	IsProduction() bool
	GetLogLevel() string
	GetLogFolder() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type TokenConfig interface {
	GetAccessTokenSecret() string
	GetRefreshTokenSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
}

type StoreConfig interface {
	GetDatabaseURL() string
	GetRedisURL() string
}

type CodenameConfig interface {
	GetGoogleProjectID() string
	GetGoogleLocation() string
	GetCodenameModel() string
	GetCredentialsFolder() string
}

type mainConfig struct {
	EnvVars
	Cors
	Tokens
	Store
	Codename
	Security
}

// New returns a Config backed by environment variables and defaults.
func New() Config {
	return newMainConfig(source{})
}

func newMainConfig(src source) mainConfig {
	return mainConfig{
		EnvVars:  EnvVars{src},
		Cors:     Cors{src},
		Tokens:   Tokens{src},
		Store:    Store{src},
		Codename: Codename{src},
		Security: Security{src},
	}
}

// Validate checks the settings the server cannot start without.
func Validate(c Config) error {
	access, refresh := c.GetAccessTokenSecret(), c.GetRefreshTokenSecret()
	if access == "" || refresh == "" {
		return errors.New("[config Validate] ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET are required")
	}
	if access == refresh {
		return errors.New("[config Validate] access and refresh token secrets must differ")
	}
	if c.GetAccessTokenExpiry() <= 0 || c.GetRefreshTokenExpiry() <= 0 {
		return errors.New("[config Validate] token expiries must be positive")
	}
	return nil
}
