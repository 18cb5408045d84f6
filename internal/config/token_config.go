package config

import "time"

const (
	accessTokenSecretEnvVar  = "ACCESS_TOKEN_SECRET"
	refreshTokenSecretEnvVar = "REFRESH_TOKEN_SECRET"
	accessTokenExpiryEnvVar  = "ACCESS_TOKEN_EXPIRY"
	refreshTokenExpiryEnvVar = "REFRESH_TOKEN_EXPIRY"

	devAccessTokenSecret  = "dev-access-token-secret"
	devRefreshTokenSecret = "dev-refresh-token-secret"
)

type Tokens struct {
	source
}

var _ TokenConfig = Tokens{}

// GetAccessTokenSecret falls back to a development secret outside production.
func (t Tokens) GetAccessTokenSecret() string {
	return t.get(accessTokenSecretEnvVar, t.devDefault(devAccessTokenSecret))
}

func (t Tokens) GetRefreshTokenSecret() string {
	return t.get(refreshTokenSecretEnvVar, t.devDefault(devRefreshTokenSecret))
}

func (t Tokens) GetAccessTokenExpiry() time.Duration {
	return t.duration(accessTokenExpiryEnvVar, 1*time.Hour)
}

func (t Tokens) GetRefreshTokenExpiry() time.Duration {
	return t.duration(refreshTokenExpiryEnvVar, 7*24*time.Hour) // 7 days
}

func (t Tokens) devDefault(secret string) string {
	if (EnvVars{t.source}).IsProduction() {
		return ""
	}
	return secret
}
