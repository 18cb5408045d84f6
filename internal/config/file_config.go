package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML layout accepted by Load. Every field maps onto the
// environment variable of the same setting, and the environment always wins.
type fileConfig struct {
	Server struct {
		Port           string   `yaml:"port"`
		AppName        string   `yaml:"app_name"`
		Env            string   `yaml:"env"`
		LogLevel       string   `yaml:"log_level"`
		LogFolder      string   `yaml:"log_folder"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Tokens struct {
		AccessSecret  string `yaml:"access_secret"`
		RefreshSecret string `yaml:"refresh_secret"`
		AccessExpiry  string `yaml:"access_expiry"`
		RefreshExpiry string `yaml:"refresh_expiry"`
	} `yaml:"tokens"`

	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`

	Redis struct {
		URL string `yaml:"url"`
	} `yaml:"redis"`

	RateLimit struct {
		Requests *int   `yaml:"requests"`
		Window   string `yaml:"window"`
	} `yaml:"rate_limit"`

	Codename struct {
		ProjectID         string `yaml:"project_id"`
		Location          string `yaml:"location"`
		Model             string `yaml:"model"`
		CredentialsFolder string `yaml:"credentials_folder"`
	} `yaml:"codename"`
}

func (f fileConfig) values() map[string]string {
	v := map[string]string{
		portEnvVar:               f.Server.Port,
		appNameVar:               f.Server.AppName,
		envVar:                   f.Server.Env,
		logLevelEnvVar:           f.Server.LogLevel,
		logFolderEnvVar:          f.Server.LogFolder,
		allowedOriginsEnvVar:     strings.Join(f.Server.AllowedOrigins, ","),
		accessTokenSecretEnvVar:  f.Tokens.AccessSecret,
		refreshTokenSecretEnvVar: f.Tokens.RefreshSecret,
		accessTokenExpiryEnvVar:  f.Tokens.AccessExpiry,
		refreshTokenExpiryEnvVar: f.Tokens.RefreshExpiry,
		databaseURLEnvVar:        f.Database.URL,
		redisURLEnvVar:           f.Redis.URL,
		rateLimitWindowEnvVar:    f.RateLimit.Window,
		googleProjectEnvVar:      f.Codename.ProjectID,
		googleLocationEnvVar:     f.Codename.Location,
		codenameModelEnvVar:      f.Codename.Model,
		credentialsFolderEnvVar:  f.Codename.CredentialsFolder,
	}
	if f.RateLimit.Requests != nil {
		v[rateLimitRequestsEnvVar] = strconv.Itoa(*f.RateLimit.Requests)
	}
	return v
}

// Load reads a YAML config file and layers it between the environment and the
// defaults. An empty path behaves like New.
func Load(path string) (Config, error) {
	if path == "" {
		return New(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("[config Load] reading %s: %w", path, err)
	}

	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("[config Load] parsing %s: %w", path, err)
	}

	return newMainConfig(source{file: f.values()}), nil
}
