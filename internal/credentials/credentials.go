// Package credentials materialises Google service account credentials that
// arrive as an environment variable into the file Google client libraries expect.
package credentials

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

const (
	CredentialsFileEnvVar = "GOOGLE_APPLICATION_CREDENTIALS"
	CredentialsJSONEnvVar = "GOOGLE_APPLICATION_CREDENTIALS_JSON"
	keyFileName           = "gcp-key.json"
)

// Bootstrap writes GOOGLE_APPLICATION_CREDENTIALS_JSON to <dir>/gcp-key.json and
// points GOOGLE_APPLICATION_CREDENTIALS at it. It does nothing when the file
// variable is already set or no JSON is provided. The returned path is empty
// when nothing was written.
func Bootstrap(dir string) (string, error) {
	if os.Getenv(CredentialsFileEnvVar) != "" {
		return "", nil
	}
	jsonKey := os.Getenv(CredentialsJSONEnvVar)
	if jsonKey == "" {
		return "", nil
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("[credentials Bootstrap] mkdir: %w", err)
	}
	keyPath := filepath.Join(dir, keyFileName)
	if err := os.WriteFile(keyPath, []byte(jsonKey), 0o600); err != nil {
		return "", fmt.Errorf("[credentials Bootstrap] write key: %w", err)
	}
	if err := os.Setenv(CredentialsFileEnvVar, keyPath); err != nil {
		return "", fmt.Errorf("[credentials Bootstrap] setenv: %w", err)
	}

	log.Info().Str("path", keyPath).Msg("Google credentials written")
	return keyPath, nil
}
