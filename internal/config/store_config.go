package config

const (
	databaseURLEnvVar = "DATABASE_URL"
	redisURLEnvVar    = "REDIS_URL"

	googleProjectEnvVar     = "GOOGLE_CLOUD_PROJECT_ID"
	googleLocationEnvVar    = "GOOGLE_CLOUD_LOCATION"
	codenameModelEnvVar     = "CODENAME_MODEL"
	credentialsFolderEnvVar = "CREDENTIALS_FOLDER"
)

type Store struct {
	source
}

var _ StoreConfig = Store{}

// GetDatabaseURL is empty when the in-memory store should be used.
func (s Store) GetDatabaseURL() string {
	return s.get(databaseURLEnvVar, "")
}

func (s Store) GetRedisURL() string {
	return s.get(redisURLEnvVar, "")
}

type Codename struct {
	source
}

var _ CodenameConfig = Codename{}

// GetGoogleProjectID is empty when codenames come from the built-in word list.
func (c Codename) GetGoogleProjectID() string {
	return c.get(googleProjectEnvVar, "")
}

func (c Codename) GetGoogleLocation() string {
	return c.get(googleLocationEnvVar, "us-central1")
}

func (c Codename) GetCodenameModel() string {
	return c.get(codenameModelEnvVar, "gemini-2.0-flash")
}

func (c Codename) GetCredentialsFolder() string {
	return c.get(credentialsFolderEnvVar, "/tmp")
}
