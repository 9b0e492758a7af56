package config

import "time"

type Config struct {
	JWTSecret string        `env:"JWT_SECRET" env-required:"true"`
	JWTTTL    time.Duration `env:"JWT_TTL" env-default:"168h"`
	Directory DirectoryConfig
}

type DirectoryConfig struct {
	// Backend is "sheets" (live Google spreadsheet), "sheet" (exported
	// CSV, for offline use) or "postgres".
	Backend   string `env:"USER_DIRECTORY" env-default:"sheet"`
	SheetPath string `env:"USER_SHEET_PATH" env-default:"users.csv"`
	SheetID   string `env:"USER_SHEET_ID"`
	// Service account key; empty falls back to application default credentials.
	CredentialsFile string `env:"GOOGLE_CREDENTIALS_FILE"`
}
