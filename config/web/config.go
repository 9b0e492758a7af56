package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	asr "github.com/xilidan/voicestock/config/asr"
	sso "github.com/xilidan/voicestock/config/sso"
)

type Config struct {
	Port           int    `env:"PORT" env-default:"5001"`
	HealthGRPCPort int    `env:"HEALTH_GRPC_PORT" env-default:"0"`
	LogLevel       string `env:"LOG_LEVEL" env-default:"info"`
	LogJSON        bool   `env:"LOG_JSON" env-default:"false"`

	ASR      asr.Config
	SSO      sso.Config
	Database DatabaseConfig
}

// DatabaseConfig is shared by the postgres record store and the postgres
// user directory.
type DatabaseConfig struct {
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Host     string `env:"DB_HOST" env-default:"localhost"`
	Name     string `env:"DB_NAME"`
	Port     int    `env:"DB_PORT" env-default:"5432"`
	SSLMode  string `env:"DB_SSLMODE" env-default:"disable"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s dbname=%s password=%s sslmode=%s",
		c.Host,
		c.Port,
		c.User,
		c.Name,
		c.Password,
		c.SSLMode,
	)
}

func MustLoad() *Config {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("failed to read environment variables: " + err.Error())
	}
	return &cfg
}
