package config

import "time"

type Config struct {
	Transcription TranscriptionConfig
	Storage       StorageConfig
}

type TranscriptionConfig struct {
	APIKey   string        `env:"OPENAI_API_KEY" env-required:"true"`
	BaseURL  string        `env:"OPENAI_BASE_URL" env-default:"https://api.openai.com/v1"`
	Model    string        `env:"TRANSCRIBE_MODEL" env-default:"whisper-1"`
	Language string        `env:"TRANSCRIBE_LANGUAGE"`
	Timeout  time.Duration `env:"TRANSCRIBE_TIMEOUT" env-default:"60s"`
}

type StorageConfig struct {
	UploadDir string `env:"UPLOAD_DIR" env-default:"uploads"`
	DataDir   string `env:"DATA_DIR" env-default:"data"`
	// Backend selects where saved records live: "fs" or "postgres".
	Backend string `env:"RECORD_STORE" env-default:"fs"`
}
