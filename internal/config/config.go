package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
)

// Config holds runtime configuration shared by the server and the batch jobs.
type Config struct {
	// Server
	Port     int    `env:"PORT" envDefault:"5001" validate:"min=1,max=65535"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Embeddings
	EmbedderProvider     string `env:"EMBEDDER_PROVIDER" envDefault:"local" validate:"oneof=local openai"` // "local" (all-MiniLM-L6-v2 via hugot) or "openai"
	ModelDir             string `env:"MODEL_DIR" envDefault:"./models" validate:"required_if=EmbedderProvider local"`
	OpenAIKey            string `env:"OPENAI_API_KEY" validate:"required_if=EmbedderProvider openai"`
	OpenAIEmbeddingModel string `env:"OPENAI_EMBEDDING_MODEL" envDefault:"text-embedding-3-small"` // always asked for embeddings.Dimension values

	// Document store (batch store job only)
	StoreProvider      string `env:"STORE_PROVIDER" envDefault:"firestore" validate:"oneof=firestore postgres"`
	FirestoreProjectID string `env:"FIRESTORE_PROJECT_ID"`
	DBURL              string `env:"DB_URL"`

	// Cache (server only)
	CacheProvider string `env:"CACHE_PROVIDER" envDefault:"none" validate:"oneof=none redis"`
	RedisAddr     string `env:"REDIS_ADDR" validate:"required_if=CacheProvider redis"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	CacheTTL      int    `env:"CACHE_TTL" envDefault:"86400" validate:"min=0"` // seconds

	// Progress (batch jobs only)
	ProgressProvider string `env:"PROGRESS_PROVIDER" envDefault:"log" validate:"oneof=log nats"`
	NATSURL          string `env:"NATS_URL" validate:"required_if=ProgressProvider nats"`
	ProgressSubject  string `env:"PROGRESS_SUBJECT" envDefault:"exercises.embed.progress"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}

// Validate checks provider switches and the settings each provider requires.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
