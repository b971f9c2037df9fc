/*
Package config loads the service configuration.

Sources, highest priority first:
 1. an explicit path (-config flag);
 2. CONFIG_PATH;
 3. ./local.yaml;
 4. environment variables only.

A .env file in the working directory is loaded into the environment before any
of the above is read.
*/
package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	_ "github.com/joho/godotenv/autoload"
)

// Storage and cache backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// AI providers for text generation.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	Env        string           `yaml:"env" env:"ENV" env-default:"local"`
	LogLevel   string           `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	HTTP       HTTPConfig       `yaml:"http"`
	AI         AIConfig         `yaml:"ai"`
	Storage    StorageConfig    `yaml:"storage"`
	ImageCache ImageCacheConfig `yaml:"image_cache"`
}

// HTTPConfig is the public REST listener.
type HTTPConfig struct {
	Host         string        `yaml:"host" env:"HOST" env-default:"0.0.0.0"`
	Port         string        `yaml:"port" env:"PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"120s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"1m"`
}

func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// AIConfig selects and parameterizes the generation backends.
// Images always go through the OpenAI-compatible endpoint.
type AIConfig struct {
	Provider       string        `yaml:"provider" env:"AI_PROVIDER" env-default:"openai"`
	OpenAIKey      string        `yaml:"openai_api_key" env:"OPENAI_API_KEY"`
	OpenAIBaseURL  string        `yaml:"openai_base_url" env:"OPENAI_BASE_URL" env-default:"https://api.openai.com/v1"`
	GeminiKey      string        `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	GeminiBaseURL  string        `yaml:"gemini_base_url" env:"GEMINI_BASE_URL" env-default:"https://generativelanguage.googleapis.com/v1beta"`
	TextModel      string        `yaml:"text_model" env:"AI_TEXT_MODEL" env-default:"gpt-5"`
	ImageModel     string        `yaml:"image_model" env:"AI_IMAGE_MODEL" env-default:"dall-e-3"`
	ImageSize      string        `yaml:"image_size" env:"AI_IMAGE_SIZE" env-default:"1024x1024"`
	ImageQuality   string        `yaml:"image_quality" env:"AI_IMAGE_QUALITY" env-default:"standard"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"AI_REQUEST_TIMEOUT" env-default:"90s"`
}

// StorageConfig selects the profile and plan store backend.
type StorageConfig struct {
	Backend     string `yaml:"backend" env:"STORAGE_BACKEND" env-default:"memory"`
	PostgresDSN string `yaml:"postgres_dsn" env:"DATABASE_URL"`
}

// ImageCacheConfig selects the image cache backend. An empty backend follows
// the storage backend.
type ImageCacheConfig struct {
	Backend   string `yaml:"backend" env:"IMAGE_CACHE_BACKEND"`
	RedisURL  string `yaml:"redis_url" env:"REDIS_URL" env-default:"redis://localhost:6379/0"`
	KeyPrefix string `yaml:"key_prefix" env:"IMAGE_CACHE_PREFIX" env-default:"fitcoach:image:"`
	LRUSize   int    `yaml:"lru_size" env:"IMAGE_CACHE_LRU_SIZE" env-default:"1024"`
}

// EffectiveBackend resolves an empty backend against the storage backend.
func (c ImageCacheConfig) EffectiveBackend(storage string) string {
	if c.Backend == "" {
		return storage
	}
	return c.Backend
}

// MustLoad panics if the configuration cannot be loaded.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	const op = "config/Load"

	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("%s: config file %q stat failed: %w", op, p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("%s: failed to read config: %w", op, err)
		}

		return &cfg, nil
	}

	var (
		out *Config
		err error
	)

	switch {
	case path != "":
		out, err = tryRead(path)
	case os.Getenv("CONFIG_PATH") != "":
		out, err = tryRead(os.Getenv("CONFIG_PATH"))
	default:
		if _, statErr := os.Stat("local.yaml"); statErr == nil {
			out, err = tryRead("local.yaml")
		} else {
			if err := cleanenv.ReadEnv(&cfg); err != nil {
				return nil, fmt.Errorf("%s: config not found: provide -config, CONFIG_PATH, local.yaml or env vars: %w", op, err)
			}
			out = &cfg
		}
	}
	if err != nil {
		return nil, err
	}

	if err := out.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	switch c.ImageCache.EffectiveBackend(c.Storage.Backend) {
	case BackendMemory, BackendRedis:
	case BackendPostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn is required for the postgres image cache")
		}
	default:
		return fmt.Errorf("unknown image cache backend %q", c.ImageCache.Backend)
	}

	switch c.AI.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown ai provider %q", c.AI.Provider)
	}

	if c.AI.RequestTimeout <= 0 {
		return fmt.Errorf("ai.request_timeout must be positive")
	}

	// A generation must fit inside the response write deadline.
	if c.HTTP.WriteTimeout > 0 && c.AI.RequestTimeout >= c.HTTP.WriteTimeout {
		return fmt.Errorf("ai.request_timeout (%s) must be below http.write_timeout (%s)",
			c.AI.RequestTimeout, c.HTTP.WriteTimeout)
	}

	return nil
}
