package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

type BackendKind string

const (
	BackendHTTP   BackendKind = "http"
	BackendOpenAI BackendKind = "openai"
	BackendYandex BackendKind = "yandex"
)

type Config struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	LogFilePath string `env:"LOG_FILE_PATH" envDefault:"logs/paige.log"`

	// Storage
	StorageDriver  string `env:"STORAGE_DRIVER" envDefault:"file"`
	StorageDir     string `env:"STORAGE_DIR" envDefault:"data"`
	SQLiteDSN      string `env:"SQLITE_DSN" envDefault:"data/paige.db"`
	RedisURL       string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"paige:"`

	// Backend
	BackendKind BackendKind `env:"BACKEND_KIND" envDefault:"http"`
	BackendURL  string      `env:"BACKEND_URL" envDefault:"http://localhost:5000/ask"`

	// LLM settings, used when BACKEND_KIND is openai or yandex
	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string `env:"OPENAI_BASE_URL"`
	OpenAIModel      string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken string `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Prompts
	SystemPromptPath string `env:"SYSTEM_PROMPT_PATH" envDefault:"prompts/system_prompt.txt"`
	QuickPromptsPath string `env:"QUICK_PROMPTS_PATH"`

	// Reader
	ViewportID   string `env:"VIEWPORT_ID" envDefault:"pdf-viewport"`
	DocumentPath string `env:"DOCUMENT_PATH"`

	ReportSchedule string `env:"REPORT_SCHEDULE" envDefault:"0 21 * * *"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	switch cfg.BackendKind {
	case BackendHTTP, BackendOpenAI, BackendYandex:
	default:
		return nil, fmt.Errorf("unknown BACKEND_KIND: %s", cfg.BackendKind)
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
