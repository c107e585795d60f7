package llm

import (
	"errors"
	"fmt"
	"strings"

	"paige/internal/config"
)

const (
	ProviderOpenAI = "openai"
	ProviderYandex = "yandex"
)

// New builds the provider named by cfg.BackendKind. Credentials are checked
// here so a misconfigured provider fails at startup, not on the first question.
func New(cfg *config.Config) (Client, error) {
	switch strings.ToLower(string(cfg.BackendKind)) {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.New("openai provider requires OPENAI_API_KEY")
		}
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel,
			cfg.OpenRouterReferrer, cfg.OpenRouterTitle), nil
	case ProviderYandex:
		if cfg.YandexOAuthToken == "" || cfg.YandexFolderID == "" {
			return nil, errors.New("yandex provider requires YANDEX_OAUTH_TOKEN and YANDEX_FOLDER_ID")
		}
		return NewYandex(cfg.YandexOAuthToken, cfg.YandexFolderID)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.BackendKind)
	}
}
