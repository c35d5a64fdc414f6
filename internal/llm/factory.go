package llm

import (
	"context"
	"fmt"
	"strings"

	"relaychat/backend/internal/config"
	app_errors "relaychat/backend/internal/errors"
)

// NewProvider builds the single provider the relay is bound to. The choice is
// made once at startup from configuration.
func NewProvider(ctx context.Context, cfg *config.Config) (LLMProvider, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("%w: LLM_MODEL must be set", app_errors.ErrConfig)
	}

	switch strings.ToLower(cfg.Provider) {
	case "openrouter":
		if cfg.OpenRouterAPIKey == "" {
			return nil, fmt.Errorf("%w: OPENROUTER_API_KEY is required for the openrouter provider", app_errors.ErrConfig)
		}
		return NewOpenRouterProvider(cfg.OpenRouterAPIKey, cfg.OpenRouterBaseURL, cfg.Model, cfg.AppURL, cfg.AppTitle), nil
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY is required for the anthropic provider", app_errors.ErrConfig)
		}
		return NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.Model, cfg.AnthropicMaxTokens), nil
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("%w: GEMINI_API_KEY is required for the gemini provider", app_errors.ErrConfig)
		}
		return NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.Model)
	case "ollama":
		return NewOllamaProvider(cfg.OllamaURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("%w: unknown LLM_PROVIDER %q", app_errors.ErrConfig, cfg.Provider)
	}
}
