package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort      int    `mapstructure:"APP_PORT"`
	DatabasePath string `mapstructure:"DATABASE_PATH"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`
	FrontendDir  string `mapstructure:"FRONTEND_DIR"`

	Provider     string `mapstructure:"LLM_PROVIDER"`
	Model        string `mapstructure:"LLM_MODEL"`
	SystemPrompt string `mapstructure:"SYSTEM_PROMPT"`

	OpenRouterAPIKey  string `mapstructure:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL string `mapstructure:"OPENROUTER_BASE_URL"`
	AppURL            string `mapstructure:"APP_URL"`
	AppTitle          string `mapstructure:"APP_TITLE"`

	AnthropicAPIKey    string `mapstructure:"ANTHROPIC_API_KEY"`
	AnthropicMaxTokens int    `mapstructure:"ANTHROPIC_MAX_TOKENS"`

	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`

	OllamaURL         string        `mapstructure:"OLLAMA_URL"`
	OllamaWaitTimeout time.Duration `mapstructure:"OLLAMA_WAIT_TIMEOUT"`

	StreamBufferSize   int    `mapstructure:"STREAM_BUFFER_SIZE"`
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("DATABASE_PATH", "./data/relaychat.db")
	viper.SetDefault("LOG_LEVEL", "INFO")
	viper.SetDefault("FRONTEND_DIR", "./frontend/dist")

	viper.SetDefault("LLM_PROVIDER", "openrouter")
	viper.SetDefault("LLM_MODEL", "google/gemini-2.0-flash-001")
	viper.SetDefault("SYSTEM_PROMPT", "")

	viper.SetDefault("OPENROUTER_API_KEY", "")
	viper.SetDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1")
	viper.SetDefault("APP_URL", "")
	viper.SetDefault("APP_TITLE", "relaychat")

	viper.SetDefault("ANTHROPIC_API_KEY", "")
	viper.SetDefault("ANTHROPIC_MAX_TOKENS", 4096)

	viper.SetDefault("GEMINI_API_KEY", "")

	viper.SetDefault("OLLAMA_URL", "http://ollama:11434")
	viper.SetDefault("OLLAMA_WAIT_TIMEOUT", "30s")

	viper.SetDefault("STREAM_BUFFER_SIZE", 16)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./backend")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS into a list.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// ClientConfig configures the terminal chat client.
type ClientConfig struct {
	ServerURL      string `mapstructure:"CHAT_SERVER_URL"`
	ConversationID string `mapstructure:"CHAT_CONVERSATION_ID"`
	LogFile        string `mapstructure:"CHAT_LOG_FILE"`
}

// LoadClientConfig reads client settings from the given viper instance, which
// the CLI has already bound to its flags.
func LoadClientConfig(v *viper.Viper) (*ClientConfig, error) {
	v.SetDefault("CHAT_SERVER_URL", "http://localhost:8000")
	v.SetDefault("CHAT_CONVERSATION_ID", "")
	v.SetDefault("CHAT_LOG_FILE", "")
	v.AutomaticEnv()

	var cfg ClientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")
	return &cfg, nil
}
