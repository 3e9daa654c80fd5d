package config

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/BloggingApp/post-insights/internal/sentiment"
	"github.com/BloggingApp/post-insights/pkg/llm"
	"github.com/spf13/viper"
)

type DBConfig struct {
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
}

func (c DBConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

// MigrateURL is URL with the scheme golang-migrate's pgx/v5 driver expects.
func (c DBConfig) MigrateURL() string {
	u, _ := url.Parse(c.URL())
	u.Scheme = "pgx5"
	return u.String()
}

type ServerConfig struct {
	Port           string
	Handler        http.Handler
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type LLMConfig struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Params   llm.Params
	// Timeout bounds a single improvements request.
	Timeout time.Duration
}

type CacheConfig struct {
	PostTTL         time.Duration
	ImprovementsTTL time.Duration
}

func LoadSentiment() (sentiment.Thresholds, error) {
	thresholds := sentiment.DefaultThresholds
	if viper.IsSet("sentiment.positive_threshold") {
		thresholds.Positive = viper.GetFloat64("sentiment.positive_threshold")
	}
	if viper.IsSet("sentiment.negative_threshold") {
		thresholds.Negative = viper.GetFloat64("sentiment.negative_threshold")
	}

	if err := thresholds.Validate(); err != nil {
		return sentiment.Thresholds{}, fmt.Errorf("invalid sentiment config: %w", err)
	}

	return thresholds, nil
}

func LoadLLM(apiKey func(provider string) string) LLMConfig {
	viper.SetDefault("llm.provider", llm.ProviderOpenAI)
	viper.SetDefault("llm.max_tokens", 5000)
	viper.SetDefault("llm.temperature", 0.5)
	viper.SetDefault("llm.timeout", 30*time.Second)

	provider := viper.GetString("llm.provider")
	return LLMConfig{
		Provider: provider,
		APIKey:   apiKey(provider),
		Model:    viper.GetString("llm.model"),
		BaseURL:  viper.GetString("llm.base_url"),
		Params: llm.Params{
			MaxTokens:   viper.GetInt64("llm.max_tokens"),
			Temperature: viper.GetFloat64("llm.temperature"),
			N:           1,
		},
		Timeout: viper.GetDuration("llm.timeout"),
	}
}

func LoadCache() CacheConfig {
	viper.SetDefault("cache.post_ttl", time.Hour)
	viper.SetDefault("cache.improvements_ttl", 24*time.Hour)

	return CacheConfig{
		PostTTL:         viper.GetDuration("cache.post_ttl"),
		ImprovementsTTL: viper.GetDuration("cache.improvements_ttl"),
	}
}
