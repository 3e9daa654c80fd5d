package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

var (
	ErrUnknownProvider = errors.New("unknown llm provider")
	ErrEmptyResponse   = errors.New("empty response from llm")
)

// Params are per call generation settings.
type Params struct {
	MaxTokens   int64
	Temperature float64
	// N is the number of completions to request. Providers that cannot return
	// more than one completion ignore it.
	N int64
}

type Client interface {
	Generate(ctx context.Context, prompt string, params Params) (string, error)
}

type Options struct {
	Provider string
	APIKey   string
	Model    string
	// BaseURL overrides the provider endpoint, mostly for proxies and tests.
	BaseURL string
}

func New(opts Options) (Client, error) {
	switch strings.ToLower(opts.Provider) {
	case ProviderOpenAI, "":
		return NewOpenAIClient(opts.APIKey, opts.Model, opts.BaseURL), nil
	case ProviderAnthropic:
		return NewAnthropicClient(opts.APIKey, opts.Model, opts.BaseURL), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, opts.Provider)
	}
}
