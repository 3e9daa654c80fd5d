// Package improvement turns a post's comments into a list of suggested
// improvements through an external text generator.
package improvement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BloggingApp/post-insights/pkg/llm"
	"go.uber.org/zap"
)

const (
	Instruction = "Analyze the following comments and provide a list of things that must be improved:"
	Fallback    = "Unable to generate improvements at this time."
)

var DefaultParams = llm.Params{
	MaxTokens:   5000,
	Temperature: 0.5,
	N:           1,
}

var errNoGenerator = errors.New("no text generator configured")

// Generator is the text generation capability used by the Summarizer.
type Generator interface {
	Generate(ctx context.Context, prompt string, params llm.Params) (string, error)
}

type Summarizer struct {
	logger    *zap.Logger
	generator Generator
	params    llm.Params
}

func NewSummarizer(logger *zap.Logger, generator Generator, params llm.Params) *Summarizer {
	return &Summarizer{
		logger:    logger,
		generator: generator,
		params:    params,
	}
}

// JoinComments joins comment contents with newlines, keeping their order.
func JoinComments(contents []string) string {
	return strings.Join(contents, "\n")
}

func BuildPrompt(commentsText string) string {
	return Instruction + "\n\n" + commentsText
}

// Summarize always returns a string. Any generator failure, including a
// panic, is logged and replaced by Fallback. A single attempt is made.
func (s *Summarizer) Summarize(ctx context.Context, commentsText string) string {
	improvements, err := s.generate(ctx, commentsText)
	if err != nil {
		s.logger.Sugar().Errorf("failed to generate improvements: %s", err.Error())
		return Fallback
	}

	return improvements
}

func (s *Summarizer) generate(ctx context.Context, commentsText string) (text string, err error) {
	if s.generator == nil {
		return "", errNoGenerator
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("text generator panicked: %v", r)
		}
	}()

	text, err = s.generator.Generate(ctx, BuildPrompt(commentsText), s.params)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}
