package anthropic

import (
	"context"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/quiz"
)

const (
	DefaultModel     = "claude-3-haiku-20240307"
	DefaultMaxTokens = 1024
)

// Generator implements ports.FeedbackGenerator with the Anthropic Messages API.
//
// It never fails: a missing key, an API error or an empty reply all produce
// the static thank-you text with Feedback.Fallback set.
type Generator struct {
	client    *anthropic.Client
	model     string
	maxTokens int
	logger    *slog.Logger
}

type Option func(*config)

type config struct {
	model     string
	maxTokens int
	logger    *slog.Logger
	requests  []option.RequestOption
}

// WithModel overrides DefaultModel.
func WithModel(model string) Option {
	return func(c *config) {
		if model != "" {
			c.model = model
		}
	}
}

// WithMaxTokens overrides DefaultMaxTokens.
func WithMaxTokens(n int) Option {
	return func(c *config) {
		c.maxTokens = n
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithRequestOptions passes options through to the SDK client (base URL, retries).
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(c *config) {
		c.requests = append(c.requests, opts...)
	}
}

// New creates a Generator. An empty apiKey yields a generator that always falls back.
func New(apiKey string, opts ...Option) *Generator {
	cfg := config{
		model:     DefaultModel,
		maxTokens: DefaultMaxTokens,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	g := &Generator{
		model:     cfg.model,
		maxTokens: cfg.maxTokens,
		logger:    cfg.logger,
	}
	if apiKey != "" {
		requests := append([]option.RequestOption{option.WithAPIKey(apiKey)}, cfg.requests...)
		client := anthropic.NewClient(requests...)
		g.client = &client
	}
	return g
}

// Available reports whether an API key was configured.
func (g *Generator) Available() bool {
	return g.client != nil
}

func (g *Generator) Generate(ctx context.Context, profile domain.Profile) (domain.Feedback, error) {
	if g.client == nil {
		return quiz.Fallback(quiz.FallbackUnavailable, profile), nil
	}

	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: int64(g.maxTokens),
		Messages: []anthropic.MessageParam{{
			Role: anthropic.MessageParamRoleUser,
			Content: []anthropic.ContentBlockParamUnion{
				anthropic.NewTextBlock(quiz.Prompt(profile)),
			},
		}},
	})
	if err != nil {
		g.logger.Warn("feedback generation failed", "model", g.model, "err", err)
		return quiz.Fallback(quiz.FallbackFailure, profile), nil
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		g.logger.Warn("feedback generation returned no text", "model", g.model)
		return quiz.Fallback(quiz.FallbackFailure, profile), nil
	}

	return domain.Feedback{
		Text:          text.String(),
		CoursePrompts: quiz.CoursePrompts(profile.Gaps),
	}, nil
}
