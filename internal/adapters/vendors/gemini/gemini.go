// Package gemini generates chat replies with Google's Gemini models.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/okian/lumen/pkg/logger"
	"github.com/okian/lumen/pkg/metrics"
	"google.golang.org/genai"
)

const (
	defaultModel = "gemini-1.5-flash"
	vendorName   = "gemini"
)

// Sentinel kinds for Gemini errors.
var (
	ErrMissingAPIKey = errors.New("gemini api key is missing")
	ErrRateLimited   = errors.New("gemini rate limited")
	ErrUnavailable   = errors.New("gemini unavailable")
	ErrEmptyResponse = errors.New("gemini returned no text")
)

// Option applies a configuration option to the Generator.
type Option func(*config)

type config struct {
	model   string
	baseURL string
	logger  logger.Logger
}

// WithModel sets the model id.
func WithModel(model string) Option {
	return func(c *config) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(u string) Option {
	return func(c *config) { c.baseURL = u }
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Generator produces text from a single prompt.
type Generator struct {
	client *genai.Client
	model  string
	logger logger.Logger
}

// New creates a Gemini generator for apiKey.
func New(ctx context.Context, apiKey string, opts ...Option) (*Generator, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	cfg := config{model: defaultModel, logger: logger.Get().Named("gemini")}
	for _, opt := range opts {
		opt(&cfg)
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Generator{client: client, model: cfg.model, logger: cfg.logger}, nil
}

// Model returns the configured model id.
func (g *Generator) Model() string { return g.model }

// Generate sends prompt and returns the reply text.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	latency := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordVendorCall(vendorName, "generate", latency, true)
		return "", mapError(err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		metrics.RecordVendorCall(vendorName, "generate", latency, true)
		return "", ErrEmptyResponse
	}

	metrics.RecordVendorCall(vendorName, "generate", latency, false)
	g.logger.Debug(ctx, "generated reply",
		logger.String("model", g.model),
		logger.Int("chars", len(text)),
		logger.Float64("latency_ms", latency),
	)
	return text, nil
}

func mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// Disabled is a generator that always fails with ErrMissingAPIKey. It keeps
// the chat endpoint answering with its fallback text when no key is set.
func Disabled() DisabledGenerator { return DisabledGenerator{} }

// DisabledGenerator is returned by Disabled.
type DisabledGenerator struct{}

// Generate implements the chat generator contract.
func (DisabledGenerator) Generate(context.Context, string) (string, error) {
	return "", ErrMissingAPIKey
}
