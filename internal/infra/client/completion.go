package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/kvothesson/chat-saas-gateway/internal/domain"
	"github.com/kvothesson/chat-saas-gateway/internal/fallback"
	"github.com/kvothesson/chat-saas-gateway/internal/infra/resilience"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

// Sampling policy for every chat completion. Not configurable per request.
const (
	Temperature = 0.6
	MaxTokens   = 700
)

// CompletionClient calls an OpenAI-compatible chat completion API (Groq by default).
// Each Complete performs exactly one upstream call.
type CompletionClient struct {
	api      *openai.Client
	model    string
	cb       *gobreaker.CircuitBreaker
	limiter  *rate.Limiter
	bulkhead *resilience.Bulkhead
}

// CompletionOptions configures a CompletionClient.
type CompletionOptions struct {
	APIKey       string
	BaseURL      string
	Model        string
	DefaultModel string
}

// NewCompletionClient creates a new CompletionClient. The configured model
// wins over the default one.
func NewCompletionClient(httpClient *http.Client, opts CompletionOptions, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *CompletionClient {
	oc := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		oc.BaseURL = opts.BaseURL
	}
	oc.HTTPClient = httpClient

	model, _, err := fallback.First(
		fallback.Value("configured", opts.Model),
		fallback.Value("default", opts.DefaultModel),
	)
	if err != nil {
		model = opts.DefaultModel
	}

	return &CompletionClient{
		api:      openai.NewClientWithConfig(oc),
		model:    model,
		cb:       cb,
		limiter:  resilience.NewLimiter(cfg.RPS, cfg.Burst),
		bulkhead: resilience.NewBulkhead(cfg.MaxConcurrency),
	}
}

// Model returns the model identifier sent with every request.
func (c *CompletionClient) Model() string {
	return c.model
}

// Complete sends the grounding instruction as the system message and the
// customer message as the user message. A response without choices yields
// an empty reply rather than an error.
func (c *CompletionClient) Complete(ctx context.Context, instruction, userMessage string) (*domain.Completion, error) {
	ctx, span := tracer.Start(ctx, "CompletionClient.Complete")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", c.model))

	if err := c.bulkhead.Acquire(ctx); err != nil {
		return nil, &domain.ErrExternalService{Service: "completion", Err: err}
	}
	defer c.bulkhead.Release()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &domain.ErrExternalService{Service: "completion", Err: err}
	}

	resp, err := resilience.Execute(ctx, c.cb, func() (openai.ChatCompletionResponse, error) {
		return c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: instruction},
				{Role: openai.ChatMessageRoleUser, Content: userMessage},
			},
			Temperature: Temperature,
			MaxTokens:   MaxTokens,
		})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		return nil, translateError(err)
	}

	out := &domain.Completion{
		Model: c.model,
		Usage: domain.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	if resp.Model != "" {
		out.Model = resp.Model
	}
	if len(resp.Choices) > 0 {
		out.Reply = resp.Choices[0].Message.Content
	}

	span.SetAttributes(
		attribute.Int("llm.tokens.prompt", out.Usage.PromptTokens),
		attribute.Int("llm.tokens.completion", out.Usage.CompletionTokens),
	)
	return out, nil
}

// IsClientFault reports provider 4xx answers other than 429. They reflect
// the request, not the provider's health, and are ignored by the breaker.
func IsClientFault(err error) bool {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}
	return status >= 400 && status < 500 && status != http.StatusTooManyRequests
}

// translateError embeds the provider's HTTP status when there is one.
func translateError(err error) error {
	var open *domain.ErrCircuitOpen
	if errors.As(err, &open) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &domain.ErrUpstreamCompletion{StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &domain.ErrUpstreamCompletion{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	var netErr *url.Error
	if errors.As(err, &netErr) {
		return &domain.ErrExternalService{Service: "completion", Err: err}
	}
	// Undecodable success payloads.
	return &domain.ErrUpstreamCompletion{Err: err}
}
