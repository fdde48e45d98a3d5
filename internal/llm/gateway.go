// Package llm delivers prompts to one of two interchangeable
// text-completion vendors and returns the raw completion text, masking
// vendor-specific request and response shapes behind one interface.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/JoePa99/segmentclaude/pkg/anthropic"
	"github.com/JoePa99/segmentclaude/pkg/openai"
)

// Provider identifies one of the two completion vendors.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Other returns the alternate provider, used for the single-hop fallback.
func (p Provider) Other() Provider {
	if p == ProviderOpenAI {
		return ProviderAnthropic
	}
	return ProviderOpenAI
}

// ParseProvider validates a provider name from config or user input.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderOpenAI, ProviderAnthropic:
		return Provider(s), nil
	}
	return "", eris.Errorf("llm: unknown provider %q", s)
}

// Request is a uniform completion request.
type Request struct {
	System string
	User   string

	// Provider selects the primary vendor.
	Provider Provider

	// Model is optional; it is normalized before sending, and the
	// provider default is used when empty.
	Model string
}

// Result is the raw completion plus provenance.
type Result struct {
	Text         string
	Provider     Provider
	Model        string
	InputTokens  int64
	OutputTokens int64
}

// GenerationUnavailableError reports that both vendors failed. The
// fallback error is the last underlying failure surfaced to callers.
type GenerationUnavailableError struct {
	Primary  error
	Fallback error
}

func (e *GenerationUnavailableError) Error() string {
	return fmt.Sprintf("generation unavailable: both providers failed: %v", e.Fallback)
}

func (e *GenerationUnavailableError) Unwrap() error {
	return e.Fallback
}

// Config holds gateway tunables.
type Config struct {
	AnthropicModel string
	OpenAIModel    string
	MaxTokens      int
	Temperature    float64
	Timeout        time.Duration
	RequestsPerMin int
}

// Gateway issues completion requests against the configured vendors.
// It holds no mutable request state; construct once with injected
// clients and share by reference.
type Gateway struct {
	openai    openai.Client
	anthropic anthropic.Client
	cfg       Config
	limiters  map[Provider]*rate.Limiter
}

// New creates a Gateway. Either client may be nil if the vendor is not
// configured; requests routed to a nil vendor fail immediately and
// fall back to the other.
func New(oc openai.Client, ac anthropic.Client, cfg Config) *Gateway {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	rpm := cfg.RequestsPerMin
	if rpm <= 0 {
		rpm = 30
	}
	limit := rate.Limit(float64(rpm) / 60.0)
	return &Gateway{
		openai:    oc,
		anthropic: ac,
		cfg:       cfg,
		limiters: map[Provider]*rate.Limiter{
			ProviderOpenAI:    rate.NewLimiter(limit, rpm),
			ProviderAnthropic: rate.NewLimiter(limit, rpm),
		},
	}
}

// Complete sends the prompt to the requested provider and returns the
// completion text. If the primary attempt fails it retries exactly once
// against the other provider with that provider's default model, then
// surfaces GenerationUnavailableError. Context cancellation aborts
// without a fallback attempt.
func (g *Gateway) Complete(ctx context.Context, req Request) (*Result, error) {
	provider := req.Provider
	if provider == "" {
		provider = ProviderAnthropic
	}

	model := NormalizeModel(req.Model)
	if model == "" {
		model = g.defaultModel(provider)
	}

	res, primaryErr := g.attempt(ctx, provider, model, req)
	if primaryErr == nil {
		return res, nil
	}

	if ctx.Err() != nil {
		return nil, primaryErr
	}

	alt := provider.Other()
	zap.L().Warn("llm: primary provider failed, trying fallback",
		zap.String("primary", string(provider)),
		zap.String("fallback", string(alt)),
		zap.Error(primaryErr),
	)

	res, fallbackErr := g.attempt(ctx, alt, g.defaultModel(alt), req)
	if fallbackErr == nil {
		return res, nil
	}

	return nil, &GenerationUnavailableError{Primary: primaryErr, Fallback: fallbackErr}
}

func (g *Gateway) defaultModel(p Provider) string {
	switch p {
	case ProviderOpenAI:
		if g.cfg.OpenAIModel != "" {
			return g.cfg.OpenAIModel
		}
		return "gpt-4"
	default:
		if g.cfg.AnthropicModel != "" {
			return g.cfg.AnthropicModel
		}
		return "claude-3-5-sonnet"
	}
}

func (g *Gateway) attempt(ctx context.Context, provider Provider, model string, req Request) (*Result, error) {
	if err := g.limiters[provider].Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "llm: rate limit wait")
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	start := time.Now()
	var text string
	var in, out int64
	var err error

	switch provider {
	case ProviderAnthropic:
		text, in, out, err = g.completeAnthropic(ctx, model, req)
	case ProviderOpenAI:
		text, in, out, err = g.completeOpenAI(ctx, model, req)
	default:
		err = eris.Errorf("llm: unknown provider %q", provider)
	}
	if err != nil {
		return nil, err
	}

	if text == "" {
		return nil, eris.Errorf("llm: %s returned an empty completion", provider)
	}

	zap.L().Debug("llm: completion received",
		zap.String("provider", string(provider)),
		zap.String("model", model),
		zap.Int("chars", len(text)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Result{
		Text:         text,
		Provider:     provider,
		Model:        model,
		InputTokens:  in,
		OutputTokens: out,
	}, nil
}

func (g *Gateway) completeAnthropic(ctx context.Context, model string, req Request) (string, int64, int64, error) {
	if g.anthropic == nil {
		return "", 0, 0, eris.New("llm: anthropic not configured")
	}

	temp := g.cfg.Temperature
	resp, err := g.anthropic.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       model,
		MaxTokens:   int64(g.cfg.MaxTokens),
		System:      req.System,
		Messages:    []anthropic.Message{{Role: "user", Content: req.User}},
		Temperature: &temp,
	})
	if err != nil {
		return "", 0, 0, err
	}
	resp.Usage.LogCost(model, "generation")
	return resp.Text(), resp.Usage.InputTokens, resp.Usage.OutputTokens, nil
}

func (g *Gateway) completeOpenAI(ctx context.Context, model string, req Request) (string, int64, int64, error) {
	if g.openai == nil {
		return "", 0, 0, eris.New("llm: openai not configured")
	}

	temp := g.cfg.Temperature
	maxTokens := g.cfg.MaxTokens
	messages := make([]openai.Message, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.Message{Role: "system", Content: req.System})
	}
	messages = append(messages, openai.Message{Role: "user", Content: req.User})

	resp, err := g.openai.ChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return "", 0, 0, err
	}
	return resp.Text(), int64(resp.Usage.PromptTokens), int64(resp.Usage.CompletionTokens), nil
}
