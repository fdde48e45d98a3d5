package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/JoePa99/segmentclaude/internal/extract"
	"github.com/JoePa99/segmentclaude/internal/llm"
	"github.com/JoePa99/segmentclaude/internal/pipeline"
	"github.com/JoePa99/segmentclaude/internal/store"
	anthropicpkg "github.com/JoePa99/segmentclaude/pkg/anthropic"
	"github.com/JoePa99/segmentclaude/pkg/openai"
)

// appEnv holds the initialized store, gateway, and generator shared by
// the CLI commands and the server.
type appEnv struct {
	Store     store.Store
	Generator *pipeline.Generator
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv validates config, opens and migrates the store, and wires the
// vendor clients into the generator. Callers should defer env.Close().
func initEnv(ctx context.Context) (*appEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	openaiClient := openai.NewClient(cfg.OpenAI.Key,
		openai.WithBaseURL(cfg.OpenAI.BaseURL),
		openai.WithModel(cfg.OpenAI.Model),
	)
	anthropicClient := anthropicpkg.NewClient(cfg.Anthropic.Key)

	gateway := llm.New(openaiClient, anthropicClient, llm.Config{
		AnthropicModel: cfg.Anthropic.Model,
		OpenAIModel:    cfg.OpenAI.Model,
		MaxTokens:      cfg.Generation.MaxTokens,
		Temperature:    cfg.Generation.Temperature,
		Timeout:        time.Duration(cfg.Generation.TimeoutSecs) * time.Second,
		RequestsPerMin: cfg.Generation.RequestsPerMin,
	})

	extractor, err := extract.New(cfg.Extract)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	return &appEnv{
		Store:     st,
		Generator: pipeline.New(cfg, st, gateway, extractor),
	}, nil
}
