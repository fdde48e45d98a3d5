package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/JoePa99/segmentclaude/internal/llm"
	"github.com/JoePa99/segmentclaude/internal/model"
	"github.com/JoePa99/segmentclaude/internal/parse"
	"github.com/JoePa99/segmentclaude/internal/prompt"
)

// GenerateSegmentation builds the corpus, completes the segmentation
// prompt through the gateway, parses the response, and persists the
// result. The project moves draft/completed -> processing -> completed,
// or to error with the failure message recorded.
func (g *Generator) GenerateSegmentation(ctx context.Context, projectID string, opts Options) (*model.SegmentationResult, error) {
	log := zap.L().With(zap.String("project_id", projectID))

	project, err := g.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	provider, err := g.resolveProvider(opts, project)
	if err != nil {
		return nil, err
	}

	if err := g.store.UpdateProjectStatus(ctx, projectID, model.ProjectStatusProcessing, ""); err != nil {
		log.Warn("pipeline: failed to mark project processing", zap.Error(err))
	}

	result, err := g.generateSegmentation(ctx, project, provider, opts.Model)
	if err != nil {
		if serr := g.store.UpdateProjectStatus(ctx, projectID, model.ProjectStatusError, err.Error()); serr != nil {
			log.Warn("pipeline: failed to record project error", zap.Error(serr))
		}
		return nil, err
	}

	if err := g.store.UpdateProjectStatus(ctx, projectID, model.ProjectStatusCompleted, ""); err != nil {
		log.Warn("pipeline: failed to mark project completed", zap.Error(err))
	}
	return result, nil
}

func (g *Generator) generateSegmentation(ctx context.Context, project *model.Project, provider llm.Provider, modelName string) (*model.SegmentationResult, error) {
	log := zap.L().With(zap.String("project_id", project.ID), zap.String("provider", string(provider)))

	corpus, err := g.BuildCorpus(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	p := prompt.Segmentation(project.Context, corpus)

	start := time.Now()
	res, err := g.gateway.Complete(ctx, llm.Request{
		System:   p.System,
		User:     p.User,
		Provider: provider,
		Model:    modelName,
	})
	if err != nil {
		return nil, err
	}

	result := parse.Segmentation(res.Text)
	if err := checkSegments(result); err != nil {
		return nil, err
	}
	result.ProjectID = project.ID
	result.Model = model.ModelInfo{Provider: string(res.Provider), Name: res.Model}

	if err := g.store.SaveSegmentation(ctx, result); err != nil {
		return nil, err
	}

	log.Info("pipeline: segmentation generated",
		zap.String("segmentation_id", result.ID),
		zap.Int("segments", len(result.Segments)),
		zap.String("model", res.Model),
		zap.Int64("input_tokens", res.InputTokens),
		zap.Int64("output_tokens", res.OutputTokens),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return result, nil
}

// checkSegments refuses to persist a segmentation with no segments.
// The parser's fallback tiers make this unreachable in practice; the
// guard keeps an empty result from ever being saved if that changes.
func checkSegments(result *model.SegmentationResult) error {
	if len(result.Segments) == 0 {
		return &parse.EmptyResultError{Kind: "segmentation"}
	}
	return nil
}
