// Package pipeline orchestrates the generation flow: uploaded documents
// are extracted into a corpus, the corpus and business context become a
// prompt, the LLM gateway completes it, and the parsed result is
// persisted against the project.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JoePa99/segmentclaude/internal/config"
	"github.com/JoePa99/segmentclaude/internal/extract"
	"github.com/JoePa99/segmentclaude/internal/llm"
	"github.com/JoePa99/segmentclaude/internal/model"
	"github.com/JoePa99/segmentclaude/internal/prompt"
	"github.com/JoePa99/segmentclaude/internal/store"
)

// uploadConcurrency bounds parallel text extraction during batch upload.
const uploadConcurrency = 4

// emptyCorpus is fed to the prompt when a project has no usable
// document text.
const emptyCorpus = "No text provided for analysis."

// Completer is the gateway surface the generator needs. Satisfied by
// *llm.Gateway.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Result, error)
}

// Generator runs document processing and LLM generation for projects.
type Generator struct {
	cfg       *config.Config
	store     store.Store
	gateway   Completer
	extractor extract.Extractor
}

// New creates a Generator with all dependencies.
func New(cfg *config.Config, st store.Store, gw Completer, ex extract.Extractor) *Generator {
	return &Generator{
		cfg:       cfg,
		store:     st,
		gateway:   gw,
		extractor: ex,
	}
}

// Options override the project-level provider and model for one
// generation call. Zero values defer to the project, then config.
type Options struct {
	Provider string
	Model    string
}

// FileUpload is one file handed to UploadAll.
type FileUpload struct {
	FileName string
	MimeType string
	Data     []byte
}

// UploadDocument records a document against the project and extracts
// its text. An extraction failure is recorded on the document and does
// not fail the upload; the document simply contributes nothing to the
// corpus.
func (g *Generator) UploadDocument(ctx context.Context, projectID string, file FileUpload) (*model.Document, error) {
	if _, err := g.store.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	doc := &model.Document{
		ProjectID: projectID,
		FileName:  file.FileName,
		MimeType:  file.MimeType,
		SizeBytes: int64(len(file.Data)),
		Status:    model.DocumentStatusUploaded,
	}
	if err := g.store.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}

	g.ProcessDocument(ctx, doc, file.Data)
	return doc, nil
}

// UploadAll uploads files concurrently. It returns the documents in
// input order; per-file extraction failures are recorded on each
// document rather than returned.
func (g *Generator) UploadAll(ctx context.Context, projectID string, files []FileUpload) ([]model.Document, error) {
	if _, err := g.store.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	docs := make([]model.Document, len(files))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(uploadConcurrency)
	for i, file := range files {
		eg.Go(func() error {
			doc, err := g.UploadDocument(ctx, projectID, file)
			if err != nil {
				return err
			}
			docs[i] = *doc
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// ProcessDocument extracts text for a stored document and records the
// outcome. It never returns an error; failures land on the document's
// status so generation can proceed with whatever text is available.
func (g *Generator) ProcessDocument(ctx context.Context, doc *model.Document, data []byte) {
	log := zap.L().With(zap.String("document_id", doc.ID), zap.String("file", doc.FileName))

	if err := g.store.UpdateDocumentStatus(ctx, doc.ID, model.DocumentStatusProcessing, ""); err != nil {
		log.Warn("pipeline: failed to mark document processing", zap.Error(err))
	}

	start := time.Now()
	text, err := g.extractor.Extract(ctx, data, doc.MimeType)
	if err != nil {
		log.Warn("pipeline: text extraction failed", zap.Error(err))
		doc.Status = model.DocumentStatusError
		doc.Error = err.Error()
		if serr := g.store.UpdateDocumentStatus(ctx, doc.ID, model.DocumentStatusError, err.Error()); serr != nil {
			log.Warn("pipeline: failed to record extraction error", zap.Error(serr))
		}
		return
	}

	doc.Status = model.DocumentStatusProcessed
	doc.ExtractedText = text
	if serr := g.store.UpdateDocumentText(ctx, doc.ID, text); serr != nil {
		log.Warn("pipeline: failed to store extracted text", zap.Error(serr))
		return
	}
	log.Info("pipeline: document processed",
		zap.Int("chars", len(text)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
}

// BuildCorpus concatenates the extracted text of a project's processed
// documents, one header block per document, bounded by the configured
// character budget.
func (g *Generator) BuildCorpus(ctx context.Context, projectID string) (string, error) {
	docs, err := g.store.ListDocuments(ctx, projectID)
	if err != nil {
		return "", eris.Wrap(err, "pipeline: list documents")
	}

	var blocks []string
	for _, doc := range docs {
		if doc.Status != model.DocumentStatusProcessed || strings.TrimSpace(doc.ExtractedText) == "" {
			continue
		}
		blocks = append(blocks, documentBlock(doc))
	}
	if len(blocks) == 0 {
		return emptyCorpus, nil
	}

	corpus := strings.Join(blocks, "\n\n")
	maxChars := g.cfg.Generation.CorpusMaxChars
	if maxChars > 0 && len(corpus) > maxChars {
		zap.L().Debug("pipeline: truncating corpus",
			zap.Int("chars", len(corpus)),
			zap.Int("max_chars", maxChars),
		)
	}
	return prompt.TruncateCorpus(corpus, maxChars), nil
}

func documentBlock(doc model.Document) string {
	return fmt.Sprintf("Document: %s\nType: %s\nSize: %d KB\nContent: %s",
		doc.FileName, doc.MimeType, (doc.SizeBytes+512)/1024, doc.ExtractedText)
}

// resolveProvider picks the provider for a generation call: explicit
// option, then the project's stored preference, then config default.
func (g *Generator) resolveProvider(opts Options, project *model.Project) (llm.Provider, error) {
	name := opts.Provider
	if name == "" {
		name = project.Provider
	}
	if name == "" {
		name = g.cfg.Generation.Provider
	}
	return llm.ParseProvider(name)
}
