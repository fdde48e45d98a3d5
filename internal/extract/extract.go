// Package extract turns uploaded file bytes into plain text, given a
// declared MIME type. PDF text comes from the pdftotext CLI or a remote
// OCR API depending on config; DOCX and plain text are handled locally.
package extract

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"github.com/JoePa99/segmentclaude/internal/config"
)

// Supported MIME types.
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

// UnsupportedTypeError reports a MIME type the extractor cannot handle.
type UnsupportedTypeError struct {
	MimeType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("extract: unsupported file type %q", e.MimeType)
}

// Extractor extracts plain text from raw file bytes.
type Extractor interface {
	Extract(ctx context.Context, data []byte, mimeType string) (string, error)
}

// New creates an Extractor based on config.
func New(cfg config.ExtractConfig) (Extractor, error) {
	switch cfg.Provider {
	case "local", "":
		return NewLocal(cfg.PdfToTextPath), nil
	case "remote":
		if cfg.OCRKey == "" {
			return nil, eris.New("extract: remote provider requires ocr_api_key")
		}
		return NewRemote(cfg.OCRKey, cfg.OCRModel), nil
	default:
		return nil, eris.Errorf("extract: unknown provider %q", cfg.Provider)
	}
}

// Local extracts text without external services: pdftotext for PDFs,
// in-process parsing for DOCX and plain text.
type Local struct {
	pdf *pdfToText
}

// NewLocal creates a Local extractor. If pdftotextPath is empty the
// binary is resolved from PATH.
func NewLocal(pdftotextPath string) *Local {
	return &Local{pdf: newPdfToText(pdftotextPath)}
}

func (l *Local) Extract(ctx context.Context, data []byte, mimeType string) (string, error) {
	switch normalizeMime(mimeType) {
	case MimePDF:
		return l.pdf.extract(ctx, data)
	case MimeDOCX:
		return docxText(data)
	case MimeText:
		return plainText(data)
	default:
		return "", &UnsupportedTypeError{MimeType: mimeType}
	}
}

// normalizeMime drops any parameters ("text/plain; charset=utf-8").
func normalizeMime(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.TrimSpace(strings.ToLower(base))
}

func plainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", eris.New("extract: text file is not valid UTF-8")
	}
	return string(data), nil
}
