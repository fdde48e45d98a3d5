package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/JoePa99/segmentclaude/internal/resilience"
)

const (
	remoteOCREndpoint = "https://api.mistral.ai/v1/ocr"
	defaultOCRModel   = "pixtral-large-latest"
)

// Remote extracts PDF text through a hosted OCR API. Non-PDF types are
// handled the same way Local handles them, since OCR adds nothing there.
type Remote struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
	local    *Local
}

// NewRemote creates a Remote extractor. If model is empty, the default
// OCR model is used.
func NewRemote(apiKey, model string) *Remote {
	if model == "" {
		model = defaultOCRModel
	}
	return &Remote{
		apiKey:   apiKey,
		model:    model,
		endpoint: remoteOCREndpoint,
		client:   &http.Client{},
		local:    NewLocal(""),
	}
}

type ocrRequest struct {
	Model    string      `json:"model"`
	Document ocrDocument `json:"document"`
}

type ocrDocument struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url"`
}

type ocrResponse struct {
	Pages []ocrPage `json:"pages"`
}

type ocrPage struct {
	Index    int    `json:"index"`
	Markdown string `json:"markdown"`
}

func (r *Remote) Extract(ctx context.Context, data []byte, mimeType string) (string, error) {
	if normalizeMime(mimeType) != MimePDF {
		return r.local.Extract(ctx, data, mimeType)
	}

	cfg := resilience.DefaultRetryConfig()
	cfg.OnRetry = resilience.RetryLogger("ocr", "extract")
	return resilience.DoVal(ctx, cfg, func(ctx context.Context) (string, error) {
		return r.ocrPDF(ctx, data)
	})
}

func (r *Remote) ocrPDF(ctx context.Context, data []byte) (string, error) {
	dataURL := "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(data)

	body, err := json.Marshal(ocrRequest{
		Model: r.model,
		Document: ocrDocument{
			Type:        "document_url",
			DocumentURL: dataURL,
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "extract: marshal ocr request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", eris.Wrap(err, "extract: create ocr request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "extract: ocr API call")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "extract: read ocr response")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("extract: ocr API returned %d: %s", resp.StatusCode, string(respBody))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return "", resilience.NewTransientError(err, resp.StatusCode)
		}
		return "", err
	}

	var parsed ocrResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", eris.Wrap(err, "extract: unmarshal ocr response")
	}

	var sb strings.Builder
	for i, page := range parsed.Pages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(page.Markdown)
	}
	return sb.String(), nil
}
