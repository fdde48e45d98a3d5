package extract

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"github.com/rotisserie/eris"
)

// pdfToText extracts text from PDF bytes using the pdftotext CLI tool.
type pdfToText struct {
	binPath string
}

func newPdfToText(binPath string) *pdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &pdfToText{binPath: binPath}
}

// extract writes the PDF to a temp file (pdftotext cannot read from a
// pipe) and runs pdftotext -layout, returning stdout.
func (p *pdfToText) extract(ctx context.Context, data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "extract-*.pdf")
	if err != nil {
		return "", eris.Wrap(err, "extract: create temp pdf")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", eris.Wrap(err, "extract: write temp pdf")
	}
	if err := tmp.Close(); err != nil {
		return "", eris.Wrap(err, "extract: close temp pdf")
	}

	cmd := exec.CommandContext(ctx, p.binPath, "-layout", tmp.Name(), "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", eris.Wrapf(err, "extract: pdftotext failed: %s", stderr.String())
	}

	return stdout.String(), nil
}
