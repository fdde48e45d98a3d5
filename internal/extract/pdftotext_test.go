package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPdfToText_MissingBinary(t *testing.T) {
	p := newPdfToText("/nonexistent/pdftotext")
	_, err := p.extract(context.Background(), []byte("%PDF-1.4"))
	assert.Error(t, err)
}

func TestNewPdfToText_DefaultsBinaryName(t *testing.T) {
	assert.Equal(t, "pdftotext", newPdfToText("").binPath)
	assert.Equal(t, "/usr/bin/pdftotext", newPdfToText("/usr/bin/pdftotext").binPath)
}
