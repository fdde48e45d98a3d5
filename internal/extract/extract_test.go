package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoePa99/segmentclaude/internal/config"
)

func TestLocalExtract_PlainText(t *testing.T) {
	l := NewLocal("")
	text, err := l.Extract(context.Background(), []byte("survey results: 7 of 10 prefer dark roast"), MimeText)

	require.NoError(t, err)
	assert.Equal(t, "survey results: 7 of 10 prefer dark roast", text)
}

func TestLocalExtract_PlainTextWithCharsetParam(t *testing.T) {
	l := NewLocal("")
	text, err := l.Extract(context.Background(), []byte("hello"), "text/plain; charset=utf-8")

	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestLocalExtract_InvalidUTF8(t *testing.T) {
	l := NewLocal("")
	_, err := l.Extract(context.Background(), []byte{0xff, 0xfe, 0xfd}, MimeText)
	assert.Error(t, err)
}

func TestLocalExtract_UnsupportedType(t *testing.T) {
	l := NewLocal("")
	_, err := l.Extract(context.Background(), []byte("x"), "image/png")

	require.Error(t, err)
	var unsupported *UnsupportedTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "image/png", unsupported.MimeType)
}

func TestNormalizeMime(t *testing.T) {
	assert.Equal(t, "application/pdf", normalizeMime("application/pdf"))
	assert.Equal(t, "application/pdf", normalizeMime("Application/PDF"))
	assert.Equal(t, "text/plain", normalizeMime("text/plain; charset=utf-8"))
	assert.Equal(t, "", normalizeMime(""))
}

func TestNew_SelectsProvider(t *testing.T) {
	ex, err := New(config.ExtractConfig{Provider: "local"})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, ex)

	ex, err = New(config.ExtractConfig{})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, ex)

	ex, err = New(config.ExtractConfig{Provider: "remote", OCRKey: "key"})
	require.NoError(t, err)
	assert.IsType(t, &Remote{}, ex)

	_, err = New(config.ExtractConfig{Provider: "remote"})
	assert.Error(t, err)

	_, err = New(config.ExtractConfig{Provider: "carrier-pigeon"})
	assert.Error(t, err)
}
