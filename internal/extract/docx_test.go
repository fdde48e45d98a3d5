package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDocxText(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph, </w:t></w:r><w:r><w:t>split across runs.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := docxText(buildDocx(t, doc))

	require.NoError(t, err)
	assert.Equal(t, "First paragraph, split across runs.\nSecond paragraph.", text)
}

func TestDocxText_IgnoresNonTextElements(t *testing.T) {
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Visible</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := docxText(buildDocx(t, doc))

	require.NoError(t, err)
	assert.Equal(t, "Visible", text)
}

func TestDocxText_MissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = docxText(buf.Bytes())
	assert.ErrorContains(t, err, "word/document.xml")
}

func TestDocxText_NotAZip(t *testing.T) {
	_, err := docxText([]byte("plain text pretending to be docx"))
	assert.Error(t, err)
}
