package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// docxText extracts paragraph text from a DOCX file. A DOCX is a zip
// archive; the document body lives in word/document.xml, with visible
// text inside <w:t> elements and paragraphs delimited by <w:p>.
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", eris.Wrap(err, "extract: open docx archive")
	}

	var docXML io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docXML, err = f.Open()
			if err != nil {
				return "", eris.Wrap(err, "extract: open word/document.xml")
			}
			break
		}
	}
	if docXML == nil {
		return "", eris.New("extract: docx has no word/document.xml")
	}
	defer docXML.Close()

	var (
		sb     strings.Builder
		inText bool
	)
	dec := xml.NewDecoder(docXML)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", eris.Wrap(err, "extract: decode document.xml")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return strings.TrimSpace(sb.String()), nil
}
