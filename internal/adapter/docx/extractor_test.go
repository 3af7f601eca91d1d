package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>The Industrial</w:t></w:r><w:r><w:t xml:space="preserve"> Revolution</w:t></w:r></w:p>
    <w:p><w:r><w:t>Cities</w:t><w:tab/><w:t>grew</w:t><w:br/><w:t>fast</w:t></w:r></w:p>
    <w:p><w:r><w:delText>removed</w:delText></w:r></w:p>
  </w:body>
</w:document>`

func buildDocx(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractText(t *testing.T) {
	data := buildDocx(t, map[string]string{
		"[Content_Types].xml": `<Types/>`,
		"word/document.xml":   documentXML,
	})

	text, err := NewExtractor().ExtractText(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "The Industrial Revolution\n\nCities\tgrew\nfast\n\n\n\n", text)
}

func TestExtractText_NotAZip(t *testing.T) {
	_, err := NewExtractor().ExtractText(context.Background(), []byte("plain text, not a document"))
	assert.Error(t, err)
}

func TestExtractText_MissingDocumentPart(t *testing.T) {
	data := buildDocx(t, map[string]string{"word/styles.xml": `<w:styles/>`})

	_, err := NewExtractor().ExtractText(context.Background(), data)
	assert.ErrorIs(t, err, ErrNoDocumentPart)
}

func TestExtractText_MalformedXML(t *testing.T) {
	data := buildDocx(t, map[string]string{"word/document.xml": `<w:document><w:body>`})

	_, err := NewExtractor().ExtractText(context.Background(), data)
	assert.Error(t, err)
}

func TestExtractText_CancelledContext(t *testing.T) {
	data := buildDocx(t, map[string]string{"word/document.xml": documentXML})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExtractor().ExtractText(ctx, data)
	assert.ErrorIs(t, err, context.Canceled)
}
