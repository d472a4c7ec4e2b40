package document

import (
	"bytes"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellimulti/chat-backend/internal/chunker"
	"github.com/intellimulti/chat-backend/internal/entity"
)

// buildPDF renders one page per given text block.
func buildPDF(t *testing.T, pageTexts ...string) []byte {
	t.Helper()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	for _, text := range pageTexts {
		pdf.AddPage()
		pdf.MultiCell(180, 8, text, "", "L", false)
	}

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func TestExtractPages_PerPageText(t *testing.T) {
	data := buildPDF(t, "alpha content on the first page", "bravo content on the second page")

	pages, err := ExtractPages(data, "fixture.pdf")
	require.NoError(t, err)
	require.Len(t, pages, 2)

	assert.Equal(t, 1, pages[0].Number)
	assert.Contains(t, pages[0].Text, "alpha")
	assert.Equal(t, 2, pages[1].Number)
	assert.Contains(t, pages[1].Text, "bravo")
	assert.NotContains(t, pages[0].Text, "bravo")
}

func TestExtractPages_InvalidBytes(t *testing.T) {
	_, err := ExtractPages([]byte("this is not a pdf"), "broken.pdf")

	var parseErr *entity.DocumentParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "broken.pdf", parseErr.Filename)
}

func TestExtractPages_EmptyBytes(t *testing.T) {
	_, err := ExtractPages(nil, "empty.pdf")

	var parseErr *entity.DocumentParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestExtractPagesFeedsCorpusBuilder(t *testing.T) {
	data := buildPDF(t, "The sky is blue and the grass is green everywhere")

	pages, err := ExtractPages(data, "sky.pdf")
	require.NoError(t, err)

	corpus := NewBuilder(chunker.DefaultConfig()).BuildCorpus("sky.pdf", pages)
	require.Equal(t, 1, corpus.Len())
	assert.Contains(t, corpus.Chunks[0].Content, "sky")
	assert.Equal(t, 1, corpus.Chunks[0].Metadata.PageNumber)
}
