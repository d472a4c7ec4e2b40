package document

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellimulti/chat-backend/internal/chunker"
	"github.com/intellimulti/chat-backend/internal/entity"
)

const (
	// Long enough that its first 50 runes are pure boilerplate.
	testHeader = "ACME CORPORATION QUARTERLY REPORT - INTERNAL USE ONLY - DO NOT DISTRIBUTE OUTSIDE THE COMPANY"
	testBody1  = "The first page describes revenue growth across all regions during the opening quarter."
	testBody2  = "The second page details operating expenses and the updated hiring plan for next year."
)

func twoPageFixture() []entity.Page {
	return []entity.Page{
		{Number: 1, Text: testHeader + "\n\n" + testBody1 + "\n\n"},
		{Number: 2, Text: testHeader + "\n\n" + testBody2},
	}
}

func TestBuildCorpus_MetadataInvariants(t *testing.T) {
	b := NewBuilder(chunker.Config{ChunkSize: 120, ChunkOverlap: 0})

	corpus := b.BuildCorpus("report.pdf", twoPageFixture())

	require.Equal(t, 4, corpus.Len())
	assert.Equal(t, []string{testHeader, testBody1, testHeader, testBody2},
		[]string{corpus.Chunks[0].Content, corpus.Chunks[1].Content, corpus.Chunks[2].Content, corpus.Chunks[3].Content})

	for i, c := range corpus.Chunks {
		assert.Equal(t, fmt.Sprintf("report.pdf_%d", i), c.ID)
		assert.Equal(t, i, c.Metadata.ChunkIndex)
		assert.Equal(t, 4, c.Metadata.TotalChunks)
		assert.Equal(t, "report.pdf", c.Metadata.Source)
		assert.Equal(t, len(c.Content), c.Metadata.ChunkSize)
		assert.Equal(t, fmt.Sprintf("[%d]", i+1), c.Metadata.ReferenceID)
		assert.Equal(t, fmt.Sprintf("report.pdf - page %d", c.Metadata.PageNumber), c.Metadata.SourceInfo)
		assert.GreaterOrEqual(t, c.Metadata.PageNumber, 1)
		assert.LessOrEqual(t, c.Metadata.PageNumber, 2)
	}
}

func TestBuildCorpus_PageAttribution(t *testing.T) {
	b := NewBuilder(chunker.Config{ChunkSize: 120, ChunkOverlap: 0})

	corpus := b.BuildCorpus("report.pdf", twoPageFixture())
	require.Equal(t, 4, corpus.Len())

	// Distinct body text resolves to the page it came from.
	assert.Equal(t, 1, corpus.Chunks[1].Metadata.PageNumber)
	assert.Equal(t, 2, corpus.Chunks[3].Metadata.PageNumber)
}

func TestBuildCorpus_BoilerplateMisattribution(t *testing.T) {
	b := NewBuilder(chunker.Config{ChunkSize: 120, ChunkOverlap: 0})

	corpus := b.BuildCorpus("report.pdf", twoPageFixture())
	require.Equal(t, 4, corpus.Len())

	// Chunk 2 is the page-2 header, but its 50-rune prefix also appears
	// on page 1, so the scan attributes it there. Best-effort behavior,
	// kept as-is.
	assert.Equal(t, testHeader, corpus.Chunks[2].Content)
	assert.Equal(t, 1, corpus.Chunks[2].Metadata.PageNumber)
}

func TestBuildCorpus_EmptyDocument(t *testing.T) {
	b := NewBuilder(chunker.DefaultConfig())

	assert.True(t, b.BuildCorpus("empty.pdf", nil).Empty())
	assert.True(t, b.BuildCorpus("blank.pdf", []entity.Page{{Number: 1, Text: "   \n "}}).Empty())
}

func TestBuildCorpus_ShortDocumentSingleChunk(t *testing.T) {
	b := NewBuilder(chunker.DefaultConfig())

	corpus := b.BuildCorpus("note.pdf", []entity.Page{{Number: 1, Text: "  A short note.  "}})

	require.Equal(t, 1, corpus.Len())
	c := corpus.Chunks[0]
	assert.Equal(t, "A short note.", c.Content)
	assert.Equal(t, "note.pdf_0", c.ID)
	assert.Equal(t, 1, c.Metadata.PageNumber)
	assert.Equal(t, 1, c.Metadata.TotalChunks)
	assert.Equal(t, "[1]", c.Metadata.ReferenceID)
	assert.Equal(t, "note.pdf - page 1", c.Metadata.SourceInfo)
}

func TestBuildCorpus_PagesSortedByNumber(t *testing.T) {
	b := NewBuilder(chunker.Config{ChunkSize: 120, ChunkOverlap: 0})

	pages := []entity.Page{
		{Number: 2, Text: testBody2},
		{Number: 1, Text: testBody1 + "\n\n"},
	}
	corpus := b.BuildCorpus("report.pdf", pages)

	require.Equal(t, 2, corpus.Len())
	assert.Equal(t, testBody1, corpus.Chunks[0].Content)
	assert.Equal(t, testBody2, corpus.Chunks[1].Content)
}

func TestBuildCorpus_Deterministic(t *testing.T) {
	b := NewBuilder(chunker.DefaultConfig())

	pages := twoPageFixture()
	first := b.BuildCorpus("report.pdf", pages)
	second := b.BuildCorpus("report.pdf", pages)

	assert.Equal(t, first, second)
}
