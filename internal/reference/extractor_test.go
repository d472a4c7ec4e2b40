package reference

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellimulti/chat-backend/internal/entity"
)

func testCorpus(contents ...string) entity.Corpus {
	corpus := entity.Corpus{Filename: "doc.pdf"}
	for i, content := range contents {
		corpus.Chunks = append(corpus.Chunks, entity.DocumentChunk{
			ID:      entity.ChunkID("doc.pdf", i),
			Content: content,
			Metadata: entity.ChunkMetadata{
				Source:      "doc.pdf",
				ChunkIndex:  i,
				TotalChunks: len(contents),
				PageNumber:  i + 1,
				ReferenceID: fmt.Sprintf("[%d]", i+1),
				SourceInfo:  fmt.Sprintf("doc.pdf - page %d", i+1),
			},
		})
	}
	return corpus
}

func TestExtract_NoCorpus(t *testing.T) {
	assert.Empty(t, Extract("Everything is cited [0] and [1].", entity.Corpus{}))
}

func TestExtract_ResolvesInRangeSkipsOutOfRange(t *testing.T) {
	corpus := testCorpus("first chunk", "second chunk", "third chunk")

	refs := Extract("The sky is blue [0]. Water is wet [5].", corpus)

	require.Len(t, refs, 1)
	assert.Equal(t, 0, refs[0].ID)
	assert.Equal(t, "first chunk", refs[0].Text)
	assert.Equal(t, "doc.pdf", refs[0].Source)
	assert.Equal(t, 1, refs[0].Page)
	assert.Equal(t, 0, refs[0].ChunkID)
	assert.Equal(t, "doc.pdf - page 1", refs[0].SourceInfo)
}

func TestExtract_OrderAndDuplicatesPreserved(t *testing.T) {
	corpus := testCorpus("alpha", "bravo", "charlie")

	refs := Extract("See [2], then [0], then [2] again.", corpus)

	require.Len(t, refs, 3)
	assert.Equal(t, []int{2, 0, 2}, []int{refs[0].ID, refs[1].ID, refs[2].ID})
}

func TestExtract_IgnoresNonMarkerBrackets(t *testing.T) {
	corpus := testCorpus("alpha")

	refs := Extract("Lists [a], ranges [1-2] and empty [] are not markers, [0] is.", corpus)

	require.Len(t, refs, 1)
	assert.Equal(t, 0, refs[0].ID)
}

func TestExtract_TruncatesLongChunkText(t *testing.T) {
	long := strings.Repeat("x", 450)
	corpus := testCorpus(long)

	refs := Extract("as shown in [0]", corpus)

	require.Len(t, refs, 1)
	assert.Equal(t, strings.Repeat("x", 200)+"...", refs[0].Text)
}

func TestExtract_ShortTextNotTruncated(t *testing.T) {
	corpus := testCorpus(strings.Repeat("y", 200))

	refs := Extract("[0]", corpus)

	require.Len(t, refs, 1)
	assert.Equal(t, strings.Repeat("y", 200), refs[0].Text)
	assert.NotContains(t, refs[0].Text, "...")
}

func TestExtract_Idempotent(t *testing.T) {
	corpus := testCorpus("alpha", "bravo")
	text := "Cite [1] and [0] and [7]."

	first := Extract(text, corpus)
	second := Extract(text, corpus)

	assert.Equal(t, first, second)
	require.Len(t, first, 2)
}

func TestExtract_NoMarkers(t *testing.T) {
	corpus := testCorpus("alpha")

	assert.Empty(t, Extract("No citations at all here.", corpus))
}
