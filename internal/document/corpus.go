package document

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/intellimulti/chat-backend/internal/chunker"
	"github.com/intellimulti/chat-backend/internal/entity"
)

// pagePrefixLen is how many leading runes of a chunk are matched against
// page texts when attributing a page number.
const pagePrefixLen = 50

// Builder assembles an ordered, indexed chunk corpus from extracted
// document pages.
type Builder struct {
	splitter *chunker.Splitter
}

// NewBuilder creates a corpus builder using the given splitter config.
func NewBuilder(cfg chunker.Config) *Builder {
	return &Builder{splitter: chunker.NewSplitter(cfg)}
}

// BuildCorpus concatenates page texts in page order, splits the result,
// and attaches per-chunk metadata. Chunks that are empty after trimming
// are dropped; chunk_index reflects the surviving emission order and
// total_chunks equals the final corpus size on every chunk.
func (b *Builder) BuildCorpus(filename string, pages []entity.Page) entity.Corpus {
	ordered := make([]entity.Page, len(pages))
	copy(ordered, pages)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Number < ordered[j].Number })

	var full strings.Builder
	for _, p := range ordered {
		full.WriteString(p.Text)
	}

	var chunks []entity.DocumentChunk
	for _, text := range b.splitter.Split(full.String()) {
		content := strings.TrimSpace(text)
		if content == "" {
			continue
		}
		idx := len(chunks)
		chunks = append(chunks, entity.DocumentChunk{
			ID:      entity.ChunkID(filename, idx),
			Content: content,
			Metadata: entity.ChunkMetadata{
				Source:      filename,
				ChunkIndex:  idx,
				ChunkSize:   utf8.RuneCountInString(content),
				PageNumber:  attributePage(content, ordered),
				ReferenceID: fmt.Sprintf("[%d]", idx+1),
			},
		})
	}

	for i := range chunks {
		chunks[i].Metadata.TotalChunks = len(chunks)
		chunks[i].Metadata.SourceInfo = fmt.Sprintf("%s - page %d", filename, chunks[i].Metadata.PageNumber)
	}

	return entity.Corpus{Filename: filename, Chunks: chunks}
}

// attributePage locates the first page whose text contains the chunk's
// leading runes. This is a best-effort heuristic: chunks that start with
// boilerplate repeated across pages, or that open on a page boundary,
// can be attributed to an earlier page. Unmatched chunks default to 1.
func attributePage(content string, pages []entity.Page) int {
	prefix := content
	if runes := []rune(content); len(runes) > pagePrefixLen {
		prefix = string(runes[:pagePrefixLen])
	}
	for _, p := range pages {
		if strings.Contains(p.Text, prefix) {
			return p.Number
		}
	}
	return 1
}
