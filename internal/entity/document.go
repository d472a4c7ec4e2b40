package entity

import "fmt"

// ChunkMetadata describes one corpus chunk's provenance.
type ChunkMetadata struct {
	Source      string `json:"source"`
	ChunkIndex  int    `json:"chunk_index"`
	ChunkSize   int    `json:"chunk_size"`
	TotalChunks int    `json:"total_chunks"`
	PageNumber  int    `json:"page_number"`
	ReferenceID string `json:"reference_id"`
	SourceInfo  string `json:"source_info"`
}

// DocumentChunk is one immutable segment of an ingested document.
type DocumentChunk struct {
	ID       string        `json:"id"`
	Content  string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
}

// Corpus is the ordered chunk collection derived from a single uploaded
// document. It is built once per request, never mutated afterwards, and
// shared read-only with the reference extractor.
type Corpus struct {
	Filename string          `json:"filename"`
	Chunks   []DocumentChunk `json:"chunks"`
}

// Len returns the number of chunks in the corpus.
func (c Corpus) Len() int { return len(c.Chunks) }

// Empty reports whether the corpus holds no chunks.
func (c Corpus) Empty() bool { return len(c.Chunks) == 0 }

// Chunk returns the chunk at index i and whether it exists.
func (c Corpus) Chunk(i int) (DocumentChunk, bool) {
	if i < 0 || i >= len(c.Chunks) {
		return DocumentChunk{}, false
	}
	return c.Chunks[i], true
}

// Page is one page of extracted document text, 1-based.
type Page struct {
	Number int
	Text   string
}

// Reference is one resolved citation from generated text back into the
// corpus. Text is truncated for display.
type Reference struct {
	ID         int    `json:"id"`
	Text       string `json:"text"`
	Source     string `json:"source"`
	Page       int    `json:"page"`
	ChunkID    int    `json:"chunk_id"`
	SourceInfo string `json:"source_info"`
}

// ChunkID formats the stable chunk identifier "{filename}_{index}".
func ChunkID(filename string, index int) string {
	return fmt.Sprintf("%s_%d", filename, index)
}
