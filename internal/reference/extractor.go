package reference

import (
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/intellimulti/chat-backend/internal/entity"
)

// markerPattern matches inline citation markers: a bracketed integer.
var markerPattern = regexp.MustCompile(`\[(\d+)\]`)

// maxSnippetRunes bounds the excerpt carried in a resolved reference.
const maxSnippetRunes = 200

// Extract scans generated text for citation markers and resolves each
// against the corpus. Markers are collected in order of appearance,
// duplicates included; marker [n] resolves to the chunk at index n in
// the corpus, and out-of-range markers are skipped rather than failing
// the extraction. With no corpus the result is always empty.
//
// Extraction is pure: identical inputs yield identical output.
func Extract(text string, corpus entity.Corpus) []entity.Reference {
	if corpus.Empty() {
		return nil
	}

	var refs []entity.Reference
	for _, match := range markerPattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			// Digits too large for an int cannot address any chunk.
			continue
		}
		chunk, ok := corpus.Chunk(n)
		if !ok {
			continue
		}
		refs = append(refs, entity.Reference{
			ID:         n,
			Text:       truncate(chunk.Content, maxSnippetRunes),
			Source:     chunk.Metadata.Source,
			Page:       chunk.Metadata.PageNumber,
			ChunkID:    chunk.Metadata.ChunkIndex,
			SourceInfo: chunk.Metadata.SourceInfo,
		})
	}
	return refs
}

// truncate cuts s to at most limit runes, appending an ellipsis marker
// when anything was removed.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}
