package model

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
	"sync"

	"github.com/intellimulti/chat-backend/internal/entity"
)

const doneMarker = "[DONE]"

// sseSource turns a provider event stream into text fragments. Lines
// look like "data: {json}" with a final "data: [DONE]" terminator.
type sseSource struct {
	body    io.ReadCloser
	scanner *bufio.Scanner

	closeOnce sync.Once
	closeErr  error
}

func newSSESource(body io.ReadCloser) *sseSource {
	scanner := bufio.NewScanner(body)
	// Individual frames can carry large base64-free deltas but stay
	// well under 1 MiB
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	return &sseSource{
		body:    body,
		scanner: scanner,
	}
}

func (s *sseSource) Recv() (*entity.TextFragment, error) {
	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" || !strings.HasPrefix(line, "data:") {
			continue
		}

		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == doneMarker {
			return nil, io.EOF
		}

		var chunk entity.ChatCompletionChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			// Skip malformed frames rather than killing the stream
			continue
		}

		if len(chunk.Choices) == 0 {
			continue
		}

		content := chunk.Choices[0].Delta.Content
		if content == "" {
			if reason := chunk.Choices[0].FinishReason; reason != nil && *reason != "" {
				return nil, io.EOF
			}
			continue
		}

		return &entity.TextFragment{Content: content}, nil
	}

	if err := s.scanner.Err(); err != nil {
		return nil, err
	}

	// Body ended without an explicit terminator
	return nil, io.EOF
}

func (s *sseSource) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.body.Close()
	})
	return s.closeErr
}
