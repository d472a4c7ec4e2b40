package stream

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/intellimulti/chat-backend/internal/entity"
)

// Writer frames stream events onto an HTTP response as Server-Sent
// Events: one JSON object per event, "data: <json>\n\n", flushed per
// frame so the client sees deltas as they arrive.
type Writer struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewWriter prepares w for event streaming and sends the SSE headers.
// It fails when the response writer cannot flush incrementally.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support streaming")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &Writer{w: w, flusher: flusher}, nil
}

// Send writes one framed event and flushes it.
func (sw *Writer) Send(ev entity.StreamEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal stream event: %w", err)
	}
	if _, err := fmt.Fprintf(sw.w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("write stream frame: %w", err)
	}
	sw.flusher.Flush()
	return nil
}
