package entity

import "time"

// StreamEventType tags the variant of a stream event.
type StreamEventType string

// Stream event types on the wire. Exactly one terminal event
// (message_complete or error) closes a stream.
const (
	EventContentDelta    StreamEventType = "content_delta"
	EventMessageComplete StreamEventType = "message_complete"
	EventError           StreamEventType = "error"
)

// StreamEvent is one framed event emitted to the client while a model
// response is streaming.
type StreamEvent struct {
	Type        StreamEventType `json:"type"`
	Content     string          `json:"content,omitempty"`
	FullContent string          `json:"full_content,omitempty"`
	References  []Reference     `json:"references,omitzero"`
	Error       string          `json:"error,omitempty"`
	Timestamp   string          `json:"timestamp"`
}

// Terminal reports whether the event closes the stream.
func (e StreamEvent) Terminal() bool {
	return e.Type == EventMessageComplete || e.Type == EventError
}

// NewContentDelta builds a content_delta event for one fragment.
func NewContentDelta(content string) StreamEvent {
	return StreamEvent{
		Type:      EventContentDelta,
		Content:   content,
		Timestamp: time.Now().Format(time.RFC3339Nano),
	}
}

// NewMessageComplete builds the successful terminal event. The reference
// list may be empty but is always present on the wire.
func NewMessageComplete(fullContent string, refs []Reference) StreamEvent {
	if refs == nil {
		refs = []Reference{}
	}
	return StreamEvent{
		Type:        EventMessageComplete,
		FullContent: fullContent,
		References:  refs,
		Timestamp:   time.Now().Format(time.RFC3339Nano),
	}
}

// NewStreamError builds the failure terminal event.
func NewStreamError(msg string) StreamEvent {
	return StreamEvent{
		Type:      EventError,
		Error:     msg,
		Timestamp: time.Now().Format(time.RFC3339Nano),
	}
}

// TextFragment is one incremental piece of generated text delivered by
// the model during streaming.
type TextFragment struct {
	Content string `json:"content"`
}
