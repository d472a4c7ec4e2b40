package entity

import (
	"encoding/json"
	"time"
)

// Content block types accepted in chat requests.
const (
	BlockTypeText  = "text"
	BlockTypeImage = "image"
	BlockTypeAudio = "audio"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ContentBlock is one piece of multimodal user input. Image and audio
// blocks carry base64 data URLs, text blocks carry plain text.
type ContentBlock struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// HistoryMessage is one prior conversation turn as sent by the client.
type HistoryMessage struct {
	Role          string         `json:"role"`
	Content       string         `json:"content"`
	ContentBlocks []ContentBlock `json:"content_blocks,omitempty"`
}

// ChatRequest is the synchronous chat request body.
type ChatRequest struct {
	ContentBlocks []ContentBlock   `json:"content_blocks"`
	History       []HistoryMessage `json:"history"`
}

// ChatResponse is the synchronous chat response.
type ChatResponse struct {
	Content    string      `json:"content"`
	Role       string      `json:"role"`
	Timestamp  string      `json:"timestamp"`
	References []Reference `json:"references"`
}

// MessagePart is one part of a model message: a text part or a media
// part referencing a data URL. Mirrors the OpenAI-compatible content
// array accepted by the model provider.
type MessagePart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *MediaURL `json:"image_url,omitempty"`
	AudioURL *MediaURL `json:"audio_url,omitempty"`
}

// MediaURL wraps a data URL.
type MediaURL struct {
	URL string `json:"url"`
}

// Message part types on the model wire.
const (
	PartTypeText     = "text"
	PartTypeImageURL = "image_url"
	PartTypeAudioURL = "audio_url"
)

// ModelMessage is one message submitted to the model. Content is either
// a plain string (system and assistant turns) or a part list (user turns
// with multimodal content). MarshalJSON picks the right wire shape.
type ModelMessage struct {
	Role    string
	Content string
	Parts   []MessagePart
}

// MarshalJSON encodes the message in the OpenAI-compatible wire format:
// content is an array of parts when parts are present, a string otherwise.
func (m ModelMessage) MarshalJSON() ([]byte, error) {
	if len(m.Parts) > 0 {
		return json.Marshal(struct {
			Role    string        `json:"role"`
			Content []MessagePart `json:"content"`
		}{m.Role, m.Parts})
	}
	return json.Marshal(struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}{m.Role, m.Content})
}

// ChatTurn is a persisted conversation turn.
type ChatTurn struct {
	ID         string      `json:"id"`
	Role       string      `json:"role"`
	Content    string      `json:"content"`
	References []Reference `json:"references,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}
