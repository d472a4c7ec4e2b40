package chat

import (
	"fmt"
	"strings"

	"github.com/intellimulti/chat-backend/internal/entity"
	"github.com/intellimulti/chat-backend/internal/pkg/media"
)

const systemPrompt = `You are a professional multimodal assistant with the following capabilities:
1. Conversational dialogue with the user.
2. Image understanding and analysis (OCR, object detection, scene understanding).
3. Audio transcription and analysis.
4. Knowledge retrieval and question answering over provided documents.

Guidelines:
- When the user uploads an image with a question, answer using both the image content and the question.
- Analyze all visible information in images: text, charts, objects, scenes.
- If an image contains text, recognize it accurately and quote it in the answer.
- If the user only uploads an image without a question, provide a thorough analysis of the image.

Citation format (important):
- When an answer relies on the provided reference passages, append a citation marker right after the relevant statement, in the form [0], [1] and so on.
- Each marker must use the number of the passage it cites.
- If the user message contains a "=== Reference passages ===" section, use those passages to answer and cite them.
- Place markers inline only; do not list sources at the end.

Answer in a professional, accurate and friendly manner, and follow the citation format strictly. Prefer the reference passages when they are available.`

// Attachment is a file uploaded alongside a chat message.
type Attachment struct {
	Filename string
	Data     []byte
}

// BuildMessages assembles the full model conversation: system prompt,
// prior history, then the current user turn with any attachments and
// document context.
func BuildMessages(
	history []entity.HistoryMessage,
	blocks []entity.ContentBlock,
	image, audio *Attachment,
	corpus *entity.Corpus,
) []entity.ModelMessage {
	messages := make([]entity.ModelMessage, 0, len(history)+2)

	messages = append(messages, entity.ModelMessage{
		Role:    entity.RoleSystem,
		Content: systemPrompt,
	})

	messages = append(messages, convertHistory(history)...)
	messages = append(messages, buildUserMessage(blocks, image, audio, corpus))

	return messages
}

// convertHistory maps prior turns to model messages. User turns keep
// their multimodal blocks, assistant turns are plain text.
func convertHistory(history []entity.HistoryMessage) []entity.ModelMessage {
	messages := make([]entity.ModelMessage, 0, len(history))

	for _, msg := range history {
		switch msg.Role {
		case entity.RoleUser:
			messages = append(messages, entity.ModelMessage{
				Role:  entity.RoleUser,
				Parts: blocksToParts(msg.ContentBlocks),
			})
		case entity.RoleAssistant:
			messages = append(messages, entity.ModelMessage{
				Role:    entity.RoleAssistant,
				Content: msg.Content,
			})
		}
	}

	return messages
}

func buildUserMessage(blocks []entity.ContentBlock, image, audio *Attachment, corpus *entity.Corpus) entity.ModelMessage {
	var parts []entity.MessagePart

	if image != nil {
		url := media.DataURL(media.ImageMIMEType(image.Filename), image.Data)
		parts = append(parts, entity.MessagePart{
			Type:     entity.PartTypeImageURL,
			ImageURL: &entity.MediaURL{URL: url},
		})
	}

	if audio != nil {
		url := media.DataURL(media.AudioMIMEType(audio.Filename), audio.Data)
		parts = append(parts, entity.MessagePart{
			Type:     entity.PartTypeAudioURL,
			AudioURL: &entity.MediaURL{URL: url},
		})
	}

	parts = append(parts, blocksToParts(blocks)...)

	if corpus != nil && !corpus.Empty() {
		parts = appendDocumentContext(parts, corpus)
	}

	return entity.ModelMessage{
		Role:  entity.RoleUser,
		Parts: parts,
	}
}

// blocksToParts converts client content blocks to model message parts.
// Media blocks are accepted only as inline data URLs.
func blocksToParts(blocks []entity.ContentBlock) []entity.MessagePart {
	var parts []entity.MessagePart

	for _, block := range blocks {
		switch block.Type {
		case entity.BlockTypeText:
			parts = append(parts, entity.MessagePart{
				Type: entity.PartTypeText,
				Text: block.Content,
			})
		case entity.BlockTypeImage:
			if media.IsImageDataURL(block.Content) {
				parts = append(parts, entity.MessagePart{
					Type:     entity.PartTypeImageURL,
					ImageURL: &entity.MediaURL{URL: block.Content},
				})
			}
		case entity.BlockTypeAudio:
			if media.IsAudioDataURL(block.Content) {
				parts = append(parts, entity.MessagePart{
					Type:     entity.PartTypeAudioURL,
					AudioURL: &entity.MediaURL{URL: block.Content},
				})
			}
		}
	}

	return parts
}

// appendDocumentContext attaches the numbered reference passages to
// the last text part so the model can cite them by index. When the
// message has no text part, a dedicated one is added.
func appendDocumentContext(parts []entity.MessagePart, corpus *entity.Corpus) []entity.MessagePart {
	context := formatDocumentContext(corpus)

	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i].Type == entity.PartTypeText {
			parts[i].Text += context
			return parts
		}
	}

	return append(parts, entity.MessagePart{
		Type: entity.PartTypeText,
		Text: context,
	})
}

func formatDocumentContext(corpus *entity.Corpus) string {
	var sb strings.Builder

	sb.WriteString("\n\n=== Reference passages ===\n")
	for i, chunk := range corpus.Chunks {
		sourceInfo := chunk.Metadata.SourceInfo
		if sourceInfo == "" {
			sourceInfo = fmt.Sprintf("passage %d", i)
		}
		fmt.Fprintf(&sb, "\n[%d] %s\nSource: %s\n", i, chunk.Content, sourceInfo)
	}
	sb.WriteString("\nCite the relevant passages in your answer using markers such as [0] or [1].\n")

	return sb.String()
}
