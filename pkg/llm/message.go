package llm

import "strings"

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Block types carried by a ContentBlock.
const (
	BlockText  = "text"
	BlockImage = "image"
)

// ContentBlock is one unit of a message's payload: plain text or an encoded image.
type ContentBlock struct {
	Type  string        `json:"type"`            // "text" or "image"
	Text  string        `json:"text,omitempty"`  // Set for text blocks
	Image *EncodedImage `json:"image,omitempty"` // Set for image blocks
}

// Message represents a single message in a conversation.
type Message struct {
	Role   Role           `json:"role"`
	Blocks []ContentBlock `json:"content"`
}

// TextMessage returns a message holding a single text block.
func TextMessage(role Role, text string) Message {
	return Message{
		Role:   role,
		Blocks: []ContentBlock{{Type: BlockText, Text: text}},
	}
}

// Text concatenates the message's text blocks.
func (m Message) Text() string {
	var parts []string
	for _, b := range m.Blocks {
		if b.Type == BlockText {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// Images returns the encoded images attached to the message.
func (m Message) Images() []*EncodedImage {
	var images []*EncodedImage
	for _, b := range m.Blocks {
		if b.Type == BlockImage && b.Image != nil {
			images = append(images, b.Image)
		}
	}
	return images
}
