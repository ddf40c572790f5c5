package message

import (
	"encoding/json"
	"strings"
	"time"
)

// Message is one turn of a conversation in provider-neutral form.
// Each inference backend converts it to its own wire shape.
type Message struct {
	Role    string              `json:"role"`
	Content []ContentBlockUnion `json:"content"`
	// Metadata for persisted transcripts
	ID        string    `json:"id,omitempty" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Sequence  int       `json:"sequence,omitempty" db:"sequence_number"`
}

const (
	UserRole      = "user"
	AssistantRole = "assistant"
	// Gemini calls the assistant role "model"
	ModelRole = "model"
)

const (
	TextType       = "text"
	ToolUseType    = "tool_use"
	ToolResultType = "tool_result"
)

type TextBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ToolUseBlock struct {
	Type  string          `json:"type"`
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

type ToolResultBlock struct {
	Type      string `json:"type"`
	ToolUseID string `json:"tool_use_id"`
	ToolName  string `json:"tool_name,omitempty"`
	Content   string `json:"content"`
	IsError   bool   `json:"is_error,omitempty"`
}

// ContentBlockUnion is a tagged union over the block variants.
// Only the variant matching Type is non-nil.
type ContentBlockUnion struct {
	Type              string           `json:"type"`
	OfTextBlock       *TextBlock       `json:"-"`
	OfToolUseBlock    *ToolUseBlock    `json:"-"`
	OfToolResultBlock *ToolResultBlock `json:"-"`
}

func NewTextBlock(text string) ContentBlockUnion {
	return ContentBlockUnion{
		Type:        TextType,
		OfTextBlock: &TextBlock{Type: TextType, Text: text},
	}
}

func NewToolUseBlock(id, name string, input json.RawMessage) ContentBlockUnion {
	return ContentBlockUnion{
		Type: ToolUseType,
		OfToolUseBlock: &ToolUseBlock{
			Type:  ToolUseType,
			ID:    id,
			Name:  name,
			Input: input,
		},
	}
}

func NewToolResultBlock(toolUseID, toolName, content string, isError bool) ContentBlockUnion {
	return ContentBlockUnion{
		Type: ToolResultType,
		OfToolResultBlock: &ToolResultBlock{
			Type:      ToolResultType,
			ToolUseID: toolUseID,
			ToolName:  toolName,
			Content:   content,
			IsError:   isError,
		},
	}
}

// NewUserMessage wraps a plain text line as a user turn.
func NewUserMessage(text string) *Message {
	return &Message{
		Role:    UserRole,
		Content: []ContentBlockUnion{NewTextBlock(text)},
	}
}

// Text concatenates the text blocks of the message.
func (m *Message) Text() string {
	var b strings.Builder
	for _, block := range m.Content {
		if block.Type == TextType && block.OfTextBlock != nil {
			b.WriteString(block.OfTextBlock.Text)
		}
	}
	return b.String()
}

// ToolUses returns the tool_use blocks of the message, in order.
func (m *Message) ToolUses() []*ToolUseBlock {
	var uses []*ToolUseBlock
	for _, block := range m.Content {
		if block.Type == ToolUseType && block.OfToolUseBlock != nil {
			uses = append(uses, block.OfToolUseBlock)
		}
	}
	return uses
}

func (c ContentBlockUnion) MarshalJSON() ([]byte, error) {
	switch c.Type {
	case TextType:
		if c.OfTextBlock != nil {
			return json.Marshal(c.OfTextBlock)
		}
	case ToolUseType:
		if c.OfToolUseBlock != nil {
			return json.Marshal(c.OfToolUseBlock)
		}
	case ToolResultType:
		if c.OfToolResultBlock != nil {
			return json.Marshal(c.OfToolResultBlock)
		}
	}
	return json.Marshal(struct {
		Type string `json:"type"`
	}{Type: c.Type})
}

func (c *ContentBlockUnion) UnmarshalJSON(data []byte) error {
	var typeOnly struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &typeOnly); err != nil {
		return err
	}

	c.Type = typeOnly.Type

	switch c.Type {
	case TextType:
		var block TextBlock
		if err := json.Unmarshal(data, &block); err != nil {
			return err
		}
		c.OfTextBlock = &block
	case ToolUseType:
		var block ToolUseBlock
		if err := json.Unmarshal(data, &block); err != nil {
			return err
		}
		c.OfToolUseBlock = &block
	case ToolResultType:
		var block ToolResultBlock
		if err := json.Unmarshal(data, &block); err != nil {
			return err
		}
		c.OfToolResultBlock = &block
	}

	return nil
}
