package message

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentBlockUnion_RoundTrip(t *testing.T) {
	msg := Message{
		Role: AssistantRole,
		Content: []ContentBlockUnion{
			NewTextBlock("Scheduling that now."),
			NewToolUseBlock("call_1", "schedule_meeting", json.RawMessage(`{"title":"Standup","time":"09:00"}`)),
		},
	}

	data, err := json.Marshal(&msg)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Len(t, decoded.Content, 2)

	assert.Equal(t, TextType, decoded.Content[0].Type)
	require.NotNil(t, decoded.Content[0].OfTextBlock)
	assert.Equal(t, "Scheduling that now.", decoded.Content[0].OfTextBlock.Text)

	assert.Equal(t, ToolUseType, decoded.Content[1].Type)
	require.NotNil(t, decoded.Content[1].OfToolUseBlock)
	assert.Equal(t, "schedule_meeting", decoded.Content[1].OfToolUseBlock.Name)
	assert.JSONEq(t, `{"title":"Standup","time":"09:00"}`, string(decoded.Content[1].OfToolUseBlock.Input))
}

func TestContentBlockUnion_ToolResult(t *testing.T) {
	block := NewToolResultBlock("call_1", "add_attendee", "meeting not found", true)

	data, err := json.Marshal(block)
	require.NoError(t, err)

	var decoded ContentBlockUnion
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.NotNil(t, decoded.OfToolResultBlock)
	assert.Equal(t, "call_1", decoded.OfToolResultBlock.ToolUseID)
	assert.Equal(t, "meeting not found", decoded.OfToolResultBlock.Content)
	assert.True(t, decoded.OfToolResultBlock.IsError)
}

func TestMessage_Text(t *testing.T) {
	msg := Message{
		Role: AssistantRole,
		Content: []ContentBlockUnion{
			NewTextBlock("part one "),
			NewToolUseBlock("id", "list_meetings", json.RawMessage(`{}`)),
			NewTextBlock("part two"),
		},
	}

	assert.Equal(t, "part one part two", msg.Text())
	assert.Len(t, msg.ToolUses(), 1)
}

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("hello")

	assert.Equal(t, UserRole, msg.Role)
	require.Len(t, msg.Content, 1)
	assert.Equal(t, "hello", msg.Content[0].OfTextBlock.Text)
}
