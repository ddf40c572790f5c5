package inference

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuanns/meetmind/message"
)

func TestInit_UnknownProvider(t *testing.T) {
	_, err := Init(context.Background(), ModelConfig{Provider: "openai"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown model provider")
}

func TestInit_MissingAnthropicKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := Init(context.Background(), ModelConfig{Provider: AnthropicProvider})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}

func TestInit_MissingGeminiKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := Init(context.Background(), ModelConfig{Provider: GoogleProvider})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestGetAnthropicModel(t *testing.T) {
	assert.Equal(t, anthropic.ModelClaudeOpus4_0, getAnthropicModel(Claude4Opus))
	assert.Equal(t, anthropic.ModelClaude3_5HaikuLatest, getAnthropicModel(Claude35Haiku))
	// Unknown versions fall back to the default
	assert.Equal(t, anthropic.ModelClaudeSonnet4_0, getAnthropicModel(ModelVersion("made-up")))
}

func TestListAvailableModels(t *testing.T) {
	assert.Contains(t, ListAvailableModels(AnthropicProvider), Claude4Sonnet)
	assert.Contains(t, ListAvailableModels(GoogleProvider), Gemini25Flash)
	assert.Empty(t, ListAvailableModels(ProviderName("other")))
}

func TestGetDefaultModel(t *testing.T) {
	assert.Equal(t, Claude4Sonnet, GetDefaultModel(AnthropicProvider))
	assert.Equal(t, Gemini25Flash, GetDefaultModel(GoogleProvider))
	assert.Empty(t, GetDefaultModel(ProviderName("other")))
}

func TestConvertToAnthropicMsgs_Roles(t *testing.T) {
	msgs := []*message.Message{
		message.NewUserMessage("hello"),
		{
			Role:    message.AssistantRole,
			Content: []message.ContentBlockUnion{message.NewTextBlock("hi")},
		},
	}

	converted := convertToAnthropicMsgs(msgs)
	require.Len(t, converted, 2)
	assert.Equal(t, anthropic.MessageParamRoleUser, converted[0].Role)
	assert.Equal(t, anthropic.MessageParamRoleAssistant, converted[1].Role)
}

func TestConvertToAnthropicBlocks_ToolResult(t *testing.T) {
	blocks := convertToAnthropicBlocks([]message.ContentBlockUnion{
		message.NewToolResultBlock("call_1", "add_attendee", "done", false),
	})
	require.Len(t, blocks, 1)
	require.NotNil(t, blocks[0].OfToolResult)
	assert.Equal(t, "call_1", blocks[0].OfToolResult.ToolUseID)
}

func TestToGeminiContents_RoleMapping(t *testing.T) {
	msgs := []*message.Message{
		message.NewUserMessage("schedule a standup"),
		{
			Role: message.AssistantRole,
			Content: []message.ContentBlockUnion{
				message.NewToolUseBlock("id1", "schedule_meeting", json.RawMessage(`{"title":"Standup","time":"09:00"}`)),
			},
		},
	}

	contents, err := toGeminiContents(msgs)
	require.NoError(t, err)
	require.Len(t, contents, 2)
	assert.Equal(t, "user", string(contents[0].Role))
	assert.Equal(t, "model", string(contents[1].Role))
}

func TestToGeminiContents_Empty(t *testing.T) {
	_, err := toGeminiContents(nil)
	assert.Error(t, err)
}
