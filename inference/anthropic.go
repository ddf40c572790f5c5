package inference

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/tuanns/meetmind/mcp"
	"github.com/tuanns/meetmind/message"
)

type AnthropicModel struct {
	client       *anthropic.Client
	model        ModelVersion
	maxTokens    int64
	systemPrompt string
}

func NewAnthropicModel(client *anthropic.Client, model ModelVersion, maxTokens int64, systemPrompt string) *AnthropicModel {
	return &AnthropicModel{
		client:       client,
		model:        model,
		maxTokens:    maxTokens,
		systemPrompt: systemPrompt,
	}
}

func (m *AnthropicModel) Name() string {
	return AnthropicModelName
}

func getAnthropicModel(model ModelVersion) anthropic.Model {
	switch model {
	case Claude4Opus:
		return anthropic.ModelClaudeOpus4_0
	case Claude4Sonnet:
		return anthropic.ModelClaudeSonnet4_0
	case Claude37Sonnet:
		return anthropic.ModelClaude3_7SonnetLatest
	case Claude35Sonnet:
		return anthropic.ModelClaude3_5SonnetLatest
	case Claude35Haiku:
		return anthropic.ModelClaude3_5HaikuLatest
	case Claude3Opus:
		return anthropic.ModelClaude3OpusLatest
	case Claude3Haiku:
		return anthropic.ModelClaude_3_Haiku_20240307
	default:
		return anthropic.ModelClaudeSonnet4_0
	}
}

func (m *AnthropicModel) Complete(ctx context.Context, msgs []*message.Message, tools mcp.Tools) (*message.Message, error) {
	anthropicMsgs := convertToAnthropicMsgs(msgs)

	anthropicTools, err := convertToAnthropicTools(tools)
	if err != nil {
		return nil, fmt.Errorf("failed to convert tools: %w", err)
	}

	params := anthropic.MessageNewParams{
		Model:     getAnthropicModel(m.model),
		MaxTokens: m.maxTokens,
		Messages:  anthropicMsgs,
		Tools:     anthropicTools,
	}
	if m.systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: m.systemPrompt}}
	}

	response, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic call failed: %w", err)
	}

	return convertFromAnthropicMessage(response)
}

func convertToAnthropicMsgs(msgs []*message.Message) []anthropic.MessageParam {
	anthropicMsgs := make([]anthropic.MessageParam, 0, len(msgs))

	for _, msg := range msgs {
		blocks := convertToAnthropicBlocks(msg.Content)

		switch msg.Role {
		case message.UserRole:
			anthropicMsgs = append(anthropicMsgs, anthropic.NewUserMessage(blocks...))
		case message.AssistantRole, message.ModelRole:
			anthropicMsgs = append(anthropicMsgs, anthropic.NewAssistantMessage(blocks...))
		}
	}

	return anthropicMsgs
}

func convertToAnthropicBlocks(blocksUnion []message.ContentBlockUnion) []anthropic.ContentBlockParamUnion {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(blocksUnion))

	for _, block := range blocksUnion {
		switch block.Type {
		case message.TextType:
			if block.OfTextBlock != nil {
				blocks = append(blocks, anthropic.NewTextBlock(block.OfTextBlock.Text))
			}
		case message.ToolUseType:
			if block.OfToolUseBlock != nil {
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    block.OfToolUseBlock.ID,
						Name:  block.OfToolUseBlock.Name,
						Input: block.OfToolUseBlock.Input,
					},
				})
			}
		case message.ToolResultType:
			if block.OfToolResultBlock != nil {
				blocks = append(blocks, anthropic.NewToolResultBlock(
					block.OfToolResultBlock.ToolUseID,
					block.OfToolResultBlock.Content,
					block.OfToolResultBlock.IsError,
				))
			}
		}
	}

	return blocks
}

func convertFromAnthropicMessage(anthropicMsg *anthropic.Message) (*message.Message, error) {
	msg := &message.Message{
		Role:    message.AssistantRole,
		Content: make([]message.ContentBlockUnion, 0, len(anthropicMsg.Content)),
	}

	for _, block := range anthropicMsg.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			msg.Content = append(msg.Content, message.NewTextBlock(variant.Text))
		case anthropic.ToolUseBlock:
			input := json.RawMessage(variant.JSON.Input.Raw())
			msg.Content = append(msg.Content, message.NewToolUseBlock(variant.ID, variant.Name, input))
		}
	}

	return msg, nil
}

func convertToAnthropicTools(tools mcp.Tools) ([]anthropic.ToolUnionParam, error) {
	if len(tools) == 0 {
		return nil, nil
	}

	anthropicTools := make([]anthropic.ToolUnionParam, 0, len(tools))

	for _, tool := range tools {
		var anthropicSchema anthropic.ToolInputSchemaParam
		if err := json.Unmarshal(tool.InputSchema, &anthropicSchema); err != nil {
			return nil, fmt.Errorf("failed to unmarshal schema for %s: %w", tool.Name, err)
		}

		anthropicTools = append(anthropicTools, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        tool.Name,
				Description: anthropic.String(tool.Description),
				InputSchema: anthropicSchema,
			},
		})
	}

	return anthropicTools, nil
}
