package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tuanns/meetmind/mcp"
	"github.com/tuanns/meetmind/message"
	"github.com/tuanns/meetmind/schema"
	"google.golang.org/genai"
)

type GeminiModel struct {
	client       *genai.Client
	model        ModelVersion
	maxTokens    int64
	systemPrompt string
}

func NewGeminiModel(client *genai.Client, model ModelVersion, maxTokens int64, systemPrompt string) *GeminiModel {
	return &GeminiModel{
		client:       client,
		model:        model,
		maxTokens:    maxTokens,
		systemPrompt: systemPrompt,
	}
}

func (m *GeminiModel) Name() string {
	return GoogleModelName
}

func (m *GeminiModel) Complete(ctx context.Context, msgs []*message.Message, tools mcp.Tools) (*message.Message, error) {
	contents, err := toGeminiContents(msgs)
	if err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(m.maxTokens),
	}
	if m.systemPrompt != "" {
		config.SystemInstruction = genai.NewContentFromText(m.systemPrompt, genai.RoleUser)
	}
	if len(tools) > 0 {
		geminiTools, err := toGeminiTools(tools)
		if err != nil {
			return nil, err
		}
		config.Tools = geminiTools
	}

	response, err := m.client.Models.GenerateContent(ctx, string(m.model), contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini call failed: %w", err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		// No content at all, e.g. safety-filtered; the caller decides
		// how to phrase that to the user
		return &message.Message{Role: message.AssistantRole}, nil
	}

	return fromGeminiContent(response.Candidates[0].Content)
}

func fromGeminiContent(content *genai.Content) (*message.Message, error) {
	msg := &message.Message{
		Role:    message.AssistantRole,
		Content: make([]message.ContentBlockUnion, 0, len(content.Parts)),
	}

	var fullText strings.Builder
	var toolCalls []message.ContentBlockUnion

	for _, p := range content.Parts {
		if p.Text != "" {
			fullText.WriteString(p.Text)
		}
		if p.FunctionCall != nil {
			fc := p.FunctionCall
			input, err := json.Marshal(fc.Args)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal function args: %w", err)
			}

			// Gemini does not always assign call ids; tool results are
			// matched by name, but the loop still needs a stable id
			id := fc.ID
			if id == "" {
				id = uuid.NewString()
			}

			toolCalls = append(toolCalls, message.NewToolUseBlock(id, fc.Name, input))
		}
	}

	if fullText.Len() > 0 {
		msg.Content = append(msg.Content, message.NewTextBlock(fullText.String()))
	}
	msg.Content = append(msg.Content, toolCalls...)

	return msg, nil
}

func toGeminiContents(msgs []*message.Message) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(msgs))

	for _, msg := range msgs {
		parts := toGeminiParts(msg.Content)
		if len(parts) == 0 {
			continue
		}

		role := genai.RoleUser
		if msg.Role == message.AssistantRole || msg.Role == message.ModelRole {
			role = genai.RoleModel
		}

		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}

	if len(contents) == 0 {
		return nil, fmt.Errorf("gemini: empty conversation history")
	}

	return contents, nil
}

func toGeminiParts(blocks []message.ContentBlockUnion) []*genai.Part {
	parts := make([]*genai.Part, 0, len(blocks))

	for _, block := range blocks {
		switch block.Type {
		case message.TextType:
			if block.OfTextBlock != nil {
				parts = append(parts, genai.NewPartFromText(block.OfTextBlock.Text))
			}
		case message.ToolUseType:
			if block.OfToolUseBlock != nil {
				var args map[string]any
				if err := json.Unmarshal(block.OfToolUseBlock.Input, &args); err != nil {
					continue
				}
				parts = append(parts, genai.NewPartFromFunctionCall(block.OfToolUseBlock.Name, args))
			}
		case message.ToolResultType:
			if block.OfToolResultBlock != nil {
				response := map[string]any{"result": block.OfToolResultBlock.Content}
				if block.OfToolResultBlock.IsError {
					response["error"] = true
				}
				parts = append(parts, genai.NewPartFromFunctionResponse(block.OfToolResultBlock.ToolName, response))
			}
		}
	}

	return parts
}

func toGeminiTools(tools mcp.Tools) ([]*genai.Tool, error) {
	builtinTool := &genai.Tool{
		FunctionDeclarations: make([]*genai.FunctionDeclaration, 0, len(tools)),
	}

	for _, tool := range tools {
		params, err := schema.ConvertRawToGeminiSchema(tool.InputSchema)
		if err != nil {
			return nil, fmt.Errorf("failed to convert schema for %s: %w", tool.Name, err)
		}

		builtinTool.FunctionDeclarations = append(builtinTool.FunctionDeclarations, &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  params,
		})
	}

	return []*genai.Tool{builtinTool}, nil
}
