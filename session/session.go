// Package session owns the conversation loop: it relays user input to
// the model, executes the tool calls the model requests, feeds results
// back and displays the final reply.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/tuanns/meetmind/conversation"
	"github.com/tuanns/meetmind/inference"
	"github.com/tuanns/meetmind/mcp"
	"github.com/tuanns/meetmind/message"
)

const apologyReply = "I'm sorry, I couldn't produce a response for that. Please try rephrasing your request."

// ToolCaller is the slice of the tool server the session needs.
type ToolCaller interface {
	ListTools(ctx context.Context) (mcp.Tools, error)
	CallTool(ctx context.Context, toolName string, args map[string]any) (*mcp.ToolsCallResult, error)
	ListPrompts(ctx context.Context) ([]mcp.Prompt, error)
	GetPrompt(ctx context.Context, name string) (string, error)
}

type Session struct {
	model          inference.Model
	toolServer     ToolCaller
	getUserMessage func() (string, bool)
	out            io.Writer
	conv           *conversation.Conversation
}

func New(model inference.Model, toolServer ToolCaller, getUserMessage func() (string, bool), out io.Writer) (*Session, error) {
	conv, err := conversation.New()
	if err != nil {
		return nil, err
	}

	return &Session{
		model:          model,
		toolServer:     toolServer,
		getUserMessage: getUserMessage,
		out:            out,
		conv:           conv,
	}, nil
}

// Conversation exposes the transcript so the caller can persist it.
func (s *Session) Conversation() *conversation.Conversation {
	return s.conv
}

// Run drives the chat loop until the user quits or the input closes.
// Tool failures are folded into the conversation as data; only model
// transport failures end the loop with an error.
func (s *Session) Run(ctx context.Context) error {
	wireTools, err := s.toolServer.ListTools(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tools: %w", err)
	}

	s.printTip(ctx)
	fmt.Fprintf(s.out, "Chat with %s (type 'exit' to quit)\n", s.model.Name())

	readUserInput := true

	for {
		if readUserInput {
			fmt.Fprint(s.out, "\u001b[94mYou\u001b[0m: ")
			userInput, ok := s.getUserMessage()
			if !ok {
				break
			}

			userInput = strings.TrimSpace(userInput)
			if userInput == "" {
				continue
			}
			if isQuit(userInput) {
				break
			}

			text := userInput
			if strings.HasPrefix(userInput, "/") {
				expanded, err := s.expandSlash(ctx, userInput)
				if err != nil {
					fmt.Fprintf(s.out, "Error running prompt: %v\n", err)
					continue
				}
				text = expanded
			}

			s.conv.Append(message.NewUserMessage(text))
		}

		reply, err := s.model.Complete(ctx, s.conv.Messages, wireTools)
		if err != nil {
			return fmt.Errorf("model call failed: %w", err)
		}

		if reply == nil || len(reply.Content) == 0 {
			// Empty responses (e.g. safety filtered) must not poison
			// the history
			fmt.Fprintf(s.out, "\u001b[93m%s\u001b[0m: %s\n", s.model.Name(), apologyReply)
			readUserInput = true
			continue
		}

		s.conv.Append(reply)

		toolResults := []message.ContentBlockUnion{}
		for _, content := range reply.Content {
			switch content.Type {
			case message.TextType:
				if content.OfTextBlock != nil && content.OfTextBlock.Text != "" {
					fmt.Fprintf(s.out, "\u001b[93m%s\u001b[0m: %s\n", s.model.Name(), content.OfTextBlock.Text)
				}
			case message.ToolUseType:
				if content.OfToolUseBlock != nil {
					toolResults = append(toolResults, s.executeTool(ctx, content.OfToolUseBlock))
				}
			}
		}

		if len(toolResults) == 0 {
			readUserInput = true
			continue
		}

		readUserInput = false
		s.conv.Append(&message.Message{
			// Tool results travel back as a user-role message
			Role:    message.UserRole,
			Content: toolResults,
		})
	}

	return nil
}

// executeTool runs one requested tool call. Every failure mode, from an
// unreachable server to an unknown tool, becomes an is_error result the
// model can explain in conversation.
func (s *Session) executeTool(ctx context.Context, call *message.ToolUseBlock) message.ContentBlockUnion {
	fmt.Fprintf(s.out, "\u001b[92mtool\u001b[0m: %s(%s)\n", call.Name, string(call.Input))

	var args map[string]any
	if len(call.Input) > 0 {
		if err := json.Unmarshal(call.Input, &args); err != nil {
			return message.NewToolResultBlock(call.ID, call.Name, fmt.Sprintf("Error: malformed tool arguments: %v", err), true)
		}
	}
	if args == nil {
		args = map[string]any{}
	}

	result, err := s.toolServer.CallTool(ctx, call.Name, args)
	if err != nil {
		return message.NewToolResultBlock(call.ID, call.Name, fmt.Sprintf("Error: %v", err), true)
	}

	var texts []string
	for _, item := range result.Content {
		if item.Type == "text" && item.Text != "" {
			texts = append(texts, item.Text)
		}
	}
	content := strings.Join(texts, "\n")
	if content == "" {
		content = "(no output)"
	}

	return message.NewToolResultBlock(call.ID, call.Name, content, result.IsError)
}

// expandSlash turns "/name trailing words" into the named canned prompt
// plus whatever the user typed after it.
func (s *Session) expandSlash(ctx context.Context, input string) (string, error) {
	parts := strings.Fields(input[1:])
	if len(parts) == 0 {
		return "", fmt.Errorf("empty slash command")
	}

	name := parts[0]
	followUp := strings.Join(parts[1:], " ")

	fmt.Fprintf(s.out, "--- Running prompt: %s ---\n", name)

	promptText, err := s.toolServer.GetPrompt(ctx, name)
	if err != nil {
		return "", err
	}

	if followUp != "" {
		return promptText + "\n\n" + followUp, nil
	}
	return promptText, nil
}

func (s *Session) printTip(ctx context.Context) {
	available, err := s.toolServer.ListPrompts(ctx)
	if err != nil || len(available) == 0 {
		return
	}

	names := make([]string, 0, len(available))
	for _, p := range available {
		names = append(names, "/"+p.Name)
	}
	fmt.Fprintf(s.out, "Tip: Use slash commands (e.g., %s)\n", strings.Join(names, ", "))
}

func isQuit(input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit":
		return true
	}
	return false
}
