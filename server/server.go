// Package server exposes the meeting tool set and canned prompts over
// JSON-RPC 2.0 on a stdio stream. It is run as a subprocess of the chat
// client and handles one request at a time.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tuanns/meetmind/mcp"
	"github.com/tuanns/meetmind/prompts"
	"github.com/tuanns/meetmind/tools"
)

type Server struct {
	box *tools.ToolBox
}

func New(box *tools.ToolBox) *Server {
	return &Server{box: box}
}

// Run serves requests from r and writes responses to w until the stream
// closes or the context ends. The server holds no session state; every
// invocation is independent.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	decoder := json.NewDecoder(r)
	encoder := json.NewEncoder(w)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var req mcp.IncomingMessage
		if err := decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("server: failed to decode request: %w", err)
		}

		if req.ID == nil {
			// Notification; nothing requires a reaction
			continue
		}

		resp := s.handle(&req)
		if err := encoder.Encode(resp); err != nil {
			return fmt.Errorf("server: failed to write response: %w", err)
		}
	}
}

func (s *Server) handle(req *mcp.IncomingMessage) *mcp.Response {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "prompts/list":
		return s.handlePromptsList(req)
	case "prompts/get":
		return s.handlePromptsGet(req)
	default:
		return mcp.NewErrorResponse(req.ID, mcp.CodeMethodNotFound, fmt.Sprintf("method not found: %s", req.Method))
	}
}

func (s *Server) handleInitialize(req *mcp.IncomingMessage) *mcp.Response {
	result := mcp.InitializeResult{
		ProtocolVersion: "2024-11-05",
		Capabilities: map[string]any{
			"tools":   map[string]any{},
			"prompts": map[string]any{},
		},
		ServerInfo: mcp.PeerInfo{
			Name:    "meetmind-tools",
			Version: "0.1.0",
		},
	}
	return mustResponse(req.ID, result)
}

func (s *Server) handleToolsList(req *mcp.IncomingMessage) *mcp.Response {
	defs := s.box.Definitions()

	wireTools := make(mcp.Tools, 0, len(defs))
	for _, def := range defs {
		raw, err := json.Marshal(def.InputSchema)
		if err != nil {
			return mcp.NewErrorResponse(req.ID, mcp.CodeInternalError, fmt.Sprintf("failed to marshal schema for %s: %v", def.Name, err))
		}
		wireTools = append(wireTools, mcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: raw,
		})
	}

	return mustResponse(req.ID, mcp.ToolsListResult{Tools: wireTools})
}

// Tool failures are data, not protocol errors: the result carries
// isError so the model can read the failure and recover in conversation.
func (s *Server) handleToolsCall(req *mcp.IncomingMessage) *mcp.Response {
	if req.Params == nil {
		return mcp.NewErrorResponse(req.ID, mcp.CodeInvalidParams, "tools/call requires params")
	}

	var params mcp.ToolsCallParams
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		return mcp.NewErrorResponse(req.ID, mcp.CodeInvalidParams, fmt.Sprintf("invalid tools/call params: %v", err))
	}

	output, err := s.box.Invoke(params.Name, params.Arguments)
	if err != nil {
		return mustResponse(req.ID, mcp.ToolsCallResult{
			Content: []mcp.ToolResultContent{{Type: "text", Text: "Error: " + err.Error()}},
			IsError: true,
		})
	}

	return mustResponse(req.ID, mcp.ToolsCallResult{
		Content: []mcp.ToolResultContent{{Type: "text", Text: output}},
	})
}

func (s *Server) handlePromptsList(req *mcp.IncomingMessage) *mcp.Response {
	slashes := prompts.Slashes()

	out := make([]mcp.Prompt, 0, len(slashes))
	for _, sl := range slashes {
		out = append(out, mcp.Prompt{Name: sl.Name, Description: sl.Description})
	}

	return mustResponse(req.ID, mcp.PromptsListResult{Prompts: out})
}

func (s *Server) handlePromptsGet(req *mcp.IncomingMessage) *mcp.Response {
	if req.Params == nil {
		return mcp.NewErrorResponse(req.ID, mcp.CodeInvalidParams, "prompts/get requires params")
	}

	var params mcp.PromptsGetParams
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		return mcp.NewErrorResponse(req.ID, mcp.CodeInvalidParams, fmt.Sprintf("invalid prompts/get params: %v", err))
	}

	slash, ok := prompts.ByName(params.Name)
	if !ok {
		return mcp.NewErrorResponse(req.ID, mcp.CodeInvalidParams, fmt.Sprintf("unknown prompt: %s", params.Name))
	}

	var msg mcp.PromptMessage
	msg.Role = "user"
	msg.Content.Type = "text"
	msg.Content.Text = slash.Text

	return mustResponse(req.ID, mcp.PromptsGetResult{
		Description: slash.Description,
		Messages:    []mcp.PromptMessage{msg},
	})
}

func mustResponse(id any, result any) *mcp.Response {
	resp, err := mcp.NewResponse(id, result)
	if err != nil {
		return mcp.NewErrorResponse(id, mcp.CodeInternalError, err.Error())
	}
	return resp
}
