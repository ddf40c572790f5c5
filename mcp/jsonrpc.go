package mcp

import (
	"encoding/json"
	"fmt"
)

const jsonrpcVersion = "2.0"

// JSON-RPC 2.0 error codes used on this wire.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

//	{
//	  "jsonrpc": "2.0",
//	  "method": "tools/call",
//	  "params": {...},
//	  "id": 1
//	}
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
	// Omitted for notifications
	ID any `json:"id,omitempty"`
}

// Either Result or Error is set, never both.
type Response struct {
	JSONRPC string           `json:"jsonrpc"`
	Result  *json.RawMessage `json:"result,omitempty"`
	Error   *Error           `json:"error,omitempty"`
	ID      any              `json:"id"`
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc: code: %d, message: %s", e.Code, e.Message)
}

// IncomingMessage is the superset shape of anything read off the wire:
// a response to one of our calls, or a server-initiated notification.
type IncomingMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	Method  string           `json:"method,omitempty"`
	Params  *json.RawMessage `json:"params,omitempty"`
	Result  *json.RawMessage `json:"result,omitempty"`
	Error   *Error           `json:"error,omitempty"`
	ID      any              `json:"id,omitempty"`
}

type RequestArgs struct {
	Method string
	Params any
	ID     any
}

// FormatRequest marshals a JSON-RPC request. A nil ID produces a
// notification.
func FormatRequest(args *RequestArgs) ([]byte, error) {
	req := Request{
		JSONRPC: jsonrpcVersion,
		Method:  args.Method,
		Params:  args.Params,
		ID:      args.ID,
	}
	return json.Marshal(req)
}

// NewResponse builds a success response for the given request id.
func NewResponse(id any, result any) (*Response, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("jsonrpc: failed to marshal result: %w", err)
	}
	rawMsg := json.RawMessage(raw)
	return &Response{JSONRPC: jsonrpcVersion, Result: &rawMsg, ID: id}, nil
}

// NewErrorResponse builds an error response for the given request id.
func NewErrorResponse(id any, code int, message string) *Response {
	return &Response{
		JSONRPC: jsonrpcVersion,
		Error:   &Error{Code: code, Message: message},
		ID:      id,
	}
}
