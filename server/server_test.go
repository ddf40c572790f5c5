package server

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuanns/meetmind/mcp"
	"github.com/tuanns/meetmind/meeting"
	"github.com/tuanns/meetmind/tools"
)

// serve feeds the newline-delimited requests to a fresh server instance
// and returns the decoded responses in order.
func serve(t *testing.T, store *meeting.Store, requests ...string) []mcp.Response {
	t.Helper()

	srv := New(tools.NewToolBox(store))

	input := strings.Join(requests, "\n")
	var output bytes.Buffer

	err := srv.Run(context.Background(), strings.NewReader(input), &output)
	require.NoError(t, err)

	var responses []mcp.Response
	decoder := json.NewDecoder(&output)
	for decoder.More() {
		var resp mcp.Response
		require.NoError(t, decoder.Decode(&resp))
		responses = append(responses, resp)
	}
	return responses
}

func result[T any](t *testing.T, resp mcp.Response) T {
	t.Helper()
	require.Nil(t, resp.Error, "unexpected rpc error: %+v", resp.Error)
	require.NotNil(t, resp.Result)

	var out T
	require.NoError(t, json.Unmarshal(*resp.Result, &out))
	return out
}

func TestServer_Initialize(t *testing.T) {
	responses := serve(t, meeting.NewStore(),
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"0"}}}`,
	)
	require.Len(t, responses, 1)

	init := result[mcp.InitializeResult](t, responses[0])
	assert.Equal(t, "meetmind-tools", init.ServerInfo.Name)
	assert.Contains(t, init.Capabilities, "tools")
}

func TestServer_NotificationsProduceNoResponse(t *testing.T) {
	responses := serve(t, meeting.NewStore(),
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
	)
	assert.Empty(t, responses)
}

func TestServer_ToolsList(t *testing.T) {
	responses := serve(t, meeting.NewStore(),
		`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`,
	)
	require.Len(t, responses, 1)

	list := result[mcp.ToolsListResult](t, responses[0])

	names := make([]string, 0, len(list.Tools))
	for _, tool := range list.Tools {
		assert.NotEmpty(t, tool.Description)
		assert.NotEmpty(t, tool.InputSchema)
		names = append(names, tool.Name)
	}
	assert.Contains(t, names, tools.ToolNameScheduleMeeting)
	assert.Contains(t, names, tools.ToolNameDemoPopulate)
}

func TestServer_ToolsCall_Success(t *testing.T) {
	store := meeting.NewStore()
	responses := serve(t, store,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"schedule_meeting","arguments":{"title":"Standup","time":"09:00"}}}`,
	)
	require.Len(t, responses, 1)

	call := result[mcp.ToolsCallResult](t, responses[0])
	assert.False(t, call.IsError)
	require.Len(t, call.Content, 1)
	assert.Contains(t, call.Content[0].Text, "Standup")
	assert.Equal(t, 1, store.Len())
}

func TestServer_ToolsCall_UnknownTool(t *testing.T) {
	responses := serve(t, meeting.NewStore(),
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"launch_rocket","arguments":{}}}`,
	)
	require.Len(t, responses, 1)

	call := result[mcp.ToolsCallResult](t, responses[0])
	assert.True(t, call.IsError)
	require.Len(t, call.Content, 1)
	assert.Contains(t, call.Content[0].Text, "unknown tool")
}

func TestServer_ToolsCall_NotFoundIsData(t *testing.T) {
	responses := serve(t, meeting.NewStore(),
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"add_attendee","arguments":{"meeting_id":"missing","name":"Alice"}}}`,
	)
	require.Len(t, responses, 1)

	// The rpc layer succeeds; the failure travels as isError content
	call := result[mcp.ToolsCallResult](t, responses[0])
	assert.True(t, call.IsError)
	assert.Contains(t, call.Content[0].Text, "not found")
}

func TestServer_ToolsCall_InvalidArguments(t *testing.T) {
	responses := serve(t, meeting.NewStore(),
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"schedule_meeting","arguments":{"title":"Standup"}}}`,
	)
	require.Len(t, responses, 1)

	call := result[mcp.ToolsCallResult](t, responses[0])
	assert.True(t, call.IsError)
	assert.Contains(t, call.Content[0].Text, "invalid arguments")
}

func TestServer_PromptsListAndGet(t *testing.T) {
	responses := serve(t, meeting.NewStore(),
		`{"jsonrpc":"2.0","id":1,"method":"prompts/list","params":{}}`,
		`{"jsonrpc":"2.0","id":2,"method":"prompts/get","params":{"name":"demo"}}`,
	)
	require.Len(t, responses, 2)

	list := result[mcp.PromptsListResult](t, responses[0])
	names := make([]string, 0, len(list.Prompts))
	for _, p := range list.Prompts {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"kickoff", "minutes", "format", "demo"}, names)

	prompt := result[mcp.PromptsGetResult](t, responses[1])
	require.Len(t, prompt.Messages, 1)
	assert.Contains(t, prompt.Messages[0].Content.Text, "demo_populate")
}

func TestServer_UnknownMethod(t *testing.T) {
	responses := serve(t, meeting.NewStore(),
		`{"jsonrpc":"2.0","id":1,"method":"resources/list","params":{}}`,
	)
	require.Len(t, responses, 1)

	require.NotNil(t, responses[0].Error)
	assert.Equal(t, mcp.CodeMethodNotFound, responses[0].Error.Code)
}

func TestServer_UnknownPrompt(t *testing.T) {
	responses := serve(t, meeting.NewStore(),
		`{"jsonrpc":"2.0","id":1,"method":"prompts/get","params":{"name":"nonexistent"}}`,
	)
	require.Len(t, responses, 1)

	require.NotNil(t, responses[0].Error)
	assert.Equal(t, mcp.CodeInvalidParams, responses[0].Error.Code)
}
