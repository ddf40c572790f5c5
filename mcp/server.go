package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// ErrTransport marks connectivity failures between this process and the
// tool server, as opposed to errors the server itself reported.
var ErrTransport = errors.New("tool server transport failure")

// Bundle the subprocess pipes into one ReadWriteCloser for the transport.
type stdioReadWriteCloser struct {
	io.Reader
	io.Writer
	stdinCloser  io.Closer
	stdoutCloser io.Closer
}

func (s *stdioReadWriteCloser) Close() error {
	stdinErr := s.stdinCloser.Close()
	stdoutErr := s.stdoutCloser.Close()
	if stdinErr != nil {
		return stdinErr
	}
	return stdoutErr
}

// Server is a handle on a tool-server subprocess and the RPC client
// talking to it over stdio.
type Server struct {
	id        string
	cmdPath   string
	cmdArgs   []string
	proc      *exec.Cmd
	rpcClient *Client
	closer    io.Closer
	closeOnce sync.Once
}

func NewServer(id, cmd string) (*Server, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return nil, fmt.Errorf("mcp server: cmd cannot be empty")
	}

	return &Server{
		id:      id,
		cmdPath: parts[0],
		cmdArgs: parts[1:],
	}, nil
}

// Start launches the subprocess and performs the initialize handshake.
func (s *Server) Start(ctx context.Context) error {
	s.proc = exec.CommandContext(ctx, s.cmdPath, s.cmdArgs...)
	s.proc.Stderr = os.Stderr

	stdin, err := s.proc.StdinPipe()
	if err != nil {
		return fmt.Errorf("mcp server: failed to get stdin pipe: %w", err)
	}

	stdout, err := s.proc.StdoutPipe()
	if err != nil {
		return fmt.Errorf("mcp server: failed to get stdout pipe: %w", err)
	}

	rwc := &stdioReadWriteCloser{
		Reader:       stdout,
		Writer:       stdin,
		stdinCloser:  stdin,
		stdoutCloser: stdout,
	}
	s.closer = rwc
	s.rpcClient = NewClient(NewStdioTransport(rwc))

	if err := s.proc.Start(); err != nil {
		return fmt.Errorf("mcp server: failed to start server process: %w", err)
	}

	go func() {
		err := s.rpcClient.Listen()
		if err != nil && err != io.EOF && !errors.Is(err, context.Canceled) && !strings.Contains(err.Error(), "file already closed") {
			fmt.Fprintf(os.Stderr, "tool server listener error: %v\n", err)
		}
	}()

	initParams := &InitializeParams{
		ProtocolVersion: protocolVersion,
		Capabilities:    map[string]any{},
		ClientInfo: PeerInfo{
			Name:    "meetmind",
			Version: "0.1.0",
		},
	}

	var initResult InitializeResult
	if err := s.rpcClient.Call(ctx, &ClientCallArgs{Method: "initialize", Params: initParams}, &initResult); err != nil {
		_ = s.Close()
		return fmt.Errorf("%w: initialize failed: %v", ErrTransport, err)
	}

	if err := s.rpcClient.Notify(ctx, &ClientNotifyArgs{Method: "notifications/initialized"}); err != nil {
		_ = s.Close()
		return fmt.Errorf("%w: initialized notification failed: %v", ErrTransport, err)
	}

	return nil
}

// CallTool sends a tools/call request. A non-nil error means the call
// never completed (transport or protocol failure); a tool-level failure
// comes back as a result with IsError set.
func (s *Server) CallTool(ctx context.Context, toolName string, args map[string]any) (*ToolsCallResult, error) {
	params := &ToolsCallParams{
		Name:      toolName,
		Arguments: args,
	}

	var result ToolsCallResult
	if err := s.rpcClient.Call(ctx, &ClientCallArgs{Method: "tools/call", Params: params}, &result); err != nil {
		return nil, fmt.Errorf("%w: tools/call (tool: %s): %v", ErrTransport, toolName, err)
	}

	return &result, nil
}

func (s *Server) ListTools(ctx context.Context) (Tools, error) {
	var result ToolsListResult
	if err := s.rpcClient.Call(ctx, &ClientCallArgs{Method: "tools/list", Params: &ToolsListParams{}}, &result); err != nil {
		return nil, fmt.Errorf("%w: tools/list: %v", ErrTransport, err)
	}

	return result.Tools, nil
}

func (s *Server) ListPrompts(ctx context.Context) ([]Prompt, error) {
	var result PromptsListResult
	if err := s.rpcClient.Call(ctx, &ClientCallArgs{Method: "prompts/list", Params: struct{}{}}, &result); err != nil {
		return nil, fmt.Errorf("%w: prompts/list: %v", ErrTransport, err)
	}

	return result.Prompts, nil
}

// GetPrompt fetches a canned prompt and returns its text content.
func (s *Server) GetPrompt(ctx context.Context, name string) (string, error) {
	params := &PromptsGetParams{Name: name}

	var result PromptsGetResult
	if err := s.rpcClient.Call(ctx, &ClientCallArgs{Method: "prompts/get", Params: params}, &result); err != nil {
		return "", fmt.Errorf("prompts/get (%s): %w", name, err)
	}

	if len(result.Messages) == 0 {
		return "", fmt.Errorf("prompt %q has no content", name)
	}

	return result.Messages[0].Content.Text, nil
}

func (s *Server) ID() string {
	return s.id
}

// Close shuts down the RPC client, the pipes and the subprocess.
func (s *Server) Close() error {
	var firstErr error

	s.closeOnce.Do(func() {
		if s.rpcClient != nil {
			if err := s.rpcClient.Close(); err != nil {
				firstErr = fmt.Errorf("mcp server: failed to close rpc client: %w", err)
			}
		}

		if s.closer != nil {
			if err := s.closer.Close(); err != nil && firstErr == nil {
				if !strings.Contains(err.Error(), "file already closed") {
					firstErr = fmt.Errorf("mcp server: failed to close server pipes: %w", err)
				}
			}
		}

		if s.proc != nil && s.proc.Process != nil {
			if err := s.proc.Process.Signal(os.Interrupt); err != nil {
				_ = s.proc.Process.Kill()
			}
			_, _ = s.proc.Process.Wait()
		}
	})

	return firstErr
}
