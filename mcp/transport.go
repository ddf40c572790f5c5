package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Transport moves raw JSON-RPC payloads between the two ends of the wire.
type Transport interface {
	Send(ctx context.Context, payload []byte) error
	Receive(ctx context.Context) ([]byte, error)
}

// stdioTransport speaks newline-delimited JSON over a subprocess's
// stdin/stdout pipes.
type stdioTransport struct {
	// Write directly to the stream; an encoder could leave payloads
	// sitting in an internal buffer
	writer  io.Writer
	decoder *json.Decoder
	closer  io.Closer
}

func NewStdioTransport(rwc io.ReadWriteCloser) *stdioTransport {
	return &stdioTransport{
		writer:  rwc,
		decoder: json.NewDecoder(rwc),
		closer:  rwc,
	}
}

func (t *stdioTransport) Send(ctx context.Context, payload []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if _, err := t.writer.Write(payload); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}
	if _, err := t.writer.Write([]byte{'\n'}); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (t *stdioTransport) Receive(ctx context.Context) ([]byte, error) {
	errChan := make(chan error, 1)
	byteChan := make(chan []byte, 1)

	go func() {
		var raw json.RawMessage
		if err := t.decoder.Decode(&raw); err != nil {
			errChan <- err
			return
		}
		byteChan <- []byte(raw)
	}()

	select {
	case <-ctx.Done():
		if t.closer != nil {
			_ = t.closer.Close()
		}
		return nil, ctx.Err()
	case err := <-errChan:
		return nil, err
	case data := <-byteChan:
		return data, nil
	}
}

func (t *stdioTransport) Close() error {
	if t.closer == nil {
		return nil
	}
	err := t.closer.Close()
	if err == nil || errors.Is(err, os.ErrClosed) || strings.Contains(err.Error(), "file already closed") {
		return nil
	}
	return err
}
