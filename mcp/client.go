package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

type ClientCallArgs struct {
	Method string
	Params any
}

type ClientNotifyArgs struct {
	Method string
	Params any
}

// Client is one side of a JSON-RPC 2.0 connection. Calls are matched to
// responses by id; a single Listen goroutine owns all reads from the
// transport.
type Client struct {
	transport Transport

	idMu   sync.Mutex
	nextID uint64

	pendingCallsMu sync.Mutex
	pendingCalls   map[any]chan *Response

	notiMu       sync.Mutex
	notiHandlers map[string]func(params *json.RawMessage) error

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewClient(transport Transport) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		transport:    transport,
		nextID:       1,
		pendingCalls: make(map[any]chan *Response),
		notiHandlers: make(map[string]func(params *json.RawMessage) error),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Call sends a request and blocks until the matching response arrives,
// the call context ends, or the client shuts down. A server-side error
// response comes back as a wrapped *Error.
func (c *Client) Call(ctx context.Context, args *ClientCallArgs, resultDest any) error {
	c.idMu.Lock()
	currentID := c.nextID
	c.nextID++
	c.idMu.Unlock()

	reqBytes, err := FormatRequest(&RequestArgs{
		Method: args.Method,
		Params: args.Params,
		ID:     currentID,
	})
	if err != nil {
		return fmt.Errorf("jsonrpc: failed to format request: %w", err)
	}

	respChan := make(chan *Response, 1)
	c.pendingCallsMu.Lock()
	select {
	case <-c.ctx.Done():
		c.pendingCallsMu.Unlock()
		return fmt.Errorf("jsonrpc: client is closed: %w", c.ctx.Err())
	default:
	}
	c.pendingCalls[currentID] = respChan
	c.pendingCallsMu.Unlock()

	defer func() {
		c.pendingCallsMu.Lock()
		delete(c.pendingCalls, currentID)
		c.pendingCallsMu.Unlock()
	}()

	if err := c.transport.Send(ctx, reqBytes); err != nil {
		return fmt.Errorf("jsonrpc: transport failed to send request: %w", err)
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("jsonrpc: call cancelled: %w", ctx.Err())
	case <-c.ctx.Done():
		return fmt.Errorf("jsonrpc: client is closing: %w", c.ctx.Err())
	case resp := <-respChan:
		if resp == nil {
			// Listen closed the channel during shutdown
			return fmt.Errorf("jsonrpc: call for id %v aborted by client shutdown", currentID)
		}

		if resp.Error != nil {
			return fmt.Errorf("jsonrpc: server error: %w", resp.Error)
		}

		if resultDest != nil && resp.Result != nil {
			if err := json.Unmarshal(*resp.Result, resultDest); err != nil {
				return fmt.Errorf("jsonrpc: failed to unmarshal result: %w", err)
			}
		}
	}

	return nil
}

// Notify sends a request without an id; no response is expected.
func (c *Client) Notify(ctx context.Context, args *ClientNotifyArgs) error {
	reqBytes, err := FormatRequest(&RequestArgs{
		Method: args.Method,
		Params: args.Params,
	})
	if err != nil {
		return fmt.Errorf("jsonrpc: failed to format notification: %w", err)
	}

	if err := c.transport.Send(ctx, reqBytes); err != nil {
		return fmt.Errorf("jsonrpc: transport error during notify: %w", err)
	}

	return nil
}

// OnNotification registers a handler for a server notification method,
// replacing any previous handler.
func (c *Client) OnNotification(method string, handler func(params *json.RawMessage) error) {
	c.notiMu.Lock()
	defer c.notiMu.Unlock()
	c.notiHandlers[method] = handler
}

// Listen reads from the transport until the client closes or the
// transport fails, dispatching responses to pending calls and
// notifications to their handlers.
func (c *Client) Listen() error {
	c.wg.Add(1)
	defer c.wg.Done()

	for {
		select {
		case <-c.ctx.Done():
			c.cleanupPendingCalls()
			return c.ctx.Err()
		default:
		}

		payload, err := c.transport.Receive(c.ctx)
		if err != nil {
			c.cleanupPendingCalls()
			if c.ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
				return c.ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return io.EOF
			}
			return fmt.Errorf("jsonrpc: transport receive error: %w", err)
		}

		if len(payload) == 0 {
			continue
		}

		var msg IncomingMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			fmt.Fprintf(os.Stderr, "jsonrpc: dropping unparseable message: %v\n", err)
			continue
		}

		c.dispatch(&msg)
	}
}

func (c *Client) dispatch(msg *IncomingMessage) {
	switch {
	case msg.Method != "":
		// Server-initiated notification or request
		c.notiMu.Lock()
		handler, ok := c.notiHandlers[msg.Method]
		c.notiMu.Unlock()

		if !ok {
			return
		}
		go func(p *json.RawMessage) {
			if err := handler(p); err != nil {
				fmt.Fprintf(os.Stderr, "jsonrpc: notification handler for %q failed: %v\n", msg.Method, err)
			}
		}(msg.Params)

	case msg.ID != nil:
		if msg.Error == nil && msg.Result == nil {
			fmt.Fprintf(os.Stderr, "jsonrpc: response id %v has neither result nor error\n", msg.ID)
			return
		}

		c.pendingCallsMu.Lock()
		ch, ok := c.pendingCalls[normalizeID(msg.ID)]
		c.pendingCallsMu.Unlock()

		if !ok || ch == nil {
			fmt.Fprintf(os.Stderr, "jsonrpc: response for unknown id: %v\n", msg.ID)
			return
		}

		resp := &Response{
			JSONRPC: msg.JSONRPC,
			Result:  msg.Result,
			Error:   msg.Error,
			ID:      msg.ID,
		}
		select {
		case ch <- resp:
		case <-c.ctx.Done():
		}

	default:
		fmt.Fprintf(os.Stderr, "jsonrpc: ill-formed message with no method and no id\n")
	}
}

// JSON numbers decode as float64; pending calls are keyed by uint64.
func normalizeID(id any) any {
	switch v := id.(type) {
	case float64:
		return uint64(v)
	default:
		return v
	}
}

// Close stops the listener and unblocks every pending call.
func (c *Client) Close() error {
	c.cancel()
	c.wg.Wait()

	c.cleanupPendingCalls()

	if closer, ok := c.transport.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("jsonrpc: error closing transport: %w", err)
		}
	}
	return nil
}

// Unblock pending calls with a nil response so they fail fast instead of
// waiting out their contexts.
func (c *Client) cleanupPendingCalls() {
	c.pendingCallsMu.Lock()
	defer c.pendingCallsMu.Unlock()
	for id, ch := range c.pendingCalls {
		if ch != nil {
			select {
			case ch <- nil:
			default:
			}
			close(ch)
		}
		delete(c.pendingCalls, id)
	}
}
