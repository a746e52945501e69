// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// JSONRPCVersion is the JSON-RPC version used by LSP.
const JSONRPCVersion = "2.0"

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// Message is a decoded incoming JSON-RPC message.
//
// A request carries ID and Method; a notification carries Method only; a
// response to one of our own outgoing requests carries ID with Result or
// Error and no Method.
type Message struct {
	// JSONRPC is the protocol version, always "2.0".
	JSONRPC string `json:"jsonrpc"`

	// ID is the message identifier. The host may use numbers or strings,
	// so it is kept raw. Empty for notifications.
	ID json.RawMessage `json:"id,omitempty"`

	// Method is the method to invoke. Empty for responses.
	Method string `json:"method,omitempty"`

	// Params contains the method parameters.
	Params json.RawMessage `json:"params,omitempty"`

	// Result contains a response result.
	Result json.RawMessage `json:"result,omitempty"`

	// Error contains response error information.
	Error *RPCError `json:"error,omitempty"`
}

// IsNotification reports whether the message expects no response.
func (m *Message) IsNotification() bool {
	return len(m.ID) == 0 && m.Method != ""
}

// IsResponse reports whether the message answers one of our requests.
func (m *Message) IsResponse() bool {
	return m.Method == "" && len(m.ID) > 0
}

// =============================================================================
// CONNECTION
// =============================================================================

// Conn frames JSON-RPC messages over a reader/writer pair.
//
// Description:
//
//	Implements the LSP base protocol using Content-Length headers. The
//	server side reads host requests via Next and answers via Reply;
//	server-initiated requests (workspace/applyEdit) go through Request,
//	with responses correlated by ID and delivered while Next keeps
//	draining the stream.
//
// Thread Safety:
//
//	Next must be called from a single goroutine. Reply, Notify, and
//	Request are safe for concurrent use.
type Conn struct {
	reader    *bufio.Reader
	writer    io.Writer
	writeMu   sync.Mutex
	nextID    int64
	pending   map[int64]chan *Message
	pendingMu sync.Mutex
	closed    int32 // atomic: 1 if closed
}

// NewConn creates a connection over the given reader and writer.
//
// Inputs:
//
//	r - Reader carrying host messages (e.g., stdin)
//	w - Writer carrying server messages (e.g., stdout)
func NewConn(r io.Reader, w io.Writer) *Conn {
	return &Conn{
		reader:  bufio.NewReader(r),
		writer:  w,
		pending: make(map[int64]chan *Message),
	}
}

// Next reads the next request or notification from the host.
//
// Description:
//
//	Responses to server-initiated requests are dispatched internally to
//	the waiting Request call and never returned here, so the caller's
//	dispatch loop only ever sees host-initiated traffic.
//
// Outputs:
//
//	*Message - The next request or notification
//	error - io.EOF when the host closes the stream
//
// Thread Safety: Must be called from a single goroutine.
func (c *Conn) Next() (*Message, error) {
	for {
		if atomic.LoadInt32(&c.closed) == 1 {
			return nil, ErrConnClosed
		}

		body, err := c.readMessage()
		if err != nil {
			return nil, err
		}

		var msg Message
		if err := json.Unmarshal(body, &msg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConnClosed, err)
		}

		if msg.IsResponse() {
			c.deliver(&msg)
			continue
		}
		return &msg, nil
	}
}

// Reply sends a successful response for the given request ID.
//
// Thread Safety: Safe for concurrent use.
func (c *Conn) Reply(id json.RawMessage, result any) error {
	return c.writeMessage(map[string]any{
		"jsonrpc": JSONRPCVersion,
		"id":      id,
		"result":  result,
	})
}

// ReplyError sends an error response for the given request ID.
//
// Thread Safety: Safe for concurrent use.
func (c *Conn) ReplyError(id json.RawMessage, code int, message string) error {
	return c.writeMessage(map[string]any{
		"jsonrpc": JSONRPCVersion,
		"id":      id,
		"error": &RPCError{
			Code:    code,
			Message: message,
		},
	})
}

// Notify sends a notification to the host (no response expected).
//
// Thread Safety: Safe for concurrent use.
func (c *Conn) Notify(method string, params any) error {
	if atomic.LoadInt32(&c.closed) == 1 {
		return ErrConnClosed
	}
	return c.writeMessage(map[string]any{
		"jsonrpc": JSONRPCVersion,
		"method":  method,
		"params":  params,
	})
}

// Request sends a server-initiated request and waits for the response.
//
// Description:
//
//	Blocks until the host responds or the context is cancelled. The
//	response arrives through the Next loop, so a Request must never be
//	issued from the same goroutine that drives Next.
//
// Inputs:
//
//	ctx - Context for cancellation and timeout
//	method - The method to invoke (e.g., "workspace/applyEdit")
//	params - Method parameters (JSON-marshaled)
//
// Outputs:
//
//	json.RawMessage - The host's result
//	error - Non-nil if sending failed, ctx expired, or the host errored
//
// Thread Safety: Safe for concurrent use.
func (c *Conn) Request(ctx context.Context, method string, params any) (json.RawMessage, error) {
	if ctx == nil {
		return nil, fmt.Errorf("ctx must not be nil")
	}
	if atomic.LoadInt32(&c.closed) == 1 {
		return nil, ErrConnClosed
	}

	id := atomic.AddInt64(&c.nextID, 1)

	respCh := make(chan *Message, 1)
	c.pendingMu.Lock()
	c.pending[id] = respCh
	c.pendingMu.Unlock()

	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, id)
		c.pendingMu.Unlock()
	}()

	err := c.writeMessage(map[string]any{
		"jsonrpc": JSONRPCVersion,
		"id":      id,
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return nil, fmt.Errorf("write request: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case resp, ok := <-respCh:
		if !ok || resp == nil {
			return nil, ErrConnClosed
		}
		if resp.Error != nil {
			return nil, resp.Error
		}
		return resp.Result, nil
	}
}

// Close marks the connection as closed and cancels pending requests.
//
// Thread Safety: Safe for concurrent use.
func (c *Conn) Close() {
	atomic.StoreInt32(&c.closed, 1)

	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()
	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}

// deliver routes a response to the waiting Request call.
func (c *Conn) deliver(msg *Message) {
	var id int64
	if err := json.Unmarshal(msg.ID, &id); err != nil {
		return
	}

	c.pendingMu.Lock()
	ch, ok := c.pending[id]
	c.pendingMu.Unlock()

	if ok {
		select {
		case ch <- msg:
		default:
		}
	}
}

// writeMessage marshals and writes a message with Content-Length header.
func (c *Conn) writeMessage(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(data))
	if _, err := c.writer.Write([]byte(header)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := c.writer.Write(data); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	return nil
}

// readMessage reads a single framed message body.
func (c *Conn) readMessage() (json.RawMessage, error) {
	var contentLength int

	for {
		line, err := c.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)

		// Empty line marks end of headers
		if line == "" {
			break
		}

		if strings.HasPrefix(line, "Content-Length:") {
			lenStr := strings.TrimSpace(strings.TrimPrefix(line, "Content-Length:"))
			contentLength, err = strconv.Atoi(lenStr)
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length value %q: %w", lenStr, err)
			}
			if contentLength < 0 {
				return nil, fmt.Errorf("negative Content-Length: %d", contentLength)
			}
		}
		// Ignore other headers (Content-Type, etc.)
	}

	if contentLength == 0 {
		return nil, fmt.Errorf("missing or zero Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(c.reader, body); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return body, nil
}
