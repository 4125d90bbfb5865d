// Package playertest provides an in-memory player.Connection for tests.
package playertest

import (
	"encoding/json"
	"io"
	"sync"

	"ctchen222/chess-room/pkg/proto"

	"github.com/gorilla/websocket"
)

// Conn records written frames and serves queued inbound frames.
type Conn struct {
	mu       sync.Mutex
	frames   [][]byte
	pings    int
	writeErr error

	inbound   chan []byte
	closeOnce sync.Once
	closed    chan struct{}
}

func NewConn() *Conn {
	return &Conn{
		inbound: make(chan []byte, 16),
		closed:  make(chan struct{}),
	}
}

// FailWrites makes every following write return err.
func (c *Conn) FailWrites(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeErr = err
}

func (c *Conn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writeErr != nil {
		return c.writeErr
	}
	if messageType == websocket.PingMessage {
		c.pings++
		return nil
	}
	c.frames = append(c.frames, append([]byte(nil), data...))
	return nil
}

// ReadMessage blocks until a frame is queued with Send or the connection is
// closed, in which case it returns io.EOF.
func (c *Conn) ReadMessage() (int, []byte, error) {
	select {
	case data := <-c.inbound:
		return websocket.TextMessage, data, nil
	case <-c.closed:
		return 0, nil, io.EOF
	}
}

func (c *Conn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

// Send queues an inbound frame.
func (c *Conn) Send(data []byte) {
	c.inbound <- data
}

// Messages decodes every frame written so far.
func (c *Conn) Messages() []proto.ServerToClientMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]proto.ServerToClientMessage, 0, len(c.frames))
	for _, f := range c.frames {
		var msg proto.ServerToClientMessage
		if err := json.Unmarshal(f, &msg); err == nil {
			out = append(out, msg)
		}
	}
	return out
}

// Types returns the type of every message written so far.
func (c *Conn) Types() []string {
	msgs := c.Messages()
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Type
	}
	return out
}

// Last returns the most recent message, or the zero message when none.
func (c *Conn) Last() proto.ServerToClientMessage {
	msgs := c.Messages()
	if len(msgs) == 0 {
		return proto.ServerToClientMessage{}
	}
	return msgs[len(msgs)-1]
}

// Pings returns how many pings were written.
func (c *Conn) Pings() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pings
}

// Clear forgets the frames written so far.
func (c *Conn) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}
