package http

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// outbox serializes writes to one connection through a single writer goroutine.
// Game callbacks and the read loop both send through it; sends after close are dropped.
type outbox struct {
	mu     sync.Mutex
	closed bool
	send   chan outboundMessage[any]
	done   chan struct{}
}

func newOutbox(conn *websocket.Conn, size int) *outbox {
	o := &outbox{
		send: make(chan outboundMessage[any], size),
		done: make(chan struct{}),
	}
	go func() {
		defer close(o.done)
		for msg := range o.send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()
	return o
}

// Send queues msg. It reports false once the outbox is closed or the writer has stopped.
func (o *outbox) Send(msgType string, payload any) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return false
	}
	select {
	case o.send <- outboundMessage[any]{Type: msgType, Payload: payload}:
		return true
	case <-o.done:
		return false
	}
}

func (o *outbox) Error(err error) {
	o.Send("error", errorPayload{Message: err.Error()})
}

// Close stops accepting messages and waits for the writer to flush.
func (o *outbox) Close() {
	o.mu.Lock()
	if !o.closed {
		o.closed = true
		close(o.send)
	}
	o.mu.Unlock()
	<-o.done
}
