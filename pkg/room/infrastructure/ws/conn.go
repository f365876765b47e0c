package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Enough for SDP payloads.
	maxMessageSize = 64 * 1024

	// Outbound queue depth per connection.
	sendBuffer = 256
)

var errConnClosed = errors.New("connection closed")
var errSendBufferFull = errors.New("send buffer full, notification dropped")

// Conn wraps a websocket connection with the one-reader/one-writer
// discipline gorilla requires: all outbound traffic goes through a
// buffered channel drained by WritePump, reads stay on the caller's
// goroutine.
type Conn struct {
	ws   *websocket.Conn
	send chan interface{}
	done chan struct{}
	once sync.Once
}

func NewConn(ws *websocket.Conn) *Conn {
	ws.SetReadLimit(maxMessageSize)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	return &Conn{
		ws:   ws,
		send: make(chan interface{}, sendBuffer),
		done: make(chan struct{}),
	}
}

// Send queues an outbound notification. Best effort: when the peer's
// buffer is full or the connection is closing, the message is dropped and
// the returned error is purely diagnostic.
func (c *Conn) Send(v interface{}) error {
	select {
	case <-c.done:
		return errConnClosed
	default:
	}

	select {
	case c.send <- v:
		return nil
	default:
		return errSendBufferFull
	}
}

// ReadMessage blocks for the next client frame.
func (c *Conn) ReadMessage() ([]byte, error) {
	_, raw, err := c.ws.ReadMessage()
	return raw, err
}

// Close stops the write pump and tears the socket down. Safe to call more
// than once.
func (c *Conn) Close() {
	c.once.Do(func() {
		close(c.done)
	})
}

// WritePump pumps queued notifications onto the socket and keeps the
// connection alive with pings. Run in its own goroutine, one per
// connection; exits on Close or on the first failed write.
func (c *Conn) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case v := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteJSON(v); err != nil {
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
