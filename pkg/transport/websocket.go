package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/gorilla/websocket"
)

// Subprotocol is the WebSocket subprotocol of XMPP over WebSocket (RFC 7395)
const Subprotocol = "xmpp"

// WebSocketConn carries stanzas over an XMPP WebSocket connection, one
// stanza per text message. Stream framing (<open/>, <close/>) is left to
// the stream owner.
type WebSocketConn struct {
	mu           sync.Mutex
	conn         *websocket.Conn
	settings     etree.WriteSettings
	writeTimeout time.Duration
	closed       bool
}

// DialWebSocket connects to an XMPP WebSocket endpoint
func DialWebSocket(ctx context.Context, url string, header http.Header) (*WebSocketConn, error) {
	dialer := &websocket.Dialer{
		HandshakeTimeout: 45 * time.Second,
		Subprotocols:     []string{Subprotocol},
	}
	conn, _, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	return NewWebSocketConn(conn), nil
}

// NewWebSocketConn wraps an established connection
func NewWebSocketConn(conn *websocket.Conn) *WebSocketConn {
	return &WebSocketConn{
		conn:         conn,
		settings:     etree.WriteSettings{CanonicalText: true, CanonicalAttrVal: true},
		writeTimeout: 10 * time.Second,
	}
}

// SetWriteTimeout bounds each Send. Zero disables the deadline.
func (c *WebSocketConn) SetWriteTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeTimeout = d
}

// Send writes el as one text message
func (c *WebSocketConn) Send(el *etree.Element) error {
	doc := etree.NewDocument()
	doc.WriteSettings = c.settings
	doc.SetRoot(el.Copy())
	data, err := doc.WriteToBytes()
	if err != nil {
		return fmt.Errorf("serializing stanza: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return fmt.Errorf("setting write deadline: %w", err)
		}
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("writing stanza: %w", err)
	}
	return nil
}

// ReadLoop reads messages until the connection ends, passing each parsed
// stanza to handle. Binary and unparseable messages are skipped. It
// returns nil when the peer closes the connection normally or Close was
// called.
func (c *WebSocketConn) ReadLoop(handle func(el *etree.Element)) error {
	for {
		typ, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || c.isClosed() {
				return nil
			}
			return fmt.Errorf("reading stanza: %w", err)
		}
		if typ != websocket.TextMessage {
			continue
		}
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(data); err != nil || doc.Root() == nil {
			continue
		}
		handle(doc.Root())
	}
}

// Close sends a close frame and closes the connection
func (c *WebSocketConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	werr := c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	cerr := c.conn.Close()
	if werr != nil && !errors.Is(werr, websocket.ErrCloseSent) {
		return errors.Join(werr, cerr)
	}
	return cerr
}

func (c *WebSocketConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
