package realtime

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// TokenFunc returns the bearer token presented during the handshake.
type TokenFunc func() string

// WebSocketDialer dials the server's real-time endpoint.
type WebSocketDialer struct {
	URL    string
	Token  TokenFunc
	Dialer *websocket.Dialer
}

// NewWebSocketDialer returns a dialer for url with the library's default handshake timeout.
func NewWebSocketDialer(url string, token TokenFunc) *WebSocketDialer {
	return &WebSocketDialer{URL: url, Token: token, Dialer: websocket.DefaultDialer}
}

// Dial implements Dialer.
func (d *WebSocketDialer) Dial(ctx context.Context) (Transport, error) {
	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	header := http.Header{}
	if d.Token != nil {
		if token := d.Token(); token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
	}

	conn, resp, err := dialer.DialContext(ctx, d.URL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", d.URL, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", d.URL, err)
	}
	return &wsTransport{conn: conn}, nil
}

// wsTransport serialises writes; gorilla connections allow one concurrent writer.
type wsTransport struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (t *wsTransport) Send(e Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return t.conn.WriteJSON(e)
}

func (t *wsTransport) Receive() (Event, error) {
	var e Event
	if err := t.conn.ReadJSON(&e); err != nil {
		return Event{}, err
	}
	return e, nil
}

func (t *wsTransport) Close() error {
	t.mu.Lock()
	_ = t.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
	t.mu.Unlock()
	return t.conn.Close()
}
