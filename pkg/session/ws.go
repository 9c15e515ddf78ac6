package session

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// WebsocketDialer opens gorilla websocket connections as text channels.
type WebsocketDialer struct {
	HandshakeTimeout time.Duration
}

func NewWebsocketDialer() *WebsocketDialer {
	return &WebsocketDialer{HandshakeTimeout: 10 * time.Second}
}

func (d *WebsocketDialer) Dial(ctx context.Context, url string) (Channel, error) {
	dialer := websocket.Dialer{
		Proxy:            websocket.DefaultDialer.Proxy,
		HandshakeTimeout: d.HandshakeTimeout,
	}
	conn, resp, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, errors.Wrapf(err, "websocket dial %s (status %d)", url, resp.StatusCode)
		}
		return nil, errors.Wrapf(err, "websocket dial %s", url)
	}
	return &wsChannel{conn: conn}, nil
}

type wsChannel struct {
	conn *websocket.Conn
}

func (c *wsChannel) ReadMessage() (string, error) {
	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			return "", err
		}
		// binary frames are not part of the protocol; skip them
		if msgType != websocket.TextMessage {
			continue
		}
		return string(data), nil
	}
}

func (c *wsChannel) WriteMessage(text string) error {
	return c.conn.WriteMessage(websocket.TextMessage, []byte(text))
}

func (c *wsChannel) Close() error {
	return c.conn.Close()
}
