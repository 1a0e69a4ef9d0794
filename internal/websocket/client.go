package websocket

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/johndosdos/chatrelay/internal/model"
)

// Client is one live connection. ID is the connection identity the
// room keys users by; Events carries encoded frames from the hub to
// the write pump.
type Client struct {
	ID     uuid.UUID
	conn   *websocket.Conn
	Hub    *Hub
	Events chan []byte
}

// NewClient returns a new instance of Client.
func NewClient(conn *websocket.Conn, id uuid.UUID, sendBuffer int) *Client {
	return &Client{
		ID:     id,
		conn:   conn,
		Events: make(chan []byte, sendBuffer),
	}
}

// ReadPump decodes frames off the websocket and hands them to the hub
// until the connection closes, then unregisters the client.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.Hub.Unregister <- c
		c.conn.CloseNow()
	}()

	for {
		msgType, p, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure &&
				status != websocket.StatusGoingAway &&
				status != -1 {
				log.Printf("%v", err)
			}
			return
		}

		// The protocol only carries JSON text frames.
		if msgType != websocket.MessageText {
			continue
		}

		var envelope model.Envelope
		if err := json.Unmarshal(p, &envelope); err != nil {
			log.Printf("failed to process payload from client %s: %v", c.ID, err)
			continue
		}

		c.Hub.Inbound <- Inbound{Client: c, Envelope: envelope}
	}
}

// WritePump drains the outbound channel onto the websocket. It owns
// the connection's write side and returns when the hub closes the
// channel or the context is cancelled.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case frame, ok := <-c.Events:
			// The hub closes Events on unregister; stop processing once
			// that happens.
			if !ok {
				c.conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err := c.conn.Write(writeCtx, websocket.MessageText, frame)
			cancel()
			if err != nil {
				slog.WarnContext(ctx, "failed to write frame",
					"error", err,
					"client_id", c.ID.String())
				continue
			}

		case <-ctx.Done():
			c.conn.Close(websocket.StatusGoingAway, "context cancelled")
			return
		}
	}
}
