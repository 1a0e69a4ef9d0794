// Package handler wires HTTP endpoints to the hub.
package handler

import (
	"log"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/johndosdos/chatrelay/internal/config"
	ws "github.com/johndosdos/chatrelay/internal/websocket"
)

// ServeWs handles the client's websocket connection upgrade. Each
// accepted connection gets a fresh identity and lives until the
// transport closes.
func ServeWs(h *ws.Hub, cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: cfg.OriginPatterns,
		})
		if err != nil {
			log.Printf("failed to upgrade connection: %v", err)
			return
		}

		id := uuid.New()
		log.Printf("new client connected: %s", id)

		// We'll register our new client to the central hub.
		c := ws.NewClient(conn, id, cfg.SendBuffer)
		reg := ws.Registration{
			Client: c,
			Done:   make(chan struct{}),
		}

		h.Register <- reg

		// Wait for registration to complete.
		<-reg.Done

		// We block on c.ReadPump() because the request context will be
		// cancelled as soon as we return from the handler.
		go c.WritePump(ctx)
		c.ReadPump(ctx)

		log.Printf("client disconnected: %s", id)
	}
}
