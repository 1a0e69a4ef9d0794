package websocket

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/johndosdos/chatrelay/internal/model"
	"github.com/johndosdos/chatrelay/internal/room"
)

type sanitizer interface {
	Sanitize(s string) string
	SanitizeBytes(p []byte) []byte
}

// Registration pairs a new client with a done signal so the caller
// knows the hub has taken ownership before starting the pumps.
type Registration struct {
	Client *Client
	Done   chan struct{}
}

// Inbound is one decoded wire event tagged with the client that sent
// it.
type Inbound struct {
	Client   *Client
	Envelope model.Envelope
}

// Hub owns the set of connected clients and applies every inbound
// event against the room. All events funnel through the single Run
// goroutine, so the order they are received there fixes the global
// roster and transcript order.
type Hub struct {
	room       *room.Room
	clients    map[uuid.UUID]*Client
	Register   chan Registration
	Unregister chan *Client
	Inbound    chan Inbound
	sanitizer  sanitizer
}

// NewHub returns a new instance of Hub backed by rm.
func NewHub(rm *room.Room) *Hub {
	return &Hub{
		room:       rm,
		clients:    make(map[uuid.UUID]*Client),
		Register:   make(chan Registration),
		Unregister: make(chan *Client),
		Inbound:    make(chan Inbound, 1024),
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

// Run manages incoming and outgoing hub traffic until ctx is
// cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case reg := <-h.Register:
			client := reg.Client
			h.clients[client.ID] = client
			client.Hub = h
			close(reg.Done)

		case client := <-h.Unregister:
			if _, ok := h.clients[client.ID]; !ok {
				continue
			}
			delete(h.clients, client.ID)
			close(client.Events)

			if user, removed := h.room.RemoveUser(client.ID); removed {
				h.broadcast(model.EventUserDisconnected, user)
				h.broadcast(model.EventActiveUsers, h.room.ListUsers())
			}

		case in := <-h.Inbound:
			h.dispatch(in)

		case <-ctx.Done():
			log.Printf("context cancelled: %v", ctx.Err())
			return
		}
	}
}

// dispatch applies one client event. A panic while handling a single
// event must not take the loop down for every other connection, so it
// is recovered per event.
func (h *Hub) dispatch(in Inbound) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("recovered while handling %q from client %s: %v",
				in.Envelope.Event, in.Client.ID, rec)
		}
	}()

	switch in.Envelope.Event {
	case model.EventJoin:
		h.handleJoin(in)
	case model.EventSend:
		h.handleSend(in)
	case model.EventTyping:
		h.handleTyping(in)
	default:
		log.Printf("dropping unknown event %q from client %s", in.Envelope.Event, in.Client.ID)
	}
}

func (h *Hub) handleJoin(in Inbound) {
	var payload model.JoinPayload
	if err := json.Unmarshal(in.Envelope.Payload, &payload); err != nil {
		log.Printf("failed to process join payload from client %s: %v", in.Client.ID, err)
		return
	}

	// Client-supplied names go straight back out to every browser, so
	// strip markup before they touch the roster.
	username := strings.TrimSpace(h.sanitizer.Sanitize(payload.Username))
	if username == "" {
		return
	}

	// A second join from the same connection lands here again and
	// overwrites the earlier name. The full roster and history are
	// rebroadcast on every join so a late joiner never misses prior
	// state.
	user := h.room.AddUser(in.Client.ID, username)

	h.broadcast(model.EventUserConnected, user)
	h.broadcast(model.EventActiveUsers, h.room.ListUsers())
	h.broadcast(model.EventMessageHistory, h.room.Transcript())
}

func (h *Hub) handleSend(in Inbound) {
	user, joined := h.room.FindUser(in.Client.ID)
	if !joined {
		return
	}

	var payload model.SendPayload
	if err := json.Unmarshal(in.Envelope.Payload, &payload); err != nil {
		log.Printf("failed to process send payload from client %s: %v", in.Client.ID, err)
		return
	}

	text := h.sanitizer.Sanitize(payload.Text)
	if strings.TrimSpace(text) == "" {
		return
	}

	msg := h.room.AppendMessage(user.Username, text)
	h.broadcast(model.EventMessageReceived, msg)
}

func (h *Hub) handleTyping(in Inbound) {
	user, joined := h.room.FindUser(in.Client.ID)
	if !joined {
		return
	}

	var payload model.TypingPayload
	if err := json.Unmarshal(in.Envelope.Payload, &payload); err != nil {
		log.Printf("failed to process typing payload from client %s: %v", in.Client.ID, err)
		return
	}

	// Typing state is relayed, never stored. New joiners start with a
	// clean typing view.
	h.broadcast(model.EventUserTyping, model.UserTypingPayload{
		Username: user.Username,
		IsTyping: payload.IsTyping,
	})
}

// broadcast fans one event out to every connected client, the sender
// included. Sends are non-blocking: a client whose buffer is full
// misses this event instead of stalling everyone else.
func (h *Hub) broadcast(event string, payload any) {
	frame, err := model.Encode(event, payload)
	if err != nil {
		log.Printf("failed to encode %s broadcast: %v", event, err)
		return
	}

	for _, client := range h.clients {
		select {
		case client.Events <- frame:
		default:
			log.Printf("skipping %s for client %s - channel full or client slow", event, client.ID)
		}
	}
}
