// Package model defines the wire protocol shared by the hub, its
// clients, and tooling.
package model

import (
	"encoding/json"
	"fmt"
)

// Events sent by clients.
const (
	EventJoin   = "join"
	EventSend   = "send"
	EventTyping = "typing"
)

// Events broadcast by the server to every connected client, the
// originator included.
const (
	EventUserConnected    = "user-connected"
	EventUserDisconnected = "user-disconnected"
	EventActiveUsers      = "active-users"
	EventMessageHistory   = "message-history"
	EventMessageReceived  = "message-received"
	EventUserTyping       = "user-typing"
)

// Envelope frames every event on the wire as a JSON text message.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// JoinPayload declares the display name for a connection.
type JoinPayload struct {
	Username string `json:"username"`
}

// SendPayload submits one chat message.
type SendPayload struct {
	Text string `json:"text"`
}

// TypingPayload signals a typing-state change from a client.
type TypingPayload struct {
	IsTyping bool `json:"isTyping"`
}

// UserTypingPayload relays a typing-state change to every client.
type UserTypingPayload struct {
	Username string `json:"username"`
	IsTyping bool   `json:"isTyping"`
}

// Encode marshals payload and wraps it in an Envelope, returning the
// complete wire frame.
func Encode(event string, payload any) ([]byte, error) {
	p, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("could not encode %s payload to JSON: %w", event, err)
	}

	frame, err := json.Marshal(Envelope{Event: event, Payload: p})
	if err != nil {
		return nil, fmt.Errorf("could not encode %s envelope to JSON: %w", event, err)
	}
	return frame, nil
}
