package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeFramesEventAndPayload(t *testing.T) {
	frame, err := Encode(EventUserTyping, UserTypingPayload{Username: "alice", IsTyping: true})
	require.NoError(t, err)

	assert.JSONEq(t, `{"event":"user-typing","payload":{"username":"alice","isTyping":true}}`, string(frame))
}

func TestEnvelopeIgnoresUnknownFields(t *testing.T) {
	var env Envelope
	err := json.Unmarshal([]byte(`{"event":"join","payload":{"username":"alice","extra":1},"junk":true}`), &env)
	require.NoError(t, err)
	assert.Equal(t, EventJoin, env.Event)

	var join JoinPayload
	require.NoError(t, json.Unmarshal(env.Payload, &join))
	assert.Equal(t, "alice", join.Username)
}
