// Package room holds the authoritative state of the chat room: the
// roster of active users and the message transcript.
package room

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// User is one joined connection. ID is the server-assigned connection
// identity; Username is client-supplied and not guaranteed unique
// across users.
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// Message is a single transcript entry. Immutable once appended.
type Message struct {
	Text      string    `json:"text"`
	User      string    `json:"user"`
	Timestamp time.Time `json:"timestamp"`
}

// Room is the shared store for the lifetime of the server process. A
// single mutex serializes every read and mutation, so concurrent
// sessions never observe a torn roster or transcript.
type Room struct {
	mu         sync.Mutex
	users      []User
	transcript []Message
	now        func() time.Time
}

// New returns an empty Room.
func New() *Room {
	return &Room{now: time.Now}
}

// AddUser registers username under the given connection identity. A
// repeated add for a live connection overwrites the username in place,
// keeping the original roster position; the last join wins.
func (r *Room) AddUser(id uuid.UUID, username string) User {
	r.mu.Lock()
	defer r.mu.Unlock()

	user := User{ID: id, Username: username}
	for i := range r.users {
		if r.users[i].ID == id {
			r.users[i] = user
			return user
		}
	}
	r.users = append(r.users, user)
	return user
}

// RemoveUser removes and returns the user for the given connection
// identity. The second return is false if no user ever joined under
// it, e.g. a disconnect before join.
func (r *Room) RemoveUser(id uuid.UUID) (User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return u, true
		}
	}
	return User{}, false
}

// FindUser looks up the user for a connection identity without
// mutating the roster.
func (r *Room) FindUser(id uuid.UUID) (User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

// ListUsers returns a snapshot of the roster in join order. The slice
// is a copy; callers cannot mutate room state through it, and it is
// never nil so it always encodes as a JSON array.
func (r *Room) ListUsers() []User {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]User, len(r.users))
	copy(users, r.users)
	return users
}

// AppendMessage stamps text with the current time and appends it to
// the transcript. Transcript order is the order calls reach this
// method, not client clock order.
func (r *Room) AppendMessage(username, text string) Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := Message{
		Text:      text,
		User:      username,
		Timestamp: r.now().UTC(),
	}
	r.transcript = append(r.transcript, msg)
	return msg
}

// Transcript returns a snapshot copy of the full message history in
// append order.
func (r *Room) Transcript() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	msgs := make([]Message, len(r.transcript))
	copy(msgs, r.transcript)
	return msgs
}
