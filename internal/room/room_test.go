package room

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUsersReflectsJoinOrder(t *testing.T) {
	rm := New()

	alice := rm.AddUser(uuid.New(), "alice")
	bob := rm.AddUser(uuid.New(), "bob")
	carol := rm.AddUser(uuid.New(), "carol")

	assert.Equal(t, []User{alice, bob, carol}, rm.ListUsers())
}

func TestAddUserOverwritesOnRejoin(t *testing.T) {
	rm := New()

	id := uuid.New()
	rm.AddUser(id, "alice")
	rm.AddUser(uuid.New(), "bob")

	// Re-joining under the same connection replaces the name without
	// growing the roster or losing the original position.
	updated := rm.AddUser(id, "alicia")

	users := rm.ListUsers()
	require.Len(t, users, 2)
	assert.Equal(t, updated, users[0])
	assert.Equal(t, "alicia", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
}

func TestDuplicateUsernamesStayDistinct(t *testing.T) {
	rm := New()

	first := rm.AddUser(uuid.New(), "alice")
	second := rm.AddUser(uuid.New(), "alice")

	users := rm.ListUsers()
	require.Len(t, users, 2)
	assert.NotEqual(t, users[0].ID, users[1].ID)
	assert.Equal(t, []User{first, second}, users)
}

func TestRemoveUser(t *testing.T) {
	rm := New()

	aliceID, bobID := uuid.New(), uuid.New()
	rm.AddUser(aliceID, "alice")
	bob := rm.AddUser(bobID, "bob")

	removed, ok := rm.RemoveUser(bobID)
	require.True(t, ok)
	assert.Equal(t, bob, removed)

	users := rm.ListUsers()
	require.Len(t, users, 1)
	assert.Equal(t, aliceID, users[0].ID)
}

func TestRemoveUserBeforeJoinIsNoop(t *testing.T) {
	rm := New()
	rm.AddUser(uuid.New(), "alice")

	_, ok := rm.RemoveUser(uuid.New())
	assert.False(t, ok)
	assert.Len(t, rm.ListUsers(), 1)
}

func TestFindUser(t *testing.T) {
	rm := New()

	id := uuid.New()
	alice := rm.AddUser(id, "alice")

	found, ok := rm.FindUser(id)
	require.True(t, ok)
	assert.Equal(t, alice, found)

	_, ok = rm.FindUser(uuid.New())
	assert.False(t, ok)

	// Lookup must not mutate.
	assert.Len(t, rm.ListUsers(), 1)
}

func TestTranscriptPreservesReceiptOrder(t *testing.T) {
	rm := New()

	// Fixed clock, stepping backwards: transcript order must follow
	// append order even when timestamps disagree.
	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	step := 0
	rm.now = func() time.Time {
		step++
		return base.Add(-time.Duration(step) * time.Minute)
	}

	rm.AppendMessage("alice", "first")
	rm.AppendMessage("bob", "second")
	rm.AppendMessage("alice", "third")

	transcript := rm.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, "first", transcript[0].Text)
	assert.Equal(t, "second", transcript[1].Text)
	assert.Equal(t, "third", transcript[2].Text)
	assert.Equal(t, "bob", transcript[1].User)
}

func TestAppendMessageStampsUTC(t *testing.T) {
	rm := New()

	before := time.Now().UTC()
	msg := rm.AppendMessage("alice", "hi")
	after := time.Now().UTC()

	assert.Equal(t, time.UTC, msg.Timestamp.Location())
	assert.False(t, msg.Timestamp.Before(before))
	assert.False(t, msg.Timestamp.After(after))
}

func TestSnapshotsAreIdempotentCopies(t *testing.T) {
	rm := New()

	rm.AddUser(uuid.New(), "alice")
	rm.AppendMessage("alice", "hi")

	assert.Equal(t, rm.ListUsers(), rm.ListUsers())
	assert.Equal(t, rm.Transcript(), rm.Transcript())

	// Mutating a snapshot must not leak back into the room.
	users := rm.ListUsers()
	users[0].Username = "mallory"
	assert.Equal(t, "alice", rm.ListUsers()[0].Username)

	transcript := rm.Transcript()
	transcript[0].Text = "tampered"
	assert.Equal(t, "hi", rm.Transcript()[0].Text)
}

func TestEmptySnapshotsAreNotNil(t *testing.T) {
	rm := New()

	// JSON encoding must yield [] rather than null for a fresh room.
	assert.NotNil(t, rm.ListUsers())
	assert.NotNil(t, rm.Transcript())
	assert.Empty(t, rm.ListUsers())
	assert.Empty(t, rm.Transcript())
}
