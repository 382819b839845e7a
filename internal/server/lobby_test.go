package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLobby_FirstJoinIsLeader(t *testing.T) {
	lobby := NewLobby()

	first := lobby.Join()
	second := lobby.Join()

	assert.True(t, first.Leader)
	assert.False(t, second.Leader)
	assert.Equal(t, 2, lobby.Len())
}

func TestLobby_IndexesAreStableAndNeverReused(t *testing.T) {
	lobby := NewLobby()

	a := lobby.Join()
	b := lobby.Join()
	lobby.Leave(a.ID)
	c := lobby.Join()

	assert.Equal(t, 0, a.Index)
	assert.Equal(t, 1, b.Index)
	assert.Equal(t, 2, c.Index, "a departed session's index is not recycled")
}

// Why: A, B, C, D join in order and A leads; A leaves and
// the earliest remaining session is promoted.
func TestLobby_LeaderSuccession(t *testing.T) {
	lobby := NewLobby()

	a := lobby.Join()
	b := lobby.Join()
	lobby.Join()
	lobby.Join()

	require.True(t, a.Leader)
	require.True(t, lobby.Leave(a.ID))

	assert.True(t, b.Leader, "earliest remaining session becomes leader")
	assert.Equal(t, 3, lobby.Len())

	// Exactly one leader whenever the lobby is non-empty.
	leaders := 0
	for _, s := range lobby.Sessions() {
		if s.Leader {
			leaders++
		}
	}
	assert.Equal(t, 1, leaders)
}

func TestLobby_LeaveIsPureRemoval(t *testing.T) {
	lobby := NewLobby()

	a := lobby.Join()
	b := lobby.Join()
	require.True(t, lobby.Leave(a.ID))

	// No tombstones: the listing contains exactly the remaining session.
	sessions := lobby.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, b.ID, sessions[0].ID)

	assert.False(t, lobby.Leave(a.ID), "second leave of the same session is a no-op")
}

func TestLobby_SetName(t *testing.T) {
	lobby := NewLobby()
	s := lobby.Join()

	require.NoError(t, lobby.SetName(s.ID, "Alice"))
	assert.Equal(t, "Alice", lobby.Get(s.ID).Name)

	assert.ErrorIs(t, lobby.SetName("ghost", "Bob"), ErrSessionNotFound)
}

func TestLobby_NonLeaderLeaveKeepsLeader(t *testing.T) {
	lobby := NewLobby()
	a := lobby.Join()
	b := lobby.Join()

	require.True(t, lobby.Leave(b.ID))
	assert.True(t, a.Leader)
}
