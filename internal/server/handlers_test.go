package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uno-server/internal/game"
)

// newTestServer builds a server with no listener; handlers are exercised
// directly. Sessions without registered connections are simply skipped by
// the dispatcher, so no sockets are needed.
func newTestServer() *Server {
	return &Server{
		connections: NewConnectionManager(),
		lobby:       NewLobby(),
	}
}

func joinN(s *Server, n int) []*Session {
	sessions := make([]*Session, n)
	for i := range sessions {
		sessions[i] = s.lobby.Join()
	}
	return sessions
}

func TestHandleStartGame_LeaderStarts(t *testing.T) {
	s := newTestServer()
	sessions := joinN(s, 4)

	s.handleStartGame(sessions[0].ID, nil)

	require.NotNil(t, s.game)
	assert.Len(t, s.game.Players, 4)
	for _, p := range s.game.Players {
		assert.Len(t, p.Hand, game.HandSize)
	}
}

func TestHandleStartGame_OversizedLobbyRejected(t *testing.T) {
	// Why: a lobby too big to deal must answer with an error, not take the
	// whole process down from inside a connection goroutine.
	s := newTestServer()
	sessions := joinN(s, 16)

	s.handleStartGame(sessions[0].ID, nil)

	assert.Nil(t, s.game, "start must be refused when the deck cannot cover every hand")
	assert.Equal(t, 16, s.lobby.Len())
}

func TestHandleStartGame_NonLeaderRejected(t *testing.T) {
	s := newTestServer()
	sessions := joinN(s, 2)

	s.handleStartGame(sessions[1].ID, nil)

	assert.Nil(t, s.game, "non-leader must not start a game")
}

func TestHandlePlaceCard_BeforeStart(t *testing.T) {
	s := newTestServer()
	sessions := joinN(s, 2)

	// No game yet: rejected without panicking or mutating anything.
	s.handlePlaceCard(sessions[0].ID, nil, game.Card{Color: game.Red, Rank: 5})
	assert.Nil(t, s.game)
}

func TestHandleSetName_WhileInGame(t *testing.T) {
	s := newTestServer()
	sessions := joinN(s, 2)
	s.handleStartGame(sessions[0].ID, nil)
	require.NotNil(t, s.game)

	startedName := s.game.Players[0].Name
	s.handleSetName(sessions[0].ID, "Renamed")

	// Lobby listing updates; the in-game roster keeps its snapshot.
	assert.Equal(t, "Renamed", s.lobby.Get(sessions[0].ID).Name)
	assert.Equal(t, startedName, s.game.Players[0].Name)
}

func TestHandleLeave_MidGameFoldsPlayer(t *testing.T) {
	s := newTestServer()
	sessions := joinN(s, 3)
	s.handleStartGame(sessions[0].ID, nil)
	require.NotNil(t, s.game)

	s.handleLeave(sessions[1].ID)

	require.NotNil(t, s.game, "3-player table survives one departure")
	assert.Len(t, s.game.Players, 2)
	assert.Equal(t, 2, s.lobby.Len())
}

func TestHandleLeave_AbortsToLobbyBelowTwo(t *testing.T) {
	s := newTestServer()
	sessions := joinN(s, 2)
	s.handleStartGame(sessions[0].ID, nil)
	require.NotNil(t, s.game)

	s.handleLeave(sessions[1].ID)

	assert.Nil(t, s.game, "table folds back to the lobby")
	assert.Equal(t, 1, s.lobby.Len())
}

func TestHandleLeave_UnknownSession(t *testing.T) {
	s := newTestServer()
	joinN(s, 2)

	s.handleLeave("ghost")
	assert.Equal(t, 2, s.lobby.Len())
}
