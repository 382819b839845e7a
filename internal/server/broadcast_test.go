package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uno-server/internal/game"
)

// Why: a naive full-state broadcast would leak every hand to every client;
// the view must expose the recipient's hand and only sizes for the rest.
func TestBuildGameView_RedactsOtherHands(t *testing.T) {
	s := newTestServer()
	sessions := joinN(s, 3)
	s.handleStartGame(sessions[0].ID, nil)
	require.NotNil(t, s.game)

	view := s.buildGameView(sessions[1].ID)

	require.Len(t, view.Players, 3)
	for _, pv := range view.Players {
		assert.Equal(t, game.HandSize, pv.DeckSize)
		if pv.Index == sessions[1].Index {
			assert.Len(t, pv.Deck, game.HandSize, "recipient sees their own hand")
		} else {
			assert.Empty(t, pv.Deck, "other hands are size-only")
		}
	}

	assert.Equal(t, 1, view.Direction)
	assert.Equal(t, game.DeckSize-3*game.HandSize-1, view.DrawPileSize)
	assert.Zero(t, view.DiscardSize)
}

func TestBuildGameView_RedactionSurvivesSerialization(t *testing.T) {
	// The deck key must vanish entirely for redacted entries, not encode
	// as an empty list the client could misread as an empty hand.
	s := newTestServer()
	sessions := joinN(s, 2)
	s.handleStartGame(sessions[0].ID, nil)
	require.NotNil(t, s.game)

	data, err := json.Marshal(s.buildGameView(sessions[0].ID))
	require.NoError(t, err)

	var decoded struct {
		Players []map[string]json.RawMessage `json:"players"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Players, 2)

	var withDeck int
	for _, p := range decoded.Players {
		if _, ok := p["deck"]; ok {
			withDeck++
		}
		assert.Contains(t, p, "deckSize")
	}
	assert.Equal(t, 1, withDeck)
}

func TestBuildLobbyInfo_ReflectsTurn(t *testing.T) {
	s := newTestServer()
	sessions := joinN(s, 3)

	listing := s.buildLobbyInfo()
	require.Len(t, listing, 3)
	assert.True(t, listing[0].Leader)
	for _, entry := range listing {
		assert.False(t, entry.Turn, "nobody holds a turn before the game starts")
	}

	s.handleStartGame(sessions[0].ID, nil)
	require.NotNil(t, s.game)

	turns := 0
	for _, entry := range s.buildLobbyInfo() {
		if entry.Turn {
			turns++
		}
	}
	assert.Equal(t, 1, turns)
}

func TestBroadcast_NoConnectionsIsSafe(t *testing.T) {
	// Broadcasting with no registered sockets must be a quiet no-op, not
	// a panic: disconnects can race ahead of the lobby update.
	s := newTestServer()
	sessions := joinN(s, 2)

	s.broadcastLobbyInfo()
	s.handleStartGame(sessions[0].ID, nil)
	s.broadcastGameState("gameUpdate")
}
