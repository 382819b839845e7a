package server

import "uno-server/internal/game"

// ============================================================================
// CLIENT PAYLOADS
// ============================================================================

type SetNamePayload struct {
	Username string `json:"username"`
}

type PlaceCardPayload struct {
	Card game.Card `json:"card"`
}

// ============================================================================
// SERVER PAYLOADS
// ============================================================================

type ErrorMessage struct {
	Message string `json:"message"`
}

// LobbyPlayer is one entry of the lobbyInfo listing.
type LobbyPlayer struct {
	Name   string `json:"name"`
	Index  int    `json:"index"`
	Leader bool   `json:"leader"`
	Turn   bool   `json:"turn"`
}

// PlayerView is the per-recipient projection of an in-game player. Deck is
// populated only for the recipient's own entry; everyone else is reduced to
// a hand size so no client ever sees another hand.
type PlayerView struct {
	Name     string      `json:"name"`
	Index    int         `json:"index"`
	Leader   bool        `json:"leader"`
	Turn     bool        `json:"turn"`
	Deck     []game.Card `json:"deck,omitempty"`
	DeckSize int         `json:"deckSize"`
}

// GameView is the startGame/gameUpdate payload, personalized per recipient.
type GameView struct {
	Players      []PlayerView `json:"players"`
	TopCard      game.Card    `json:"topCard"`
	Direction    int          `json:"direction"`
	DrawPileSize int          `json:"drawPileSize"`
	DiscardSize  int          `json:"discardSize"`
}
