// Package game holds the authoritative rules for the Uno-style table: deck
// construction, dealing, turn order and special-card resolution. It is pure
// state machine; transport and broadcast live in internal/server.
package game

import (
	"errors"
	"math/rand"
)

var (
	ErrUnknownPlayer  = errors.New("UNKNOWN_PLAYER: player is not part of this game")
	ErrNotYourTurn    = errors.New("NOT_YOUR_TURN: wait for your turn")
	ErrCardMismatch   = errors.New("CARD_MISMATCH: card matches neither color nor rank of the top card")
	ErrCardNotInHand  = errors.New("CARD_NOT_IN_HAND: you do not hold that card")
	ErrNoPlayers      = errors.New("NO_PLAYERS: cannot start a game without players")
	ErrTooManyPlayers = errors.New("TOO_MANY_PLAYERS: not enough cards to deal every player a hand")
	ErrDrawPileEmpty  = errors.New("DRAW_PILE_EMPTY: no cards left to draw")
)

// HandSize is the number of cards dealt to each player at game start.
const HandSize = 7

// drawPenalty is how many cards a draw card forces on the next player.
// Draw-two and wild-draw-four both apply it, matching the behavior the
// reference clients were built against.
const drawPenalty = 4

// Player is the in-game view of a session. The roster is snapshotted at
// start; lobby changes after that do not reach it.
type Player struct {
	ID     string `json:"-"`
	Name   string `json:"name"`
	Index  int    `json:"index"`
	Leader bool   `json:"leader"`
	Turn   bool   `json:"turn"`
	Hand   []Card `json:"deck"`
}

// Game is one in-progress table. DrawPile is face down, Discard face up;
// TopCard is tracked separately from Discard so reshuffles never duplicate
// it. The multiset DrawPile+Discard+TopCard+hands is always the full deck.
type Game struct {
	Players   []*Player
	Direction int
	DrawPile  []Card
	Discard   []Card
	TopCard   Card
}

// New shuffles a fresh deck, deals HandSize cards to each player in roster
// order, flips the top card and grants a uniformly random player the first
// turn.
func New(players []*Player) (*Game, error) {
	if len(players) == 0 {
		return nil, ErrNoPlayers
	}
	// Dealing needs HandSize cards per player plus the flipped top card.
	if len(players)*HandSize+1 > DeckSize {
		return nil, ErrTooManyPlayers
	}

	deck := NewDeck()
	Shuffle(deck)

	for _, p := range players {
		p.Hand = append([]Card{}, deck[:HandSize]...)
		p.Turn = false
		deck = deck[HandSize:]
	}

	g := &Game{
		Players:   players,
		Direction: 1,
		TopCard:   deck[0],
		DrawPile:  append([]Card{}, deck[1:]...),
		Discard:   []Card{},
	}
	g.Players[rand.Intn(len(g.Players))].Turn = true

	return g, nil
}

// PlaceCard plays card from the player's hand onto the pile and resolves its
// effect. Legality is color OR rank matching the top card.
func (g *Game) PlaceCard(playerID string, card Card) error {
	idx := g.indexOf(playerID)
	if idx < 0 {
		return ErrUnknownPlayer
	}
	player := g.Players[idx]
	if !player.Turn {
		return ErrNotYourTurn
	}
	if !card.Matches(g.TopCard) {
		return ErrCardMismatch
	}

	handIdx := -1
	for i, held := range player.Hand {
		if held == card {
			handIdx = i
			break
		}
	}
	if handIdx < 0 {
		return ErrCardNotInHand
	}

	player.Hand = append(player.Hand[:handIdx], player.Hand[handIdx+1:]...)
	g.Discard = append(g.Discard, g.TopCard)
	g.TopCard = card

	// Effects decide how far the turn pointer moves. Skip and the draw
	// ranks jump 2 steps so the affected player loses their turn; reverse
	// flips direction and moves 1 step in the new direction.
	steps := 1
	switch card.Rank {
	case Reverse:
		g.Direction = -g.Direction
	case Skip:
		steps = 2
	case DrawTwo, WildDrawFour:
		victim := g.Players[g.wrap(idx+g.Direction)]
		victim.Hand = append(victim.Hand, g.draw(drawPenalty)...)
		steps = 2
	}

	player.Turn = false
	g.Players[g.wrap(idx+steps*g.Direction)].Turn = true

	return nil
}

// PullCard moves the front card of the draw pile into the player's hand. A
// card that cannot be played passes the turn; a playable one keeps it.
func (g *Game) PullCard(playerID string) error {
	idx := g.indexOf(playerID)
	if idx < 0 {
		return ErrUnknownPlayer
	}
	player := g.Players[idx]
	if !player.Turn {
		return ErrNotYourTurn
	}

	if len(g.DrawPile) == 0 {
		g.replenish()
	}
	if len(g.DrawPile) == 0 {
		// Every card is in a hand; nothing to pull.
		return ErrDrawPileEmpty
	}

	drawn := g.DrawPile[0]
	g.DrawPile = g.DrawPile[1:]
	player.Hand = append(player.Hand, drawn)

	if len(g.DrawPile) == 0 {
		g.replenish()
	}

	if !drawn.Matches(g.TopCard) {
		player.Turn = false
		g.Players[g.wrap(idx+g.Direction)].Turn = true
	}

	return nil
}

// RemovePlayer reconciles a departed session out of the game: the hand is
// folded into the discard pile so no card is lost, and a held turn passes on
// before the roster shrinks. Returns true when too few players remain and
// the table should fold back to the lobby.
func (g *Game) RemovePlayer(playerID string) (aborted bool) {
	idx := g.indexOf(playerID)
	if idx < 0 {
		return len(g.Players) < 2
	}
	player := g.Players[idx]

	if player.Turn && len(g.Players) > 1 {
		player.Turn = false
		g.Players[g.wrap(idx+g.Direction)].Turn = true
	}

	g.Discard = append(g.Discard, player.Hand...)
	player.Hand = nil
	g.Players = append(g.Players[:idx], g.Players[idx+1:]...)

	return len(g.Players) < 2
}

// CurrentIndex returns the roster index holding the turn, or -1 when the
// game is in a broken state.
func (g *Game) CurrentIndex() int {
	for i, p := range g.Players {
		if p.Turn {
			return i
		}
	}
	return -1
}

// draw takes up to n cards off the draw pile, replenishing from the discard
// first when fewer than n remain. A short draw after replenishment yields
// whatever is available.
func (g *Game) draw(n int) []Card {
	if len(g.DrawPile) < n {
		g.replenish()
	}
	if len(g.DrawPile) < n {
		n = len(g.DrawPile)
	}

	cards := append([]Card{}, g.DrawPile[:n]...)
	g.DrawPile = g.DrawPile[n:]
	return cards
}

// replenish shuffles the discard pile (the top card stays where it is) into
// the draw pile.
func (g *Game) replenish() {
	if len(g.Discard) == 0 {
		return
	}
	Shuffle(g.Discard)
	g.DrawPile = append(g.DrawPile, g.Discard...)
	g.Discard = []Card{}
}

func (g *Game) indexOf(playerID string) int {
	for i, p := range g.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// wrap normalizes a turn-pointer index into [0, len(players)) for any sign.
func (g *Game) wrap(i int) int {
	return WrapIndex(i, len(g.Players))
}

// WrapIndex is the turn-pointer arithmetic: ((i mod n) + n) mod n.
func WrapIndex(i, n int) int {
	return ((i % n) + n) % n
}
