package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"uno-server/internal/game"
)

// ErrInvalidCommand covers every recoverable parse failure: unknown name,
// malformed JSON, payload that fails schema validation. The connection stays
// open and no state changes.
var ErrInvalidCommand = errors.New("INVALID_COMMAND: unrecognized or malformed command")

// errDisconnectRequest marks the two sentinel payloads (empty text and the
// literal |quit|) that mean the client wants out rather than a command.
var errDisconnectRequest = errors.New("client requested disconnect")

const quitSentinel = "|quit|"

// CommandKind enumerates the closed command set.
type CommandKind int

const (
	CmdSetName CommandKind = iota
	CmdStartGame
	CmdPlaceCard
	CmdPullCard
)

// Command is a validated client command; exactly the fields for its kind are
// populated.
type Command struct {
	Kind     CommandKind
	Username string    // CmdSetName
	Card     game.Card // CmdPlaceCard
}

// ParseCommand turns a decoded text payload into a Command or reports why it
// can't. Every returned error except errDisconnectRequest wraps
// ErrInvalidCommand.
func ParseCommand(raw string) (Command, error) {
	if raw == "" || raw == quitSentinel {
		return Command{}, errDisconnectRequest
	}

	var msg ClientMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}

	switch msg.Name {
	case "setName":
		var payload SetNamePayload
		if err := json.Unmarshal(msg.Send, &payload); err != nil {
			return Command{}, fmt.Errorf("%w: bad setName payload: %v", ErrInvalidCommand, err)
		}
		if payload.Username == "" {
			return Command{}, fmt.Errorf("%w: empty username", ErrInvalidCommand)
		}
		return Command{Kind: CmdSetName, Username: payload.Username}, nil

	case "startGame":
		return Command{Kind: CmdStartGame}, nil

	case "placeCard":
		var payload PlaceCardPayload
		if err := json.Unmarshal(msg.Send, &payload); err != nil {
			return Command{}, fmt.Errorf("%w: bad placeCard payload: %v", ErrInvalidCommand, err)
		}
		if err := validateCard(payload.Card); err != nil {
			return Command{}, err
		}
		return Command{Kind: CmdPlaceCard, Card: payload.Card}, nil

	case "pullCard":
		return Command{Kind: CmdPullCard}, nil

	default:
		return Command{}, fmt.Errorf("%w: unknown name %q", ErrInvalidCommand, msg.Name)
	}
}

func validateCard(card game.Card) error {
	switch card.Color {
	case game.Red, game.Blue, game.Green, game.Yellow, game.Wild:
	default:
		return fmt.Errorf("%w: unknown color %q", ErrInvalidCommand, card.Color)
	}
	if card.Rank < 0 || card.Rank > game.WildDrawFour {
		return fmt.Errorf("%w: rank %d out of range", ErrInvalidCommand, card.Rank)
	}
	return nil
}
