package game

import (
	"fmt"
	"math/rand"
)

// Color is the printed color of a card. Wild cards carry ColorWild
// permanently; there is no color selection step.
type Color string

const (
	Red    Color = "red"
	Blue   Color = "blue"
	Green  Color = "green"
	Yellow Color = "yellow"
	Wild   Color = "wild"
)

// Rank 0-9 are numerals, the rest are action cards.
type Rank int

const (
	Skip         Rank = 10
	Reverse      Rank = 11
	DrawTwo      Rank = 12
	WildCard     Rank = 13
	WildDrawFour Rank = 14
)

var rankString = map[Rank]string{
	Skip:         "Skip",
	Reverse:      "Reverse",
	DrawTwo:      "Draw Two",
	WildCard:     "Wild",
	WildDrawFour: "Wild Draw Four",
}

func (r Rank) String() string {
	if s, ok := rankString[r]; ok {
		return s
	}
	return fmt.Sprintf("%d", int(r))
}

// Card is a value; instances move between piles and hands by copy.
// The JSON field for rank is "type" to stay wire-compatible with clients.
type Card struct {
	Color Color `json:"color"`
	Rank  Rank  `json:"type"`
}

func (c Card) String() string {
	if c.Color == Wild {
		return c.Rank.String()
	}
	return fmt.Sprintf("%s %s", c.Color, c.Rank)
}

// Matches reports whether c is playable on top: same color or same rank.
func (c Card) Matches(top Card) bool {
	return c.Color == top.Color || c.Rank == top.Rank
}

// DeckSize is the fixed size of the full deck.
const DeckSize = 108

// NewDeck builds the full 108-card multiset: per color one 0, two each of
// 1-9, two skip, two reverse, two draw-two; plus four wild and four wild
// draw four.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	colors := []Color{Red, Blue, Green, Yellow}

	for _, color := range colors {
		deck = append(deck, Card{color, 0})
		for rank := Rank(1); rank <= DrawTwo; rank++ {
			deck = append(deck, Card{color, rank}, Card{color, rank})
		}
	}
	for i := 0; i < 4; i++ {
		deck = append(deck, Card{Wild, WildCard})
		deck = append(deck, Card{Wild, WildDrawFour})
	}

	return deck
}

// Shuffle permutes cards in place with Fisher-Yates.
func Shuffle(cards []Card) {
	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}
