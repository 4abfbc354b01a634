// Package cards owns each player's movement cards: the deck they draw from,
// the hand they play from, the discard pile, and cards still landing in hand.
package cards

import (
	"fmt"

	"github.com/wricardo/hexdiamond/game/board"
)

// Card authorizes a move of up to Range steps across hexes of Terrain.
type Card struct {
	ID      string        `json:"id"`
	Terrain board.Terrain `json:"terrain"`
	Range   int           `json:"range"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s/%d", c.Terrain, c.Range)
}

// CardSpec describes Count copies of one card kind in a starting deck.
type CardSpec struct {
	Terrain board.Terrain `json:"terrain" yaml:"terrain"`
	Range   int           `json:"range" yaml:"range"`
	Count   int           `json:"count" yaml:"count"`
}

// DefaultDeck is the eight card starting multiset.
func DefaultDeck() []CardSpec {
	return []CardSpec{
		{Terrain: board.Grass, Range: 2, Count: 2},
		{Terrain: board.Grass, Range: 1, Count: 2},
		{Terrain: board.Sand, Range: 1, Count: 2},
		{Terrain: board.Water, Range: 1, Count: 2},
	}
}

// DeckSize returns the number of cards a spec produces.
func DeckSize(spec []CardSpec) int {
	n := 0
	for _, s := range spec {
		if s.Count > 0 {
			n += s.Count
		}
	}
	return n
}

// ValidateDeck checks that a deck spec can produce playable cards.
func ValidateDeck(spec []CardSpec) error {
	if DeckSize(spec) == 0 {
		return fmt.Errorf("deck must contain at least one card")
	}
	for i, s := range spec {
		if !s.Terrain.Enterable() {
			return fmt.Errorf("deck[%d]: terrain %q cannot be entered", i, s.Terrain)
		}
		if s.Range < 1 {
			return fmt.Errorf("deck[%d]: range must be at least 1, got %d", i, s.Range)
		}
		if s.Count < 0 {
			return fmt.Errorf("deck[%d]: count must not be negative, got %d", i, s.Count)
		}
	}
	return nil
}
