package engine

import (
	"testing"

	"github.com/wricardo/hexdiamond/game/board"
	"github.com/wricardo/hexdiamond/game/cards"
)

func TestEngine_EndTurnSwapsPlayers(t *testing.T) {
	engine := newTestEngine(t)
	engine.LandCards()

	if !engine.EndTurn() {
		t.Fatal("Expected EndTurn to succeed")
	}
	if engine.CurrentPlayer() != 2 || engine.Turn() != 2 {
		t.Errorf("Expected player 2 on turn 2, got %d/%d", engine.CurrentPlayer(), engine.Turn())
	}
	if engine.SelectedPiece() != "p2-1" {
		t.Errorf("Expected p2-1 auto-selected, got %q", engine.SelectedPiece())
	}

	state := engine.GetState()
	p1 := state.Cards[1]
	if len(p1.Hand) != 0 || len(p1.Pending) != 0 {
		t.Error("Expected player 1 hand discarded at end of turn")
	}
	if len(p1.Discard) != 3 {
		t.Errorf("Expected 3 discarded cards, got %d", len(p1.Discard))
	}
	if len(state.Cards[2].Pending) != 3 {
		t.Errorf("Expected player 2 to draw 3, got %d", len(state.Cards[2].Pending))
	}

	out := engine.Move("p1-1", at(1, 0))
	if out.Success || out.Reason != ReasonNotYourPiece {
		t.Errorf("Expected not_your_piece, got %+v", out)
	}
	if engine.SelectPiece("p1-1") {
		t.Error("Player 2 must not select player 1's piece")
	}

	engine.EndTurn()
	if engine.CurrentPlayer() != 1 || engine.Turn() != 3 {
		t.Errorf("Expected player 1 on turn 3, got %d/%d", engine.CurrentPlayer(), engine.Turn())
	}
}

func TestEngine_StartTurnDiscardsLeftovers(t *testing.T) {
	engine := newTestEngine(t)
	engine.LandCards()
	engine.StartTurn()

	state := engine.GetState()
	if len(state.Cards[1].Discard) != 3 {
		t.Errorf("Expected leftovers discarded, got %d", len(state.Cards[1].Discard))
	}
	if len(state.Cards[1].Pending) != 3 {
		t.Errorf("Expected a fresh draw of 3, got %d", len(state.Cards[1].Pending))
	}
}

func TestEngine_CardSelectionFiltersReach(t *testing.T) {
	engine := newTestEngine(t)
	state := engine.GetState()
	state.Cards[1].Pending = nil
	state.Cards[1].Hand = []cards.Card{
		{ID: "short", Terrain: board.Grass, Range: 1},
		{ID: "long", Terrain: board.Grass, Range: 2},
		{ID: "wet", Terrain: board.Water, Range: 1},
	}
	if err := engine.SetState(state); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}

	all := engine.Reachable("p1-1")
	if all.Len() != 3 {
		t.Fatalf("Expected 3 destinations, got %v", all.Keys())
	}
	e, _ := all.Lookup(at(1, 0))
	if e.CardID != "short" {
		t.Errorf("Expected first card in hand to win the tie, got %s", e.CardID)
	}
	e, _ = all.Lookup(at(0, 1))
	if e.CardID != "wet" {
		t.Errorf("Expected water hex tagged with water card, got %s", e.CardID)
	}
	terrains := engine.PlayableTerrains()
	if len(terrains) != 2 || terrains[0] != board.Grass || terrains[1] != board.Water {
		t.Errorf("Unexpected playable terrains %v", terrains)
	}

	if !engine.SelectCard("long") {
		t.Fatal("Expected card selection to succeed")
	}
	only := engine.Reachable("p1-1")
	if only.Has(at(0, 1)) {
		t.Error("Selected grass card must not reach water")
	}
	e, _ = only.Lookup(at(1, 0))
	if e.CardID != "long" {
		t.Errorf("Expected selected card to authorize, got %s", e.CardID)
	}

	out := engine.Move("p1-1", at(1, 0))
	if !out.Success || out.CardID != "long" {
		t.Fatalf("Expected move with selected card, got %+v", out)
	}
	if _, ok := engine.SelectedCard(); ok {
		t.Error("Spending the selected card clears the selection")
	}

	if engine.SelectCard("missing") {
		t.Error("Selecting a card not in hand must fail")
	}
}

func TestEngine_ReachCacheInvalidation(t *testing.T) {
	engine := newTestEngine(t)

	if !engine.Reachable("p1-1").Empty() {
		t.Fatal("Expected nothing before landing")
	}
	engine.LandCards()
	if engine.Reachable("p1-1").Empty() {
		t.Fatal("Landing must invalidate the cached result")
	}

	state := engine.GetState()
	state.Pieces[1].Pos = at(1, 0)
	engine.SetState(state)
	if !engine.Reachable("p1-1").Empty() {
		t.Error("Moving a blocker must invalidate the cached result")
	}
}

func TestEngine_LandSpecificCards(t *testing.T) {
	engine := newTestEngine(t)
	pending := engine.PendingCards(1)

	if n := engine.LandCards(pending[1].ID, "nope"); n != 1 {
		t.Fatalf("Expected one card to land, got %d", n)
	}
	hand := engine.Hand(1)
	if len(hand) != 1 || hand[0].ID != pending[1].ID {
		t.Errorf("Unexpected hand %+v", hand)
	}
	if len(engine.PendingCards(1)) != 2 {
		t.Error("Expected two cards still pending")
	}
}
