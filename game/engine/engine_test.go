package engine

import (
	"testing"

	"github.com/wricardo/hexdiamond/game/board"
	"github.com/wricardo/hexdiamond/game/cards"
	"github.com/wricardo/hexdiamond/game/hexgrid"
)

func at(q, r int) hexgrid.Coord { return hexgrid.Coord{Q: q, R: r} }

// createTestConfig builds a strip map:
//
//	row 0: p1 (0,0) grass (1,0) grass (2,0) diamond (3,0)
//	row 1: water from (0,1) to (3,1)
//	row 2: grass (-1,2) (0,2) (1,2) and p2 on (2,2)
//
// Every card is grass/2 so draws are predictable.
func createTestConfig() *GameConfig {
	return &GameConfig{
		Name:        "Engine Test Config",
		Description: "Configuration for engine integration tests",
		Layout: []string{
			"1ggD",
			"wwww",
			"ggg2",
		},
		Legend: map[string]board.LegendEntry{
			"g": {Tex: "grass_01"},
			"w": {Tex: "water_01"},
			"D": {Tex: "diamond"},
			"1": {Tex: "grass_01", Spawn: 1},
			"2": {Tex: "grass_01", Spawn: 2},
		},
		Players:  2,
		HandSize: 3,
		Deck:     []cards.CardSpec{{Terrain: board.Grass, Range: 2, Count: 6}},
		Rules:    Rules{DiamondWildcard: true},
		Seed:     7,
	}
}

func newTestEngine(t *testing.T) *GameEngine {
	t.Helper()
	engine, err := NewEngine(createTestConfig())
	if err != nil {
		t.Fatalf("Failed to create new engine: %v", err)
	}
	return engine
}

func TestNewEngine(t *testing.T) {
	engine := newTestEngine(t)

	if engine.CurrentPlayer() != 1 {
		t.Errorf("Expected player 1 to start, got %d", engine.CurrentPlayer())
	}
	if engine.Turn() != 1 {
		t.Errorf("Expected turn 1, got %d", engine.Turn())
	}
	if engine.IsWon() {
		t.Error("Expected game not to be won initially")
	}
	if engine.SelectedPiece() != "p1-1" {
		t.Errorf("Expected first piece to be auto-selected, got %q", engine.SelectedPiece())
	}
	if engine.Phase() != PhaseAwaitingDestination {
		t.Errorf("Expected phase %s, got %s", PhaseAwaitingDestination, engine.Phase())
	}

	pieces := engine.Pieces()
	if len(pieces) != 2 {
		t.Fatalf("Expected 2 pieces, got %d", len(pieces))
	}
	if pieces[0].Pos != at(0, 0) || pieces[1].Pos != at(2, 2) {
		t.Errorf("Unexpected spawn positions: %+v", pieces)
	}

	// Drawn cards wait in pending until they land
	if got := len(engine.PendingCards(1)); got != 3 {
		t.Errorf("Expected 3 pending cards, got %d", got)
	}
	if !engine.HandEmpty() {
		t.Error("Expected hand to be empty before cards land")
	}
	if !engine.Reachable("p1-1").Empty() {
		t.Error("Pending cards must not authorize movement")
	}
	if engine.HasAnyMoves() {
		t.Error("Expected no moves before cards land")
	}
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	config := createTestConfig()
	config.Name = ""
	if _, err := NewEngine(config); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestNewEngineWithDefaults(t *testing.T) {
	engine := NewEngineWithDefaults()
	if engine.GetConfig().Name != "Default" {
		t.Errorf("Expected default config, got %q", engine.GetConfig().Name)
	}
	if engine.Board().Count(board.Diamond) != 1 {
		t.Error("Expected default map to contain a diamond")
	}
	if len(engine.Pieces()) != 2 {
		t.Errorf("Expected 2 pieces, got %d", len(engine.Pieces()))
	}
}

func TestEngine_LandAndReach(t *testing.T) {
	engine := newTestEngine(t)

	if n := engine.LandCards(); n != 3 {
		t.Fatalf("Expected 3 cards to land, got %d", n)
	}
	if engine.HandEmpty() {
		t.Fatal("Expected cards in hand after landing")
	}

	res := engine.Reachable("p1-1")
	if res.Len() != 2 || !res.Has(at(1, 0)) || !res.Has(at(2, 0)) {
		t.Fatalf("Expected (1,0) and (2,0) reachable, got %v", res.Keys())
	}
	if res.Has(at(3, 0)) {
		t.Error("Diamond is three steps away and must not be reachable with range 2")
	}
	if !engine.HasAnyMoves() {
		t.Error("Expected moves after landing")
	}

	// Another player's piece reaches nothing
	if !engine.Reachable("p2-1").Empty() {
		t.Error("Expected no reach for the inactive player's piece")
	}
}

func TestEngine_MoveAndVictory(t *testing.T) {
	engine := newTestEngine(t)
	engine.LandCards()

	t.Run("invalid destination is a no-op", func(t *testing.T) {
		before := engine.GetState()
		out := engine.Move("p1-1", at(3, 0))
		if out.Success || out.Reason != ReasonInvalidDestination {
			t.Fatalf("Expected invalid destination failure, got %+v", out)
		}
		after := engine.GetState()
		if after.Pieces[0].Pos != before.Pieces[0].Pos {
			t.Error("Piece moved on failed move")
		}
		if len(after.Cards[1].Hand) != len(before.Cards[1].Hand) {
			t.Error("Hand changed on failed move")
		}
		if after.TotalMoves != 0 {
			t.Error("Failed move must not be recorded")
		}
	})

	t.Run("move spends the authorizing card", func(t *testing.T) {
		entry, _ := engine.Reachable("p1-1").Lookup(at(2, 0))
		out := engine.Move("p1-1", at(2, 0))
		if !out.Success {
			t.Fatalf("Expected move to succeed, got %+v", out)
		}
		if out.CardID != entry.CardID {
			t.Errorf("Expected card %s to be spent, got %s", entry.CardID, out.CardID)
		}
		if len(out.Path) != 3 || out.Path[0] != at(0, 0) || out.Path[2] != at(2, 0) {
			t.Errorf("Unexpected path %v", out.Path)
		}
		if out.Victory || out.HandEmpty {
			t.Errorf("Unexpected outcome flags %+v", out)
		}
		if got := len(engine.Hand(1)); got != 2 {
			t.Errorf("Expected 2 cards left, got %d", got)
		}
		p, _ := engine.Piece("p1-1")
		if p.Pos != at(2, 0) {
			t.Errorf("Expected piece at (2,0), got %v", p.Pos)
		}
		if engine.Phase() != PhaseAwaitingSelection {
			t.Errorf("Expected phase %s, got %s", PhaseAwaitingSelection, engine.Phase())
		}
		last := engine.GetLastMove()
		if last == nil || last.CardID != entry.CardID || last.MoveNumber != 1 {
			t.Errorf("Unexpected history entry %+v", last)
		}
	})

	t.Run("reaching the diamond wins", func(t *testing.T) {
		res := engine.Reachable("p1-1")
		if !res.Has(at(3, 0)) {
			t.Fatalf("Expected diamond reachable, got %v", res.Keys())
		}
		if !res.Has(at(0, 0)) {
			t.Error("Expected the vacated spawn to be reachable again")
		}
		out := engine.Move("p1-1", at(3, 0))
		if !out.Success || !out.Victory || out.Winner != 1 {
			t.Fatalf("Expected victory, got %+v", out)
		}
		if engine.Phase() != PhaseWon || engine.Winner() != 1 {
			t.Errorf("Expected won phase for player 1, got %s/%d", engine.Phase(), engine.Winner())
		}
	})

	t.Run("won game freezes", func(t *testing.T) {
		out := engine.Move("p1-1", at(2, 0))
		if out.Success || out.Reason != ReasonGameWon {
			t.Errorf("Expected game_won failure, got %+v", out)
		}
		out = engine.ApplyMove("p1-1", []hexgrid.Coord{at(3, 0), at(2, 0)}, engine.Hand(1)[0].ID)
		if out.Success {
			t.Error("ApplyMove must fail once the game is won")
		}
		if p, _ := engine.Piece("p1-1"); p.Pos != at(3, 0) {
			t.Errorf("Piece moved after victory: %v", p.Pos)
		}
		if engine.EndTurn() {
			t.Error("EndTurn must be refused after victory")
		}
		if engine.SelectPiece("p1-1") || engine.SelectCard("") {
			t.Error("Selections must be refused after victory")
		}
		if !engine.Reachable("p1-1").Empty() || engine.HasAnyMoves() {
			t.Error("Nothing is reachable after victory")
		}
	})

	t.Run("reset restarts and keeps history", func(t *testing.T) {
		state := engine.Reset()
		if state.Winner != 0 || engine.IsWon() {
			t.Error("Expected winner cleared by reset")
		}
		if state.Pieces[0].Pos != at(0, 0) {
			t.Errorf("Expected piece back at spawn, got %v", state.Pieces[0].Pos)
		}
		if state.TotalMoves != 2 || len(state.MoveHistory) != 2 {
			t.Errorf("Expected cumulative history of 2, got %d/%d", state.TotalMoves, len(state.MoveHistory))
		}
		if state.CurrentMovesCount != 0 || len(state.CurrentMoves) != 0 {
			t.Error("Expected current segment cleared")
		}
		if state.CurrentPlayer != 1 || state.Turn != 1 {
			t.Errorf("Expected player 1 turn 1, got %d/%d", state.CurrentPlayer, state.Turn)
		}
	})
}

func TestEngine_HandEmptyReported(t *testing.T) {
	engine := newTestEngine(t)
	state := engine.GetState()
	state.Cards[1].Hand = []cards.Card{{ID: "only", Terrain: board.Grass, Range: 1}}
	state.Cards[1].Pending = nil
	if err := engine.SetState(state); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}

	out := engine.Move("p1-1", at(1, 0))
	if !out.Success || !out.HandEmpty {
		t.Fatalf("Expected success with empty hand, got %+v", out)
	}
	if engine.HasAnyMoves() {
		t.Error("Expected no moves with an empty hand")
	}
}

func TestEngine_ApplyMoveValidation(t *testing.T) {
	engine := newTestEngine(t)
	engine.LandCards()
	card := engine.Hand(1)[0].ID

	tests := []struct {
		name   string
		piece  string
		path   []hexgrid.Coord
		card   string
		reason string
	}{
		{"unknown piece", "nope", []hexgrid.Coord{at(0, 0), at(1, 0)}, card, ReasonPieceNotFound},
		{"other player's piece", "p2-1", []hexgrid.Coord{at(2, 2), at(1, 2)}, card, ReasonNotYourPiece},
		{"empty path", "p1-1", nil, card, ReasonInvalidPath},
		{"path not from piece", "p1-1", []hexgrid.Coord{at(1, 0), at(2, 0)}, card, ReasonInvalidPath},
		{"occupied destination", "p1-1", []hexgrid.Coord{at(0, 0), at(2, 2)}, card, ReasonOccupied},
		{"card not in hand", "p1-1", []hexgrid.Coord{at(0, 0), at(1, 0)}, "ghost", ReasonCardNotInHand},
		{"jump onto diamond", "p1-1", []hexgrid.Coord{at(0, 0), at(3, 0)}, card, ReasonInvalidDestination},
		{"beyond card range", "p1-1", []hexgrid.Coord{at(0, 0), at(1, 0), at(2, 0), at(3, 0)}, card, ReasonInvalidDestination},
		{"grass card onto water", "p1-1", []hexgrid.Coord{at(0, 0), at(0, 1)}, card, ReasonInvalidDestination},
		{"gap in path", "p1-1", []hexgrid.Coord{at(0, 0), at(2, 0)}, card, ReasonInvalidDestination},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := engine.ApplyMove(tt.piece, tt.path, tt.card)
			if out.Success {
				t.Fatal("Expected failure")
			}
			if out.Reason != tt.reason {
				t.Errorf("Expected reason %s, got %s", tt.reason, out.Reason)
			}
			if p, _ := engine.Piece("p1-1"); p.Pos != at(0, 0) {
				t.Error("Failed ApplyMove moved the piece")
			}
			if len(engine.Hand(1)) != 3 {
				t.Error("Failed ApplyMove changed the hand")
			}
			if engine.IsWon() {
				t.Error("Failed ApplyMove won the game")
			}
		})
	}

	out := engine.ApplyMove("p1-1", []hexgrid.Coord{at(0, 0), at(1, 0), at(2, 0)}, card)
	if !out.Success || out.To != at(2, 0) {
		t.Errorf("Expected a legal grass path to succeed, got %+v", out)
	}
}

func TestEngine_OccupiedNeighborBlocks(t *testing.T) {
	engine := newTestEngine(t)
	engine.LandCards()

	state := engine.GetState()
	state.Pieces[1].Pos = at(1, 0)
	if err := engine.SetState(state); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}
	if !engine.Reachable("p1-1").Empty() {
		t.Errorf("Expected blocked piece to reach nothing, got %v", engine.Reachable("p1-1").Keys())
	}
}

func TestEngine_SetStateRejectsOverlap(t *testing.T) {
	engine := newTestEngine(t)
	state := engine.GetState()
	state.Pieces[1].Pos = state.Pieces[0].Pos
	if err := engine.SetState(state); err == nil {
		t.Error("Expected error for overlapping pieces")
	}
	if err := engine.SetState(nil); err == nil {
		t.Error("Expected error for nil state")
	}
}

func TestEngine_ConfigManagement(t *testing.T) {
	engine := newTestEngine(t)

	generated := &GameConfig{
		Name:        "Generated",
		Description: "Noise map",
		Generator:   &board.GenConfig{Radius: 4},
		Rules:       Rules{DiamondWildcard: true, AutoLand: true},
	}
	if err := engine.SetConfig(generated); err != nil {
		t.Fatalf("SetConfig failed: %v", err)
	}
	if engine.GetConfig().Generator.Seed == 0 {
		t.Error("Expected generator seed to be pinned")
	}
	if engine.Board().TerrainOf(at(0, 0)) != board.Diamond {
		t.Error("Expected diamond at the centre of a generated map")
	}
	if len(engine.Hand(1)) != DefaultHandSize {
		t.Errorf("Expected auto-landed hand of %d, got %d", DefaultHandSize, len(engine.Hand(1)))
	}

	before := engine.Board().Hexes()
	engine.Reset()
	after := engine.Board().Hexes()
	if len(before) != len(after) {
		t.Fatal("Reset changed the generated map size")
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("Reset changed hex %d: %+v vs %+v", i, before[i], after[i])
		}
	}

	bad := createTestConfig()
	bad.Description = ""
	if err := engine.SetConfig(bad); err == nil {
		t.Error("Expected SetConfig to reject invalid config")
	}
	if engine.GetConfig().Name != "Generated" {
		t.Error("Rejected config must not replace the current one")
	}
}

func TestEngine_DescribeHex(t *testing.T) {
	engine := newTestEngine(t)
	engine.LandCards()

	info := engine.DescribeHex(at(2, 0))
	if !info.OnBoard || info.Terrain != board.Grass {
		t.Errorf("Unexpected hex info %+v", info)
	}
	if !info.Reachable || len(info.Path) != 3 {
		t.Errorf("Expected (2,0) reachable in two steps, got %+v", info)
	}
	if info.DistanceToDiamond != 1 {
		t.Errorf("Expected diamond one hex away, got %d", info.DistanceToDiamond)
	}

	spawn := engine.DescribeHex(at(2, 2))
	if spawn.Piece == nil || spawn.Piece.ID != "p2-1" {
		t.Errorf("Expected p2-1 at (2,2), got %+v", spawn.Piece)
	}

	off := engine.DescribeHex(at(9, 9))
	if off.OnBoard || off.Terrain != board.Unknown {
		t.Errorf("Expected off-board hex to be unknown, got %+v", off)
	}
}
