package main

import (
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/wricardo/hexdiamond/game/board"
	"github.com/wricardo/hexdiamond/game/engine"
	"github.com/wricardo/hexdiamond/game/hexgrid"
	"github.com/wricardo/hexdiamond/game/service"
)

// Choice is one move the strategy wants to make.
type Choice struct {
	PieceID string
	Dest    hexgrid.Coord
	Score   int // hex distance left to the nearest diamond after the move
}

// GreedyStrategy walks pieces toward the nearest diamond, preferring hexes
// it has not stood on before so pieces do not shuttle between two hexes.
type GreedyStrategy struct {
	board   *board.Board
	visited map[string]mapset.Set[hexgrid.Coord]
}

func NewGreedyStrategy(state *engine.GameState) *GreedyStrategy {
	s := &GreedyStrategy{}
	s.Reset(state)
	return s
}

// Reset forgets visited hexes and reloads the board.
func (s *GreedyStrategy) Reset(state *engine.GameState) {
	s.board = board.FromHexes(state.Board)
	s.visited = make(map[string]mapset.Set[hexgrid.Coord])
	for _, p := range state.Pieces {
		s.markVisited(p.ID, p.Pos)
	}
}

func (s *GreedyStrategy) markVisited(pieceID string, c hexgrid.Coord) {
	set, ok := s.visited[pieceID]
	if !ok {
		set = mapset.New[hexgrid.Coord]()
		s.visited[pieceID] = set
	}
	set.Put(c)
}

func (s *GreedyStrategy) seen(pieceID string, c hexgrid.Coord) bool {
	set, ok := s.visited[pieceID]
	return ok && set.Has(c)
}

// Moved records that a piece landed on c.
func (s *GreedyStrategy) Moved(pieceID string, c hexgrid.Coord) {
	s.markVisited(pieceID, c)
}

func (s *GreedyStrategy) distance(c hexgrid.Coord) int {
	if s.board.TerrainOf(c) == board.Diamond {
		return 0
	}
	_, d, ok := engine.NearestDiamond(s.board, c)
	if !ok {
		return s.board.Len()
	}
	return d
}

// Choose picks the best destination across the given reachability results.
// A diamond always wins. Otherwise unvisited hexes beat visited ones, then
// the closest to a diamond, then the shortest path. Moves that would leave
// a piece further from the diamond than it started are skipped.
func (s *GreedyStrategy) Choose(results []*service.ReachableResult) (Choice, bool) {
	type candidate struct {
		Choice
		seen  bool
		steps int
	}
	var candidates []candidate

	for _, r := range results {
		if r == nil {
			continue
		}
		start := s.distance(r.Origin)
		for _, dest := range r.Destinations {
			score := s.distance(dest)
			if score > start {
				continue
			}
			entry := r.Entries[hexgrid.Key(dest)]
			candidates = append(candidates, candidate{
				Choice: Choice{PieceID: r.PieceID, Dest: dest, Score: score},
				seen:   s.seen(r.PieceID, dest),
				steps:  entry.Steps(),
			})
		}
	}
	if len(candidates) == 0 {
		return Choice{}, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if (a.Score == 0) != (b.Score == 0) {
			return a.Score == 0
		}
		if a.seen != b.seen {
			return !a.seen
		}
		if a.Score != b.Score {
			return a.Score < b.Score
		}
		return a.steps < b.steps
	})
	return candidates[0].Choice, true
}
