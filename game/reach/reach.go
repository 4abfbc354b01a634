// Package reach computes where a piece may move this turn.
//
// Every eligible card runs its own breadth-first search from the piece,
// stepping only onto unoccupied hexes of the card's terrain for at most the
// card's range. The per-card results are merged: the shortest path wins,
// and on equal length the card that comes first in the hand wins. Within a
// card, neighbors are expanded in hexgrid.Directions order, so the whole
// result is a pure function of its inputs.
package reach

import (
	"encoding/json"
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/wricardo/hexdiamond/game/board"
	"github.com/wricardo/hexdiamond/game/cards"
	"github.com/wricardo/hexdiamond/game/hexgrid"
)

// TerrainSource answers the terrain of a coordinate. *board.Board satisfies it.
type TerrainSource interface {
	TerrainOf(c hexgrid.Coord) board.Terrain
}

// Occupancy reports whether a piece stands on a coordinate.
type Occupancy interface {
	Occupied(c hexgrid.Coord) bool
}

// OccupancyFunc adapts a function to Occupancy.
type OccupancyFunc func(c hexgrid.Coord) bool

func (f OccupancyFunc) Occupied(c hexgrid.Coord) bool {
	if f == nil {
		return false
	}
	return f(c)
}

// Occupants builds an Occupancy from a list of positions.
func Occupants(positions ...hexgrid.Coord) Occupancy {
	set := mapset.New[hexgrid.Coord]()
	for _, p := range positions {
		set.Put(p)
	}
	return OccupancyFunc(set.Has)
}

// Options toggles optional movement rules.
type Options struct {
	// DiamondWildcard lets any card finish its move on a diamond hex. The
	// diamond is a destination only; searches never continue through it.
	DiamondWildcard bool
}

// Entry is the chosen way to reach one destination.
type Entry struct {
	Path   []hexgrid.Coord `json:"path"`
	CardID string          `json:"card_id"`
}

// Steps returns the number of moves in the path.
func (e Entry) Steps() int {
	if len(e.Path) == 0 {
		return 0
	}
	return len(e.Path) - 1
}

// Dest returns the final coordinate of the path.
func (e Entry) Dest() hexgrid.Coord {
	return e.Path[len(e.Path)-1]
}

// Result maps destination keys to entries.
type Result struct {
	entries map[string]Entry
	order   []string
}

func newResult() Result {
	return Result{entries: make(map[string]Entry)}
}

// Len returns the number of reachable destinations.
func (r Result) Len() int {
	return len(r.entries)
}

// Empty reports whether nothing is reachable.
func (r Result) Empty() bool {
	return len(r.entries) == 0
}

// Get returns the entry for a destination key.
func (r Result) Get(key string) (Entry, bool) {
	e, ok := r.entries[key]
	return e, ok
}

// Lookup returns the entry for a destination coordinate.
func (r Result) Lookup(c hexgrid.Coord) (Entry, bool) {
	return r.Get(hexgrid.Key(c))
}

// Has reports whether c is a reachable destination.
func (r Result) Has(c hexgrid.Coord) bool {
	_, ok := r.Lookup(c)
	return ok
}

// Keys returns destination keys in discovery order.
func (r Result) Keys() []string {
	return append([]string(nil), r.order...)
}

// Destinations returns reachable coordinates sorted by path length, then r, then q.
func (r Result) Destinations() []hexgrid.Coord {
	out := make([]hexgrid.Coord, 0, len(r.entries))
	for _, k := range r.order {
		out = append(out, r.entries[k].Dest())
	}
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := r.entries[hexgrid.Key(out[i])].Steps(), r.entries[hexgrid.Key(out[j])].Steps()
		if si != sj {
			return si < sj
		}
		if out[i].R != out[j].R {
			return out[i].R < out[j].R
		}
		return out[i].Q < out[j].Q
	})
	return out
}

// Map returns a copy of the entries keyed by destination key.
func (r Result) Map() map[string]Entry {
	out := make(map[string]Entry, len(r.entries))
	for k, e := range r.entries {
		out[k] = e
	}
	return out
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}

// offer keeps e if its key is new or e is strictly shorter.
func (r *Result) offer(key string, e Entry) {
	cur, ok := r.entries[key]
	if !ok {
		r.order = append(r.order, key)
		r.entries[key] = e
		return
	}
	if len(e.Path) < len(cur.Path) {
		r.entries[key] = e
	}
}

// Eligible returns the cards that search: the selected card alone when it is
// in hand, otherwise every card in hand order. A selection that is no longer
// in hand is ignored.
func Eligible(hand []cards.Card, selectedID string) []cards.Card {
	if selectedID != "" {
		for _, c := range hand {
			if c.ID == selectedID {
				return []cards.Card{c}
			}
		}
	}
	return hand
}

// Compute returns every destination the hand allows from origin. It never
// fails: missing hexes, bad terrain, and non-positive ranges simply
// contribute nothing.
func Compute(origin hexgrid.Coord, hand []cards.Card, selectedID string, terrain TerrainSource, occupied Occupancy, opts Options) Result {
	res := newResult()
	if terrain == nil {
		return res
	}
	if occupied == nil {
		occupied = OccupancyFunc(nil)
	}
	for _, card := range Eligible(hand, selectedID) {
		searchCard(&res, origin, card, terrain, occupied, opts)
	}
	return res
}

// step is a frontier node carrying the path that reached it.
type step struct {
	at   hexgrid.Coord
	path []hexgrid.Coord
}

func searchCard(res *Result, origin hexgrid.Coord, card cards.Card, terrain TerrainSource, occupied Occupancy, opts Options) {
	if card.Range <= 0 || !card.Terrain.Enterable() {
		return
	}

	visited := mapset.New[hexgrid.Coord]()
	visited.Put(origin)
	frontier := []step{{at: origin, path: []hexgrid.Coord{origin}}}

	for depth := 0; depth < card.Range && len(frontier) > 0; depth++ {
		var next []step
		for _, s := range frontier {
			for _, n := range s.at.Neighbors() {
				if visited.Has(n) || occupied.Occupied(n) {
					continue
				}
				t := terrain.TerrainOf(n)
				wildcard := opts.DiamondWildcard && t == board.Diamond && card.Terrain != board.Diamond
				if t != card.Terrain && !wildcard {
					continue
				}
				visited.Put(n)

				path := make([]hexgrid.Coord, len(s.path)+1)
				copy(path, s.path)
				path[len(s.path)] = n
				res.offer(hexgrid.Key(n), Entry{Path: path, CardID: card.ID})

				if !wildcard {
					next = append(next, step{at: n, path: path})
				}
			}
		}
		frontier = next
	}
}

// Follows reports whether card can carry a piece along path: every step goes
// to an adjacent, unoccupied, unvisited hex of the card's terrain, the path
// fits the card's range, and only the last hex may be a wildcard diamond.
func Follows(path []hexgrid.Coord, card cards.Card, terrain TerrainSource, occupied Occupancy, opts Options) bool {
	if len(path) < 2 || len(path)-1 > card.Range || !card.Terrain.Enterable() || terrain == nil {
		return false
	}
	if occupied == nil {
		occupied = OccupancyFunc(nil)
	}
	seen := mapset.New[hexgrid.Coord]()
	seen.Put(path[0])
	for i := 1; i < len(path); i++ {
		n := path[i]
		if hexgrid.Distance(path[i-1], n) != 1 || seen.Has(n) || occupied.Occupied(n) {
			return false
		}
		seen.Put(n)

		t := terrain.TerrainOf(n)
		if t == card.Terrain {
			continue
		}
		last := i == len(path)-1
		if !last || !opts.DiamondWildcard || t != board.Diamond || card.Terrain == board.Diamond {
			return false
		}
	}
	return true
}
