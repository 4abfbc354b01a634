// Package board holds the hex map: which coordinates exist and what terrain
// each one carries.
package board

import (
	"sort"

	"github.com/wricardo/hexdiamond/game/hexgrid"
)

// Hex describes a single tile.
type Hex struct {
	Q       int     `json:"q"`
	R       int     `json:"r"`
	Terrain Terrain `json:"terrain"`
	Texture string  `json:"texture,omitempty"`
}

// Coord returns the axial position of the hex.
func (h Hex) Coord() hexgrid.Coord {
	return hexgrid.Coord{Q: h.Q, R: h.R}
}

// Board maps axial coordinates to hexes. Coordinates without an entry are
// not part of the map and read as Unknown.
type Board struct {
	hexes map[hexgrid.Coord]Hex
}

// New returns an empty board.
func New() *Board {
	return &Board{hexes: make(map[hexgrid.Coord]Hex)}
}

// FromHexes builds a board from a hex list. Later duplicates replace earlier ones.
func FromHexes(hexes []Hex) *Board {
	b := New()
	for _, h := range hexes {
		b.Set(h)
	}
	return b
}

// Set stores or replaces a hex.
func (b *Board) Set(h Hex) {
	if !h.Terrain.Valid() {
		h.Terrain = Unknown
	}
	b.hexes[h.Coord()] = h
}

// Get returns the hex at c and whether it exists.
func (b *Board) Get(c hexgrid.Coord) (Hex, bool) {
	if b == nil {
		return Hex{}, false
	}
	h, ok := b.hexes[c]
	return h, ok
}

// Has reports whether c is part of the board.
func (b *Board) Has(c hexgrid.Coord) bool {
	_, ok := b.Get(c)
	return ok
}

// TerrainOf returns the terrain at c, or Unknown if c is not on the board.
func (b *Board) TerrainOf(c hexgrid.Coord) Terrain {
	h, ok := b.Get(c)
	if !ok {
		return Unknown
	}
	return h.Terrain
}

// Len returns the number of hexes.
func (b *Board) Len() int {
	if b == nil {
		return 0
	}
	return len(b.hexes)
}

// Count returns how many hexes carry terrain t.
func (b *Board) Count(t Terrain) int {
	if b == nil {
		return 0
	}
	n := 0
	for _, h := range b.hexes {
		if h.Terrain == t {
			n++
		}
	}
	return n
}

// Coords returns every coordinate sorted by r, then q.
func (b *Board) Coords() []hexgrid.Coord {
	if b == nil {
		return nil
	}
	out := make([]hexgrid.Coord, 0, len(b.hexes))
	for c := range b.hexes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].R != out[j].R {
			return out[i].R < out[j].R
		}
		return out[i].Q < out[j].Q
	})
	return out
}

// Hexes returns every hex in Coords order.
func (b *Board) Hexes() []Hex {
	coords := b.Coords()
	out := make([]Hex, len(coords))
	for i, c := range coords {
		out[i] = b.hexes[c]
	}
	return out
}

// Find returns the coordinates of all hexes with terrain t, in Coords order.
func (b *Board) Find(t Terrain) []hexgrid.Coord {
	var out []hexgrid.Coord
	for _, c := range b.Coords() {
		if b.hexes[c].Terrain == t {
			out = append(out, c)
		}
	}
	return out
}
