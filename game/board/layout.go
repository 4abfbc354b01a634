package board

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wricardo/hexdiamond/game/hexgrid"
)

// LegendEntry describes what a layout character stands for.
type LegendEntry struct {
	Tex     string  `json:"tex" yaml:"tex"`
	Terrain Terrain `json:"terrain,omitempty" yaml:"terrain,omitempty"`
	Spawn   int     `json:"spawn,omitempty" yaml:"spawn,omitempty"`
}

// Resolve returns the explicit terrain if set, otherwise the texture classification.
func (e LegendEntry) Resolve() Terrain {
	if e.Terrain != "" {
		return ParseTerrain(string(e.Terrain))
	}
	return ClassifyTexture(e.Tex)
}

// Spawn is a starting position for one of a player's pieces.
type Spawn struct {
	Player int           `json:"player"`
	Coord  hexgrid.Coord `json:"coord"`
}

// IsBlank reports whether a layout character marks a hole in the map.
func IsBlank(ch rune) bool {
	return ch == ' ' || ch == '.' || ch == '\t'
}

// FromLayout parses odd-r offset rows into a board. Every non-blank
// character must appear in the legend.
func FromLayout(layout []string, legend map[string]LegendEntry) (*Board, []Spawn, error) {
	b := New()
	var spawns []Spawn
	for row, line := range layout {
		for col, ch := range []rune(line) {
			if IsBlank(ch) {
				continue
			}
			entry, ok := legend[string(ch)]
			if !ok {
				return nil, nil, fmt.Errorf("layout row %d col %d: character %q not in legend", row+1, col+1, ch)
			}
			c := hexgrid.OffsetToAxial(col, row)
			b.Set(Hex{Q: c.Q, R: c.R, Terrain: entry.Resolve(), Texture: entry.Tex})
			if entry.Spawn > 0 {
				spawns = append(spawns, Spawn{Player: entry.Spawn, Coord: c})
			}
		}
	}
	return b, spawns, nil
}

// Layout renders the board back into odd-r rows using one character per
// terrain. Spawn positions are drawn with their player's digit.
func (b *Board) Layout(spawns []Spawn) ([]string, map[string]LegendEntry) {
	coords := b.Coords()
	if len(coords) == 0 {
		return nil, map[string]LegendEntry{}
	}
	minCol, maxCol := 0, 0
	minRow, maxRow := 0, 0
	for i, c := range coords {
		col, row := hexgrid.AxialToOffset(c)
		if i == 0 || col < minCol {
			minCol = col
		}
		if i == 0 || col > maxCol {
			maxCol = col
		}
		if i == 0 || row < minRow {
			minRow = row
		}
		if i == 0 || row > maxRow {
			maxRow = row
		}
	}
	// keep row parity so the odd-r shift survives the translation
	if minRow%2 != 0 {
		minRow--
	}

	spawnAt := make(map[hexgrid.Coord]int, len(spawns))
	for _, s := range spawns {
		spawnAt[s.Coord] = s.Player
	}

	legend := map[string]LegendEntry{}
	grid := make([][]rune, maxRow-minRow+1)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(".", maxCol-minCol+1))
	}
	for _, c := range coords {
		h := b.hexes[c]
		col, row := hexgrid.AxialToOffset(c)
		ch := terrainChar[h.Terrain]
		tex := h.Texture
		if tex == "" {
			tex = string(h.Terrain)
		}
		entry := LegendEntry{Tex: tex, Terrain: h.Terrain}
		if p, ok := spawnAt[c]; ok && p < 10 {
			ch = rune('0' + p)
			entry.Spawn = p
		}
		grid[row-minRow][col-minCol] = ch
		legend[string(ch)] = entry
	}

	rows := make([]string, len(grid))
	for i, r := range grid {
		rows[i] = strings.TrimRight(string(r), ".")
	}
	return rows, legend
}

var terrainChar = map[Terrain]rune{
	Grass:    'g',
	Sand:     's',
	Water:    'w',
	Mountain: 'm',
	Diamond:  'D',
	Unknown:  '?',
}

// SortSpawns orders spawns by player, then by board position.
func SortSpawns(spawns []Spawn) {
	sort.SliceStable(spawns, func(i, j int) bool {
		a, b := spawns[i], spawns[j]
		if a.Player != b.Player {
			return a.Player < b.Player
		}
		if a.Coord.R != b.Coord.R {
			return a.Coord.R < b.Coord.R
		}
		return a.Coord.Q < b.Coord.Q
	})
}
