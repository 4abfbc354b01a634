// Package hexgrid provides axial hex coordinate arithmetic.
// The third cube coordinate s is derived: s = -q - r.
package hexgrid

import (
	"fmt"
	"strconv"
	"strings"
)

// Coord is a position on the hex grid in axial coordinates.
type Coord struct {
	Q int `json:"q" yaml:"q"`
	R int `json:"r" yaml:"r"`
}

// S returns the implicit third cube coordinate.
func (c Coord) S() int {
	return -c.Q - c.R
}

// Add returns c offset by d.
func (c Coord) Add(d Coord) Coord {
	return Coord{Q: c.Q + d.Q, R: c.R + d.R}
}

func (c Coord) String() string {
	return Key(c)
}

// Directions holds the six neighbor offsets. Search tie-breaks depend on this order.
var Directions = [6]Coord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent coordinates in Directions order.
func (c Coord) Neighbors() [6]Coord {
	var result [6]Coord
	for i, dir := range Directions {
		result[i] = c.Add(dir)
	}
	return result
}

// Neighbors is the function form of Coord.Neighbors.
func Neighbors(q, r int) [6]Coord {
	return Coord{Q: q, R: r}.Neighbors()
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b Coord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	max := dq
	if dr > max {
		max = dr
	}
	if ds > max {
		max = ds
	}
	return max
}

// Key encodes c as "q,r". Distinct coordinates always produce distinct keys.
func Key(c Coord) string {
	return strconv.Itoa(c.Q) + "," + strconv.Itoa(c.R)
}

// ParseKey is the inverse of Key.
func ParseKey(key string) (Coord, error) {
	qs, rs, ok := strings.Cut(key, ",")
	if !ok {
		return Coord{}, fmt.Errorf("hex key %q: missing separator", key)
	}
	q, err := strconv.Atoi(strings.TrimSpace(qs))
	if err != nil {
		return Coord{}, fmt.Errorf("hex key %q: %w", key, err)
	}
	r, err := strconv.Atoi(strings.TrimSpace(rs))
	if err != nil {
		return Coord{}, fmt.Errorf("hex key %q: %w", key, err)
	}
	return Coord{Q: q, R: r}, nil
}

// OffsetToAxial converts an odd-r offset position (odd rows shifted right)
// into axial coordinates.
func OffsetToAxial(col, row int) Coord {
	return Coord{Q: col - (row-(row&1))/2, R: row}
}

// AxialToOffset is the inverse of OffsetToAxial.
func AxialToOffset(c Coord) (col, row int) {
	return c.Q + (c.R-(c.R&1))/2, c.R
}

// Within returns every coordinate within radius of center, ordered by r then q.
func Within(center Coord, radius int) []Coord {
	if radius < 0 {
		return nil
	}
	var out []Coord
	for r := -radius; r <= radius; r++ {
		for q := -radius; q <= radius; q++ {
			c := Coord{Q: q, R: r}
			if Distance(Coord{}, c) <= radius {
				out = append(out, center.Add(c))
			}
		}
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
