package board

import "strings"

// Terrain is the closed set of hex terrain categories.
type Terrain string

const (
	Grass    Terrain = "grass"
	Sand     Terrain = "sand"
	Water    Terrain = "water"
	Mountain Terrain = "mountain"
	Diamond  Terrain = "diamond"
	Unknown  Terrain = "unknown"
)

// Terrains lists every category in a stable order.
var Terrains = []Terrain{Grass, Sand, Water, Mountain, Diamond, Unknown}

// Enterable reports whether any card could ever move onto t.
func (t Terrain) Enterable() bool {
	switch t {
	case Grass, Sand, Water, Diamond:
		return true
	default:
		return false
	}
}

// Valid reports whether t is one of the known categories.
func (t Terrain) Valid() bool {
	switch t {
	case Grass, Sand, Water, Mountain, Diamond, Unknown:
		return true
	}
	return false
}

// ParseTerrain maps a name onto a Terrain, falling back to Unknown.
func ParseTerrain(s string) Terrain {
	t := Terrain(strings.ToLower(strings.TrimSpace(s)))
	if t.Valid() {
		return t
	}
	return Unknown
}

// ClassifyTexture derives a terrain from a texture name such as "grass_03".
// Diamond wins over every other match so "diamond_sand" is still a goal tile.
func ClassifyTexture(tex string) Terrain {
	t := strings.ToLower(tex)
	switch {
	case t == "":
		return Unknown
	case strings.Contains(t, "diamond"):
		return Diamond
	case strings.Contains(t, "grass"):
		return Grass
	case strings.Contains(t, "sand"):
		return Sand
	case strings.Contains(t, "water"):
		return Water
	case strings.Contains(t, "mountain"), strings.Contains(t, "rock"):
		return Mountain
	}
	return Unknown
}
