package board

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/wricardo/hexdiamond/game/hexgrid"
)

// GenConfig holds procedural map parameters.
type GenConfig struct {
	Radius        int     `json:"radius" yaml:"radius"`
	Seed          int64   `json:"seed" yaml:"seed"`                     // 0 = random
	WaterLevel    float64 `json:"water_level" yaml:"water_level"`       // elevation below this is water
	MountainLevel float64 `json:"mountain_level" yaml:"mountain_level"` // elevation above this is mountain
}

// DefaultGenConfig returns a small two-player arena.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Radius:        6,
		Seed:          0,
		WaterLevel:    0.30,
		MountainLevel: 0.78,
	}
}

func (cfg GenConfig) withDefaults() GenConfig {
	def := DefaultGenConfig()
	if cfg.Radius <= 0 {
		cfg.Radius = def.Radius
	}
	if cfg.WaterLevel <= 0 {
		cfg.WaterLevel = def.WaterLevel
	}
	if cfg.MountainLevel <= 0 || cfg.MountainLevel <= cfg.WaterLevel {
		cfg.MountainLevel = def.MountainLevel
	}
	return cfg
}

// Generate builds a hexagonal map of the given radius from layered simplex
// noise. The centre hex is always the diamond and its ring is grass so the
// goal can be approached. Two spawns are placed on opposite edges, each
// linked to the centre by a grass corridor.
func Generate(cfg GenConfig) (*Board, []Spawn) {
	cfg = cfg.withDefaults()
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	elevNoise := opensimplex.NewNormalized(seed)
	soilNoise := opensimplex.NewNormalized(seed + 1)

	b := New()
	for _, c := range hexgrid.Within(hexgrid.Coord{}, cfg.Radius) {
		x := float64(c.Q) + float64(c.R)*0.5
		y := float64(c.R) * math.Sqrt(3.0) / 2.0

		elev := octaveNoise(elevNoise, x, y, 4, 0.15, 0.5)
		soil := octaveNoise(soilNoise, x, y, 2, 0.2, 0.5)

		b.Set(Hex{Q: c.Q, R: c.R, Terrain: deriveTerrain(elev, soil, cfg)})
	}

	center := hexgrid.Coord{}
	b.Set(Hex{Q: 0, R: 0, Terrain: Diamond})
	for _, n := range center.Neighbors() {
		b.Set(Hex{Q: n.Q, R: n.R, Terrain: Grass})
	}

	spawns := []Spawn{
		{Player: 1, Coord: edgeSpawn(b, cfg.Radius, -1)},
		{Player: 2, Coord: edgeSpawn(b, cfg.Radius, 1)},
	}
	return b, spawns
}

func deriveTerrain(elev, soil float64, cfg GenConfig) Terrain {
	switch {
	case elev < cfg.WaterLevel:
		return Water
	case elev > cfg.MountainLevel:
		return Mountain
	case soil < 0.4:
		return Sand
	}
	return Grass
}

// edgeSpawn places a grass hex on the outermost row in direction sign and
// carves a grass corridor from it to the centre.
func edgeSpawn(b *Board, radius, sign int) hexgrid.Coord {
	c := hexgrid.Coord{Q: -sign * (radius / 2), R: sign * radius}
	carve(b, c, hexgrid.Coord{})
	return c
}

// carve walks greedily from one coordinate to another, turning every hex on
// the way except the destination into grass.
func carve(b *Board, from, to hexgrid.Coord) {
	cur := from
	for cur != to {
		b.Set(Hex{Q: cur.Q, R: cur.R, Terrain: Grass})
		best := cur
		bestDist := hexgrid.Distance(cur, to)
		for _, n := range cur.Neighbors() {
			if d := hexgrid.Distance(n, to); d < bestDist {
				best, bestDist = n, d
			}
		}
		cur = best
	}
}

func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
