package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/hexdiamond/game/hexgrid"
)

func TestClassifyTexture(t *testing.T) {
	tests := []struct {
		tex  string
		want Terrain
	}{
		{"grass_01", Grass},
		{"Sand-dunes", Sand},
		{"deep_water", Water},
		{"mountain_peak", Mountain},
		{"rock2", Mountain},
		{"diamond", Diamond},
		{"diamond_sand", Diamond},
		{"lava", Unknown},
		{"", Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.tex, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTexture(tt.tex))
		})
	}
}

func TestTerrainEnterable(t *testing.T) {
	assert.True(t, Grass.Enterable())
	assert.True(t, Diamond.Enterable())
	assert.False(t, Mountain.Enterable())
	assert.False(t, Unknown.Enterable())
	assert.False(t, Terrain("lava").Enterable())
	assert.Equal(t, Unknown, ParseTerrain("lava"))
	assert.Equal(t, Sand, ParseTerrain(" SAND "))
}

func TestTerrainOfMissingIsUnknown(t *testing.T) {
	b := FromHexes([]Hex{{Q: 0, R: 0, Terrain: Grass}})
	assert.Equal(t, Grass, b.TerrainOf(hexgrid.Coord{}))
	assert.Equal(t, Unknown, b.TerrainOf(hexgrid.Coord{Q: 9, R: -9}))

	var nilBoard *Board
	assert.Equal(t, Unknown, nilBoard.TerrainOf(hexgrid.Coord{}))
	assert.Equal(t, 0, nilBoard.Len())
}

func TestSetInvalidTerrain(t *testing.T) {
	b := New()
	b.Set(Hex{Q: 1, R: 1, Terrain: "lava"})
	assert.Equal(t, Unknown, b.TerrainOf(hexgrid.Coord{Q: 1, R: 1}))
}

func TestFromLayout(t *testing.T) {
	legend := map[string]LegendEntry{
		"g": {Tex: "grass_01"},
		"s": {Tex: "sand_02"},
		"D": {Tex: "diamond"},
		"m": {Tex: "rock"},
		"1": {Tex: "grass_01", Spawn: 1},
		"2": {Tex: "whatever", Terrain: Sand, Spawn: 2},
	}
	layout := []string{
		"1gs",
		" gD.",
		"mg2",
	}
	b, spawns, err := FromLayout(layout, legend)
	require.NoError(t, err)
	assert.Equal(t, 8, b.Len())
	assert.Equal(t, 1, b.Count(Diamond))

	// row 1 is odd: col 2 maps to q = 2 - 0 = 2, r = 1
	assert.Equal(t, Diamond, b.TerrainOf(hexgrid.Coord{Q: 2, R: 1}))
	// row 2: q = col - 1
	assert.Equal(t, Mountain, b.TerrainOf(hexgrid.Coord{Q: -1, R: 2}))
	// blank cells are not on the board
	assert.False(t, b.Has(hexgrid.Coord{Q: 0, R: 1}))

	require.Len(t, spawns, 2)
	assert.Equal(t, Spawn{Player: 1, Coord: hexgrid.Coord{Q: 0, R: 0}}, spawns[0])
	assert.Equal(t, Spawn{Player: 2, Coord: hexgrid.Coord{Q: 1, R: 2}}, spawns[1])
	assert.Equal(t, Sand, b.TerrainOf(spawns[1].Coord))
}

func TestFromLayoutUnknownChar(t *testing.T) {
	_, _, err := FromLayout([]string{"gx"}, map[string]LegendEntry{"g": {Tex: "grass"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in legend")
}

func TestLayoutRoundTrip(t *testing.T) {
	b, spawns := Generate(GenConfig{Radius: 3, Seed: 7})
	rows, legend := b.Layout(spawns)

	back, backSpawns, err := FromLayout(rows, legend)
	require.NoError(t, err)
	assert.Equal(t, b.Len(), back.Len())
	for _, terr := range Terrains {
		assert.Equal(t, b.Count(terr), back.Count(terr), "terrain %s", terr)
	}
	assert.Len(t, backSpawns, len(spawns))
}

func TestGenerate(t *testing.T) {
	cfg := GenConfig{Radius: 5, Seed: 42}
	b, spawns := Generate(cfg)
	assert.Equal(t, len(hexgrid.Within(hexgrid.Coord{}, 5)), b.Len())
	assert.Equal(t, Diamond, b.TerrainOf(hexgrid.Coord{}))
	require.Len(t, spawns, 2)
	for _, s := range spawns {
		assert.Equal(t, Grass, b.TerrainOf(s.Coord))
		assert.Equal(t, 5, hexgrid.Distance(s.Coord, hexgrid.Coord{}))
	}

	again, _ := Generate(cfg)
	assert.Equal(t, b.Hexes(), again.Hexes(), "same seed must produce same map")
}

func TestGenerateCorridor(t *testing.T) {
	b, spawns := Generate(GenConfig{Radius: 6, Seed: 3})
	for _, s := range spawns {
		// walk greedily toward the centre; every step before it must be grass
		cur := s.Coord
		for cur != (hexgrid.Coord{}) {
			require.Equal(t, Grass, b.TerrainOf(cur), "corridor broken at %v", cur)
			next := cur
			for _, n := range cur.Neighbors() {
				if hexgrid.Distance(n, hexgrid.Coord{}) < hexgrid.Distance(next, hexgrid.Coord{}) {
					next = n
				}
			}
			cur = next
		}
	}
}
