package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wricardo/hexdiamond/game/board"
	"github.com/wricardo/hexdiamond/game/cards"
	"github.com/wricardo/hexdiamond/game/engine"
	"github.com/wricardo/hexdiamond/game/hexgrid"
)

const stripMap = `{
  "name": "Strip",
  "description": "Two players either side of a channel",
  "layout": ["1ggD", "wwww", "ggg2"],
  "legend": {
    "g": {"tex": "grass_01"},
    "w": {"tex": "water_01"},
    "D": {"tex": "diamond"},
    "1": {"tex": "grass_01", "spawn": 1},
    "2": {"tex": "grass_01", "spawn": 2}
  },
  "players": 2,
  "rules": {"diamond_wildcard": true}
}`

const noDiamondMap = `name: Dry
description: Nothing to find here
layout:
  - "1gg2"
legend:
  g: {tex: grass_01}
  "1": {tex: grass_01, spawn: 1}
  "2": {tex: grass_01, spawn: 2}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCollectConfigFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", noDiamondMap)
	writeFile(t, dir, "a.json", stripMap)
	writeFile(t, dir, "notes.txt", "ignored")

	files, err := collectConfigFiles(nil, dir)
	if err != nil {
		t.Fatalf("collectConfigFiles failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Expected 2 config files, got %v", files)
	}
	if filepath.Base(files[0]) != "a.json" || filepath.Base(files[1]) != "b.yaml" {
		t.Errorf("Expected sorted files, got %v", files)
	}

	single, err := collectConfigFiles([]string{files[1]}, "unused")
	if err != nil || len(single) != 1 {
		t.Errorf("Expected explicit file to be used as is, got %v (%v)", single, err)
	}

	if _, err := collectConfigFiles(nil, t.TempDir()); err == nil {
		t.Error("Expected error for a directory with no configs")
	}
	if _, err := collectConfigFiles([]string{"/non/existent"}, ""); err == nil {
		t.Error("Expected error for a missing path")
	}
}

func TestValidateConfig(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name      string
		file      string
		content   string
		wantValid bool
		wantText  string
	}{
		{
			name:      "valid strip",
			file:      "strip.json",
			content:   stripMap,
			wantValid: true,
			wantText:  "Player 2 spawns at 2,2",
		},
		{
			name:     "no diamond",
			file:     "dry.yaml",
			content:  noDiamondMap,
			wantText: "at least one diamond",
		},
		{
			name:     "broken json",
			file:     "broken.json",
			content:  `{"name": `,
			wantText: "Failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateConfig(writeFile(t, dir, tt.file, tt.content))
			if result.Valid != tt.wantValid {
				t.Fatalf("Expected valid=%v, got %+v", tt.wantValid, result)
			}
			lines := append(result.Info, result.Errors...)
			if !strings.Contains(strings.Join(lines, "\n"), tt.wantText) {
				t.Errorf("Expected %q in %v", tt.wantText, lines)
			}
		})
	}
}

func TestAnalyzeConfig(t *testing.T) {
	config, err := engine.DecodeGameConfig([]byte(stripMap), "json")
	if err != nil {
		t.Fatal(err)
	}

	a, err := analyzeConfig(config)
	if err != nil {
		t.Fatalf("analyzeConfig failed: %v", err)
	}
	if a.Hexes != 12 {
		t.Errorf("Expected 12 hexes, got %d", a.Hexes)
	}
	if a.Terrain[board.Water] != 4 || a.Terrain[board.Diamond] != 1 {
		t.Errorf("Unexpected terrain counts %v", a.Terrain)
	}
	if len(a.Dead) != 0 {
		t.Errorf("Default deck enters every terrain on the strip, got dead %v", a.Dead)
	}
	if len(a.Spawns) != 2 {
		t.Fatalf("Expected 2 spawns, got %d", len(a.Spawns))
	}

	p1, p2 := a.Spawns[0], a.Spawns[1]
	if p1.Coord != (hexgrid.Coord{Q: 0, R: 0}) || p1.Distance != 3 || p1.MinCards != 2 {
		t.Errorf("Unexpected player 1 analysis %+v", p1)
	}
	if p2.Coord != (hexgrid.Coord{Q: 2, R: 2}) || p2.Distance != 2 || p2.MinCards != 2 {
		t.Errorf("Unexpected player 2 analysis %+v", p2)
	}
	if !a.Balanced {
		t.Error("Expected the strip to be balanced")
	}
}

func TestAnalyzeConfig_GrassOnlyDeck(t *testing.T) {
	config, err := engine.DecodeGameConfig([]byte(stripMap), "json")
	if err != nil {
		t.Fatal(err)
	}
	config.Deck = []cards.CardSpec{{Terrain: board.Grass, Range: 2, Count: 6}}

	a, err := analyzeConfig(config)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Dead) != 1 || a.Dead[0] != board.Water {
		t.Errorf("Expected water to be dead terrain, got %v", a.Dead)
	}
	if a.Spawns[1].MinCards != -1 {
		t.Errorf("Player 2 is cut off by water, got %d cards", a.Spawns[1].MinCards)
	}
	if a.Balanced {
		t.Error("Expected an unbalanced map")
	}

	var buf bytes.Buffer
	printAnalysis(&buf, "strip.json", a)
	for _, want := range []string{"=== Strip (strip.json) ===", "4 water hexes can never be entered", "unreachable"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Expected %q in output:\n%s", want, buf.String())
		}
	}
}

func TestGenerateConfig(t *testing.T) {
	gen := board.DefaultGenConfig()
	gen.Seed = 42

	baked, err := generateConfig("Island", "Generated for tests", gen, false)
	if err != nil {
		t.Fatalf("generateConfig failed: %v", err)
	}
	if len(baked.Layout) == 0 || baked.Generator != nil {
		t.Errorf("Expected a baked layout, got %+v", baked)
	}

	procedural, err := generateConfig("Island", "Generated for tests", gen, true)
	if err != nil {
		t.Fatalf("generateConfig failed: %v", err)
	}
	if procedural.Generator == nil || procedural.Generator.Seed != 42 || len(procedural.Layout) != 0 {
		t.Errorf("Expected a generator block, got %+v", procedural)
	}

	// Both forms describe the same board.
	b1, _, err := engine.BuildBoard(baked)
	if err != nil {
		t.Fatal(err)
	}
	b2, _, err := engine.BuildBoard(procedural)
	if err != nil {
		t.Fatal(err)
	}
	if b1.Len() != b2.Len() || b1.Count(board.Water) != b2.Count(board.Water) {
		t.Errorf("Baked board differs from generated board: %d/%d hexes", b1.Len(), b2.Len())
	}

	if _, err := generateConfig("", "missing name", gen, false); err == nil {
		t.Error("Expected validation error for a config without a name")
	}
}

func TestApp(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "strip.json", stripMap)

	run := func(args ...string) (string, error) {
		var buf bytes.Buffer
		app := newApp()
		app.Writer = &buf
		err := app.Run(context.Background(), append([]string{"hexmaps"}, args...))
		return buf.String(), err
	}

	out, err := run("validate", "--config-dir", dir)
	if err != nil {
		t.Fatalf("validate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "✅ All configurations are valid!") {
		t.Errorf("Unexpected validate output:\n%s", out)
	}

	out, err = run("analyze", filepath.Join(dir, "strip.json"))
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if !strings.Contains(out, "at least 2 cards") {
		t.Errorf("Unexpected analyze output:\n%s", out)
	}

	generated := filepath.Join(dir, "island.yaml")
	out, err = run("generate", "--seed", "7", "--radius", "5", "--out", generated)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !strings.Contains(out, "seed 7") {
		t.Errorf("Unexpected generate output: %s", out)
	}
	if result := validateConfig(generated); !result.Valid {
		t.Errorf("Generated map should validate, got %v", result.Errors)
	}

	writeFile(t, dir, "dry.yaml", noDiamondMap)
	out, err = run("validate", dir)
	if err == nil {
		t.Error("Expected validate to fail with an invalid map present")
	}
	if !strings.Contains(out, "❌ INVALID") {
		t.Errorf("Expected invalid marker in output:\n%s", out)
	}
}

func TestShippedConfigsAreValid(t *testing.T) {
	files, err := collectConfigFiles(nil, filepath.Join("..", "..", "configs"))
	if err != nil {
		t.Fatalf("collectConfigFiles failed: %v", err)
	}
	for _, file := range files {
		if result := validateConfig(file); !result.Valid {
			t.Errorf("%s: %v", file, result.Errors)
		}
	}
}
