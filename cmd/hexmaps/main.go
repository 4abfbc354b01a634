// Command hexmaps checks, inspects and generates map configs for the hex
// diamond game.
//
//	hexmaps validate [files or dirs...]
//	hexmaps analyze configs/classic.json
//	hexmaps generate --radius 7 --seed 42 --out configs/island.yaml
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/zyedidia/generic/mapset"

	"github.com/wricardo/hexdiamond/game/board"
	"github.com/wricardo/hexdiamond/game/cards"
	"github.com/wricardo/hexdiamond/game/engine"
	"github.com/wricardo/hexdiamond/game/hexgrid"
	"github.com/wricardo/hexdiamond/game/reach"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "hexmaps",
		Usage: "validate, analyze and generate hex diamond maps",
		Commands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "check that map configs load and are winnable",
				ArgsUsage: "[files or directories...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config-dir",
						Value:   "configs",
						Usage:   "directory scanned when no arguments are given",
						Sources: cli.EnvVars("CONFIG_DIR"),
					},
				},
				Action: runValidate,
			},
			{
				Name:      "analyze",
				Usage:     "report terrain mix and spawn distances for map configs",
				ArgsUsage: "[files or directories...]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config-dir",
						Value:   "configs",
						Sources: cli.EnvVars("CONFIG_DIR"),
					},
				},
				Action: runAnalyze,
			},
			{
				Name:  "generate",
				Usage: "generate a map from simplex noise",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Value: "Generated Island"},
					&cli.StringFlag{Name: "description", Value: "Procedurally generated island with a diamond at its heart"},
					&cli.IntFlag{Name: "radius", Value: board.DefaultGenConfig().Radius},
					&cli.Int64Flag{Name: "seed", Usage: "noise seed, 0 picks one"},
					&cli.FloatFlag{Name: "water", Value: board.DefaultGenConfig().WaterLevel},
					&cli.FloatFlag{Name: "mountain", Value: board.DefaultGenConfig().MountainLevel},
					&cli.BoolFlag{Name: "procedural", Usage: "store the generator block instead of a baked layout"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (.json, .yaml), stdout when empty"},
				},
				Action: runGenerate,
			},
		},
	}
}

func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// collectConfigFiles expands arguments into config files. Directories are
// scanned for every supported extension; no arguments means dir.
func collectConfigFiles(args []string, dir string) ([]string, error) {
	if len(args) == 0 {
		args = []string{dir}
	}
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		for _, ext := range engine.ConfigExtensions {
			matches, err := filepath.Glob(filepath.Join(arg, "*"+ext))
			if err != nil {
				return nil, err
			}
			files = append(files, matches...)
		}
	}
	sort.Strings(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("no config files found in %s", strings.Join(args, ", "))
	}
	return files, nil
}

func readConfig(path string) (*engine.GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return engine.DecodeGameConfig(data, filepath.Ext(path))
}

// ValidationResult is the outcome of checking one config file.
type ValidationResult struct {
	File   string
	Valid  bool
	Info   []string
	Errors []string
}

func validateConfig(path string) ValidationResult {
	result := ValidationResult{File: path}

	config, err := readConfig(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to parse: %v", err))
		return result
	}
	if err := engine.ValidateGameConfig(config); err != nil {
		result.Errors = append(result.Errors, strings.TrimPrefix(err.Error(), "config validation: "))
		return result
	}

	cfg := engine.WithDefaults(config)
	b, spawns, err := engine.BuildBoard(cfg)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	result.Valid = true
	result.Info = append(result.Info,
		fmt.Sprintf("✓ Name: %s", cfg.Name),
		fmt.Sprintf("✓ Hexes: %d (%s)", b.Len(), terrainSummary(engine.CountTerrain(b))),
		fmt.Sprintf("✓ Players: %d, hand size %d, deck of %d", cfg.Players, cfg.HandSize, cards.DeckSize(cfg.Deck)),
		fmt.Sprintf("✓ Diamonds: %d", len(b.Find(board.Diamond))),
	)
	for _, s := range spawns {
		result.Info = append(result.Info, fmt.Sprintf("✓ Player %d spawns at %s", s.Player, hexgrid.Key(s.Coord)))
	}
	return result
}

func terrainSummary(counts map[board.Terrain]int) string {
	var parts []string
	for _, t := range board.Terrains {
		if counts[t] > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", t, counts[t]))
		}
	}
	return strings.Join(parts, ", ")
}

func runValidate(_ context.Context, cmd *cli.Command) error {
	files, err := collectConfigFiles(cmd.Args().Slice(), cmd.String("config-dir"))
	if err != nil {
		return err
	}
	w := output(cmd)

	allValid := true
	for _, file := range files {
		result := validateConfig(file)
		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)
		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
			for _, info := range result.Info {
				fmt.Fprintln(w, "  "+info)
			}
			continue
		}
		allValid = false
		fmt.Fprintln(w, "❌ INVALID")
		for _, e := range result.Errors {
			fmt.Fprintln(w, "  ❌ "+e)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if !allValid {
		return fmt.Errorf("some configurations have errors")
	}
	fmt.Fprintln(w, "✅ All configurations are valid!")
	return nil
}

// SpawnAnalysis describes how far one spawn is from winning.
type SpawnAnalysis struct {
	Player   int
	Coord    hexgrid.Coord
	Distance int // hex distance to the nearest diamond
	MinCards int // fewest cards to land on a diamond, -1 if impossible
}

// Analysis summarizes a map.
type Analysis struct {
	Name     string
	Hexes    int
	Terrain  map[board.Terrain]int
	Deck     []board.Terrain
	Dead     []board.Terrain // enterable terrain on the board that no card enters
	Spawns   []SpawnAnalysis
	Balanced bool
}

func analyzeConfig(config *engine.GameConfig) (*Analysis, error) {
	cfg := engine.WithDefaults(config)
	b, spawns, err := engine.BuildBoard(cfg)
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		Name:    cfg.Name,
		Hexes:   b.Len(),
		Terrain: engine.CountTerrain(b),
	}

	deckTerrains := mapset.New[board.Terrain]()
	hand := bestHand(cfg.Deck)
	for _, c := range hand {
		if !deckTerrains.Has(c.Terrain) {
			deckTerrains.Put(c.Terrain)
			a.Deck = append(a.Deck, c.Terrain)
		}
	}
	for _, t := range board.Terrains {
		if t.Enterable() && t != board.Diamond && a.Terrain[t] > 0 && !deckTerrains.Has(t) {
			a.Dead = append(a.Dead, t)
		}
	}

	opts := reach.Options{DiamondWildcard: cfg.Rules.DiamondWildcard}
	for _, s := range spawns {
		_, dist, _ := engine.NearestDiamond(b, s.Coord)
		a.Spawns = append(a.Spawns, SpawnAnalysis{
			Player:   s.Player,
			Coord:    s.Coord,
			Distance: dist,
			MinCards: cardsToDiamond(b, s.Coord, hand, opts),
		})
	}

	a.Balanced = true
	for _, s := range a.Spawns[min(1, len(a.Spawns)):] {
		if s.MinCards != a.Spawns[0].MinCards {
			a.Balanced = false
		}
	}
	return a, nil
}

// bestHand keeps the longest range card of each terrain in the deck.
func bestHand(deck []cards.CardSpec) []cards.Card {
	best := make(map[board.Terrain]int)
	var order []board.Terrain
	for _, s := range deck {
		if s.Count <= 0 {
			continue
		}
		if _, ok := best[s.Terrain]; !ok {
			order = append(order, s.Terrain)
		}
		best[s.Terrain] = max(best[s.Terrain], s.Range)
	}
	hand := make([]cards.Card, 0, len(order))
	for _, t := range order {
		hand = append(hand, cards.Card{ID: string(t), Terrain: t, Range: best[t]})
	}
	return hand
}

// cardsToDiamond counts card plays, one per layer, until a diamond is among
// the destinations. It assumes the ideal card is always in hand and the
// board is otherwise empty.
func cardsToDiamond(b *board.Board, from hexgrid.Coord, hand []cards.Card, opts reach.Options) int {
	seen := mapset.New[hexgrid.Coord]()
	seen.Put(from)
	frontier := []hexgrid.Coord{from}

	for plays := 1; len(frontier) > 0 && plays <= b.Len(); plays++ {
		var next []hexgrid.Coord
		for _, at := range frontier {
			res := reach.Compute(at, hand, "", b, nil, opts)
			for _, dest := range res.Destinations() {
				if b.TerrainOf(dest) == board.Diamond {
					return plays
				}
				if !seen.Has(dest) {
					seen.Put(dest)
					next = append(next, dest)
				}
			}
		}
		frontier = next
	}
	return -1
}

func runAnalyze(_ context.Context, cmd *cli.Command) error {
	files, err := collectConfigFiles(cmd.Args().Slice(), cmd.String("config-dir"))
	if err != nil {
		return err
	}
	w := output(cmd)

	for _, file := range files {
		config, err := readConfig(file)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		a, err := analyzeConfig(config)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		printAnalysis(w, file, a)
	}
	return nil
}

func printAnalysis(w io.Writer, file string, a *Analysis) {
	fmt.Fprintf(w, "\n=== %s (%s) ===\n", a.Name, filepath.Base(file))
	fmt.Fprintf(w, "Hexes: %d\n", a.Hexes)
	fmt.Fprintf(w, "Terrain: %s\n", terrainSummary(a.Terrain))

	deck := make([]string, len(a.Deck))
	for i, t := range a.Deck {
		deck[i] = string(t)
	}
	fmt.Fprintf(w, "Deck covers: %s\n", strings.Join(deck, ", "))
	for _, t := range a.Dead {
		fmt.Fprintf(w, "⚠️  %d %s hexes can never be entered\n", a.Terrain[t], t)
	}

	for _, s := range a.Spawns {
		if s.MinCards < 0 {
			fmt.Fprintf(w, "Player %d at %s: diamond %d hexes away, unreachable\n", s.Player, hexgrid.Key(s.Coord), s.Distance)
			continue
		}
		fmt.Fprintf(w, "Player %d at %s: diamond %d hexes away, at least %d cards\n", s.Player, hexgrid.Key(s.Coord), s.Distance, s.MinCards)
	}
	if !a.Balanced {
		fmt.Fprintln(w, "⚠️  Spawns are not equally far from the diamond")
	}
}

// generateConfig builds a validated config from noise parameters. Unless
// procedural is set the board is baked into layout rows.
func generateConfig(name, description string, gen board.GenConfig, procedural bool) (*engine.GameConfig, error) {
	config := &engine.GameConfig{
		Name:        name,
		Description: description,
		Players:     2,
		HandSize:    engine.DefaultHandSize,
		Deck:        cards.DefaultDeck(),
		Rules:       engine.Rules{DiamondWildcard: true},
	}
	if procedural {
		config.Generator = &gen
	} else {
		b, spawns := board.Generate(gen)
		config.Layout, config.Legend = b.Layout(spawns)
	}
	if err := engine.ValidateGameConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func runGenerate(_ context.Context, cmd *cli.Command) error {
	gen := board.GenConfig{
		Radius:        cmd.Int("radius"),
		Seed:          cmd.Int64("seed"),
		WaterLevel:    cmd.Float("water"),
		MountainLevel: cmd.Float("mountain"),
	}
	if gen.Seed == 0 {
		gen.Seed = rand.Int63n(1<<31) + 1
	}
	config, err := generateConfig(cmd.String("name"), cmd.String("description"), gen, cmd.Bool("procedural"))
	if err != nil {
		return err
	}

	out := cmd.String("out")
	format := "json"
	if out != "" {
		format = filepath.Ext(out)
	}
	data, err := engine.EncodeGameConfig(config, format)
	if err != nil {
		return err
	}
	if out == "" {
		_, err = output(cmd).Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return err
	}
	fmt.Fprintf(output(cmd), "✅ Wrote %s (seed %d)\n", out, gen.Seed)
	return nil
}
