package engine

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/hexdiamond/game/board"
	"github.com/wricardo/hexdiamond/game/cards"
	"github.com/wricardo/hexdiamond/game/hexgrid"
)

// ConfigExtensions lists the file extensions a map config may use, in lookup order.
var ConfigExtensions = []string{".json", ".yaml", ".yml"}

// WithDefaults returns a copy of config with unset optional fields filled in.
func WithDefaults(config *GameConfig) *GameConfig {
	cfg := *config
	if cfg.HandSize == 0 {
		cfg.HandSize = DefaultHandSize
	}
	if cfg.Deck == nil {
		cfg.Deck = cards.DefaultDeck()
	}
	if cfg.Players == 0 {
		cfg.Players = DefaultPlayers
	}
	if cfg.Messages.Welcome == "" {
		cfg.Messages.Welcome = "Reach the diamond to win!"
	}
	if cfg.Messages.TurnStart == "" {
		cfg.Messages.TurnStart = "Player %d to move"
	}
	if cfg.Messages.Victory == "" {
		cfg.Messages.Victory = "Player %d reached the diamond!"
	}
	if cfg.Messages.InvalidMove == "" {
		cfg.Messages.InvalidMove = "That hex is not reachable"
	}
	if cfg.Messages.NoMoves == "" {
		cfg.Messages.NoMoves = "No valid moves"
	}
	return &cfg
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}
	cfg := WithDefaults(config)

	if cfg.Players < 1 || cfg.Players > MaxPlayers {
		return fmt.Errorf("config validation: players must be between 1 and %d, got %d", MaxPlayers, cfg.Players)
	}
	if cfg.HandSize < 1 || cfg.HandSize > MaxHandSize {
		return fmt.Errorf("config validation: hand_size must be between 1 and %d, got %d", MaxHandSize, cfg.HandSize)
	}
	if err := cards.ValidateDeck(cfg.Deck); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	// Validate map source
	switch {
	case len(cfg.Layout) > 0:
		if len(cfg.Layout) > MaxLayoutRows {
			return fmt.Errorf("config validation: layout must have at most %d rows, got %d", MaxLayoutRows, len(cfg.Layout))
		}
		for key, entry := range cfg.Legend {
			if len([]rune(key)) != 1 {
				return fmt.Errorf("config validation: legend key %q must be a single character", key)
			}
			if board.IsBlank([]rune(key)[0]) {
				return fmt.Errorf("config validation: legend key %q is reserved for empty cells", key)
			}
			if entry.Terrain != "" && !entry.Terrain.Valid() {
				return fmt.Errorf("config validation: legend[%q] has invalid terrain %q", key, entry.Terrain)
			}
			if entry.Tex == "" && entry.Terrain == "" {
				return fmt.Errorf("config validation: legend[%q] needs tex or terrain", key)
			}
			if entry.Spawn < 0 || entry.Spawn > cfg.Players {
				return fmt.Errorf("config validation: legend[%q] spawn must be between 1 and players (%d), got %d", key, cfg.Players, entry.Spawn)
			}
		}
	case cfg.Generator != nil:
		if cfg.Generator.Radius < MinRadius || cfg.Generator.Radius > MaxRadius {
			return fmt.Errorf("config validation: generator.radius must be between %d and %d, got %d", MinRadius, MaxRadius, cfg.Generator.Radius)
		}
		if cfg.Players > 2 {
			return fmt.Errorf("config validation: generated maps support at most 2 players, got %d", cfg.Players)
		}
	default:
		return fmt.Errorf("config validation: layout or generator is required")
	}

	b, spawns, err := BuildBoard(cfg)
	if err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	diamonds := b.Find(board.Diamond)
	if len(diamonds) == 0 {
		return fmt.Errorf("config validation: map must contain at least one diamond hex")
	}

	// Validate spawns
	perPlayer := make(map[int]int)
	for _, s := range spawns {
		if s.Player > cfg.Players {
			return fmt.Errorf("config validation: spawn for player %d but only %d players", s.Player, cfg.Players)
		}
		t := b.TerrainOf(s.Coord)
		if !t.Enterable() || t == board.Diamond {
			return fmt.Errorf("config validation: spawn for player %d at %s is on %s terrain", s.Player, hexgrid.Key(s.Coord), t)
		}
		perPlayer[s.Player]++
	}
	for p := 1; p <= cfg.Players; p++ {
		if perPlayer[p] == 0 {
			return fmt.Errorf("config validation: player %d has no spawn", p)
		}
	}

	// Validate messages
	if !strings.Contains(cfg.Messages.Victory, "%d") {
		return fmt.Errorf("config validation: messages.victory must contain %%d for the winning player")
	}
	if !strings.Contains(cfg.Messages.TurnStart, "%d") {
		return fmt.Errorf("config validation: messages.turn_start must contain %%d for the acting player")
	}

	// Validate winnability - the diamond must be enterable and connected to every spawn
	if !cfg.Rules.DiamondWildcard && !deckEnters(cfg.Deck, board.Diamond) {
		return fmt.Errorf("config validation: no card can enter a diamond hex - enable rules.diamond_wildcard or add a diamond card to the deck")
	}
	for _, s := range spawns {
		if !connected(b, s.Coord) {
			return fmt.Errorf("config validation: diamond is unreachable from player %d spawn at %s", s.Player, hexgrid.Key(s.Coord))
		}
	}

	return nil
}

func deckEnters(deck []cards.CardSpec, t board.Terrain) bool {
	for _, s := range deck {
		if s.Terrain == t && s.Count > 0 {
			return true
		}
	}
	return false
}

// connected reports whether a diamond can be reached from start across
// enterable terrain, ignoring cards and pieces.
func connected(b *board.Board, start hexgrid.Coord) bool {
	seen := map[hexgrid.Coord]bool{start: true}
	queue := []hexgrid.Coord{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range cur.Neighbors() {
			if seen[n] {
				continue
			}
			seen[n] = true
			t := b.TerrainOf(n)
			if t == board.Diamond {
				return true
			}
			if t.Enterable() {
				queue = append(queue, n)
			}
		}
	}
	return false
}

// BuildBoard constructs the board and spawns a config describes. Layouts win
// over generators.
func BuildBoard(config *GameConfig) (*board.Board, []board.Spawn, error) {
	var (
		b      *board.Board
		spawns []board.Spawn
		err    error
	)
	switch {
	case len(config.Layout) > 0:
		b, spawns, err = board.FromLayout(config.Layout, config.Legend)
		if err != nil {
			return nil, nil, err
		}
	case config.Generator != nil:
		b, spawns = board.Generate(*config.Generator)
	default:
		return nil, nil, fmt.Errorf("no layout or generator")
	}
	board.SortSpawns(spawns)
	return b, spawns, nil
}

// DecodeGameConfig parses config data. format is "json", "yaml", or "yml".
func DecodeGameConfig(data []byte, format string) (*GameConfig, error) {
	var config GameConfig
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	case "json", "":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
	return &config, nil
}

// EncodeGameConfig serializes a config in the given format.
func EncodeGameConfig(config *GameConfig, format string) ([]byte, error) {
	switch strings.TrimPrefix(strings.ToLower(format), ".") {
	case "yaml", "yml":
		return yaml.Marshal(config)
	case "json", "":
		return json.MarshalIndent(config, "", "  ")
	}
	return nil, fmt.Errorf("unsupported config format %q", format)
}

// LoadGameConfig loads a game configuration from a JSON or YAML file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		// If filename starts with "configs/", replace with CONFIG_DIR
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	config, err := DecodeGameConfig(data, filepath.Ext(configPath))
	if err != nil {
		return nil, err
	}

	// Validate the loaded configuration
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// FindConfigFile returns the path of a named config in dir, trying every
// supported extension.
func FindConfigFile(dir, name string) (string, bool) {
	for _, ext := range ConfigExtensions {
		if strings.HasSuffix(name, ext) {
			path := filepath.Join(dir, name)
			_, err := os.Stat(path)
			return path, err == nil
		}
	}
	for _, ext := range ConfigExtensions {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// ConfigBaseName strips a supported extension from a file name.
func ConfigBaseName(filename string) (string, bool) {
	base := filepath.Base(filename)
	for _, ext := range ConfigExtensions {
		if strings.HasSuffix(base, ext) {
			return strings.TrimSuffix(base, ext), true
		}
	}
	return base, false
}

// LoadConfigByName loads a game configuration by name from the configs directory
func LoadConfigByName(configName string) (*GameConfig, error) {
	dir := "configs"
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		dir = configDir
	}

	configPath, ok := FindConfigFile(dir, configName)
	if !ok {
		return nil, fmt.Errorf("config file '%s' not found", configName)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configName, err)
	}

	config, err := DecodeGameConfig(data, filepath.Ext(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", configName, err)
	}

	// Validate the config
	if err := ValidateGameConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", configName, err)
	}

	return config, nil
}

// DefaultGameConfig returns the built-in map used when no config is available.
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:        "Default",
		Description: "Small built-in map: two islands joined by a sand bar around the diamond",
		Layout: []string{
			"  gggg",
			" 1gggwg",
			" ggmsww",
			"ssgDsgs",
			" wwsmgg",
			" gwggg2",
			"  gggg",
		},
		Legend: map[string]board.LegendEntry{
			"g": {Tex: "grass_01"},
			"s": {Tex: "sand_01"},
			"w": {Tex: "water_01"},
			"m": {Tex: "mountain_01"},
			"D": {Tex: "diamond"},
			"1": {Tex: "grass_01", Spawn: 1},
			"2": {Tex: "grass_01", Spawn: 2},
		},
		Players:  2,
		HandSize: DefaultHandSize,
		Deck:     cards.DefaultDeck(),
		Rules:    Rules{DiamondWildcard: true},
	}
}

// seedGenerator pins a random generator seed so resets rebuild the same map.
func seedGenerator(config *GameConfig) *GameConfig {
	if config.Generator == nil || config.Generator.Seed != 0 || len(config.Layout) > 0 {
		return config
	}
	cfg := *config
	gen := *config.Generator
	gen.Seed = rand.Int63n(1<<31) + 1
	cfg.Generator = &gen
	return &cfg
}

// spawnPieces creates one piece per spawn, numbered per player.
func spawnPieces(spawns []board.Spawn) []Piece {
	counts := make(map[int]int)
	pieces := make([]Piece, 0, len(spawns))
	for _, s := range spawns {
		counts[s.Player]++
		pieces = append(pieces, Piece{
			ID:     fmt.Sprintf("p%d-%d", s.Player, counts[s.Player]),
			Player: s.Player,
			Pos:    s.Coord,
		})
	}
	sort.SliceStable(pieces, func(i, j int) bool {
		return pieces[i].Player < pieces[j].Player
	})
	return pieces
}
