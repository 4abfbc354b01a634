package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/hexdiamond/game/board"
	"github.com/wricardo/hexdiamond/game/engine"
)

func createValidConfig() *engine.GameConfig {
	return &engine.GameConfig{
		Name:        "Test Config",
		Description: "Test configuration",
		Layout: []string{
			"1ggD",
			"wsgg",
			"ggg2",
		},
		Legend: map[string]board.LegendEntry{
			"g": {Tex: "grass_01"},
			"s": {Tex: "sand_dune"},
			"w": {Tex: "water_shallow"},
			"D": {Tex: "diamond"},
			"1": {Tex: "grass_01", Spawn: 1},
			"2": {Tex: "grass_01", Spawn: 2},
		},
		Rules: engine.Rules{DiamondWildcard: true},
	}
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.GameConfig) {
	t.Helper()
	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}
	data, err := engine.EncodeGameConfig(config, filepath.Ext(filename))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, filename), data, 0644))
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "classic", createValidConfig())

		manager, err := NewManager(dir)
		require.NoError(t, err)
		require.NotNil(t, manager)
		assert.Equal(t, dir, manager.Dir())
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		assert.Error(t, err)
	})

	t.Run("empty directory falls back to built-in map", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		require.NoError(t, err)
		require.NotNil(t, manager.GetDefault())
		assert.Equal(t, engine.DefaultGameConfig().Name, manager.GetDefault().Name)
	})

	t.Run("first valid config when classic is missing", func(t *testing.T) {
		dir := t.TempDir()
		other := createValidConfig()
		other.Name = "Alpha"
		writeConfigFile(t, dir, "alpha.yaml", other)

		manager, err := NewManager(dir)
		require.NoError(t, err)
		assert.Equal(t, "Alpha", manager.GetDefault().Name)
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())

	islands := createValidConfig()
	islands.Name = "Islands"
	islands.HandSize = 4
	writeConfigFile(t, dir, "islands.yaml", islands)

	manager, err := NewManager(dir)
	require.NoError(t, err)

	t.Run("load yaml by bare name", func(t *testing.T) {
		config, err := manager.LoadConfig("islands")
		require.NoError(t, err)
		assert.Equal(t, "Islands", config.Name)
		assert.Equal(t, 4, config.HandSize)
		assert.Equal(t, board.Sand, config.Legend["s"].Resolve())
	})

	t.Run("load with extension", func(t *testing.T) {
		config, err := manager.LoadConfig("islands.yaml")
		require.NoError(t, err)
		assert.Equal(t, "Islands", config.Name)
	})

	t.Run("load from cache", func(t *testing.T) {
		config1, err := manager.LoadConfig("classic")
		require.NoError(t, err)
		config2, err := manager.LoadConfig("classic.json")
		require.NoError(t, err)
		assert.Same(t, config1, config2)
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := manager.LoadConfig("non-existent")
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("load invalid config", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "invalid.json"), []byte(`{"name": ""}`), 0644))
		_, err := manager.LoadConfig("invalid")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("unwinnable map is invalid", func(t *testing.T) {
		config := createValidConfig()
		config.Rules.DiamondWildcard = false
		writeConfigFile(t, dir, "unwinnable", config)
		_, err := manager.LoadConfig("unwinnable")
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "malformed.json"), []byte(`{"name": "Malformed", invalid json}`), 0644))
		_, err := manager.LoadConfig("malformed")
		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrConfigNotFound))
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())

	generated := &engine.GameConfig{
		Name:        "Noise",
		Description: "Generated map",
		Generator:   &board.GenConfig{Radius: 4, Seed: 11},
		Rules:       engine.Rules{DiamondWildcard: true},
	}
	writeConfigFile(t, dir, "noise.yml", generated)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	manager, err := NewManager(dir)
	require.NoError(t, err)

	configs, err := manager.ListConfigs()
	require.NoError(t, err)
	require.Len(t, configs, 2)

	classic := configs[0]
	assert.Equal(t, "classic", classic.ConfigID)
	assert.Equal(t, "classic.json", classic.Filename)
	assert.Equal(t, 12, classic.Hexes)
	assert.Equal(t, engine.DefaultPlayers, classic.Players)
	assert.Equal(t, engine.DefaultHandSize, classic.HandSize)
	assert.False(t, classic.Generated)
	assert.True(t, classic.Rules.DiamondWildcard)

	noise := configs[1]
	assert.Equal(t, "noise", noise.ConfigID)
	assert.True(t, noise.Generated)
	assert.Equal(t, 61, noise.Hexes)
}

func TestManager_SetDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())
	second := createValidConfig()
	second.Name = "Second"
	writeConfigFile(t, dir, "second", second)

	manager, err := NewManager(dir)
	require.NoError(t, err)
	assert.Equal(t, "Test Config", manager.GetDefault().Name)

	require.NoError(t, manager.SetDefault("second"))
	assert.Equal(t, "Second", manager.GetDefault().Name)

	assert.ErrorIs(t, manager.SetDefault("missing"), ErrConfigNotFound)
	assert.Equal(t, "Second", manager.GetDefault().Name)
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	require.NoError(t, err)

	t.Run("json by default", func(t *testing.T) {
		config := createValidConfig()
		config.Name = "Saved"
		require.NoError(t, manager.SaveConfig("saved", config))
		assert.FileExists(t, filepath.Join(dir, "saved.json"))

		loaded, err := manager.LoadConfig("saved")
		require.NoError(t, err)
		assert.Equal(t, "Saved", loaded.Name)
	})

	t.Run("yaml by extension", func(t *testing.T) {
		config := createValidConfig()
		config.Name = "Saved YAML"
		require.NoError(t, manager.SaveConfig("saved-yaml.yaml", config))

		data, err := os.ReadFile(filepath.Join(dir, "saved-yaml.yaml"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "name: Saved YAML")

		require.NoError(t, manager.RefreshCache())
		loaded, err := manager.LoadConfig("saved-yaml")
		require.NoError(t, err)
		assert.Equal(t, "Saved YAML", loaded.Name)
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		config := createValidConfig()
		config.Name = ""
		assert.ErrorIs(t, manager.SaveConfig("bad", config), ErrInvalidConfig)
		assert.NoFileExists(t, filepath.Join(dir, "bad.json"))
	})

	t.Run("path traversal rejected", func(t *testing.T) {
		assert.ErrorIs(t, manager.SaveConfig("../escape", createValidConfig()), ErrInvalidConfig)
	})
}

func TestManager_RefreshCache(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())

	manager, err := NewManager(dir)
	require.NoError(t, err)

	updated := createValidConfig()
	updated.Name = "Updated"
	writeConfigFile(t, dir, "classic", updated)

	cached, err := manager.LoadConfig("classic")
	require.NoError(t, err)
	assert.Equal(t, "Test Config", cached.Name)

	require.NoError(t, manager.RefreshCache())
	fresh, err := manager.LoadConfig("classic")
	require.NoError(t, err)
	assert.Equal(t, "Updated", fresh.Name)
	assert.Equal(t, "Updated", manager.GetDefault().Name)
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())

	manager, err := NewManager(dir)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := manager.LoadConfig("classic"); err != nil {
				errs <- err
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := manager.ListConfigs(); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent access failed: %v", err)
	}
}
