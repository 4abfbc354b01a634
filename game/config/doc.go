// Package config provides map configuration management for the Hex Diamond game.
//
// The config package handles:
//   - Loading map configurations from JSON or YAML files
//   - Configuration validation via the engine
//   - Default configuration management
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Map configurations live in the configs directory as .json, .yaml, or
// .yml files. Each one defines either a layout of odd-r offset rows with a
// legend mapping characters to textures, terrains, and player spawns, or a
// generator block for a procedural map. Optional sections set the number of
// players, the hand size, the starting deck, and rule toggles.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific configuration
//	gameConfig, err := manager.LoadConfig("islands")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Get default configuration
//	defaultConfig := manager.GetDefault()
//
//	// List available configurations
//	configs, err := manager.ListConfigs()
//
// When the directory holds no valid configuration the manager falls back
// to engine.DefaultGameConfig.
package config
