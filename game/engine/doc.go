// Package engine provides the core game logic for the Hex Diamond game.
//
// The engine package implements the game mechanics including:
//   - Map construction from layout/legend configs or procedural generation
//   - Per-player decks, hands, and pending draws
//   - Card-authorized reachability for pieces
//   - Move execution, diamond victory, and the turn state machine
//   - Configuration loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameEngine is the session aggregate: it owns
// the board, the pieces, the card store, and the cached reachability result
// of the selected piece. GameState is a serializable snapshot of it, and
// GameConfig defines the map and rules loaded from JSON or YAML files.
//
// Usage:
//
//	config, err := engine.LoadConfigByName("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine.LandCards()
//	result := gameEngine.Reachable("p1-1")
//	for _, dest := range result.Destinations() {
//		outcome := gameEngine.Move("p1-1", dest)
//		fmt.Println(outcome.Success, outcome.Victory)
//		break
//	}
//
// Game Rules:
//
// Two players take turns moving pieces across a hex map. At the start of a
// turn the acting player draws cards; each card names a terrain and a range
// and lets a piece walk up to that many steps across hexes of that terrain
// only. Spending a card discards it. The first player to move a piece onto
// a diamond hex wins, and the game stays won until it is reset.
package engine
