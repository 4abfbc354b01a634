// Package service provides the business logic layer for the Hex Diamond game.
//
// The service package implements:
//   - Multi-session game management
//   - Configuration management and loading
//   - Turn flow, reachability queries, and move execution
//   - Move history tracking
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages map configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns its own engine, and the service
// serializes access to engines since they are not safe for concurrent use.
// Every mutation is followed by an auto-save through the SessionManager.
//
// Game-rule violations such as an unreachable destination are reported in
// MoveResult rather than as errors. Errors are reserved for missing
// sessions, pieces, cards, and storage failures.
//
// Usage:
//
//	sessionMgr := session.NewManager(logger)
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr, logger)
//
//	sessionInfo, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	reach, _ := gameService.Reachable(ctx, sessionInfo.ID, "")
//	result, err := gameService.Move(ctx, sessionInfo.ID, reach.PieceID, reach.Destinations[0])
package service
