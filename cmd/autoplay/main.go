// Command autoplay plays a hex diamond session over the REST API, steering
// every piece toward the nearest diamond until someone wins or the turn
// limit runs out.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/hexdiamond/game/engine"
	"github.com/wricardo/hexdiamond/game/hexgrid"
	"github.com/wricardo/hexdiamond/game/service"
)

// Options controls a run.
type Options struct {
	ConfigID  string
	SessionID string // resume instead of creating a session
	Reset     bool
	MaxTurns  int
	Player    int // 0 plays every seat, otherwise other seats just pass
	Delay     time.Duration
}

// Report summarizes a finished run.
type Report struct {
	SessionID string
	Winner    int
	Turns     int
	Moves     int
}

var errTurnLimit = errors.New("turn limit reached without a winner")

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Game server URL")
	configID := flag.String("config", "", "Map config to play (empty uses the server default)")
	continueSession := flag.String("continue", "", "Resume playing an existing session by ID")
	reset := flag.Bool("reset", false, "Reset the session before playing")
	maxTurns := flag.Int("max-turns", 200, "Give up after this many turns")
	player := flag.Int("player", 0, "Only play this seat (0 = all seats)")
	delayMs := flag.Int("delay", 0, "Delay between moves in milliseconds")
	debug := flag.Bool("debug", false, "Log every move")
	flag.Parse()

	logger := zap.Must(zap.NewProduction())
	if *debug {
		logger = zap.Must(zap.NewDevelopment())
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("connecting to game server", zap.String("url", *serverURL))
	report, err := play(ctx, NewClient(*serverURL), Options{
		ConfigID:  *configID,
		SessionID: *continueSession,
		Reset:     *reset,
		MaxTurns:  *maxTurns,
		Player:    *player,
		Delay:     time.Duration(*delayMs) * time.Millisecond,
	}, logger)
	if err != nil {
		if report != nil {
			logger.Error("❌ no winner", zap.String("session", report.SessionID), zap.Int("turns", report.Turns), zap.Error(err))
		} else {
			logger.Error("❌ autoplay failed", zap.Error(err))
		}
		os.Exit(1)
	}
	fmt.Printf("🎉 VICTORY! Player %d won on turn %d after %d moves (session %s)\n",
		report.Winner, report.Turns, report.Moves, report.SessionID)
}

func start(ctx context.Context, c *Client, opts Options, logger *zap.Logger) (*engine.GameState, error) {
	if opts.SessionID != "" {
		state, err := c.Resume(ctx, opts.SessionID)
		if err == nil {
			logger.Info("🔄 resumed session", zap.String("session", c.SessionID()))
			return state, nil
		}
		logger.Warn("failed to resume session, creating a new one", zap.Error(err))
	}
	state, err := c.CreateSession(ctx, opts.ConfigID)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	logger.Info("✨ session created", zap.String("session", c.SessionID()), zap.String("config", state.ConfigName))
	return state, nil
}

func play(ctx context.Context, c *Client, opts Options, logger *zap.Logger) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = 200
	}

	state, err := start(ctx, c, opts, logger)
	if err != nil {
		return nil, err
	}
	if opts.Reset {
		if state, err = c.Reset(ctx); err != nil {
			return nil, fmt.Errorf("reset: %w", err)
		}
	}

	report := &Report{SessionID: c.SessionID()}
	strategy := NewGreedyStrategy(state)

	for state.Winner == 0 {
		report.Turns = state.Turn
		if state.Turn > opts.MaxTurns {
			return report, errTurnLimit
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if opts.Player == 0 || opts.Player == state.CurrentPlayer {
			state, err = playTurn(ctx, c, strategy, state, report, opts.Delay, logger)
			if err != nil {
				return report, err
			}
			if state.Winner != 0 {
				break
			}
		}

		if state, err = c.EndTurn(ctx); err != nil {
			return report, fmt.Errorf("end turn: %w", err)
		}
	}

	report.Winner = state.Winner
	report.Turns = state.Turn
	return report, nil
}

// playTurn lands the hand and keeps moving until the strategy finds nothing
// worth doing or the hand runs out.
func playTurn(ctx context.Context, c *Client, strategy *GreedyStrategy, state *engine.GameState, report *Report, delay time.Duration, logger *zap.Logger) (*engine.GameState, error) {
	state, err := c.LandAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("land cards: %w", err)
	}

	for {
		var results []*service.ReachableResult
		for _, p := range state.Pieces {
			if p.Player != state.CurrentPlayer {
				continue
			}
			r, err := c.Reachable(ctx, p.ID)
			if err != nil {
				return nil, fmt.Errorf("reachable %s: %w", p.ID, err)
			}
			results = append(results, r)
		}

		choice, ok := strategy.Choose(results)
		if !ok {
			logger.Debug("no useful move", zap.Int("player", state.CurrentPlayer), zap.Int("turn", state.Turn))
			return state, nil
		}

		result, err := c.Move(ctx, choice.PieceID, choice.Dest)
		if err != nil {
			return nil, fmt.Errorf("move %s: %w", choice.PieceID, err)
		}
		if !result.Success {
			logger.Warn("move rejected", zap.String("piece", choice.PieceID), zap.String("dest", hexgrid.Key(choice.Dest)), zap.String("reason", result.Message))
			if result.GameState != nil {
				state = result.GameState
			}
			return state, nil
		}

		report.Moves++
		strategy.Moved(choice.PieceID, choice.Dest)
		state = result.GameState
		logger.Debug("moved",
			zap.String("piece", choice.PieceID),
			zap.String("to", hexgrid.Key(choice.Dest)),
			zap.Int("distance", choice.Score),
			zap.String("card", result.Outcome.CardID))

		if result.Outcome.Victory || result.Outcome.HandEmpty {
			return state, nil
		}
		if delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
}
