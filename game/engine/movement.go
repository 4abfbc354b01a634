package engine

import (
	"fmt"
	"time"

	"github.com/wricardo/hexdiamond/game/board"
	"github.com/wricardo/hexdiamond/game/cards"
	"github.com/wricardo/hexdiamond/game/hexgrid"
	"github.com/wricardo/hexdiamond/game/reach"
)

// Reachable returns where a piece may move with the acting player's hand.
// An empty pieceID means the selected piece. Pieces of other players, and
// every piece once the game is won, reach nothing.
func (e *GameEngine) Reachable(pieceID string) reach.Result {
	if pieceID == "" {
		pieceID = e.selectedPiece
	}
	if e.cache.valid && e.cache.version == e.version && e.cache.pieceID == pieceID {
		return e.cache.result
	}

	var res reach.Result
	p, ok := e.Piece(pieceID)
	if ok && !e.IsWon() && p.Player == e.currentPlayer {
		selected := ""
		if c, ok := e.store.Selected(e.currentPlayer); ok {
			selected = c.ID
		}
		res = reach.Compute(p.Pos, e.store.Hand(e.currentPlayer), selected, e.board, e, reach.Options{
			DiamondWildcard: e.config.Rules.DiamondWildcard,
		})
	} else {
		res = reach.Compute(hexgrid.Coord{}, nil, "", nil, nil, reach.Options{})
	}

	e.cache = reachCache{pieceID: pieceID, version: e.version, result: res, valid: true}
	return res
}

// ReachableView returns Reachable in a serializable form.
func (e *GameEngine) ReachableView(pieceID string) ReachableView {
	if pieceID == "" {
		pieceID = e.selectedPiece
	}
	res := e.Reachable(pieceID)
	p, _ := e.Piece(pieceID)
	return ReachableView{
		PieceID:      pieceID,
		Origin:       p.Pos,
		Destinations: res.Destinations(),
		Entries:      res.Map(),
	}
}

// HasAnyMoves reports whether any of the acting player's pieces can move.
func (e *GameEngine) HasAnyMoves() bool {
	for _, p := range e.pieces {
		if p.Player == e.currentPlayer && !e.Reachable(p.ID).Empty() {
			return true
		}
	}
	return false
}

// Move moves a piece to a destination from its reachability result. A
// destination outside the result changes nothing.
func (e *GameEngine) Move(pieceID string, dest hexgrid.Coord) MoveOutcome {
	if pieceID == "" {
		pieceID = e.selectedPiece
	}
	if out, ok := e.precheck(pieceID); !ok {
		return out
	}
	entry, ok := e.Reachable(pieceID).Lookup(dest)
	if !ok {
		p, _ := e.Piece(pieceID)
		return e.failure(p, ReasonInvalidDestination, dest)
	}
	return e.ApplyMove(pieceID, entry.Path, entry.CardID)
}

// ApplyMove relocates a piece to the end of path and spends cardID. It
// fails without side effects if the game is won, the piece is not the
// acting player's, the path does not start at the piece, the destination
// is occupied, the card is not in hand, or the card cannot carry the piece
// along path.
func (e *GameEngine) ApplyMove(pieceID string, path []hexgrid.Coord, cardID string) MoveOutcome {
	if out, ok := e.precheck(pieceID); !ok {
		return out
	}
	idx := e.pieceIndex(pieceID)
	p := e.pieces[idx]

	if len(path) < 2 || path[0] != p.Pos {
		return e.failure(p, ReasonInvalidPath, p.Pos)
	}
	dest := path[len(path)-1]
	if e.Occupied(dest) {
		return e.failure(p, ReasonOccupied, dest)
	}
	var spent *cards.Card
	for _, c := range e.store.Hand(e.currentPlayer) {
		if c.ID == cardID {
			spent = &c
			break
		}
	}
	if spent == nil {
		return e.failure(p, ReasonCardNotInHand, dest)
	}
	if !reach.Follows(path, *spent, e.board, e, reach.Options{DiamondWildcard: e.config.Rules.DiamondWildcard}) {
		return e.failure(p, ReasonInvalidDestination, dest)
	}

	e.phase = PhaseMoving
	from := p.Pos
	e.pieces[idx].Pos = dest
	e.store.Consume(e.currentPlayer, cardID)
	e.invalidate()

	victory := e.board.TerrainOf(dest) == board.Diamond
	if victory {
		e.winner = e.currentPlayer
		e.phase = PhaseWon
		e.selectedPiece = ""
		e.message = fmt.Sprintf(e.config.Messages.Victory, e.winner)
	} else {
		e.phase = PhaseAwaitingSelection
		e.selectedPiece = ""
		e.message = fmt.Sprintf("%s moved to %s", pieceID, hexgrid.Key(dest))
	}

	e.addMoveToHistory(MoveHistoryEntry{
		PieceID:      pieceID,
		Player:       p.Player,
		CardID:       cardID,
		Card:         spent,
		FromPosition: from,
		ToPosition:   dest,
		Path:         append([]hexgrid.Coord(nil), path...),
		Turn:         e.turn,
		Success:      true,
		Victory:      victory,
	})

	handEmpty := e.store.HandEmpty(e.currentPlayer)
	if !victory && handEmpty {
		e.message += "; " + e.config.Messages.NoMoves
	}

	return MoveOutcome{
		Success:   true,
		PieceID:   pieceID,
		Player:    p.Player,
		CardID:    cardID,
		From:      from,
		To:        dest,
		Path:      append([]hexgrid.Coord(nil), path...),
		Victory:   victory,
		Winner:    e.winner,
		HandEmpty: handEmpty,
		Message:   e.message,
	}
}

// precheck rejects moves once the game is won or for pieces the acting
// player does not own.
func (e *GameEngine) precheck(pieceID string) (MoveOutcome, bool) {
	p, ok := e.Piece(pieceID)
	switch {
	case e.IsWon():
		return e.failure(p, ReasonGameWon, p.Pos), false
	case !ok:
		return MoveOutcome{PieceID: pieceID, Reason: ReasonPieceNotFound, Winner: e.winner, HandEmpty: e.store.HandEmpty(e.currentPlayer)}, false
	case p.Player != e.currentPlayer:
		return e.failure(p, ReasonNotYourPiece, p.Pos), false
	}
	return MoveOutcome{}, true
}

func (e *GameEngine) failure(p Piece, reason string, to hexgrid.Coord) MoveOutcome {
	msg := "move rejected: " + reason
	if reason == ReasonInvalidDestination {
		msg = e.config.Messages.InvalidMove
	}
	return MoveOutcome{
		Success:   false,
		Reason:    reason,
		Message:   msg,
		PieceID:   p.ID,
		Player:    p.Player,
		From:      p.Pos,
		To:        to,
		Winner:    e.winner,
		HandEmpty: e.store.HandEmpty(e.currentPlayer),
	}
}

// addMoveToHistory adds a move to the game's move history
func (e *GameEngine) addMoveToHistory(entry MoveHistoryEntry) {
	entry.Timestamp = time.Now().Unix()
	entry.MoveNumber = e.totalMoves + 1

	// Append to cumulative history (never cleared by reset) and increment total
	e.moveHistory = append(e.moveHistory, entry)
	e.totalMoves++

	// Append to current segment history and increment its counter
	e.currentMoves = append(e.currentMoves, entry)
	e.currentMovesCount++
}
