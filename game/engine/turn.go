package engine

import "fmt"

// StartTurn draws the acting player's cards and selects their first piece.
// Leftover hand cards from an interrupted turn are discarded first.
func (e *GameEngine) StartTurn() {
	if e.IsWon() {
		return
	}
	e.phase = PhaseTurnStart
	e.selectedPiece = ""
	e.store.DiscardHand(e.currentPlayer)
	e.store.Draw(e.currentPlayer, e.config.HandSize)
	if e.config.Rules.AutoLand {
		e.store.LandAll(e.currentPlayer)
	}
	e.phase = PhaseAwaitingSelection
	e.message = fmt.Sprintf(e.config.Messages.TurnStart, e.currentPlayer)
	e.invalidate()

	for _, p := range e.pieces {
		if p.Player == e.currentPlayer {
			e.SelectPiece(p.ID)
			break
		}
	}
}

// EndTurn discards the acting player's hand and starts the next player's turn.
func (e *GameEngine) EndTurn() bool {
	if e.IsWon() {
		return false
	}
	e.phase = PhaseTurnEnd
	e.store.DiscardHand(e.currentPlayer)
	e.selectedPiece = ""
	e.currentPlayer = e.currentPlayer%e.config.Players + 1
	e.turn++
	e.invalidate()
	e.StartTurn()
	return true
}

// SelectPiece marks one of the acting player's pieces as the one to move.
func (e *GameEngine) SelectPiece(pieceID string) bool {
	if e.IsWon() {
		return false
	}
	p, ok := e.Piece(pieceID)
	if !ok || p.Player != e.currentPlayer {
		return false
	}
	e.selectedPiece = pieceID
	e.phase = PhaseAwaitingDestination
	e.invalidate()
	return true
}

// SelectCard pre-selects a hand card so only it is searched. Selecting the
// selected card again, or "", clears the selection.
func (e *GameEngine) SelectCard(cardID string) bool {
	if e.IsWon() {
		return false
	}
	if !e.store.Select(e.currentPlayer, cardID) {
		return false
	}
	e.invalidate()
	return true
}

// LandCards moves the acting player's pending cards into their hand. With no
// ids every pending card lands.
func (e *GameEngine) LandCards(cardIDs ...string) int {
	var n int
	if len(cardIDs) == 0 {
		n = e.store.LandAll(e.currentPlayer)
	} else {
		n = e.store.Land(e.currentPlayer, cardIDs...)
	}
	if n > 0 {
		e.invalidate()
	}
	return n
}
