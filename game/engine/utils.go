package engine

import (
	"github.com/wricardo/hexdiamond/game/board"
	"github.com/wricardo/hexdiamond/game/hexgrid"
)

// CountTerrain counts the hexes of every terrain on a board
func CountTerrain(b *board.Board) map[board.Terrain]int {
	counts := make(map[board.Terrain]int)
	for _, h := range b.Hexes() {
		counts[h.Terrain]++
	}
	return counts
}

// NearestDiamond finds the closest diamond hex by hex distance and returns its position and distance
func NearestDiamond(b *board.Board, from hexgrid.Coord) (hexgrid.Coord, int, bool) {
	minDistance := -1
	var nearest hexgrid.Coord
	for _, c := range b.Find(board.Diamond) {
		d := hexgrid.Distance(from, c)
		if minDistance == -1 || d < minDistance {
			minDistance = d
			nearest = c
		}
	}
	return nearest, minDistance, minDistance >= 0
}

// HexInfo describes one coordinate from the acting player's point of view
type HexInfo struct {
	Coord             hexgrid.Coord   `json:"coord"`
	Key               string          `json:"key"`
	OnBoard           bool            `json:"on_board"`
	Terrain           board.Terrain   `json:"terrain"`
	Texture           string          `json:"texture,omitempty"`
	Piece             *Piece          `json:"piece,omitempty"`
	Reachable         bool            `json:"reachable"`
	CardID            string          `json:"card_id,omitempty"`
	Path              []hexgrid.Coord `json:"path,omitempty"`
	DistanceToDiamond int             `json:"distance_to_diamond"`
}

// DescribeHex reports what sits at c and whether the selected piece can reach it
func (e *GameEngine) DescribeHex(c hexgrid.Coord) HexInfo {
	info := HexInfo{Coord: c, Key: hexgrid.Key(c), Terrain: board.Unknown, DistanceToDiamond: -1}
	if h, ok := e.board.Get(c); ok {
		info.OnBoard = true
		info.Terrain = h.Terrain
		info.Texture = h.Texture
	}
	if p, ok := e.PieceAt(c); ok {
		info.Piece = &p
	}
	if entry, ok := e.Reachable("").Lookup(c); ok {
		info.Reachable = true
		info.CardID = entry.CardID
		info.Path = entry.Path
	}
	if _, d, ok := NearestDiamond(e.board, c); ok {
		info.DistanceToDiamond = d
	}
	return info
}
