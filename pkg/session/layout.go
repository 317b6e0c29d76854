package session

import "github.com/qnkhuat/peerchess/pkg/board"

// Layout maps between board positions and coordinates relative to the
// board's top-left corner. Flip draws the board from Black's side.
type Layout struct {
	TileWidth  int
	TileHeight int
	Flip       bool
}

// Square returns the position under (x, y), or false outside the board.
func (l Layout) Square(x, y int) (board.Position, bool) {
	if x < 0 || y < 0 || l.TileWidth <= 0 || l.TileHeight <= 0 {
		return board.Position{}, false
	}
	col, row := x/l.TileWidth, y/l.TileHeight
	if col >= board.Size || row >= board.Size {
		return board.Position{}, false
	}
	if l.Flip {
		col, row = board.Size-1-col, board.Size-1-row
	}
	return board.Pos(col, row), true
}

// Origin returns the top-left coordinate of the tile showing p.
func (l Layout) Origin(p board.Position) (x, y int) {
	col, row := int(p.File), int(p.Rank)
	if l.Flip {
		col, row = board.Size-1-col, board.Size-1-row
	}
	return col * l.TileWidth, row * l.TileHeight
}
