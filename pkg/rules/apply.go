package rules

import "github.com/qnkhuat/peerchess/pkg/board"

func isCastle(king board.Square, from, to board.Position) bool {
	df, dr := delta(from, to)
	return king.Piece.Kind == board.King && dr == 0 && abs(df) == 2
}

func sideOf(df int) board.Side {
	if df > 0 {
		return board.Right
	}
	return board.Left
}

func corner(c board.Color, s board.Side) board.Position {
	return board.Position{File: s.RookFile(), Rank: c.HomeRank()}
}

// canCastle checks rights, the rook, the path between king and rook and
// that the king neither starts on nor crosses an attacked square. The
// landing square is left to the self-check rule.
func canCastle(b *board.Board, c board.Color, from, to board.Position) bool {
	df, _ := delta(from, to)
	side := sideOf(df)
	if !b.CanCastle(c, side) || from != board.Pos(4, int(c.HomeRank())) {
		return false
	}
	rook := corner(c, side)
	if !b.At(rook).Is(board.Rook, c) || !rookPath(b, rook, from) {
		return false
	}
	transit, _ := from.Offset(sign(df), 0)
	opp := c.Opponent()
	return !IsSquareAttacked(b, from, opp) && !IsSquareAttacked(b, transit, opp)
}

// clearCorner drops the castling right tied to a rook corner once
// anything leaves or lands on it.
func clearCorner(b *board.Board, p board.Position) {
	for _, c := range []board.Color{board.White, board.Black} {
		for _, s := range []board.Side{board.Left, board.Right} {
			if p == corner(c, s) {
				b.SetCastle(c, s, false)
			}
		}
	}
}

// Apply plays the move on b. The caller must have checked it with IsLegal.
func Apply(b *board.Board, from, to board.Position) {
	sq := b.At(from)
	color := sq.Color
	df, dr := delta(from, to)

	prevEP, hadEP := b.EnPassant()
	b.ClearEnPassant()

	switch sq.Piece.Kind {
	case board.King:
		if isCastle(sq, from, to) {
			rook := corner(color, sideOf(df))
			rookTo, _ := to.Offset(-sign(df), 0)
			b.Set(rookTo, b.At(rook))
			b.Set(rook, board.Empty)
		}
		b.SetCastle(color, board.Left, false)
		b.SetCastle(color, board.Right, false)
	case board.Rook:
		clearCorner(b, from)
	case board.Pawn:
		if abs(dr) == 2 {
			b.SetEnPassant(to)
		} else if df != 0 && !b.At(to).Occupied && hadEP {
			b.Set(prevEP, board.Empty)
		}
		sq.Piece.Moved = true
	}
	// a rook captured on its corner
	clearCorner(b, to)

	b.Set(to, sq)
	b.Set(from, board.Empty)
	b.SetTurn(color.Opponent())
}
