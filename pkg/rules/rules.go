// Package rules provides chess move validation and board manipulation
// on top of the board model.
package rules

import (
	"fmt"

	"github.com/qnkhuat/peerchess/pkg/board"
)

// Move is a from/to pair. Promotion is not part of the game.
type Move struct {
	From board.Position
	To   board.Position
}

func (m Move) String() string {
	return fmt.Sprintf("%s%s", m.From, m.To)
}

// IsLegalStart reports whether p holds a piece of the side to move.
func IsLegalStart(b *board.Board, p board.Position) bool {
	if !p.Valid() {
		return false
	}
	sq := b.At(p)
	return sq.Occupied && sq.Color == b.Turn()
}

// IsLegal reports whether moving the piece on from to to is a legal move
// for the side to move.
func IsLegal(b *board.Board, from, to board.Position) bool {
	if !IsLegalStart(b, from) || !to.Valid() || from == to {
		return false
	}
	mover := b.At(from)
	target := b.At(to)
	if target.Occupied && target.Color == mover.Color {
		return false
	}

	if isCastle(mover, from, to) {
		if !canCastle(b, mover.Color, from, to) {
			return false
		}
	} else if !reaches(b, from, to, false) {
		return false
	}

	// Self-check rule: covers pins and castling into check.
	scratch := b.Clone()
	Apply(scratch, from, to)
	return !InCheck(scratch, mover.Color)
}

// InCheck reports whether c's king is attacked.
func InCheck(b *board.Board, c board.Color) bool {
	king, ok := b.King(c)
	if !ok {
		return false
	}
	return IsSquareAttacked(b, king, c.Opponent())
}

// LegalTargets lists every square the piece on from may legally move to.
func LegalTargets(b *board.Board, from board.Position) []board.Position {
	if !IsLegalStart(b, from) {
		return nil
	}
	var out []board.Position
	for r := 0; r < board.Size; r++ {
		for f := 0; f < board.Size; f++ {
			to := board.Pos(f, r)
			if IsLegal(b, from, to) {
				out = append(out, to)
			}
		}
	}
	return out
}

// IsCheckmate reports whether c is checkmated: it is c's turn, c's king is
// attacked and no legal move removes the attack. The board is not modified.
func IsCheckmate(b *board.Board, c board.Color) bool {
	if b.Turn() != c || !InCheck(b, c) {
		return false
	}
	for from := range b.Pieces() {
		if !IsLegalStart(b, from) {
			continue
		}
		for r := 0; r < board.Size; r++ {
			for f := 0; f < board.Size; f++ {
				if IsLegal(b, from, board.Pos(f, r)) {
					return false
				}
			}
		}
	}
	return true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

func delta(from, to board.Position) (df, dr int) {
	return int(to.File) - int(from.File), int(to.Rank) - int(from.Rank)
}

// reaches checks the movement geometry of the piece on from, ignoring
// whose turn it is and what stands on to. In attack mode a pawn reaches
// its two forward diagonals whether or not they are occupied, and never
// reaches straight ahead.
func reaches(b *board.Board, from, to board.Position, attack bool) bool {
	sq := b.At(from)
	df, dr := delta(from, to)
	switch sq.Piece.Kind {
	case board.Knight:
		return (abs(df) == 1 && abs(dr) == 2) || (abs(df) == 2 && abs(dr) == 1)
	case board.King:
		return abs(df) <= 1 && abs(dr) <= 1 && (df != 0 || dr != 0)
	case board.Rook:
		return rookPath(b, from, to)
	case board.Bishop:
		return bishopPath(b, from, to)
	case board.Queen:
		return rookPath(b, from, to) || bishopPath(b, from, to)
	case board.Pawn:
		return pawnReaches(b, sq, from, to, attack)
	}
	return false
}

// rookPath: straight line with every square strictly between empty.
func rookPath(b *board.Board, from, to board.Position) bool {
	df, dr := delta(from, to)
	if (df == 0) == (dr == 0) {
		return false
	}
	return clearBetween(b, from, to)
}

// bishopPath: diagonal line with every square strictly between empty.
func bishopPath(b *board.Board, from, to board.Position) bool {
	df, dr := delta(from, to)
	if df == 0 || abs(df) != abs(dr) {
		return false
	}
	return clearBetween(b, from, to)
}

func clearBetween(b *board.Board, from, to board.Position) bool {
	df, dr := delta(from, to)
	sf, sr := sign(df), sign(dr)
	steps := max(abs(df), abs(dr))
	for i := 1; i < steps; i++ {
		p, _ := from.Offset(i*sf, i*sr)
		if b.At(p).Occupied {
			return false
		}
	}
	return true
}

func pawnReaches(b *board.Board, pawn board.Square, from, to board.Position, attack bool) bool {
	fwd := pawn.Color.Forward()
	df, dr := delta(from, to)
	target := b.At(to)

	if abs(df) == 1 && dr == fwd {
		if attack {
			return true
		}
		if target.Occupied {
			return target.Color != pawn.Color
		}
		return enPassantCapture(b, pawn, from, to)
	}
	if attack || df != 0 || target.Occupied {
		return false
	}
	switch dr {
	case fwd:
		return true
	case 2 * fwd:
		mid, _ := from.Offset(0, fwd)
		return !pawn.Piece.Moved && !b.At(mid).Occupied
	}
	return false
}

// enPassantCapture: the pawn moves diagonally onto the square the enemy
// pawn skipped, and that pawn stands beside it.
func enPassantCapture(b *board.Board, pawn board.Square, from, to board.Position) bool {
	ep, ok := b.EnPassant()
	if !ok {
		return false
	}
	beside := board.Position{File: to.File, Rank: from.Rank}
	if beside != ep {
		return false
	}
	victim := b.At(ep)
	return victim.Is(board.Pawn, pawn.Color.Opponent())
}

// IsSquareAttacked reports whether any piece of color by attacks p.
func IsSquareAttacked(b *board.Board, p board.Position, by board.Color) bool {
	for from, sq := range b.Pieces() {
		if sq.Color != by || from == p {
			continue
		}
		if reaches(b, from, p, true) {
			return true
		}
	}
	return false
}
