package board

import (
	"strings"

	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

var ErrInvalidFEN = errors.New("board: invalid FEN")

var (
	toKind = map[chess.PieceType]Kind{
		chess.Pawn:   Pawn,
		chess.Knight: Knight,
		chess.Bishop: Bishop,
		chess.Rook:   Rook,
		chess.Queen:  Queen,
		chess.King:   King,
	}
	fromKind = map[Kind]chess.PieceType{
		Pawn:   chess.Pawn,
		Knight: chess.Knight,
		Bishop: chess.Bishop,
		Rook:   chess.Rook,
		Queen:  chess.Queen,
		King:   chess.King,
	}
)

func toSquare(p Position) chess.Square {
	return chess.Square(int(Size-1-p.Rank)*Size + int(p.File))
}

func fromSquare(sq chess.Square) Position {
	return Pos(int(sq.File()), Size-1-int(sq.Rank()))
}

func toColor(c chess.Color) Color {
	if c == chess.Black {
		return Black
	}
	return White
}

func fromColor(c Color) chess.Color {
	if c == Black {
		return chess.Black
	}
	return chess.White
}

// FromFEN builds a board from a FEN string. Pawns off their starting rank
// are marked as moved. Move counters are ignored.
func FromFEN(fen string) (*Board, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidFEN, "%q: %v", fen, err)
	}
	pos := chess.NewGame(opt).Position()

	b := New()
	kings := [2]int{}
	for sq, p := range pos.Board().SquareMap() {
		k, ok := toKind[p.Type()]
		if !ok {
			continue
		}
		color := toColor(p.Color())
		at := fromSquare(sq)
		square := Occupied(k, color)
		if k == Pawn {
			square.Piece.Moved = at.Rank != pawnRank(color)
		}
		if k == King {
			kings[color]++
		}
		b.Set(at, square)
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return nil, errors.Wrapf(ErrInvalidFEN, "%q: want one king per side", fen)
	}

	b.turn = toColor(pos.Turn())
	rights := pos.CastleRights()
	for _, c := range []Color{White, Black} {
		b.castle[c][Left] = rights.CanCastle(fromColor(c), chess.QueenSide)
		b.castle[c][Right] = rights.CanCastle(fromColor(c), chess.KingSide)
	}
	if ep := pos.EnPassantSquare(); ep != chess.NoSquare {
		// FEN names the skipped square; the board tracks the pawn itself.
		mover := b.turn.Opponent()
		if p, ok := fromSquare(ep).Offset(0, mover.Forward()); ok {
			b.SetEnPassant(p)
		}
	}
	return b, nil
}

func pawnRank(c Color) uint8 {
	if c == White {
		return Size - 2
	}
	return 1
}

// FEN renders the position. Move counters are always "0 1".
func (b *Board) FEN() string {
	m := make(map[chess.Square]chess.Piece)
	for p, sq := range b.Pieces() {
		m[toSquare(p)] = chess.NewPiece(fromKind[sq.Piece.Kind], fromColor(sq.Color))
	}

	fields := []string{chess.NewBoard(m).String(), "w", "", "-", "0", "1"}
	if b.turn == Black {
		fields[1] = "b"
	}

	var rights strings.Builder
	for _, r := range []struct {
		c Color
		s Side
		l byte
	}{{White, Right, 'K'}, {White, Left, 'Q'}, {Black, Right, 'k'}, {Black, Left, 'q'}} {
		if b.castle[r.c][r.s] {
			rights.WriteByte(r.l)
		}
	}
	fields[2] = rights.String()
	if fields[2] == "" {
		fields[2] = "-"
	}

	if ep, ok := b.EnPassant(); ok {
		mover := b.turn.Opponent()
		if skipped, ok := ep.Offset(0, -mover.Forward()); ok {
			fields[3] = skipped.String()
		}
	}
	return strings.Join(fields, " ")
}
