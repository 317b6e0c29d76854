// Package board holds the chess position: squares, side to move, castling
// rights and the en passant pawn. It has no move logic; pkg/rules mutates it.
package board

import (
	"fmt"
	"iter"
	"strings"
)

const Size = 8

type Color uint8

const (
	White Color = iota
	Black
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Forward is the rank delta of a pawn advance. White starts at the
// bottom of the board (rank index 7) and moves toward rank 0.
func (c Color) Forward() int {
	if c == White {
		return -1
	}
	return 1
}

// HomeRank is the rank index of the color's back rank.
func (c Color) HomeRank() uint8 {
	if c == White {
		return Size - 1
	}
	return 0
}

func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "Unknown"
	}
}

type Kind uint8

const (
	Pawn Kind = iota
	Knight
	Bishop
	Rook
	Queen
	King
)

var kindLetters = [...]byte{'p', 'n', 'b', 'r', 'q', 'k'}

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "Unknown"
	}
}

// Piece is a chess man. Moved is only meaningful for pawns, where it
// forbids the two square advance.
type Piece struct {
	Kind  Kind
	Moved bool
}

// Square is either empty (the zero value) or holds a piece of one color.
type Square struct {
	Occupied bool
	Piece    Piece
	Color    Color
}

var Empty = Square{}

func Occupied(k Kind, c Color) Square {
	return Square{Occupied: true, Piece: Piece{Kind: k}, Color: c}
}

// Is reports whether the square holds a piece of kind k and color c.
func (s Square) Is(k Kind, c Color) bool {
	return s.Occupied && s.Piece.Kind == k && s.Color == c
}

// Letter is the FEN letter of the square, '.' when empty.
func (s Square) Letter() byte {
	if !s.Occupied {
		return '.'
	}
	l := kindLetters[s.Piece.Kind]
	if s.Color == White {
		l -= 'a' - 'A'
	}
	return l
}

// Side selects a castling direction. Left is the a-file rook, Right the h-file rook.
type Side uint8

const (
	Left Side = iota
	Right
)

// RookFile is the file of the rook's home corner for the side.
func (s Side) RookFile() uint8 {
	if s == Left {
		return 0
	}
	return Size - 1
}

type Board struct {
	squares   [Size][Size]Square // [rank][file]
	turn      Color
	castle    [2][2]bool // [color][side]
	enPassant Position
	hasEP     bool
}

// New returns an empty board with White to move and no castling rights.
func New() *Board {
	return &Board{turn: White}
}

const initialPlacement = "" +
	"rnbqkbnr" +
	"pppppppp" +
	"........" +
	"........" +
	"........" +
	"........" +
	"PPPPPPPP" +
	"RNBQKBNR"

// Initial returns the standard starting position.
func Initial() *Board {
	b := New()
	for i := 0; i < len(initialPlacement); i++ {
		sq, _ := squareFromLetter(initialPlacement[i])
		b.squares[i/Size][i%Size] = sq
	}
	for c := range b.castle {
		b.castle[c] = [2]bool{true, true}
	}
	return b
}

func squareFromLetter(l byte) (Square, bool) {
	if l == '.' {
		return Empty, true
	}
	color := Black
	if l >= 'A' && l <= 'Z' {
		color = White
		l += 'a' - 'A'
	}
	for k, kl := range kindLetters {
		if kl == l {
			return Occupied(Kind(k), color), true
		}
	}
	return Empty, false
}

func (b *Board) At(p Position) Square {
	return b.squares[p.Rank][p.File]
}

func (b *Board) Set(p Position, sq Square) {
	b.squares[p.Rank][p.File] = sq
}

func (b *Board) Turn() Color { return b.turn }

func (b *Board) SetTurn(c Color) { b.turn = c }

func (b *Board) CanCastle(c Color, s Side) bool { return b.castle[c][s] }

func (b *Board) SetCastle(c Color, s Side, ok bool) { b.castle[c][s] = ok }

// EnPassant returns the pawn that has just advanced two squares, if any.
func (b *Board) EnPassant() (Position, bool) {
	return b.enPassant, b.hasEP
}

func (b *Board) SetEnPassant(p Position) {
	b.enPassant = p
	b.hasEP = true
}

func (b *Board) ClearEnPassant() {
	b.enPassant = Position{}
	b.hasEP = false
}

// Clone returns an independent copy.
func (b *Board) Clone() *Board {
	cp := *b
	return &cp
}

// Squares returns a copy of the grid indexed [rank][file].
func (b *Board) Squares() [Size][Size]Square {
	return b.squares
}

// Pieces yields every occupied square, rank by rank then file by file.
func (b *Board) Pieces() iter.Seq2[Position, Square] {
	return func(yield func(Position, Square) bool) {
		for r := uint8(0); r < Size; r++ {
			for f := uint8(0); f < Size; f++ {
				sq := b.squares[r][f]
				if !sq.Occupied {
					continue
				}
				if !yield(Position{File: f, Rank: r}, sq) {
					return
				}
			}
		}
	}
}

// King finds the king of color c.
func (b *Board) King(c Color) (Position, bool) {
	for p, sq := range b.Pieces() {
		if sq.Is(King, c) {
			return p, true
		}
	}
	return Position{}, false
}

// String draws the board as eight rows of FEN letters, rank 0 first.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < Size; r++ {
		for f := 0; f < Size; f++ {
			sb.WriteByte(b.squares[r][f].Letter())
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "%s to move", b.turn)
	return sb.String()
}
