package board

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitial(t *testing.T) {
	b := Initial()

	assert.Equal(t, White, b.Turn())
	for _, c := range []Color{White, Black} {
		assert.True(t, b.CanCastle(c, Left), "%s left", c)
		assert.True(t, b.CanCastle(c, Right), "%s right", c)
	}
	_, ok := b.EnPassant()
	assert.False(t, ok)

	assert.True(t, b.At(MustParse("e1")).Is(King, White))
	assert.True(t, b.At(MustParse("e8")).Is(King, Black))
	assert.True(t, b.At(MustParse("d1")).Is(Queen, White))
	assert.True(t, b.At(MustParse("a8")).Is(Rook, Black))
	assert.True(t, b.At(MustParse("g2")).Is(Pawn, White))
	assert.False(t, b.At(MustParse("g2")).Piece.Moved)
	assert.False(t, b.At(MustParse("e4")).Occupied)

	want := "rnbqkbnr\npppppppp\n........\n........\n........\n........\nPPPPPPPP\nRNBQKBNR\nWhite to move"
	if diff := cmp.Diff(want, b.String()); diff != "" {
		t.Errorf("Initial().String() mismatch (-want +got):\n%s", diff)
	}
}

func TestPiecesOrder(t *testing.T) {
	b := New()
	b.Set(Pos(3, 5), Occupied(Knight, White))
	b.Set(Pos(7, 0), Occupied(King, Black))
	b.Set(Pos(0, 5), Occupied(King, White))
	b.Set(Pos(2, 0), Occupied(Rook, Black))

	var got []Position
	for p := range b.Pieces() {
		got = append(got, p)
	}
	want := []Position{Pos(2, 0), Pos(7, 0), Pos(0, 5), Pos(3, 5)}
	assert.Equal(t, want, got)

	// restartable
	n := 0
	for range b.Pieces() {
		n++
	}
	assert.Equal(t, 4, n)

	// early stop
	for p := range b.Pieces() {
		assert.Equal(t, Pos(2, 0), p)
		break
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := Initial()
	cp := b.Clone()
	cp.Set(MustParse("e2"), Empty)
	cp.SetTurn(Black)
	cp.SetCastle(White, Left, false)
	cp.SetEnPassant(MustParse("d5"))

	assert.True(t, b.At(MustParse("e2")).Is(Pawn, White))
	assert.Equal(t, White, b.Turn())
	assert.True(t, b.CanCastle(White, Left))
	_, ok := b.EnPassant()
	assert.False(t, ok)
}

func TestKing(t *testing.T) {
	b := Initial()
	p, ok := b.King(Black)
	require.True(t, ok)
	assert.Equal(t, "e8", p.String())

	_, ok = New().King(White)
	assert.False(t, ok)
}

func TestPosition(t *testing.T) {
	tests := []struct {
		name string
		pos  Position
	}{
		{"a8", Pos(0, 0)},
		{"h8", Pos(7, 0)},
		{"a1", Pos(0, 7)},
		{"e2", Pos(4, 6)},
		{"d5", Pos(3, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.pos.String())
			got, err := ParsePosition(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.pos, got)
		})
	}

	for _, bad := range []string{"", "e", "i1", "a9", "a0", "e22"} {
		_, err := ParsePosition(bad)
		assert.Error(t, err, "ParsePosition(%q)", bad)
	}

	_, ok := Pos(0, 0).Offset(-1, 0)
	assert.False(t, ok)
	p, ok := Pos(0, 0).Offset(1, 2)
	assert.True(t, ok)
	assert.Equal(t, Pos(1, 2), p)
	assert.False(t, Pos(8, 0).Valid())
}

func TestSquareLetter(t *testing.T) {
	assert.Equal(t, byte('.'), Empty.Letter())
	assert.Equal(t, byte('K'), Occupied(King, White).Letter())
	assert.Equal(t, byte('n'), Occupied(Knight, Black).Letter())
}
