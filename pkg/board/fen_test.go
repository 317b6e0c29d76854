package board

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func TestFromFENInitial(t *testing.T) {
	b, err := FromFEN(startFEN)
	require.NoError(t, err)

	if diff := cmp.Diff(Initial().Squares(), b.Squares()); diff != "" {
		t.Errorf("FromFEN(start) squares mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, startFEN, b.FEN())
	assert.Equal(t, startFEN, Initial().FEN())
}

func TestFENRoundTrip(t *testing.T) {
	tests := []string{
		"4k3/8/8/8/8/8/8/4K2R w K - 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R b Qk - 0 1",
		"rnbqkbnr/pppp1ppp/8/8/3Pp3/8/PPP1PPPP/RNBQKBNR b KQkq d3 0 1",
		"rnbqkbnr/ppp1pppp/8/3pP3/8/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 1",
	}
	for _, fen := range tests {
		t.Run(fen, func(t *testing.T) {
			b, err := FromFEN(fen)
			require.NoError(t, err)
			assert.Equal(t, fen, b.FEN())
		})
	}
}

func TestFromFENEnPassantPawn(t *testing.T) {
	b, err := FromFEN("rnbqkbnr/pppp1ppp/8/8/3Pp3/8/PPP1PPPP/RNBQKBNR b KQkq d3 0 1")
	require.NoError(t, err)

	ep, ok := b.EnPassant()
	require.True(t, ok)
	assert.Equal(t, "d4", ep.String())
	assert.True(t, b.At(MustParse("d4")).Piece.Moved)
	assert.False(t, b.At(MustParse("c2")).Piece.Moved)
	assert.True(t, b.At(MustParse("e4")).Piece.Moved)
}

func TestFromFENErrors(t *testing.T) {
	for _, fen := range []string{
		"",
		"not a fen",
		"8/8/8/8/8/8/8/4K3 w - - 0 1",
	} {
		_, err := FromFEN(fen)
		assert.True(t, errors.Is(err, ErrInvalidFEN), "FromFEN(%q) = %v", fen, err)
	}
}
