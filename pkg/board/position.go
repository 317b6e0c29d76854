package board

import (
	"fmt"

	"github.com/pkg/errors"
)

// Position is a square coordinate. Rank 0 is the top row as drawn,
// which is Black's back rank ("8" in algebraic notation).
type Position struct {
	File uint8
	Rank uint8
}

func Pos(file, rank int) Position {
	return Position{File: uint8(file), Rank: uint8(rank)}
}

func (p Position) Valid() bool {
	return p.File < Size && p.Rank < Size
}

// Offset returns the position shifted by (df, dr) and whether it is still on the board.
func (p Position) Offset(df, dr int) (Position, bool) {
	f, r := int(p.File)+df, int(p.Rank)+dr
	if f < 0 || f >= Size || r < 0 || r >= Size {
		return Position{}, false
	}
	return Pos(f, r), true
}

// String returns the algebraic name, e.g. "e2".
func (p Position) String() string {
	if !p.Valid() {
		return fmt.Sprintf("(%d,%d)", p.File, p.Rank)
	}
	return fmt.Sprintf("%c%d", 'a'+p.File, Size-int(p.Rank))
}

// ParsePosition parses an algebraic square name such as "e4".
func ParsePosition(s string) (Position, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Position{}, errors.Errorf("board: invalid square %q", s)
	}
	return Position{File: s[0] - 'a', Rank: Size - (s[1] - '0')}, nil
}

// MustParse is ParsePosition for literals known to be valid.
func MustParse(s string) Position {
	p, err := ParsePosition(s)
	if err != nil {
		panic(err)
	}
	return p
}
