package session

import (
	"fmt"

	petname "github.com/dustinkirkland/golang-petname"

	"github.com/qnkhuat/peerchess/pkg/board"
)

// Player is the local side of the game. The name is only shown locally;
// it never crosses the wire.
type Player struct {
	Name  string
	Color board.Color
}

// NewPlayer picks a random name when none is given.
func NewPlayer(name string, color board.Color) Player {
	if name == "" {
		name = petname.Generate(2, "-")
	}
	return Player{Name: name, Color: color}
}

func (p Player) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.Color)
}
