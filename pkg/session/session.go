// Package session runs one side of a two-peer chess game: it alternates
// between picking a local move, waiting for the peer to accept it, and
// validating the peer's move, keeping both boards in step.
package session

import (
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/qnkhuat/peerchess/pkg/board"
	"github.com/qnkhuat/peerchess/pkg/rules"
)

// ErrMoveRejected means the peer refused a move this side had already
// validated. The two boards disagree and the game cannot continue.
var ErrMoveRejected = errors.New("session: move rejected by peer")

// Renderer draws a snapshot of the game.
type Renderer interface {
	Render(Snapshot)
}

// Input blocks until the user clicks and returns the click relative to
// the top-left corner of the board.
type Input interface {
	NextClick() (x, y int, err error)
}

// Snapshot is a read-only copy of everything a renderer needs.
type Snapshot struct {
	Squares     [board.Size][board.Size]board.Square
	Highlight   board.Position
	Highlighted bool
	Targets     []board.Position // legal destinations of the highlighted piece
	Turn        board.Color
	Check       bool // the side to move is in check
	Local       Player
	Status      Status
}

// Session is the mutable game state owned by one running state machine.
type Session struct {
	Board    *board.Board
	Conn     io.ReadWriter
	Player   Player
	Renderer Renderer
	Input    Input
	Layout   Layout
	Log      *zap.SugaredLogger

	// AfterMove runs after every applied move, local or remote. It is the
	// hook for end-of-game handling; the protocol itself has none.
	AfterMove func(m rules.Move, b *board.Board)

	status Status
}

func (s *Session) log() *zap.SugaredLogger {
	if s.Log == nil {
		s.Log = zap.NewNop().Sugar()
	}
	return s.Log
}

// Snapshot captures the current board for the renderer.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Squares: s.Board.Squares(),
		Turn:    s.Board.Turn(),
		Check:   rules.InCheck(s.Board, s.Board.Turn()),
		Local:   s.Player,
		Status:  s.status,
	}
}

func (s *Session) draw(status Status, highlight *board.Position) {
	s.status = status
	if s.Renderer == nil {
		return
	}
	snap := s.Snapshot()
	if highlight != nil {
		snap.Highlight = *highlight
		snap.Highlighted = true
		snap.Targets = rules.LegalTargets(s.Board, *highlight)
	}
	s.Renderer.Render(snap)
}

func (s *Session) apply(m rules.Move) {
	mover := s.Board.Turn()
	rules.Apply(s.Board, m.From, m.To)
	s.log().Infow("Applied move", "move", m.String(), "by", mover.String(), "fen", s.Board.FEN())
	if s.AfterMove != nil {
		s.AfterMove(m, s.Board)
	}
}

// pick waits for a click on the board that satisfies accept.
func (s *Session) pick(accept func(board.Position) bool) (board.Position, error) {
	for {
		x, y, err := s.Input.NextClick()
		if err != nil {
			return board.Position{}, err
		}
		p, ok := s.Layout.Square(x, y)
		if !ok {
			continue
		}
		if accept == nil || accept(p) {
			return p, nil
		}
	}
}
