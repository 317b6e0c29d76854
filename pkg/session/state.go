package session

import (
	"github.com/pkg/errors"

	"github.com/qnkhuat/peerchess/pkg/board"
	"github.com/qnkhuat/peerchess/pkg/rules"
	"github.com/qnkhuat/peerchess/pkg/wire"
)

type Kind int

const (
	MyMove Kind = iota
	AwaitAck
	OtherMove
)

func (k Kind) String() string {
	switch k {
	case MyMove:
		return "MyMove"
	case AwaitAck:
		return "AwaitAck"
	case OtherMove:
		return "OtherMove"
	default:
		return "Unknown"
	}
}

// State is one of the three session states. Move is set only in AwaitAck.
type State struct {
	Kind Kind
	Move rules.Move
}

func (st State) String() string {
	if st.Kind == AwaitAck {
		return st.Kind.String() + "(" + st.Move.String() + ")"
	}
	return st.Kind.String()
}

// InitialState: the side to move picks first. From the standard position
// that is White, played by the listening peer.
func InitialState(b *board.Board, local board.Color) State {
	if b.Turn() == local {
		return State{Kind: MyMove}
	}
	return State{Kind: OtherMove}
}

// Step runs one state to completion and returns the next one. On error the
// returned state is the one that failed.
func Step(st State, s *Session) (State, error) {
	switch st.Kind {
	case MyMove:
		return s.myMove()
	case AwaitAck:
		return s.awaitAck(st.Move)
	case OtherMove:
		return s.otherMove()
	}
	return st, errors.Errorf("session: unknown state %d", st.Kind)
}

// Run steps from st until a step fails. There is no terminal state.
func Run(st State, s *Session) error {
	s.log().Infow("Session started", "player", s.Player.String(), "state", st.String())
	for {
		next, err := Step(st, s)
		if err != nil {
			s.log().Errorw("Session stopped", "state", st.String(), "error", err)
			return err
		}
		s.log().Debugw("Transition", "from", st.String(), "to", next.String())
		st = next
	}
}

func (s *Session) myMove() (State, error) {
	st := State{Kind: MyMove}
	s.draw(StatusYourMove, nil)
	for {
		from, err := s.pick(func(p board.Position) bool {
			return s.Board.Turn() == s.Player.Color && rules.IsLegalStart(s.Board, p)
		})
		if err != nil {
			return st, err
		}
		s.draw(StatusYourMove, &from)

		to, err := s.pick(nil)
		if err != nil {
			return st, err
		}
		s.draw(StatusYourMove, nil)

		if rules.IsLegal(s.Board, from, to) {
			return State{Kind: AwaitAck, Move: rules.Move{From: from, To: to}}, nil
		}
		s.log().Debugw("Illegal selection", "from", from.String(), "to", to.String())
	}
}

func (s *Session) awaitAck(m rules.Move) (State, error) {
	st := State{Kind: AwaitAck, Move: m}
	if err := wire.Write(s.Conn, wire.MessageMove{From: m.From, To: m.To}); err != nil {
		return st, err
	}
	s.log().Infow("Sent move", "move", m.String())
	s.draw(StatusAwaitAck, nil)

	for {
		msg, err := wire.Read(s.Conn)
		if err != nil {
			return st, err
		}
		switch msg.(type) {
		case wire.MessageAckMove:
			s.apply(m)
			s.draw(StatusTheirMove, nil)
			return State{Kind: OtherMove}, nil
		case wire.MessageRejMove:
			return st, errors.Wrapf(ErrMoveRejected, "move %s", m)
		default:
			s.log().Warnw("Discarding message while awaiting ack", "message", msg.Type().String())
		}
	}
}

func (s *Session) otherMove() (State, error) {
	st := State{Kind: OtherMove}
	s.draw(StatusTheirMove, nil)

	for {
		msg, err := wire.Read(s.Conn)
		if err != nil {
			return st, err
		}
		mv, ok := msg.(wire.MessageMove)
		if !ok {
			s.log().Warnw("Discarding message while awaiting a move", "message", msg.Type().String())
			continue
		}
		m := rules.Move{From: mv.From, To: mv.To}

		if s.Board.Turn() != s.Player.Color && rules.IsLegal(s.Board, m.From, m.To) {
			s.apply(m)
			if err := wire.Write(s.Conn, wire.MessageAckMove{}); err != nil {
				return st, err
			}
			s.log().Infow("Accepted move", "move", m.String())
			return State{Kind: MyMove}, nil
		}

		if err := wire.Write(s.Conn, wire.MessageRejMove{}); err != nil {
			return st, err
		}
		s.log().Warnw("Rejected illegal move", "move", m.String())
		s.draw(StatusRejected, nil)
	}
}
