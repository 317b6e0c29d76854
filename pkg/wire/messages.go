// Package wire encodes the three messages two peers exchange: a proposed
// move and its acknowledgement or rejection. Every message is a tag byte
// followed by a fixed payload.
package wire

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/qnkhuat/peerchess/pkg/board"
)

type MessageType byte

const (
	TypeMessageMove MessageType = iota
	TypeMessageAckMove
	TypeMessageRejMove
)

func (m MessageType) String() string {
	switch m {
	case TypeMessageMove:
		return "TypeMessageMove"
	case TypeMessageAckMove:
		return "TypeMessageAckMove"
	case TypeMessageRejMove:
		return "TypeMessageRejMove"
	default:
		return "Unknown MessageType"
	}
}

// payloadSize is the number of bytes following the tag.
func (m MessageType) payloadSize() int {
	if m == TypeMessageMove {
		return 4
	}
	return 0
}

// MessageInterface is implemented by MessageMove, MessageAckMove and MessageRejMove only.
type MessageInterface interface {
	Type() MessageType
	encode(buf []byte)
}

// MessageMove proposes a move.
type MessageMove struct {
	From board.Position
	To   board.Position
}

func (m MessageMove) Type() MessageType { return TypeMessageMove }

func (m MessageMove) encode(buf []byte) {
	buf[0], buf[1], buf[2], buf[3] = m.From.File, m.From.Rank, m.To.File, m.To.Rank
}

func (m MessageMove) String() string {
	return fmt.Sprintf("Move(%s%s)", m.From, m.To)
}

// MessageAckMove accepts the last proposed move.
type MessageAckMove struct{}

func (MessageAckMove) Type() MessageType { return TypeMessageAckMove }
func (MessageAckMove) encode([]byte)     {}
func (MessageAckMove) String() string    { return "AckMove" }

// MessageRejMove rejects the last proposed move.
type MessageRejMove struct{}

func (MessageRejMove) Type() MessageType { return TypeMessageRejMove }
func (MessageRejMove) encode([]byte)     {}
func (MessageRejMove) String() string    { return "RejMove" }

// Encode returns the wire form of m.
func Encode(m MessageInterface) []byte {
	buf := make([]byte, 1+m.Type().payloadSize())
	buf[0] = byte(m.Type())
	m.encode(buf[1:])
	return buf
}

// Write sends m in a single write.
func Write(w io.Writer, m MessageInterface) error {
	if _, err := w.Write(Encode(m)); err != nil {
		return errors.Wrapf(err, "wire: write %s", m.Type())
	}
	return nil
}

// Read blocks until one full message has arrived. A bad tag or coordinate
// yields a *DecodeError; anything else is a transport failure.
func Read(r io.Reader) (MessageInterface, error) {
	var tag [1]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return nil, errors.Wrap(err, "wire: read tag")
	}
	t := MessageType(tag[0])
	switch t {
	case TypeMessageAckMove:
		return MessageAckMove{}, nil
	case TypeMessageRejMove:
		return MessageRejMove{}, nil
	case TypeMessageMove:
	default:
		return nil, &DecodeError{Tag: tag[0], Err: ErrUnknownTag}
	}

	var payload [4]byte
	if _, err := io.ReadFull(r, payload[:]); err != nil {
		return nil, errors.Wrap(err, "wire: read move")
	}
	return Decode(append(tag[:], payload[:]...))
}

// Decode parses a complete message held in buf.
func Decode(buf []byte) (MessageInterface, error) {
	if len(buf) == 0 {
		return nil, errors.Wrap(io.ErrUnexpectedEOF, "wire: empty message")
	}
	t := MessageType(buf[0])
	switch t {
	case TypeMessageMove, TypeMessageAckMove, TypeMessageRejMove:
	default:
		return nil, &DecodeError{Tag: buf[0], Err: ErrUnknownTag}
	}
	if len(buf) != 1+t.payloadSize() {
		return nil, errors.Wrapf(io.ErrUnexpectedEOF, "wire: %s with %d bytes", t, len(buf))
	}

	switch t {
	case TypeMessageAckMove:
		return MessageAckMove{}, nil
	case TypeMessageRejMove:
		return MessageRejMove{}, nil
	}
	m := MessageMove{
		From: board.Position{File: buf[1], Rank: buf[2]},
		To:   board.Position{File: buf[3], Rank: buf[4]},
	}
	if !m.From.Valid() || !m.To.Valid() {
		return nil, &DecodeError{Tag: buf[0], Err: errors.Wrapf(ErrBadPosition, "% x", buf[1:])}
	}
	return m, nil
}
