package wire

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnknownTag means the first byte of a message is not a known type.
	ErrUnknownTag = errors.New("unknown message tag")

	// ErrBadPosition means a move carried a coordinate outside the board.
	ErrBadPosition = errors.New("position off the board")
)

// DecodeError reports bytes that are not a valid message. The stream is
// out of sync after one; the connection should be closed.
type DecodeError struct {
	Tag byte
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("wire: decode tag %d: %v", e.Tag, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsDecodeError reports whether err came from undecodable input rather
// than a failing transport.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
