package wire

import (
	"bytes"
	"io"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qnkhuat/peerchess/pkg/board"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		msg  MessageInterface
		wire []byte
	}{
		{MessageMove{From: board.MustParse("e2"), To: board.MustParse("e4")}, []byte{0, 4, 6, 4, 4}},
		{MessageMove{From: board.Pos(0, 0), To: board.Pos(7, 7)}, []byte{0, 0, 0, 7, 7}},
		{MessageAckMove{}, []byte{1}},
		{MessageRejMove{}, []byte{2}},
	}
	for _, tt := range tests {
		t.Run(tt.msg.Type().String(), func(t *testing.T) {
			assert.Equal(t, tt.wire, Encode(tt.msg))

			got, err := Decode(Encode(tt.msg))
			require.NoError(t, err)
			assert.Equal(t, tt.msg, got)

			var buf bytes.Buffer
			require.NoError(t, Write(&buf, tt.msg))
			got, err = Read(&buf)
			require.NoError(t, err)
			assert.Equal(t, tt.msg, got)
			assert.Zero(t, buf.Len(), "Read consumed exactly one message")
		})
	}
}

func TestReadStream(t *testing.T) {
	var buf bytes.Buffer
	msgs := []MessageInterface{
		MessageMove{From: board.MustParse("g1"), To: board.MustParse("f3")},
		MessageAckMove{},
		MessageRejMove{},
		MessageMove{From: board.MustParse("e7"), To: board.MustParse("e5")},
	}
	for _, m := range msgs {
		require.NoError(t, Write(&buf, m))
	}
	for _, want := range msgs {
		got, err := Read(&buf)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := Read(&buf)
	assert.True(t, errors.Is(err, io.EOF), "got %v", err)
	assert.False(t, IsDecodeError(err))
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name   string
		in     []byte
		decode bool
		target error
	}{
		{"unknown tag", []byte{3}, true, ErrUnknownTag},
		{"unknown high tag", []byte{0xff, 0, 0, 0, 0}, true, ErrUnknownTag},
		{"file off board", []byte{0, 8, 0, 0, 0}, true, ErrBadPosition},
		{"rank off board", []byte{0, 0, 0, 0, 200}, true, ErrBadPosition},
		{"truncated move", []byte{0, 1, 2}, false, io.ErrUnexpectedEOF},
		{"empty stream", nil, false, io.EOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(bytes.NewReader(tt.in))
			require.Error(t, err)
			assert.Equal(t, tt.decode, IsDecodeError(err), "IsDecodeError(%v)", err)
			assert.True(t, errors.Is(err, tt.target), "errors.Is(%v, %v)", err, tt.target)
		})
	}
}

func TestDecodeLength(t *testing.T) {
	_, err := Decode([]byte{1, 0})
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	_, err = Decode(nil)
	assert.Error(t, err)
	_, err = Decode([]byte{9})
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, byte(9), de.Tag)
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestWriteError(t *testing.T) {
	err := Write(failWriter{}, MessageAckMove{})
	assert.True(t, errors.Is(err, io.ErrClosedPipe))
	assert.Contains(t, err.Error(), "TypeMessageAckMove")
}
