package transport

import (
	"io"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qnkhuat/peerchess/pkg/board"
	"github.com/qnkhuat/peerchess/pkg/wire"
)

var networks = []string{TCP, WebSocket}

// connect listens on a free port and returns both ends of one connection.
func connect(t *testing.T, network string) (server, client Conn) {
	t.Helper()
	ln, err := Listen(network, 0)
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan Conn, 1)
	errc := make(chan error, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			errc <- err
			return
		}
		accepted <- c
	}()

	client, err = Dial(network, ln.Port())
	require.NoError(t, err)

	select {
	case server = <-accepted:
	case err := <-errc:
		t.Fatalf("accept: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("accept timed out")
	}
	return server, client
}

func TestExchange(t *testing.T) {
	for _, network := range networks {
		t.Run(network, func(t *testing.T) {
			server, client := connect(t, network)
			defer server.Close()
			defer client.Close()

			mv := wire.MessageMove{From: board.MustParse("e2"), To: board.MustParse("e4")}
			go func() {
				wire.Write(client, mv)
				wire.Write(client, wire.MessageRejMove{})
			}()
			got, err := wire.Read(server)
			require.NoError(t, err)
			assert.Equal(t, mv, got)
			got, err = wire.Read(server)
			require.NoError(t, err)
			assert.Equal(t, wire.MessageRejMove{}, got)

			go wire.Write(server, wire.MessageAckMove{})
			got, err = wire.Read(client)
			require.NoError(t, err)
			assert.Equal(t, wire.MessageAckMove{}, got)
		})
	}
}

func TestCloseIsEOF(t *testing.T) {
	for _, network := range networks {
		t.Run(network, func(t *testing.T) {
			server, client := connect(t, network)
			defer server.Close()

			client.Close()
			_, err := wire.Read(server)
			assert.True(t, errors.Is(err, io.EOF), "got %v", err)
		})
	}
}

func TestWSReadAcrossFrames(t *testing.T) {
	server, client := connect(t, WebSocket)
	defer server.Close()
	defer client.Close()

	go func() {
		client.Write([]byte{0, 4})
		client.Write([]byte{6, 4, 4})
	}()
	got, err := wire.Read(server)
	require.NoError(t, err)
	assert.Equal(t, wire.MessageMove{From: board.MustParse("e2"), To: board.MustParse("e4")}, got)
}

func TestUnknownNetwork(t *testing.T) {
	_, err := Listen("udp", 0)
	assert.True(t, errors.Is(err, ErrUnknownNetwork))
	_, err = Dial("udp", 4000)
	assert.True(t, errors.Is(err, ErrUnknownNetwork))
}

func TestDialNobodyListening(t *testing.T) {
	defer func(tries int, backoff time.Duration) { DialTries, DialBackoff = tries, backoff }(DialTries, DialBackoff)
	DialTries, DialBackoff = 2, time.Millisecond

	ln, err := Listen(TCP, 0)
	require.NoError(t, err)
	port := ln.Port()
	require.NoError(t, ln.Close())

	for _, network := range networks {
		_, err := Dial(network, port)
		assert.Error(t, err, network)
	}
}

func TestAcceptAfterClose(t *testing.T) {
	for _, network := range networks {
		t.Run(network, func(t *testing.T) {
			ln, err := Listen(network, 0)
			require.NoError(t, err)
			require.NoError(t, ln.Close())
			_, err = ln.Accept()
			assert.True(t, errors.Is(err, ErrClosed), "got %v", err)
		})
	}
}
