// Package transport opens the single byte stream two peers play over.
// Both ends live on the loopback interface; the listening side accepts
// exactly one connection.
package transport

import (
	"io"
	"net"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

const (
	Host = "127.0.0.1"

	TCP       = "tcp"
	WebSocket = "ws"
)

// Conn is the stream handed to a session.
type Conn = io.ReadWriteCloser

var (
	ErrUnknownNetwork = errors.New("transport: unknown network")
	ErrClosed         = errors.New("transport: listener closed")
)

// The connecting side may start before the listener is up.
var (
	DialTries   = 25
	DialBackoff = 250 * time.Millisecond
	DialTimeout = 5 * time.Second
)

func address(port int) string {
	return net.JoinHostPort(Host, strconv.Itoa(port))
}

// Listener waits for the opposing peer.
type Listener interface {
	Accept() (Conn, error)
	Close() error
	Port() int
}

// Listen binds port on the loopback interface. Port 0 picks a free port.
func Listen(network string, port int) (Listener, error) {
	ln, err := net.Listen("tcp", address(port))
	if err != nil {
		return nil, errors.Wrapf(err, "transport: listen %s", network)
	}
	switch network {
	case TCP:
		return &tcpListener{ln: ln}, nil
	case WebSocket:
		return newWSListener(ln), nil
	}
	ln.Close()
	return nil, errors.Wrap(ErrUnknownNetwork, network)
}

// Dial connects to port, retrying while nothing is listening yet.
func Dial(network string, port int) (Conn, error) {
	var dial func(addr string) (Conn, error)
	switch network {
	case TCP:
		dial = func(addr string) (Conn, error) { return net.DialTimeout("tcp", addr, DialTimeout) }
	case WebSocket:
		dial = dialWS
	default:
		return nil, errors.Wrap(ErrUnknownNetwork, network)
	}

	addr := address(port)
	var err error
	for tries := 0; tries < max(DialTries, 1); tries++ {
		if tries > 0 {
			time.Sleep(DialBackoff)
		}
		var conn Conn
		if conn, err = dial(addr); err == nil {
			return conn, nil
		}
	}
	return nil, errors.Wrapf(err, "transport: failed to connect to %s after %d tries", addr, max(DialTries, 1))
}

type tcpListener struct {
	ln net.Listener
}

func (l *tcpListener) Accept() (Conn, error) {
	conn, err := l.ln.Accept()
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return nil, ErrClosed
		}
		return nil, errors.Wrap(err, "transport: accept")
	}
	return conn, nil
}

func (l *tcpListener) Close() error { return l.ln.Close() }

func (l *tcpListener) Port() int { return l.ln.Addr().(*net.TCPAddr).Port }
