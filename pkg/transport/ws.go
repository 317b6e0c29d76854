package transport

import (
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

const wsPath = "/peerchess"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Only loopback peers can reach the listener.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsListener struct {
	ln    net.Listener
	srv   *http.Server
	conns chan *websocket.Conn
	done  chan struct{}
	once  sync.Once
}

func newWSListener(ln net.Listener) *wsListener {
	l := &wsListener{
		ln:    ln,
		conns: make(chan *websocket.Conn),
		done:  make(chan struct{}),
	}
	mux := http.NewServeMux()
	mux.HandleFunc(wsPath, l.handle)
	l.srv = &http.Server{Handler: mux, ReadHeaderTimeout: DialTimeout}
	go l.srv.Serve(ln)
	return l
}

func (l *wsListener) handle(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	select {
	case l.conns <- ws:
	case <-l.done:
		ws.Close()
	}
}

func (l *wsListener) Accept() (Conn, error) {
	select {
	case ws := <-l.conns:
		return newWSConn(ws), nil
	case <-l.done:
		return nil, ErrClosed
	}
}

// Close stops accepting. Connections already accepted stay open.
func (l *wsListener) Close() error {
	var err error
	l.once.Do(func() {
		close(l.done)
		err = l.srv.Close()
	})
	return err
}

func (l *wsListener) Port() int { return l.ln.Addr().(*net.TCPAddr).Port }

func dialWS(addr string) (Conn, error) {
	d := websocket.Dialer{HandshakeTimeout: DialTimeout}
	ws, _, err := d.Dial("ws://"+addr+wsPath, nil)
	if err != nil {
		return nil, err
	}
	return newWSConn(ws), nil
}

// wsConn carries the byte stream inside binary frames. Frame boundaries
// carry no meaning; a read may span several frames.
type wsConn struct {
	ws *websocket.Conn
	r  io.Reader
}

func newWSConn(ws *websocket.Conn) *wsConn {
	return &wsConn{ws: ws}
}

func (c *wsConn) Read(p []byte) (int, error) {
	for {
		if c.r == nil {
			typ, r, err := c.ws.NextReader()
			if err != nil {
				var ce *websocket.CloseError
				if errors.As(err, &ce) {
					return 0, io.EOF
				}
				return 0, err
			}
			if typ != websocket.BinaryMessage {
				continue
			}
			c.r = r
		}
		n, err := c.r.Read(p)
		if err == io.EOF {
			c.r = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (c *wsConn) Write(p []byte) (int, error) {
	if err := c.ws.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close says goodbye to the peer, then drops the socket.
func (c *wsConn) Close() error {
	var result error
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	err := c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		result = multierror.Append(result, err)
	}
	if err := c.ws.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result
}
