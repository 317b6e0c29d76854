// Package peer wires one side of a game together: the start position, the
// connection to the other peer, the session and the terminal front end.
package peer

import (
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/qnkhuat/peerchess/pkg/board"
	"github.com/qnkhuat/peerchess/pkg/gui"
	"github.com/qnkhuat/peerchess/pkg/rules"
	"github.com/qnkhuat/peerchess/pkg/session"
	"github.com/qnkhuat/peerchess/pkg/transport"
	"github.com/qnkhuat/peerchess/pkg/wire"
)

var ErrUsage = errors.New("usage: peerchess [flags] <s|c> <port>")

type Role int

const (
	Server Role = iota // listens, plays White
	Client             // connects, plays Black
)

func (r Role) String() string {
	if r == Server {
		return "server"
	}
	return "client"
}

func (r Role) Color() board.Color {
	if r == Server {
		return board.White
	}
	return board.Black
}

// ParseArgs reads the two positional arguments: role and port.
func ParseArgs(args []string) (Role, int, error) {
	if len(args) != 2 {
		return 0, 0, ErrUsage
	}
	var role Role
	switch args[0] {
	case "s":
		role = Server
	case "c":
		role = Client
	default:
		return 0, 0, errors.Wrapf(ErrUsage, "unknown role %q", args[0])
	}
	port, err := strconv.Atoi(args[1])
	if err != nil || port < 1 || port > 65535 {
		return 0, 0, errors.Wrapf(ErrUsage, "bad port %q", args[1])
	}
	return role, port, nil
}

type Config struct {
	Role    Role
	Port    int
	Network string
	FEN     string // empty for the standard start position
	Name    string
}

// Board returns the start position. Both peers must use the same one.
func (c Config) Board() (*board.Board, error) {
	if c.FEN == "" {
		return board.Initial(), nil
	}
	return board.FromFEN(c.FEN)
}

// LayoutFor draws the local side at the bottom.
func LayoutFor(c board.Color) session.Layout {
	l := gui.DefaultLayout
	l.Flip = c == board.Black
	return l
}

// Frontend is what Play needs from the terminal UI.
type Frontend interface {
	session.Renderer
	session.Input
	SetStatus(msg string)
	Run() error
	Stop()
	Done() <-chan struct{}
}

// Play runs the front end on the calling goroutine and the game beside it.
// It returns nil when the user quits.
func Play(cfg Config, ui Frontend, log *zap.SugaredLogger) error {
	b, err := cfg.Board()
	if err != nil {
		return err
	}
	g := &game{
		cfg:    cfg,
		board:  b,
		player: session.NewPlayer(cfg.Name, cfg.Role.Color()),
		ui:     ui,
		log:    log,
	}

	result := make(chan error, 1)
	go func() {
		result <- g.run()
	}()

	uiErr := ui.Run()
	if err := g.shutdown(); err != nil {
		log.Warnw("Failed to close connection", "error", err)
	}
	err = <-result
	if uiErr != nil {
		return errors.Wrap(uiErr, "peer: ui")
	}
	return err
}

type game struct {
	cfg    Config
	board  *board.Board
	player session.Player
	ui     Frontend
	log    *zap.SugaredLogger

	mu      sync.Mutex
	closers []io.Closer
	closed  bool
}

// track registers c to be closed on shutdown. It reports false, after
// closing c, when shutdown already happened.
func (g *game) track(c io.Closer) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		c.Close()
		return false
	}
	g.closers = append(g.closers, c)
	return true
}

func (g *game) shutdown() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	var result error
	for _, c := range g.closers {
		if err := c.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			result = multierror.Append(result, err)
		}
	}
	g.closers = nil
	return result
}

func (g *game) quit() bool {
	select {
	case <-g.ui.Done():
		return true
	default:
		return false
	}
}

func (g *game) connect() (transport.Conn, error) {
	g.ui.SetStatus(fmt.Sprintf("%s\n%s on port %d", g.player, session.StatusConnecting, g.cfg.Port))
	if g.cfg.Role == Client {
		conn, err := transport.Dial(g.cfg.Network, g.cfg.Port)
		if err != nil {
			return nil, err
		}
		if !g.track(conn) {
			return nil, gui.ErrClosed
		}
		return conn, nil
	}

	ln, err := transport.Listen(g.cfg.Network, g.cfg.Port)
	if err != nil {
		return nil, err
	}
	if !g.track(ln) {
		return nil, gui.ErrClosed
	}
	g.log.Infow("Waiting for opponent", "network", g.cfg.Network, "port", ln.Port())
	conn, err := ln.Accept()
	ln.Close()
	if err != nil {
		return nil, err
	}
	if !g.track(conn) {
		return nil, gui.ErrClosed
	}
	return conn, nil
}

func (g *game) run() error {
	conn, err := g.connect()
	if err != nil {
		return g.finish(err)
	}
	g.log.Infow("Connected", "player", g.player.String(), "fen", g.board.FEN())

	r := &overlay{Renderer: g.ui}
	s := &session.Session{
		Board:    g.board,
		Conn:     conn,
		Player:   g.player,
		Renderer: r,
		Input:    g.ui,
		Layout:   LayoutFor(g.player.Color),
		Log:      g.log,
		AfterMove: func(m rules.Move, b *board.Board) {
			loser := b.Turn()
			if rules.IsCheckmate(b, loser) {
				g.log.Infow("Checkmate", "winner", loser.Opponent().String(), "move", m.String())
				r.set(session.Status(fmt.Sprintf("%s, %s wins. Press Esc to quit.", session.StatusCheckmate, loser.Opponent())))
			}
		},
	}
	err = session.Run(session.InitialState(g.board, g.player.Color), s)

	if wire.IsDecodeError(err) && !g.quit() {
		g.log.Errorw("Protocol error, closing connection", "error", err)
		conn.Close()
		g.ui.SetStatus(fmt.Sprintf("%s: %v\nPress Esc to quit.", session.StatusDisconnected, err))
		<-g.ui.Done()
		return nil
	}
	return g.finish(err)
}

// finish decides how a stopped game ends the program.
func (g *game) finish(err error) error {
	if errors.Is(err, gui.ErrClosed) || g.quit() {
		return nil
	}
	g.ui.Stop()
	return err
}

// overlay pins the status line once the game is decided.
type overlay struct {
	session.Renderer

	mu     sync.Mutex
	status session.Status
}

func (o *overlay) set(s session.Status) {
	o.mu.Lock()
	o.status = s
	o.mu.Unlock()
}

func (o *overlay) Render(snap session.Snapshot) {
	o.mu.Lock()
	if o.status != "" {
		snap.Status = o.status
	}
	o.mu.Unlock()
	o.Renderer.Render(snap)
}
