// Package gui is the terminal front end: a tview application showing the
// board and a status line, fed by session snapshots.
package gui

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/rivo/tview"

	"github.com/qnkhuat/peerchess/pkg/session"
)

// ErrClosed is returned by NextClick once the user quit.
var ErrClosed = errors.New("gui: closed")

type point struct{ x, y int }

// UI implements session.Renderer and session.Input.
type UI struct {
	App    *tview.Application
	Board  *BoardView
	Status *tview.TextView

	clicks chan point
	done   chan struct{}
	once   sync.Once
}

func New(theme Theme, layout session.Layout) *UI {
	u := &UI{
		App:    tview.NewApplication(),
		Status: tview.NewTextView().SetDynamicColors(true).SetTextColor(theme.Status),
		clicks: make(chan point),
		done:   make(chan struct{}),
	}
	u.Board = NewBoardView(theme, layout).SetClickedFunc(u.click)

	boardWidth := rankLabelWidth + 8*layout.TileWidth
	boardHeight := 8*layout.TileHeight + 1
	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(tview.NewFlex().
			AddItem(u.Board, boardWidth, 0, true).
			AddItem(nil, 0, 1, false), boardHeight, 0, true).
		AddItem(u.Status, 0, 1, false)

	u.App.SetRoot(root, true).EnableMouse(true).SetFocus(u.Board)
	u.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			u.Stop()
			return nil
		}
		return event
	})
	return u
}

// click hands a click to a waiting NextClick. Clicks nobody waits for are
// dropped so they cannot replay later.
func (u *UI) click(x, y int) {
	select {
	case u.clicks <- point{x, y}:
	default:
	}
}

func (u *UI) NextClick() (int, int, error) {
	select {
	case p := <-u.clicks:
		return p.x, p.y, nil
	case <-u.done:
		return 0, 0, ErrClosed
	}
}

func (u *UI) closed() bool {
	select {
	case <-u.done:
		return true
	default:
		return false
	}
}

func (u *UI) Render(s session.Snapshot) {
	if u.closed() {
		return
	}
	u.App.QueueUpdateDraw(func() {
		u.Board.SetSnapshot(s)
		u.Status.SetText(statusLine(s))
	})
}

// SetStatus shows msg under the board, replacing the session status.
func (u *UI) SetStatus(msg string) {
	if u.closed() {
		return
	}
	u.App.QueueUpdateDraw(func() {
		u.Status.SetText(msg)
	})
}

func statusLine(s session.Snapshot) string {
	line := fmt.Sprintf("%s\n%s to move", s.Local, s.Turn)
	if s.Check {
		line += " [::b]Check![::-]"
	}
	if s.Status != "" {
		line += "\n" + string(s.Status)
	}
	if s.Highlighted {
		line += fmt.Sprintf("\n%s: %d legal moves", s.Highlight, len(s.Targets))
	}
	return line
}

// Run blocks until the user quits.
func (u *UI) Run() error {
	defer u.close()
	return u.App.Run()
}

func (u *UI) Stop() {
	u.close()
	u.App.Stop()
}

func (u *UI) close() {
	u.once.Do(func() { close(u.done) })
}

// Done is closed once the UI stops.
func (u *UI) Done() <-chan struct{} { return u.done }
