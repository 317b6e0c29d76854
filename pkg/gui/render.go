package gui

import (
	"slices"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/qnkhuat/peerchess/pkg/board"
	"github.com/qnkhuat/peerchess/pkg/session"
)

// rankLabelWidth is the space left of the board for rank digits.
const rankLabelWidth = 2

// DefaultLayout is wide enough to hit with a mouse.
var DefaultLayout = session.Layout{TileWidth: 4, TileHeight: 2}

var glyphs = map[board.Kind]rune{
	board.Pawn:   '♟',
	board.Knight: '♞',
	board.Bishop: '♝',
	board.Rook:   '♜',
	board.Queen:  '♛',
	board.King:   '♚',
}

// BoardView draws a session snapshot and reports clicks relative to the
// board's top-left tile.
type BoardView struct {
	*tview.Box

	theme   Theme
	layout  session.Layout
	snap    session.Snapshot
	clicked func(x, y int)
}

func NewBoardView(theme Theme, layout session.Layout) *BoardView {
	return &BoardView{
		Box:    tview.NewBox(),
		theme:  theme,
		layout: layout,
	}
}

// SetSnapshot replaces what is drawn. Call it from the UI goroutine.
func (v *BoardView) SetSnapshot(s session.Snapshot) *BoardView {
	v.snap = s
	return v
}

// SetClickedFunc sets the handler called for left clicks. Coordinates may
// fall outside the board.
func (v *BoardView) SetClickedFunc(fn func(x, y int)) *BoardView {
	v.clicked = fn
	return v
}

// origin is the screen position of the board's top-left tile.
func (v *BoardView) origin() (x, y int) {
	x, y, _, _ = v.GetInnerRect()
	return x + rankLabelWidth, y
}

func (v *BoardView) squareBg(p board.Position) tcell.Color {
	switch {
	case v.snap.Highlighted && v.snap.Highlight == p:
		return v.theme.SquareHigh
	case v.snap.Check && v.snap.Squares[p.Rank][p.File].Is(board.King, v.snap.Turn):
		return v.theme.SquareCheck
	case slices.Contains(v.snap.Targets, p):
		return v.theme.SquareHint
	case (p.File+p.Rank)%2 == 0:
		return v.theme.SquareLight
	default:
		return v.theme.SquareDark
	}
}

func (v *BoardView) drawTile(screen tcell.Screen, ox, oy int, p board.Position) {
	tx, ty := v.layout.Origin(p)
	tx, ty = ox+tx, oy+ty
	bg := tcell.StyleDefault.Background(v.squareBg(p))
	for dy := 0; dy < v.layout.TileHeight; dy++ {
		for dx := 0; dx < v.layout.TileWidth; dx++ {
			screen.SetContent(tx+dx, ty+dy, ' ', nil, bg)
		}
	}

	sq := v.snap.Squares[p.Rank][p.File]
	if !sq.Occupied {
		return
	}
	fg := v.theme.White
	if sq.Color == board.Black {
		fg = v.theme.Black
	}
	screen.SetContent(tx+(v.layout.TileWidth-1)/2, ty+(v.layout.TileHeight-1)/2, glyphs[sq.Piece.Kind], nil, bg.Foreground(fg))
}

func (v *BoardView) Draw(screen tcell.Screen) {
	v.DrawForSubclass(screen, v)
	ox, oy := v.origin()

	for r := 0; r < board.Size; r++ {
		for f := 0; f < board.Size; f++ {
			v.drawTile(screen, ox, oy, board.Pos(f, r))
		}
	}

	rankStyle := tcell.StyleDefault.Foreground(v.theme.Rank)
	fileStyle := tcell.StyleDefault.Foreground(v.theme.File)
	for i := 0; i < board.Size; i++ {
		// Labels follow the layout so a flipped board reads correctly.
		p, _ := v.layout.Square(i*v.layout.TileWidth, i*v.layout.TileHeight)
		name := p.String()
		screen.SetContent(ox-rankLabelWidth, oy+i*v.layout.TileHeight+(v.layout.TileHeight-1)/2, rune(name[1]), nil, rankStyle)
		screen.SetContent(ox+i*v.layout.TileWidth+(v.layout.TileWidth-1)/2, oy+board.Size*v.layout.TileHeight, rune(name[0]), nil, fileStyle)
	}
}

func (v *BoardView) MouseHandler() func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (consumed bool, capture tview.Primitive) {
	return v.WrapMouseHandler(func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (consumed bool, capture tview.Primitive) {
		if action != tview.MouseLeftClick || !v.InRect(event.Position()) {
			return false, nil
		}
		setFocus(v)
		if v.clicked != nil {
			x, y := event.Position()
			ox, oy := v.origin()
			v.clicked(x-ox, y-oy)
		}
		return true, nil
	})
}
