package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/models/tetris"
	game "github.com/progate-hackathon-strawberry-flavor/GITRIS-engine/internal/services/tetris"
)

const (
	cellWidth  = 2
	panelGap   = 3
	panelWidth = 24
)

var (
	defaultStyle = tcell.StyleDefault
	frameStyle   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(48, 56, 112))
	emptyStyle   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(40, 44, 80))
	ghostStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	labelStyle   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(154, 163, 178))
	valueStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	overlayStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack).Bold(true)

	pieceColors = [tetris.PieceTypeCount]tcell.Color{
		tcell.NewRGBColor(89, 203, 232),  // I
		tcell.NewRGBColor(91, 110, 225),  // J
		tcell.NewRGBColor(242, 166, 90),  // L
		tcell.NewRGBColor(245, 220, 92),  // O
		tcell.NewRGBColor(87, 211, 140),  // S
		tcell.NewRGBColor(199, 114, 230), // T
		tcell.NewRGBColor(239, 106, 106), // Z
	}
)

func blockStyle(t tetris.PieceType) tcell.Style {
	return tcell.StyleDefault.Foreground(pieceColors[t])
}

// Renderer draws game snapshots onto a tcell screen.
type Renderer struct {
	screen  tcell.Screen
	originX int
	originY int
}

func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen, originX: 1, originY: 1}
}

// boardCell returns the screen position of the left half of board cell (x, y).
func (r *Renderer) boardCell(x, y int) (int, int) {
	return r.originX + 1 + x*cellWidth, r.originY + 1 + y
}

func (r *Renderer) text(x, y int, s string, style tcell.Style) {
	for i, ch := range []rune(s) {
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}

func (r *Renderer) cell(x, y int, ch rune, style tcell.Style) {
	if y < 0 || y >= tetris.BoardHeight || x < 0 || x >= tetris.BoardWidth {
		return
	}
	sx, sy := r.boardCell(x, y)
	r.screen.SetContent(sx, sy, ch, nil, style)
	r.screen.SetContent(sx+1, sy, ch, nil, style)
}

// Draw renders a full frame.
func (r *Renderer) Draw(snap game.PlayerSnapshot, muted bool) {
	r.screen.Clear()
	r.drawFrame()
	r.drawBoard(snap)
	r.drawPanel(snap, muted)
	r.drawOverlay(snap.Status)
	r.screen.Show()
}

func (r *Renderer) drawFrame() {
	left, top := r.originX, r.originY
	right := left + 1 + tetris.BoardWidth*cellWidth
	bottom := top + 1 + tetris.BoardHeight
	for y := top + 1; y < bottom; y++ {
		r.screen.SetContent(left, y, '│', nil, frameStyle)
		r.screen.SetContent(right, y, '│', nil, frameStyle)
	}
	for x := left + 1; x < right; x++ {
		r.screen.SetContent(x, top, '─', nil, frameStyle)
		r.screen.SetContent(x, bottom, '─', nil, frameStyle)
	}
	r.screen.SetContent(left, top, '┌', nil, frameStyle)
	r.screen.SetContent(right, top, '┐', nil, frameStyle)
	r.screen.SetContent(left, bottom, '└', nil, frameStyle)
	r.screen.SetContent(right, bottom, '┘', nil, frameStyle)
}

func (r *Renderer) drawBoard(snap game.PlayerSnapshot) {
	for y := 0; y < tetris.BoardHeight; y++ {
		for x := 0; x < tetris.BoardWidth; x++ {
			kind, ok := snap.Board[y][x].PieceType()
			if !ok {
				sx, sy := r.boardCell(x, y)
				r.screen.SetContent(sx, sy, ' ', nil, emptyStyle)
				r.screen.SetContent(sx+1, sy, '·', nil, emptyStyle)
				continue
			}
			r.cell(x, y, '█', blockStyle(kind))
		}
	}
	if snap.Status == game.StatusGameOver {
		return
	}
	for _, b := range snap.GhostBlocks {
		r.cell(b[0], b[1], '░', ghostStyle)
	}
	style := blockStyle(snap.CurrentPiece.Type)
	for _, b := range snap.CurrentBlocks {
		r.cell(b[0], b[1], '█', style)
	}
}

// drawMini draws a piece in its spawn rotation with its top-left at (x, y).
func (r *Renderer) drawMini(x, y int, t tetris.PieceType, style tcell.Style) {
	shape := tetris.RotationsFor(t)[0]
	minX, minY := shape[0][0], shape[0][1]
	for _, o := range shape {
		minX = min(minX, o[0])
		minY = min(minY, o[1])
	}
	for _, o := range shape {
		sx := x + (o[0]-minX)*cellWidth
		sy := y + o[1] - minY
		r.screen.SetContent(sx, sy, '█', nil, style)
		r.screen.SetContent(sx+1, sy, '█', nil, style)
	}
}

func (r *Renderer) drawPanel(snap game.PlayerSnapshot, muted bool) {
	x := r.originX + 2 + tetris.BoardWidth*cellWidth + panelGap
	y := r.originY

	r.text(x, y, "NEXT", labelStyle)
	r.drawMini(x, y+1, snap.NextPiece, blockStyle(snap.NextPiece))

	r.text(x+12, y, "HOLD", labelStyle)
	if snap.HeldPiece != nil {
		style := blockStyle(*snap.HeldPiece)
		if !snap.CanHold {
			style = ghostStyle
		}
		r.drawMini(x+12, y+1, *snap.HeldPiece, style)
	}

	y += 5
	stats := []struct {
		label string
		value int
	}{
		{"SCORE", snap.Score},
		{"LEVEL", snap.Level},
		{"LINES", snap.LinesCleared},
	}
	for _, s := range stats {
		r.text(x, y, s.label, labelStyle)
		r.text(x+7, y, fmt.Sprintf("%d", s.value), valueStyle)
		y++
	}

	y++
	for _, line := range []string{
		"←/→ move   ↓ soft",
		"↑ rotate   Z ccw",
		"Space hard C hold",
		"P pause    R restart",
		"M mute     Q quit",
	} {
		r.text(x, y, line, labelStyle)
		y++
	}
	if muted {
		r.text(x, y+1, "MUTED", valueStyle)
	}
}

func (r *Renderer) drawOverlay(status game.Status) {
	var title string
	switch status {
	case game.StatusPaused:
		title = "PAUSED"
	case game.StatusGameOver:
		title = "GAME OVER"
	default:
		return
	}
	boardCols := tetris.BoardWidth * cellWidth
	cx := r.originX + 1 + boardCols/2
	cy := r.originY + 1 + tetris.BoardHeight/2

	r.text(cx-len(title)/2, cy-1, title, overlayStyle)
	hint := "R to restart"
	if status == game.StatusPaused {
		hint = "P to resume"
	}
	r.text(cx-len(hint)/2, cy+1, hint, defaultStyle)
}

// MinSize is the terminal size needed to draw a full frame.
func MinSize() (int, int) {
	return 2 + tetris.BoardWidth*cellWidth + panelGap + panelWidth, 3 + tetris.BoardHeight
}
