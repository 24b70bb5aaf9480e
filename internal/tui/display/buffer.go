package display

import (
	"strings"
	"sync"

	"github.com/opencode-ai/allium/internal/models"
)

// Cell is one character position of the surface.
type Cell struct {
	Rune  rune
	Style TextStyle
}

// CellBuffer is an in-memory Display backed by a grid of terminal cells.
// It records every invalidated rectangle so callers can inspect damage.
type CellBuffer struct {
	mu         sync.Mutex
	width      int
	height     int
	cells      []Cell
	background models.Color
	foreground models.Color
	damage     []Rect
}

// NewCellBuffer creates a buffer cleared to the given colors.
func NewCellBuffer(width, height int, foreground, background models.Color) *CellBuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b := &CellBuffer{
		width:      width,
		height:     height,
		cells:      make([]Cell, width*height),
		foreground: foreground,
		background: background,
	}
	for i := range b.cells {
		b.cells[i] = b.emptyCell()
	}
	return b
}

// Size implements Display.
func (b *CellBuffer) Size() Size {
	return Size{W: b.width, H: b.height}
}

// SetColors changes the colors used to clear invalidated regions.
func (b *CellBuffer) SetColors(foreground, background models.Color) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.foreground = foreground
	b.background = background
}

func (b *CellBuffer) emptyCell() Cell {
	return Cell{
		Rune: ' ',
		Style: TextStyle{
			Foreground:     b.foreground,
			Background:     b.background,
			DrawBackground: true,
		},
	}
}

func (b *CellBuffer) bounds() Rect {
	return NewRect(0, 0, b.width, b.height)
}

// Invalidate implements Display.
func (b *CellBuffer) Invalidate(rect Rect) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	clipped := rect.Intersect(b.bounds())
	if clipped.Empty() {
		return ErrOutOfBounds
	}
	empty := b.emptyCell()
	for y := clipped.Y; y < clipped.Bottom(); y++ {
		for x := clipped.X; x < clipped.Right(); x++ {
			b.cells[y*b.width+x] = empty
		}
	}
	b.damage = append(b.damage, clipped)
	return nil
}

// DrawText implements Display. Text is clipped to the surface.
func (b *CellBuffer) DrawText(at Point, text string, style TextStyle, align Alignment) (Rect, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	rect := TextRect(at, text, align)
	if rect.W == 0 {
		return rect, nil
	}
	if rect.Intersect(b.bounds()).Empty() {
		return rect, ErrOutOfBounds
	}

	x := rect.X
	for _, r := range text {
		if x >= 0 && x < b.width {
			idx := rect.Y*b.width + x
			cellStyle := style
			if !style.DrawBackground {
				cellStyle.Background = b.cells[idx].Style.Background
				cellStyle.DrawBackground = b.cells[idx].Style.DrawBackground
			}
			b.cells[idx] = Cell{Rune: r, Style: cellStyle}
		}
		x++
	}
	return rect, nil
}

// DrawFilledRect implements Display.
func (b *CellBuffer) DrawFilledRect(rect Rect, color models.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	clipped := rect.Intersect(b.bounds())
	if clipped.Empty() {
		return ErrOutOfBounds
	}
	fill := Cell{Rune: ' ', Style: TextStyle{Foreground: color, Background: color, DrawBackground: true}}
	for y := clipped.Y; y < clipped.Bottom(); y++ {
		for x := clipped.X; x < clipped.Right(); x++ {
			b.cells[y*b.width+x] = fill
		}
	}
	return nil
}

// At returns the cell at (x, y), or a blank cell outside the surface.
func (b *CellBuffer) At(x, y int) Cell {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return Cell{Rune: ' '}
	}
	return b.cells[y*b.width+x]
}

// Line returns row y as plain text with trailing spaces trimmed.
func (b *CellBuffer) Line(y int) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if y < 0 || y >= b.height {
		return ""
	}
	var sb strings.Builder
	for x := 0; x < b.width; x++ {
		sb.WriteRune(b.cells[y*b.width+x].Rune)
	}
	return strings.TrimRight(sb.String(), " ")
}

// Damage returns the rectangles invalidated since the last ResetDamage.
func (b *CellBuffer) Damage() []Rect {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Rect, len(b.damage))
	copy(out, b.damage)
	return out
}

// ResetDamage clears the damage record.
func (b *CellBuffer) ResetDamage() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.damage = b.damage[:0]
}
