// Copyright © 2026 Texemoji contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: core/painter.go
// Summary: Clipped cell painter widgets draw through.

package core

import "github.com/gdamore/tcell/v2"

// Painter writes cells into a shared buffer, clipped to one region.
// Widgets receive a Painter per draw and never touch the buffer
// directly.
type Painter struct {
	buf  [][]Cell
	clip Rect
}

// NewPainter wraps buf with the given clip region.
func NewPainter(buf [][]Cell, clip Rect) *Painter {
	return &Painter{buf: buf, clip: clip}
}

// Clip returns the painter's clip region.
func (p *Painter) Clip() Rect { return p.clip }

// SetCell writes one cell if (x, y) falls inside the clip and buffer.
func (p *Painter) SetCell(x, y int, ch rune, style tcell.Style) {
	if !p.clip.Contains(x, y) {
		return
	}
	if y < 0 || y >= len(p.buf) {
		return
	}
	row := p.buf[y]
	if x < 0 || x >= len(row) {
		return
	}
	row[x] = Cell{Ch: ch, Style: style}
}

// Fill sets every cell of r (clipped) to ch with style.
func (p *Painter) Fill(r Rect, ch rune, style tcell.Style) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			p.SetCell(x, y, ch, style)
		}
	}
}

// DrawText writes a string left-to-right starting at (x, y), clipped.
func (p *Painter) DrawText(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		p.SetCell(x, y, r, style)
		x++
	}
}
