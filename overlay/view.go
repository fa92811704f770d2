// Copyright © 2026 Texemoji contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: overlay/view.go
// Summary: Overlay view drawn above a host text widget's placeholders.

package overlay

import (
	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texemoji/core"
)

// View is one overlay element placed over an attachment placeholder.
// It displays either literal glyph text or an image from a shared
// handle. Views are torn down wholesale at the start of every render
// pass and never intercept input.
type View struct {
	core.BaseWidget
	style     tcell.Style
	text      string
	handle    *Handle
	placer    GraphicsPlacer
	placement uint32
	inv       func(core.Rect)
}

// NewView creates a view covering r, background-matched to the host.
func NewView(r core.Rect, bg tcell.Style) *View {
	v := &View{style: bg}
	v.SetPosition(r.X, r.Y)
	v.Resize(r.W, r.H)
	return v
}

// SetInvalidator wires dirty-region reporting (core.InvalidationAware).
func (v *View) SetInvalidator(fn func(core.Rect)) { v.inv = fn }

// SetText makes the view display literal text (character sources).
func (v *View) SetText(s string) { v.text = s }

// Text returns the literal text, if any.
func (v *View) Text() string { return v.text }

// BindHandle attaches the view to a shared image handle. Once the
// handle loads, the view invalidates its rect so the next frame
// places the image.
func (v *View) BindHandle(h *Handle, placer GraphicsPlacer) {
	v.handle = h
	v.placer = placer
	if v.placement == 0 {
		v.placement = NextImageID()
	}
	h.OnLoad(func() {
		if v.inv != nil {
			v.inv(v.Rect)
		}
	})
}

// Handle returns the bound image handle, if any.
func (v *View) Handle() *Handle { return v.handle }

// HitTest always misses: overlays never intercept mouse input.
func (v *View) HitTest(x, y int) bool { return false }

// Draw paints the background-matched cells and, for character
// sources, the glyph text. Image pixels are emitted after the frame
// via EmitGraphics.
func (v *View) Draw(p *core.Painter) {
	p.Fill(v.Rect, ' ', v.style)
	if v.text != "" {
		p.DrawText(v.Rect.X, v.Rect.Y, v.text, v.style)
	}
}

// EmitGraphics places the loaded image over the finished frame. No-op
// while the handle is empty or for text-only views.
func (v *View) EmitGraphics() {
	if v.handle == nil || v.placer == nil {
		return
	}
	img := v.handle.Image()
	if img == nil {
		return
	}
	v.placer.Place(v.handle.ImageID(), v.placement, img, v.Rect.X, v.Rect.Y)
}

// Discard clears any placed graphics. Called when the view is torn
// down at the start of the next render pass.
func (v *View) Discard() {
	if v.placer != nil && v.handle != nil {
		v.placer.Clear(v.handle.ImageID(), v.placement)
	}
}
