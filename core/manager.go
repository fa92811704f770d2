// Copyright © 2026 Texemoji contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: core/manager.go
// Summary: Widget tree owner: z-order, focus, dirty-rect composition.

package core

import (
	"sort"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// UIManager owns a small widget tree and composes it to a cell buffer.
// Later entries draw on top unless a widget overrides its z-index.
type UIManager struct {
	mu      sync.Mutex // protects widgets, focus, buffer
	dirtyMu sync.Mutex // protects dirty list and notifier
	W, H    int
	widgets []Widget
	bgStyle tcell.Style
	focused Widget
	buf     [][]Cell
	dirty   []Rect

	notifier chan<- bool
}

// NewUIManager creates an empty manager with the given background.
func NewUIManager(bg tcell.Style) *UIManager {
	return &UIManager{bgStyle: bg}
}

// SetRefreshNotifier installs the channel poked when a redraw is due.
func (u *UIManager) SetRefreshNotifier(ch chan<- bool) {
	u.dirtyMu.Lock()
	defer u.dirtyMu.Unlock()
	u.notifier = ch
}

// Resize updates the surface size and invalidates everything.
func (u *UIManager) Resize(w, h int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	u.W, u.H = w, h
	u.buf = nil
	u.dirtyMu.Lock()
	u.invalidateAllLocked()
	u.dirtyMu.Unlock()
}

// AddWidget appends a widget and wires its invalidator.
func (u *UIManager) AddWidget(w Widget) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.widgets = append(u.widgets, w)
	u.propagateInvalidator(w)
	u.dirtyMu.Lock()
	u.invalidateAllLocked()
	u.dirtyMu.Unlock()
}

// RemoveWidget detaches a widget from the tree.
func (u *UIManager) RemoveWidget(w Widget) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for i, cur := range u.widgets {
		if cur == w {
			u.widgets = append(u.widgets[:i], u.widgets[i+1:]...)
			break
		}
	}
	if u.focused == w {
		u.focused = nil
	}
	u.dirtyMu.Lock()
	u.invalidateAllLocked()
	u.dirtyMu.Unlock()
}

func (u *UIManager) propagateInvalidator(w Widget) {
	if ia, ok := w.(InvalidationAware); ok {
		ia.SetInvalidator(u.Invalidate)
	}
	if cc, ok := w.(ChildContainer); ok {
		cc.VisitChildren(func(child Widget) { u.propagateInvalidator(child) })
	}
}

// Focus moves keyboard focus to w if it accepts it.
func (u *UIManager) Focus(w Widget) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if w == nil || !w.Focusable() || u.focused == w {
		return
	}
	if u.focused != nil {
		u.focused.Blur()
	}
	u.focused = w
	u.focused.Focus()
}

// HandleKey routes a key event to the focused widget.
func (u *UIManager) HandleKey(ev *tcell.EventKey) bool {
	u.mu.Lock()
	focused := u.focused
	u.mu.Unlock()
	if focused == nil {
		return false
	}
	if focused.HandleKey(ev) {
		u.dirtyMu.Lock()
		if len(u.dirty) == 0 {
			u.invalidateAllLocked()
		} else {
			u.requestRefreshLocked()
		}
		u.dirtyMu.Unlock()
		return true
	}
	return false
}

// HandleMouse routes mouse events to the topmost widget under the
// pointer, moving focus on button press.
func (u *UIManager) HandleMouse(ev *tcell.EventMouse) bool {
	x, y := ev.Position()
	u.mu.Lock()
	w := u.topmostAtLocked(x, y)
	u.mu.Unlock()
	if w == nil {
		return false
	}
	if ev.Buttons()&tcell.Button1 != 0 {
		u.Focus(w)
	}
	handled := false
	if mw, ok := w.(MouseAware); ok {
		handled = mw.HandleMouse(ev)
	}
	if handled {
		u.dirtyMu.Lock()
		u.requestRefreshLocked()
		u.dirtyMu.Unlock()
	}
	return handled
}

func (u *UIManager) topmostAtLocked(x, y int) Widget {
	sorted := u.sortedWidgetsLocked()
	for i := len(sorted) - 1; i >= 0; i-- {
		if w := deepHit(sorted[i], x, y); w != nil {
			return w
		}
	}
	return nil
}

func deepHit(w Widget, x, y int) Widget {
	if cc, ok := w.(ChildContainer); ok {
		var res Widget
		cc.VisitChildren(func(child Widget) {
			if res != nil {
				return
			}
			if dw := deepHit(child, x, y); dw != nil {
				res = dw
			}
		})
		if res != nil {
			return res
		}
	}
	if w.HitTest(x, y) {
		return w
	}
	return nil
}

// Invalidate marks a region for redraw. Thread-safe.
func (u *UIManager) Invalidate(r Rect) {
	u.dirtyMu.Lock()
	defer u.dirtyMu.Unlock()
	if r.Empty() {
		return
	}
	u.dirty = append(u.dirty, r)
	u.requestRefreshLocked()
}

// InvalidateAll marks the whole surface for redraw.
func (u *UIManager) InvalidateAll() {
	u.dirtyMu.Lock()
	defer u.dirtyMu.Unlock()
	u.invalidateAllLocked()
}

func (u *UIManager) invalidateAllLocked() {
	u.dirty = append(u.dirty, Rect{X: 0, Y: 0, W: u.W, H: u.H})
	u.requestRefreshLocked()
}

func (u *UIManager) requestRefreshLocked() {
	if u.notifier == nil {
		return
	}
	select {
	case u.notifier <- true:
	default:
	}
}

func (u *UIManager) ensureBufferLocked() {
	h, w := u.H, u.W
	if u.buf != nil && len(u.buf) == h && (h == 0 || len(u.buf[0]) == w) {
		return
	}
	u.buf = make([][]Cell, h)
	for y := 0; y < h; y++ {
		row := make([]Cell, w)
		for x := 0; x < w; x++ {
			row[x] = Cell{Ch: ' ', Style: u.bgStyle}
		}
		u.buf[y] = row
	}
}

func widgetZ(w Widget) int {
	if zi, ok := w.(ZIndexer); ok {
		return zi.ZIndex()
	}
	return 0
}

func (u *UIManager) sortedWidgetsLocked() []Widget {
	sorted := make([]Widget, len(u.widgets))
	copy(sorted, u.widgets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return widgetZ(sorted[i]) < widgetZ(sorted[j])
	})
	return sorted
}

// Render updates dirty regions and returns the framebuffer.
func (u *UIManager) Render() [][]Cell {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.ensureBufferLocked()

	u.dirtyMu.Lock()
	dirtyCopy := u.dirty
	u.dirty = nil
	u.dirtyMu.Unlock()

	sorted := u.sortedWidgetsLocked()

	if len(dirtyCopy) == 0 {
		full := Rect{X: 0, Y: 0, W: u.W, H: u.H}
		p := NewPainter(u.buf, full)
		p.Fill(full, ' ', u.bgStyle)
		for _, w := range sorted {
			w.Draw(p)
		}
		return u.buf
	}

	surface := Rect{X: 0, Y: 0, W: u.W, H: u.H}
	for _, clip := range mergeRects(dirtyCopy) {
		clip = clip.Intersect(surface)
		if clip.Empty() {
			continue
		}
		p := NewPainter(u.buf, clip)
		p.Fill(clip, ' ', u.bgStyle)
		for _, w := range sorted {
			wx, wy := w.Position()
			ww, wh := w.Size()
			if (Rect{X: wx, Y: wy, W: ww, H: wh}).Overlaps(clip) {
				w.Draw(p)
			}
		}
	}
	return u.buf
}
