package widgets

import (
	"time"

	"github.com/gdamore/tcell/v2"
	runewidth "github.com/mattn/go-runewidth"

	"github.com/framegrace/texemoji/core"
	"github.com/framegrace/texemoji/emoji"
	"github.com/framegrace/texemoji/overlay"
	"github.com/framegrace/texemoji/richtext"
)

// EmojiArea is a multiline text editor whose shortcode emojis render
// as live overlays. It is the host view of the overlay engine: it
// owns the attributed text, answers geometry queries for attachment
// ranges and carries the overlay container.
type EmojiArea struct {
	core.BaseWidget
	text richtext.Text

	// selection over the flat character sequence
	selLoc, selLen int

	// viewport offsets in cells (X) and lines (Y)
	OffX, OffY int

	Style      tcell.Style
	CaretStyle tcell.Style

	// line start offsets into the rune sequence, recomputed on every
	// text install
	lineStarts []int

	events   *core.EventDispatcher
	overlays []*overlay.View
	sync     *overlay.Synchronizer
	inv      func(core.Rect)
}

// NewEmojiArea creates an empty editor at the given cell rect.
func NewEmojiArea(x, y, w, h int, style tcell.Style) *EmojiArea {
	ea := &EmojiArea{
		Style:      style,
		CaretStyle: style.Reverse(true),
		events:     core.NewEventDispatcher(),
	}
	ea.SetPosition(x, y)
	ea.BaseWidget.Resize(w, h)
	ea.SetFocusable(true)
	ea.installText(richtext.NewText(""))
	return ea
}

// ConfigureEmojis wires the overlay engine to this editor and runs the
// first render pass. Repeated calls reconfigure in place: the existing
// synchronizer re-attaches, replacing (never doubling) its event
// subscription. delay defers the overlay rebuild of each pass; zero
// means next loop tick.
func (ea *EmojiArea) ConfigureEmojis(cat emoji.Catalog, opts emoji.RenderOptions, rt overlay.Runtime, delay time.Duration) {
	if ea.sync == nil {
		ea.sync = overlay.NewSynchronizer(ea, rt)
	}
	ea.sync.Attach(cat, opts, delay)
}

// SetInvalidator wires dirty-region reporting and forwards it to any
// overlay views already in the container.
func (ea *EmojiArea) SetInvalidator(fn func(core.Rect)) {
	ea.inv = fn
	for _, v := range ea.overlays {
		v.SetInvalidator(fn)
	}
}

// VisitChildren exposes the overlay container to the widget tree.
func (ea *EmojiArea) VisitChildren(visit func(core.Widget)) {
	for _, v := range ea.overlays {
		visit(v)
	}
}

// Resize reflows the viewport and announces the geometry change so
// the synchronizer can re-place overlays.
func (ea *EmojiArea) Resize(w, h int) {
	ea.BaseWidget.Resize(w, h)
	ea.ensureVisible()
	ea.events.Broadcast(core.Event{Type: core.EventLayoutChanged, Payload: ea})
}

// --- overlay.Host ---

// Text returns the current attributed content.
func (ea *EmojiArea) Text() richtext.Text { return ea.text }

// SetText installs new content programmatically. It does not fire the
// text-changed event; only user edits do. This is what keeps the
// synchronizer's own rewrite in step 3 of a render pass from
// re-triggering itself forever.
func (ea *EmojiArea) SetText(t richtext.Text) {
	ea.installText(t)
	ea.invalidateViewport()
}

// SetPlainText resets the content from a plain string, as a user edit
// would (fires the change event).
func (ea *EmojiArea) SetPlainText(s string) {
	ea.installText(richtext.NewText(s))
	ea.selLoc, ea.selLen = ea.text.CharCount(), 0
	ea.invalidateViewport()
	ea.events.Broadcast(core.Event{Type: core.EventTextChanged, Payload: ea})
}

// Selection returns the caret as (location, length).
func (ea *EmojiArea) Selection() (int, int) { return ea.selLoc, ea.selLen }

// SetSelection moves the caret, clamped to the text bounds.
func (ea *EmojiArea) SetSelection(loc, length int) {
	ea.selLoc, ea.selLen = richtext.ClampSelection(loc, length, ea.text.CharCount())
	ea.ensureVisible()
}

// CharRect maps a character range to its on-screen rect. Ranges that
// sit outside the current viewport (or past the text) report false:
// the attachment scanner skips them silently.
func (ea *EmojiArea) CharRect(loc, length int) (core.Rect, bool) {
	if loc < 0 || length <= 0 || loc+length > ea.text.CharCount() {
		return core.Rect{}, false
	}
	line, lineStart := ea.lineOf(loc)
	runes := ea.text.Runes()

	col := 0
	for i := lineStart; i < loc; i++ {
		col += cellWidth(runes[i])
	}
	w := 0
	for i := loc; i < loc+length; i++ {
		if runes[i] == '\n' {
			break
		}
		w += cellWidth(runes[i])
	}
	if w == 0 {
		w = 1
	}

	vx := col - ea.OffX
	vy := line - ea.OffY
	if vx < 0 || vy < 0 || vy >= ea.Rect.H || vx+w > ea.Rect.W {
		return core.Rect{}, false
	}
	return core.Rect{X: ea.Rect.X + vx, Y: ea.Rect.Y + vy, W: w, H: 1}, true
}

// AddOverlay places a view into the overlay container.
func (ea *EmojiArea) AddOverlay(v *overlay.View) {
	if ea.inv != nil {
		v.SetInvalidator(ea.inv)
	}
	ea.overlays = append(ea.overlays, v)
	ea.invalidateRect(v.Rect)
}

// ClearOverlays tears down the whole overlay container. Every render
// pass starts here, so stale views never survive a pass.
func (ea *EmojiArea) ClearOverlays() {
	for _, v := range ea.overlays {
		v.Discard()
		ea.invalidateRect(v.Rect)
	}
	ea.overlays = nil
}

// Overlays returns the live overlay views (test hook, draw order).
func (ea *EmojiArea) Overlays() []*overlay.View { return ea.overlays }

// Events returns the editor's notification dispatcher.
func (ea *EmojiArea) Events() *core.EventDispatcher { return ea.events }

// BackgroundStyle returns the style overlays should blend into.
func (ea *EmojiArea) BackgroundStyle() tcell.Style { return ea.Style }

// --- editing ---

func (ea *EmojiArea) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyLeft:
		ea.SetSelection(ea.selLoc-1, 0)
	case tcell.KeyRight:
		ea.SetSelection(ea.selLoc+1, 0)
	case tcell.KeyUp:
		ea.moveLine(-1)
	case tcell.KeyDown:
		ea.moveLine(1)
	case tcell.KeyHome:
		_, start := ea.lineOf(ea.selLoc)
		ea.SetSelection(start, 0)
	case tcell.KeyEnd:
		ea.SetSelection(ea.lineEnd(ea.selLoc), 0)
	case tcell.KeyEnter:
		ea.edit(ea.text.Insert(ea.selLoc, "\n"), ea.selLoc+1)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if ea.selLoc == 0 {
			return true
		}
		at := ea.deleteStart(ea.selLoc - 1)
		ea.edit(ea.text.Delete(at, ea.selLoc-at), at)
	case tcell.KeyDelete:
		if ea.selLoc >= ea.text.CharCount() {
			return true
		}
		ea.edit(ea.text.Delete(ea.selLoc, 1), ea.selLoc)
	case tcell.KeyRune:
		ea.edit(ea.text.Insert(ea.selLoc, string(ev.Rune())), ea.selLoc+1)
	default:
		return false
	}
	ea.invalidateViewport()
	return true
}

// edit installs a user mutation and broadcasts the change event that
// drives the overlay synchronizer.
func (ea *EmojiArea) edit(t richtext.Text, caret int) {
	ea.installText(t)
	ea.SetSelection(caret, 0)
	ea.invalidateViewport()
	ea.events.Broadcast(core.Event{Type: core.EventTextChanged, Payload: ea})
}

// deleteStart widens a single-character backspace to cover a whole
// attachment run, so a placeholder deletes as one unit.
func (ea *EmojiArea) deleteStart(at int) int {
	if a, ok := ea.text.AttachmentAt(at); ok {
		return a.Offset
	}
	return at
}

func (ea *EmojiArea) HandleMouse(ev *tcell.EventMouse) bool {
	x, y := ev.Position()
	if !ea.Rect.Contains(x, y) {
		return false
	}
	btn := ev.Buttons()
	if btn&(tcell.WheelUp|tcell.WheelDown) != 0 {
		if btn&tcell.WheelUp != 0 && ea.OffY > 0 {
			ea.OffY--
		}
		if btn&tcell.WheelDown != 0 && ea.OffY < len(ea.lineStarts)-1 {
			ea.OffY++
		}
		ea.invalidateViewport()
		ea.events.Broadcast(core.Event{Type: core.EventLayoutChanged, Payload: ea})
		return true
	}
	if btn&tcell.Button1 != 0 {
		ea.SetSelection(ea.locAtCell(x-ea.Rect.X+ea.OffX, y-ea.Rect.Y+ea.OffY), 0)
		ea.invalidateViewport()
		return true
	}
	return false
}

// --- drawing ---

func (ea *EmojiArea) Draw(p *core.Painter) {
	p.Fill(ea.Rect, ' ', ea.Style)
	runes := ea.text.Runes()

	for row := 0; row < ea.Rect.H; row++ {
		line := ea.OffY + row
		if line >= len(ea.lineStarts) {
			break
		}
		col := 0
		for i := ea.lineStarts[line]; i < len(runes) && runes[i] != '\n'; i++ {
			r := runes[i]
			w := cellWidth(r)
			if r == richtext.PlaceholderRune {
				// Blank under the overlay view; stays blank if the
				// overlay never materializes.
				r = ' '
			}
			vx := col - ea.OffX
			if vx >= 0 && vx < ea.Rect.W {
				p.SetCell(ea.Rect.X+vx, ea.Rect.Y+row, r, ea.Style)
			}
			col += w
			if col-ea.OffX >= ea.Rect.W {
				break
			}
		}
	}

	if ea.IsFocused() {
		ea.drawCaret(p, runes)
	}

	for _, v := range ea.overlays {
		v.Draw(p)
	}
}

func (ea *EmojiArea) drawCaret(p *core.Painter, runes []rune) {
	if r, ok := ea.CharRect(ea.selLoc, 1); ok {
		ch := ' '
		if ea.selLoc < len(runes) && runes[ea.selLoc] != '\n' && runes[ea.selLoc] != richtext.PlaceholderRune {
			ch = runes[ea.selLoc]
		}
		p.SetCell(r.X, r.Y, ch, ea.CaretStyle)
		return
	}
	// Caret at end of text has no characters under it.
	line, start := ea.lineOf(ea.selLoc)
	col := 0
	for i := start; i < ea.selLoc && i < len(runes); i++ {
		col += cellWidth(runes[i])
	}
	vx, vy := col-ea.OffX, line-ea.OffY
	if vx >= 0 && vy >= 0 && vx < ea.Rect.W && vy < ea.Rect.H {
		p.SetCell(ea.Rect.X+vx, ea.Rect.Y+vy, ' ', ea.CaretStyle)
	}
}

// EmitGraphics places loaded image overlays over the finished frame.
// Wire it to the screen's AfterFrame hook.
func (ea *EmojiArea) EmitGraphics() {
	for _, v := range ea.overlays {
		v.EmitGraphics()
	}
}

// --- layout helpers ---

func (ea *EmojiArea) installText(t richtext.Text) {
	ea.text = t
	runes := t.Runes()
	ea.lineStarts = ea.lineStarts[:0]
	ea.lineStarts = append(ea.lineStarts, 0)
	for i, r := range runes {
		if r == '\n' {
			ea.lineStarts = append(ea.lineStarts, i+1)
		}
	}
	ea.selLoc, ea.selLen = richtext.ClampSelection(ea.selLoc, ea.selLen, len(runes))
}

// lineOf returns the line index and line start offset containing loc.
func (ea *EmojiArea) lineOf(loc int) (int, int) {
	line := 0
	for i, start := range ea.lineStarts {
		if start > loc {
			break
		}
		line = i
	}
	return line, ea.lineStarts[line]
}

// lineEnd returns the offset just before the newline ending loc's line.
func (ea *EmojiArea) lineEnd(loc int) int {
	runes := ea.text.Runes()
	_, start := ea.lineOf(loc)
	i := start
	for i < len(runes) && runes[i] != '\n' {
		i++
	}
	return i
}

func (ea *EmojiArea) moveLine(dy int) {
	line, start := ea.lineOf(ea.selLoc)
	target := line + dy
	if target < 0 || target >= len(ea.lineStarts) {
		return
	}
	col := ea.selLoc - start
	ts := ea.lineStarts[target]
	te := ea.lineEnd(ts)
	loc := ts + col
	if loc > te {
		loc = te
	}
	ea.SetSelection(loc, 0)
}

// locAtCell maps a viewport-relative (col, line) cell to the nearest
// character offset, accounting for wide runes.
func (ea *EmojiArea) locAtCell(col, line int) int {
	if line < 0 {
		line = 0
	}
	if line >= len(ea.lineStarts) {
		line = len(ea.lineStarts) - 1
	}
	runes := ea.text.Runes()
	i := ea.lineStarts[line]
	w := 0
	for i < len(runes) && runes[i] != '\n' {
		cw := cellWidth(runes[i])
		if w+cw > col {
			return i
		}
		w += cw
		i++
	}
	return i
}

// ensureVisible scrolls the viewport to keep the caret on screen. A
// scroll moves every char rect, so it announces the layout change the
// same way Resize and wheel scrolling do; re-running ensureVisible on
// unchanged offsets broadcasts nothing, which is what lets the
// synchronizer's own SetSelection pass through here without looping.
func (ea *EmojiArea) ensureVisible() {
	prevX, prevY := ea.OffX, ea.OffY
	line, start := ea.lineOf(ea.selLoc)
	runes := ea.text.Runes()
	col := 0
	for i := start; i < ea.selLoc && i < len(runes); i++ {
		col += cellWidth(runes[i])
	}
	if col < ea.OffX {
		ea.OffX = col
	}
	if ea.Rect.W > 0 && col >= ea.OffX+ea.Rect.W {
		ea.OffX = col - ea.Rect.W + 1
	}
	if line < ea.OffY {
		ea.OffY = line
	}
	if ea.Rect.H > 0 && line >= ea.OffY+ea.Rect.H {
		ea.OffY = line - ea.Rect.H + 1
	}
	if ea.OffX < 0 {
		ea.OffX = 0
	}
	if ea.OffY < 0 {
		ea.OffY = 0
	}
	if ea.OffX != prevX || ea.OffY != prevY {
		ea.invalidateViewport()
		ea.events.Broadcast(core.Event{Type: core.EventLayoutChanged, Payload: ea})
	}
}

func (ea *EmojiArea) invalidateViewport() {
	if ea.inv != nil {
		ea.inv(ea.Rect)
	}
}

func (ea *EmojiArea) invalidateRect(r core.Rect) {
	if ea.inv != nil {
		ea.inv(r)
	}
}

// cellWidth returns the display width of one rune. Placeholders are
// one cell; East Asian wide runes take two.
func cellWidth(r rune) int {
	if r == richtext.PlaceholderRune {
		return 1
	}
	w := runewidth.RuneWidth(r)
	if w < 1 {
		w = 1
	}
	return w
}
