package core

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

type fillWidget struct {
	BaseWidget
	ch rune
	z  int
}

func (f *fillWidget) Draw(p *Painter) {
	p.Fill(f.Rect, f.ch, tcell.StyleDefault)
}

func (f *fillWidget) ZIndex() int { return f.z }

func newFill(x, y, w, h int, ch rune, z int) *fillWidget {
	f := &fillWidget{ch: ch, z: z}
	f.SetPosition(x, y)
	f.Resize(w, h)
	return f
}

func TestUIManagerRendersByZOrder(t *testing.T) {
	ui := NewUIManager(tcell.StyleDefault)
	ui.Resize(10, 4)
	ui.AddWidget(newFill(0, 0, 10, 4, 'a', 0))
	ui.AddWidget(newFill(2, 1, 3, 1, 'b', 10))

	buf := ui.Render()
	if len(buf) != 4 || len(buf[0]) != 10 {
		t.Fatalf("buffer %dx%d", len(buf[0]), len(buf))
	}
	if buf[0][0].Ch != 'a' {
		t.Fatalf("background cell %q", buf[0][0].Ch)
	}
	if buf[1][2].Ch != 'b' {
		t.Fatalf("overlay cell %q", buf[1][2].Ch)
	}
}

func TestUIManagerDirtyClipRedraw(t *testing.T) {
	ui := NewUIManager(tcell.StyleDefault)
	ui.Resize(10, 4)
	w := newFill(0, 0, 10, 4, 'a', 0)
	ui.AddWidget(w)
	ui.Render()

	// Mutate the widget and invalidate only one cell; the redraw must
	// pick it up inside the clip.
	w.ch = 'c'
	ui.Invalidate(Rect{X: 3, Y: 2, W: 1, H: 1})
	buf := ui.Render()
	if buf[2][3].Ch != 'c' {
		t.Fatalf("clip cell %q", buf[2][3].Ch)
	}
	if buf[0][0].Ch != 'a' {
		t.Fatalf("cell outside clip repainted: %q", buf[0][0].Ch)
	}
}

func TestUIManagerRemoveWidget(t *testing.T) {
	ui := NewUIManager(tcell.StyleDefault)
	ui.Resize(4, 2)
	w := newFill(0, 0, 4, 2, 'a', 0)
	ui.AddWidget(w)
	ui.Render()
	ui.RemoveWidget(w)
	buf := ui.Render()
	if buf[0][0].Ch != ' ' {
		t.Fatalf("removed widget still drawn: %q", buf[0][0].Ch)
	}
}

func TestEventDispatcherSubscribeReplace(t *testing.T) {
	d := NewEventDispatcher()
	var got []string
	a := d.Subscribe(ListenerFunc(func(Event) { got = append(got, "a") }))
	d.Broadcast(Event{Type: EventTextChanged})
	d.Unsubscribe(a)
	d.Subscribe(ListenerFunc(func(Event) { got = append(got, "b") }))
	d.Broadcast(Event{Type: EventTextChanged})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("listener calls: %v", got)
	}
}
