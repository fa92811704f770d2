// Copyright © 2026 Texemoji contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: overlay/kitty_test.go
// Summary: Kitty escape emission tests.

package overlay

import (
	"bytes"
	"fmt"
	"image"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texemoji/core"
)

type recordingPlacer struct {
	imgs       []uint32
	placements []uint32
}

func (r *recordingPlacer) Place(img, placement uint32, i image.Image, x, y int) {
	r.imgs = append(r.imgs, img)
	r.placements = append(r.placements, placement)
}

func (r *recordingPlacer) Clear(img, placement uint32) {}

func TestKittyPlacerTransmitsImageOnce(t *testing.T) {
	var out bytes.Buffer
	k := NewKittyPlacer(&out)
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))

	// Two placements plus a re-place after a clear, all of image 7.
	k.Place(7, 100, img, 0, 0)
	k.Place(7, 101, img, 4, 0)
	k.Clear(7, 100)
	k.Place(7, 100, img, 2, 2)

	transmits := strings.Count(out.String(), "a=t,f=100")
	if transmits != 1 {
		t.Fatalf("image transmitted %d times", transmits)
	}
	places := strings.Count(out.String(), "a=p,i=7")
	if places != 3 {
		t.Fatalf("placements emitted: %d", places)
	}
}

func TestKittyPlacerPlacementsAreIndependent(t *testing.T) {
	var out bytes.Buffer
	k := NewKittyPlacer(&out)
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))

	k.Place(3, 10, img, 0, 0)
	k.Place(3, 11, img, 5, 0)
	if got := strings.Count(out.String(), "p=10"); got != 1 {
		t.Fatalf("placement 10 emitted %d times", got)
	}
	if got := strings.Count(out.String(), "p=11"); got != 1 {
		t.Fatalf("placement 11 emitted %d times", got)
	}

	out.Reset()
	k.Clear(3, 10)
	want := fmt.Sprintf("\x1b_Ga=d,d=i,i=%d,p=%d\x1b\\", 3, 10)
	if out.String() != want {
		t.Fatalf("clear emitted %q", out.String())
	}
}

func TestHandlesShareOneImageID(t *testing.T) {
	h := NewHandle("imageUrl:https://e/x.png")
	if h.ImageID() == 0 {
		t.Fatal("handle without image id")
	}
	if NewHandle("imageUrl:https://e/y.png").ImageID() == h.ImageID() {
		t.Fatal("distinct handles share an image id")
	}

	// Two views bound to one handle place under the same image id with
	// distinct placement ids.
	a := NewView(core.Rect{X: 0, Y: 0, W: 1, H: 1}, tcell.StyleDefault)
	b := NewView(core.Rect{X: 4, Y: 0, W: 1, H: 1}, tcell.StyleDefault)
	rec := &recordingPlacer{}
	a.BindHandle(h, rec)
	b.BindHandle(h, rec)
	h.Populate(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	a.EmitGraphics()
	b.EmitGraphics()

	if len(rec.imgs) != 2 || rec.imgs[0] != h.ImageID() || rec.imgs[1] != h.ImageID() {
		t.Fatalf("image ids placed: %v", rec.imgs)
	}
	if rec.placements[0] == rec.placements[1] {
		t.Fatalf("views share placement id %d", rec.placements[0])
	}
}
