package overlay

import (
	"testing"

	"github.com/framegrace/texemoji/core"
	"github.com/framegrace/texemoji/emoji"
	"github.com/framegrace/texemoji/richtext"
)

// gridGeometry lays every character out on one row, one cell each,
// except offsets listed in hidden.
type gridGeometry struct {
	hidden map[int]bool
}

func (g gridGeometry) CharRect(loc, length int) (core.Rect, bool) {
	if g.hidden[loc] {
		return core.Rect{}, false
	}
	return core.Rect{X: loc, Y: 0, W: length, H: 1}, true
}

func insertAll(s string, cat emoji.Catalog) richtext.Text {
	return richtext.InsertEmojis(richtext.NewText(s), cat, emoji.HighQuality)
}

func TestScanEmitsInTextOrder(t *testing.T) {
	cat := emoji.Catalog{
		"a": emoji.Character("A"),
		"b": emoji.ImageURL("https://e/b.png"),
	}
	txt := insertAll("x :a: y :b: z", cat)

	var got []Placement
	Scan(txt, gridGeometry{}, func(p Placement) { got = append(got, p) })
	if len(got) != 2 {
		t.Fatalf("placements: %d", len(got))
	}
	if got[0].Loc >= got[1].Loc {
		t.Fatalf("out of order: %d then %d", got[0].Loc, got[1].Loc)
	}
	if got[0].Source != emoji.Character("A") {
		t.Fatalf("first source %s", got[0].Source)
	}
	if got[1].Source != emoji.ImageURL("https://e/b.png") {
		t.Fatalf("second source %s", got[1].Source)
	}
	if got[0].Rect != (core.Rect{X: got[0].Loc, Y: 0, W: 1, H: 1}) {
		t.Fatalf("rect %+v", got[0].Rect)
	}
}

func TestScanSkipsBadPayload(t *testing.T) {
	cat := emoji.Catalog{"a": emoji.Character("A"), "b": emoji.Character("B")}
	txt := insertAll(":a: :b:", cat)

	// Corrupt the first attachment's payload in place.
	atts := txt.Attachments()
	copy(atts[0].Payload, []byte("garbage!"))

	var got []Placement
	Scan(txt, gridGeometry{}, func(p Placement) { got = append(got, p) })
	if len(got) != 1 {
		t.Fatalf("want the good attachment only, got %d", len(got))
	}
	if got[0].Source != emoji.Character("B") {
		t.Fatalf("survivor %s", got[0].Source)
	}
}

func TestScanSkipsMissingGeometry(t *testing.T) {
	cat := emoji.Catalog{"a": emoji.Character("A"), "b": emoji.Character("B")}
	txt := insertAll(":a::b:", cat)
	atts := txt.Attachments()

	geo := gridGeometry{hidden: map[int]bool{atts[0].Offset: true}}
	var got []Placement
	Scan(txt, geo, func(p Placement) { got = append(got, p) })
	if len(got) != 1 || got[0].Loc != atts[1].Offset {
		t.Fatalf("placements %+v", got)
	}
}
