package richtext

import "testing"

func attachedText(t *testing.T, parts ...interface{}) Text {
	t.Helper()
	var b builder
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			b.appendRunes([]rune(v)...)
		case []byte:
			b.appendAttachment(v)
		default:
			t.Fatalf("bad part %T", p)
		}
	}
	return b.text()
}

func TestInsertShiftsAttachments(t *testing.T) {
	txt := attachedText(t, "ab", []byte("p"), "cd")
	if txt.CharCount() != 5 {
		t.Fatalf("char count %d", txt.CharCount())
	}
	got := txt.Insert(0, "xy")
	if got.String()[:2] != "xy" {
		t.Fatalf("insert at head: %q", got.String())
	}
	atts := got.Attachments()
	if len(atts) != 1 || atts[0].Offset != 4 {
		t.Fatalf("attachment not shifted: %+v", atts)
	}
}

func TestInsertInsideAttachmentLandsAfterIt(t *testing.T) {
	// Single-rune placeholders cannot be split by an insert at their
	// offset+0; inserting "inside" a longer run must land after it.
	txt := attachedText(t, "a", []byte("p"), "b")
	got := txt.Insert(1, "x")
	// offset 1 is the attachment start; insert goes before it.
	if got.CharCount() != 4 {
		t.Fatalf("char count %d", got.CharCount())
	}
	atts := got.Attachments()
	if len(atts) != 1 || atts[0].Offset != 2 {
		t.Fatalf("attachment at %+v", atts)
	}
}

func TestDeleteDropsIntersectedAttachment(t *testing.T) {
	txt := attachedText(t, "ab", []byte("p"), "cd")
	got := txt.Delete(2, 1) // exactly the placeholder
	if got.String() != "abcd" {
		t.Fatalf("got %q", got.String())
	}
	if len(got.Attachments()) != 0 {
		t.Fatalf("attachment survived deletion: %+v", got.Attachments())
	}
}

func TestDeleteShiftsLaterAttachments(t *testing.T) {
	txt := attachedText(t, "ab", []byte("p"), "cd", []byte("q"))
	got := txt.Delete(0, 2)
	atts := got.Attachments()
	if len(atts) != 2 {
		t.Fatalf("want 2 attachments, got %+v", atts)
	}
	if atts[0].Offset != 0 || atts[1].Offset != 3 {
		t.Fatalf("bad offsets: %+v", atts)
	}
}

func TestDeleteOutOfRange(t *testing.T) {
	txt := NewText("abc")
	if got := txt.Delete(5, 1); got.String() != "abc" {
		t.Fatalf("got %q", got.String())
	}
	if got := txt.Delete(1, 99); got.String() != "a" {
		t.Fatalf("got %q", got.String())
	}
}

func TestClampSelection(t *testing.T) {
	cases := []struct {
		loc, length, n       int
		wantLoc, wantLength int
	}{
		{5, 0, 10, 5, 0},
		{-3, 2, 10, 0, 2},
		{12, 0, 10, 10, 0},
		{8, 5, 10, 8, 2},
		{0, -1, 10, 0, 0},
	}
	for _, c := range cases {
		loc, length := ClampSelection(c.loc, c.length, c.n)
		if loc != c.wantLoc || length != c.wantLength {
			t.Fatalf("clamp(%d,%d,%d) = (%d,%d), want (%d,%d)",
				c.loc, c.length, c.n, loc, length, c.wantLoc, c.wantLength)
		}
	}
}

func TestAttachmentAt(t *testing.T) {
	txt := attachedText(t, "ab", []byte("p"), "cd")
	if _, ok := txt.AttachmentAt(1); ok {
		t.Fatal("found attachment where none is")
	}
	a, ok := txt.AttachmentAt(2)
	if !ok || string(a.Payload) != "p" {
		t.Fatalf("attachment at 2: %+v ok=%v", a, ok)
	}
}
