package richtext

import (
	"testing"

	"github.com/framegrace/texemoji/emoji"
)

var testCatalog = emoji.Catalog{
	"smile":  emoji.Character("🙂"),
	"rocket": emoji.ImageURL("https://e/rocket.png"),
	"grin":   emoji.Alias("smile"),
}

func TestInsertEmojisReplacesShortcode(t *testing.T) {
	txt := InsertEmojis(NewText("Hello :smile: World"), testCatalog, emoji.HighQuality)
	// ":smile:" (7 chars) collapses to one placeholder.
	if txt.CharCount() != 19-7+1 {
		t.Fatalf("char count %d", txt.CharCount())
	}
	atts := txt.Attachments()
	if len(atts) != 1 {
		t.Fatalf("want 1 attachment, got %d", len(atts))
	}
	if txt.RuneAt(atts[0].Offset) != PlaceholderRune {
		t.Fatal("placeholder rune missing")
	}
	src, err := emoji.DecodeSource(atts[0].Payload)
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	if src != emoji.Character("🙂") {
		t.Fatalf("payload source %s", src)
	}
}

func TestInsertEmojisResolvesAliasBeforeEmbedding(t *testing.T) {
	txt := InsertEmojis(NewText(":grin:"), testCatalog, emoji.HighQuality)
	atts := txt.Attachments()
	if len(atts) != 1 {
		t.Fatalf("want 1 attachment, got %d", len(atts))
	}
	src, err := emoji.DecodeSource(atts[0].Payload)
	if err != nil {
		t.Fatalf("payload: %v", err)
	}
	if src.Kind() != emoji.KindCharacter {
		t.Fatalf("alias not resolved: %s", src)
	}
}

func TestInsertEmojisLeavesUnknownCodes(t *testing.T) {
	in := "a :nope: b"
	txt := InsertEmojis(NewText(in), testCatalog, emoji.HighQuality)
	if txt.String() != in {
		t.Fatalf("got %q", txt.String())
	}
	if len(txt.Attachments()) != 0 {
		t.Fatal("unexpected attachment")
	}
}

func TestInsertEmojisAdjacentAndChained(t *testing.T) {
	txt := InsertEmojis(NewText(":smile::rocket:"), testCatalog, emoji.HighQuality)
	if len(txt.Attachments()) != 2 {
		t.Fatalf("want 2 attachments, got %d", len(txt.Attachments()))
	}
	// Unknown code followed by a known one: the shared colon belongs
	// to the second token.
	txt = InsertEmojis(NewText(":nope::smile:"), testCatalog, emoji.HighQuality)
	if len(txt.Attachments()) != 1 {
		t.Fatalf("want 1 attachment, got %d", len(txt.Attachments()))
	}
}

func TestInsertEmojisIdempotent(t *testing.T) {
	once := InsertEmojis(NewText("hi :smile: :rocket:"), testCatalog, emoji.HighQuality)
	twice := InsertEmojis(once, testCatalog, emoji.HighQuality)
	if once.String() != twice.String() {
		t.Fatalf("second pass changed text: %q vs %q", once.String(), twice.String())
	}
	if len(once.Attachments()) != len(twice.Attachments()) {
		t.Fatal("second pass changed attachments")
	}
	for i, a := range once.Attachments() {
		b := twice.Attachments()[i]
		if a.Offset != b.Offset || string(a.Payload) != string(b.Payload) {
			t.Fatalf("attachment %d drifted: %+v vs %+v", i, a, b)
		}
	}
}

func TestInsertEmojisSelectionArithmetic(t *testing.T) {
	// "Hello :smile: World" with cursor at 11 (inside the shortcode).
	// The shortcode occupies [6,13); after replacement by a single
	// placeholder, the text shrinks by 6.
	in := NewText("Hello :smile: World")
	out := InsertEmojis(in, testCatalog, emoji.HighQuality)
	delta := in.CharCount() - out.CharCount()
	if delta != 6 {
		t.Fatalf("delta %d", delta)
	}
	loc, _ := ClampSelection(11-delta, 0, out.CharCount())
	if loc != 5 {
		t.Fatalf("adjusted cursor %d", loc)
	}
}
