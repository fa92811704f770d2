package richtext

import "sort"

// PlaceholderRune marks an attachment position inside the character
// sequence. U+FFFC is the unicode object replacement character, which
// terminals render as an inert single-width glyph.
const PlaceholderRune = '￼'

// Attachment is an inert marker embedded in a Text, standing in for a
// rich visual element. The payload is opaque to this package; the
// emoji codec knows how to read it.
type Attachment struct {
	Offset  int
	Length  int
	Payload []byte
}

// Text is an attributed string: a rune sequence plus attachment runs.
// Values are cheap to copy; the backing slices are never mutated after
// construction, so copies may share them.
type Text struct {
	runes       []rune
	attachments []Attachment
}

// NewText builds an attachment-free text from a plain string.
func NewText(s string) Text {
	return Text{runes: []rune(s)}
}

// String returns the character sequence, placeholders included.
func (t Text) String() string { return string(t.runes) }

// CharCount returns the number of characters (runes) in the text.
func (t Text) CharCount() int { return len(t.runes) }

// RuneAt returns the rune at offset i. Panics if out of range, like a
// slice index.
func (t Text) RuneAt(i int) rune { return t.runes[i] }

// Runes returns the rune sequence. Callers must not modify it.
func (t Text) Runes() []rune { return t.runes }

// Attachments returns the attachment runs in text order. Callers must
// not modify the returned slice.
func (t Text) Attachments() []Attachment { return t.attachments }

// AttachmentAt returns the attachment covering offset i, if any.
func (t Text) AttachmentAt(i int) (Attachment, bool) {
	for _, a := range t.attachments {
		if i >= a.Offset && i < a.Offset+a.Length {
			return a, true
		}
	}
	return Attachment{}, false
}

// WithAttachment returns a copy of t where the single character at
// offset at becomes an attachment placeholder carrying payload. The
// usual way attachments appear is InsertEmojis; this is the escape
// hatch for callers embedding their own payloads.
func (t Text) WithAttachment(at int, payload []byte) Text {
	if at < 0 || at >= len(t.runes) {
		return t
	}
	runes := make([]rune, len(t.runes))
	copy(runes, t.runes)
	runes[at] = PlaceholderRune

	atts := make([]Attachment, 0, len(t.attachments)+1)
	for _, a := range t.attachments {
		if a.Offset == at {
			continue
		}
		atts = append(atts, a)
	}
	atts = append(atts, Attachment{Offset: at, Length: 1, Payload: payload})
	sortAttachments(atts)
	return Text{runes: runes, attachments: atts}
}

func sortAttachments(atts []Attachment) {
	sort.Slice(atts, func(i, j int) bool { return atts[i].Offset < atts[j].Offset })
}

// ClampSelection forces a (location, length) selection into the valid
// range for a text of n characters. Location lands in [0, n]; length
// is truncated so the selection end never passes n.
func ClampSelection(loc, length, n int) (int, int) {
	if loc < 0 {
		loc = 0
	}
	if loc > n {
		loc = n
	}
	if length < 0 {
		length = 0
	}
	if loc+length > n {
		length = n - loc
	}
	return loc, length
}

// builder accumulates runes and attachments while rewriting a text.
type builder struct {
	runes       []rune
	attachments []Attachment
}

func (b *builder) appendRunes(rs ...rune) { b.runes = append(b.runes, rs...) }

func (b *builder) appendAttachment(payload []byte) {
	b.attachments = append(b.attachments, Attachment{
		Offset:  len(b.runes),
		Length:  1,
		Payload: payload,
	})
	b.runes = append(b.runes, PlaceholderRune)
}

func (b *builder) text() Text {
	return Text{runes: b.runes, attachments: b.attachments}
}
