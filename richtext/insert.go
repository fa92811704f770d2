package richtext

import (
	"github.com/framegrace/texemoji/emoji"
)

// InsertEmojis rewrites t, replacing every `:code:` token whose code
// resolves in cat with a one-character attachment placeholder carrying
// the serialized source. Unknown shortcodes stay as literal text and
// existing attachments are carried over untouched, so the transform is
// idempotent: a second pass over its own output is a no-op.
//
// The options value is accepted for interface symmetry with the render
// pipeline; the insertion step itself does not consult it.
func InsertEmojis(t Text, cat emoji.Catalog, _ emoji.RenderOptions) Text {
	runes := t.Runes()
	var b builder
	b.runes = make([]rune, 0, len(runes))

	// Existing attachments indexed by start offset, so their runs are
	// copied verbatim instead of being re-scanned for shortcodes.
	attached := make(map[int]Attachment, len(t.Attachments()))
	for _, a := range t.Attachments() {
		attached[a.Offset] = a
	}

	for i := 0; i < len(runes); {
		if a, ok := attached[i]; ok {
			b.appendAttachment(a.Payload)
			i += a.Length
			continue
		}
		if runes[i] != ':' {
			b.appendRunes(runes[i])
			i++
			continue
		}
		code, end := scanShortcode(runes, i)
		if end < 0 {
			b.appendRunes(runes[i])
			i++
			continue
		}
		src, ok := cat.Resolve(code)
		if !ok {
			// Leave the opening colon; the closing colon may open
			// the next token (":nope::smile:").
			b.appendRunes(runes[i])
			i++
			continue
		}
		b.appendAttachment(emoji.EncodeSource(src))
		i = end + 1
	}
	return b.text()
}

// scanShortcode reads a `:code:` token starting at the colon at
// runes[start]. It returns the inner code and the index of the closing
// colon, or ("", -1) if no well-formed token begins there.
func scanShortcode(runes []rune, start int) (string, int) {
	for j := start + 1; j < len(runes); j++ {
		r := runes[j]
		if r == ':' {
			if j == start+1 {
				return "", -1
			}
			return string(runes[start+1 : j]), j
		}
		if !isShortcodeRune(r) {
			return "", -1
		}
	}
	return "", -1
}

func isShortcodeRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-' || r == '+':
		return true
	}
	return false
}
