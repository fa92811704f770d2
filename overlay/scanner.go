// Copyright © 2026 Texemoji contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: overlay/scanner.go
// Summary: Walks attachment runs and resolves their screen rects.

package overlay

import (
	"github.com/framegrace/texemoji/core"
	"github.com/framegrace/texemoji/emoji"
	"github.com/framegrace/texemoji/richtext"
)

// Geometry answers where a character range of the host's text model
// currently sits on screen. Ranges that are scrolled out of view or
// not laid out yet report ok=false.
type Geometry interface {
	CharRect(loc, length int) (core.Rect, bool)
}

// Placement is one scanned attachment ready for overlay creation.
type Placement struct {
	Loc    int
	Length int
	Source emoji.Source
	Rect   core.Rect
}

// Scan enumerates t's attachment runs in text order, decoding each
// payload and resolving its rect through geo, and calls visit per
// result. Attachments whose payload fails to decode or whose range
// has no geometry are skipped silently: a missing glyph degrades, it
// never fails the pass. Scan must run after the host's layout has
// settled, which is why callers drive it through the scheduler.
func Scan(t richtext.Text, geo Geometry, visit func(Placement)) {
	for _, a := range t.Attachments() {
		src, err := emoji.DecodeSource(a.Payload)
		if err != nil {
			continue
		}
		rect, ok := geo.CharRect(a.Offset, a.Length)
		if !ok || rect.Empty() {
			continue
		}
		visit(Placement{Loc: a.Offset, Length: a.Length, Source: src, Rect: rect})
	}
}
