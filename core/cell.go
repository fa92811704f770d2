// Copyright © 2026 Texemoji contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: core/cell.go
// Summary: Terminal cell type composed by the widget buffer.

package core

import "github.com/gdamore/tcell/v2"

// Cell is one terminal character cell. Ch of rune(0) is treated as
// transparent when buffers are composited.
type Cell struct {
	Ch    rune
	Style tcell.Style
}
