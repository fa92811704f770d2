package richtext

// Insert returns a copy of t with s inserted at character offset at.
// Attachments at or after the insertion point shift right; an
// insertion inside an attachment run lands after it instead, so runs
// are never split.
func (t Text) Insert(at int, s string) Text {
	n := len(t.runes)
	if at < 0 {
		at = 0
	}
	if at > n {
		at = n
	}
	if a, ok := t.AttachmentAt(at); ok && at > a.Offset {
		at = a.Offset + a.Length
	}
	ins := []rune(s)
	runes := make([]rune, 0, n+len(ins))
	runes = append(runes, t.runes[:at]...)
	runes = append(runes, ins...)
	runes = append(runes, t.runes[at:]...)

	var atts []Attachment
	for _, a := range t.attachments {
		if a.Offset >= at {
			a.Offset += len(ins)
		}
		atts = append(atts, a)
	}
	return Text{runes: runes, attachments: atts}
}

// Delete returns a copy of t with count characters removed starting
// at character offset at. Attachment runs intersecting the deleted
// range are dropped entirely (their placeholder runes go with them);
// runs past the range shift left.
func (t Text) Delete(at, count int) Text {
	n := len(t.runes)
	if at < 0 {
		count += at
		at = 0
	}
	if at >= n || count <= 0 {
		return t
	}
	if at+count > n {
		count = n - at
	}
	// Grow the range to whole attachment runs so no run is half-cut.
	start, end := at, at+count
	for _, a := range t.attachments {
		if a.Offset < end && a.Offset+a.Length > start {
			if a.Offset < start {
				start = a.Offset
			}
			if a.Offset+a.Length > end {
				end = a.Offset + a.Length
			}
		}
	}
	removed := end - start

	runes := make([]rune, 0, n-removed)
	runes = append(runes, t.runes[:start]...)
	runes = append(runes, t.runes[end:]...)

	var atts []Attachment
	for _, a := range t.attachments {
		if a.Offset < end && a.Offset+a.Length > start {
			continue
		}
		if a.Offset >= end {
			a.Offset -= removed
		}
		atts = append(atts, a)
	}
	return Text{runes: runes, attachments: atts}
}
