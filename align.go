package lado

// AlignedRow is one row of side-by-side output.
//
// Left holds a context or removed line, Right a context or added line.
// Either may be nil (a blank filler cell), never both.
type AlignedRow struct {
	Left  *DiffLine
	Right *DiffLine
}

// IsContext reports whether the row shows an unchanged line on both sides.
func (r AlignedRow) IsContext() bool {
	return r.Left != nil && r.Right != nil && r.Left.Kind == LineContext
}

// IsModification reports whether a removed line sits opposite an added line.
func (r AlignedRow) IsModification() bool {
	return r.Left != nil && r.Right != nil &&
		r.Left.Kind == LineRemoved && r.Right.Kind == LineAdded
}

// IsDeletion reports whether the row has only a removed line.
func (r AlignedRow) IsDeletion() bool {
	return r.Left != nil && r.Right == nil
}

// IsAddition reports whether the row has only an added line.
func (r AlignedRow) IsAddition() bool {
	return r.Left == nil && r.Right != nil
}

// Align converts one hunk's lines into rows for side-by-side display.
//
// Each context line becomes a row with the line on both sides. Each maximal
// run of removed and added lines is split into its removed and added lines,
// which are paired by position: a run with r removed and a added lines
// yields max(r, a) rows, the shorter side padded with blanks. Lines are not
// matched by content.
//
// Align never fails. The rows point at copies of the input lines.
func Align(lines []DiffLine) []AlignedRow {
	if len(lines) == 0 {
		return []AlignedRow{}
	}

	owned := make([]DiffLine, len(lines))
	copy(owned, lines)

	rows := make([]AlignedRow, 0, len(owned))
	for i := 0; i < len(owned); {
		if owned[i].Kind == LineContext {
			rows = append(rows, AlignedRow{Left: &owned[i], Right: &owned[i]})
			i++
			continue
		}

		// Collect the change run up to the next context line.
		var removed, added []*DiffLine
		for ; i < len(owned) && owned[i].Kind != LineContext; i++ {
			if owned[i].Kind == LineRemoved {
				removed = append(removed, &owned[i])
			} else {
				added = append(added, &owned[i])
			}
		}
		rows = append(rows, pairRun(removed, added)...)
	}
	return rows
}

// pairRun pairs removed and added lines of one change run by position.
func pairRun(removed, added []*DiffLine) []AlignedRow {
	n := max(len(removed), len(added))
	rows := make([]AlignedRow, n)
	for i := range n {
		if i < len(removed) {
			rows[i].Left = removed[i]
		}
		if i < len(added) {
			rows[i].Right = added[i]
		}
	}
	return rows
}

// UnifiedRow is one row of unified output: a line with its diff marker.
type UnifiedRow struct {
	Marker byte // '+', '-' or ' '
	Line   DiffLine
}

// UnifiedRows maps each line to exactly one row in input order. It is the
// identity layout used for unified display, so both layouts always agree on
// which lines changed.
func UnifiedRows(lines []DiffLine) []UnifiedRow {
	rows := make([]UnifiedRow, len(lines))
	for i, l := range lines {
		rows[i] = UnifiedRow{Marker: l.Kind.Marker(), Line: l}
	}
	return rows
}
