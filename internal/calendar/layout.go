package calendar

// Positioned is a packed event with its geometry in the day column.
// Fractions are relative to the column width.
type Positioned struct {
	PackedEvent
	TopPx         float64
	HeightPx      float64
	WidthFraction float64
	LeftFraction  float64
}

// Layout maps packed events to pixels. TopPx is measured from the open
// minute and may be negative or exceed the grid; see ClipToHours.
func Layout(packed PackResult, h Hours, cellHeightPx float64) []Positioned {
	if len(packed.Events) == 0 {
		return nil
	}
	scale := NewPixelScale(cellHeightPx, h.SlotSizeMinutes)
	width := 1 / float64(packed.ColumnCount)

	out := make([]Positioned, len(packed.Events))
	for i, e := range packed.Events {
		out[i] = Positioned{
			PackedEvent:   e,
			TopPx:         scale.MinuteOffsetToPixels(float64(e.StartMinute - h.OpenMinute)),
			HeightPx:      scale.MinuteOffsetToPixels(float64(e.Duration())),
			WidthFraction: width,
			LeftFraction:  float64(e.Column) * width,
		}
	}
	return out
}

// ClipToHours trims p to the visible grid. visible is false when nothing
// of the event falls inside it.
func ClipToHours(p Positioned, h Hours, cellHeightPx float64) (clipped Positioned, visible bool) {
	limit := NewPixelScale(cellHeightPx, h.SlotSizeMinutes).GridHeight(h)
	top := max(p.TopPx, 0)
	bottom := min(p.TopPx+p.HeightPx, limit)
	if bottom <= top {
		return p, false
	}
	p.TopPx = top
	p.HeightPx = bottom - top
	return p, true
}
