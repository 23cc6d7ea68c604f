package calendar

import "math"

// Slot is one cell of the grid.
type Slot struct {
	DayIndex int
	Minute   int
}

// DaySlots returns the slot start minutes of one day, from OpenMinute to
// CloseMinute inclusive.
func DaySlots(h Hours) []int {
	if h.SlotSizeMinutes <= 0 || h.CloseMinute < h.OpenMinute {
		return nil
	}
	n := (h.CloseMinute-h.OpenMinute)/h.SlotSizeMinutes + 1
	out := make([]int, 0, n)
	for m := h.OpenMinute; m <= h.CloseMinute; m += h.SlotSizeMinutes {
		out = append(out, m)
	}
	return out
}

// Slots returns every slot of the week, day by day.
func Slots(w Week) []Slot {
	day := DaySlots(w.Hours)
	out := make([]Slot, 0, len(day)*DaysPerWeek)
	for d := 0; d < DaysPerWeek; d++ {
		for _, m := range day {
			out = append(out, Slot{DayIndex: d, Minute: m})
		}
	}
	return out
}

// PixelScale converts between minutes and vertical pixels.
type PixelScale struct {
	PixelsPerMinute float64
}

// NewPixelScale derives the scale from the height of one slot row.
func NewPixelScale(cellHeightPx float64, slotSizeMinutes int) PixelScale {
	if slotSizeMinutes <= 0 {
		return PixelScale{}
	}
	return PixelScale{PixelsPerMinute: cellHeightPx / float64(slotSizeMinutes)}
}

// MinuteOffsetToPixels converts a minute offset into pixels.
func (s PixelScale) MinuteOffsetToPixels(minutes float64) float64 {
	return minutes * s.PixelsPerMinute
}

// PixelsToMinuteOffset is the inverse of MinuteOffsetToPixels.
func (s PixelScale) PixelsToMinuteOffset(px float64) float64 {
	if s.PixelsPerMinute == 0 {
		return 0
	}
	return px / s.PixelsPerMinute
}

// GridHeight is the pixel height of a day column, closing row included.
func (s PixelScale) GridHeight(h Hours) float64 {
	return s.MinuteOffsetToPixels(float64(h.CloseMinute - h.OpenMinute + h.SlotSizeMinutes))
}

// SlotAtPixel returns the start minute of the slot row under px, measured
// from the top of the grid. ok is false above the first or below the last row.
func SlotAtPixel(h Hours, s PixelScale, px float64) (minute int, ok bool) {
	if px < 0 || h.SlotSizeMinutes <= 0 {
		return 0, false
	}
	offset := s.PixelsToMinuteOffset(px)
	row := int(math.Floor(offset / float64(h.SlotSizeMinutes)))
	minute = h.OpenMinute + row*h.SlotSizeMinutes
	if !h.Contains(minute) {
		return 0, false
	}
	return minute, true
}
