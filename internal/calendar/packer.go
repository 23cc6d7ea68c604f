package calendar

import (
	"container/heap"
	"errors"
	"fmt"
	"slices"
	"sort"
)

// ErrPackingInput is matched by every *PackingInputError.
var ErrPackingInput = errors.New("invalid packing input")

// PackingInputError reports an event whose interval is empty or reversed.
type PackingInputError struct {
	ID          int64
	StartMinute int
	EndMinute   int
}

func (e *PackingInputError) Error() string {
	return fmt.Sprintf("event %d: end %d must be after start %d", e.ID, e.EndMinute, e.StartMinute)
}

// Is reports whether target is ErrPackingInput.
func (e *PackingInputError) Is(target error) bool {
	return target == ErrPackingInput
}

// Event is a half-open interval [StartMinute, EndMinute) of one day.
type Event struct {
	ID          int64
	StartMinute int
	EndMinute   int
}

// Duration returns EndMinute - StartMinute.
func (e Event) Duration() int {
	return e.EndMinute - e.StartMinute
}

// PackedEvent is an Event assigned to a display column.
type PackedEvent struct {
	Event
	Column      int
	ColumnCount int
}

// PackResult holds the events in packing order (stable by start) and the
// number of columns the day needs.
type PackResult struct {
	Events      []PackedEvent
	ColumnCount int
}

// ByID returns the packed event with the given id.
func (r PackResult) ByID(id int64) (PackedEvent, bool) {
	for _, e := range r.Events {
		if e.ID == id {
			return e, true
		}
	}
	return PackedEvent{}, false
}

// Pack assigns each event to the first column whose last event ends at or
// before the event's start, opening a new column when none does.
// Events are processed in stable start order; the input is not modified.
func Pack(events []Event) (PackResult, error) {
	sorted, err := sortedCopy(events)
	if err != nil {
		return PackResult{}, err
	}

	var columnEnds []int
	packed := make([]PackedEvent, len(sorted))
	for i, e := range sorted {
		col := -1
		for c, end := range columnEnds {
			if end <= e.StartMinute {
				col = c
				break
			}
		}
		if col < 0 {
			col = len(columnEnds)
			columnEnds = append(columnEnds, 0)
		}
		columnEnds[col] = e.EndMinute
		packed[i] = PackedEvent{Event: e, Column: col}
	}

	return finish(packed, len(columnEnds)), nil
}

// PackHeap produces exactly the same result as Pack in O(n log n).
// Busy columns sit in a heap ordered by end time; once a column's end is at
// or before the current start it moves to a heap of free column indexes,
// and the lowest free index is reused first.
func PackHeap(events []Event) (PackResult, error) {
	sorted, err := sortedCopy(events)
	if err != nil {
		return PackResult{}, err
	}

	busy := &busyColumns{}
	free := &freeColumns{}
	columns := 0
	packed := make([]PackedEvent, len(sorted))
	for i, e := range sorted {
		for busy.Len() > 0 && (*busy)[0].end <= e.StartMinute {
			heap.Push(free, heap.Pop(busy).(busyColumn).index)
		}
		var col int
		if free.Len() > 0 {
			col = heap.Pop(free).(int)
		} else {
			col = columns
			columns++
		}
		heap.Push(busy, busyColumn{end: e.EndMinute, index: col})
		packed[i] = PackedEvent{Event: e, Column: col}
	}

	return finish(packed, columns), nil
}

func sortedCopy(events []Event) ([]Event, error) {
	for _, e := range events {
		if e.EndMinute <= e.StartMinute {
			return nil, &PackingInputError{ID: e.ID, StartMinute: e.StartMinute, EndMinute: e.EndMinute}
		}
	}
	sorted := slices.Clone(events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartMinute < sorted[j].StartMinute
	})
	return sorted, nil
}

func finish(packed []PackedEvent, columns int) PackResult {
	for i := range packed {
		packed[i].ColumnCount = columns
	}
	if len(packed) == 0 {
		packed = nil
	}
	return PackResult{Events: packed, ColumnCount: columns}
}

// MaxOverlap returns the largest number of events covering a single minute.
func MaxOverlap(events []Event) int {
	type edge struct {
		at    int
		delta int
	}
	edges := make([]edge, 0, 2*len(events))
	for _, e := range events {
		if e.EndMinute <= e.StartMinute {
			continue
		}
		edges = append(edges, edge{e.StartMinute, 1}, edge{e.EndMinute, -1})
	}
	// Ends sort before starts at the same minute: intervals are half-open.
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].at != edges[j].at {
			return edges[i].at < edges[j].at
		}
		return edges[i].delta < edges[j].delta
	})

	best, cur := 0, 0
	for _, e := range edges {
		cur += e.delta
		best = max(best, cur)
	}
	return best
}

type busyColumn struct {
	end   int
	index int
}

type busyColumns []busyColumn

func (h busyColumns) Len() int { return len(h) }
func (h busyColumns) Less(i, j int) bool {
	if h[i].end != h[j].end {
		return h[i].end < h[j].end
	}
	return h[i].index < h[j].index
}
func (h busyColumns) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *busyColumns) Push(x any)   { *h = append(*h, x.(busyColumn)) }
func (h *busyColumns) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

type freeColumns []int

func (h freeColumns) Len() int           { return len(h) }
func (h freeColumns) Less(i, j int) bool { return h[i] < h[j] }
func (h freeColumns) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *freeColumns) Push(x any)        { *h = append(*h, x.(int)) }
func (h *freeColumns) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
