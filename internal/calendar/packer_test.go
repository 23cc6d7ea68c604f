package calendar

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"
)

func TestPack_ScenarioA(t *testing.T) {
	events := []Event{
		{ID: 1, StartMinute: 9 * 60, EndMinute: 10 * 60},        // A 09:00 60'
		{ID: 2, StartMinute: 9*60 + 30, EndMinute: 10*60 + 30},  // B 09:30 60'
		{ID: 3, StartMinute: 10*60 + 30, EndMinute: 11 * 60},    // C 10:30 30'
	}

	for name, pack := range packers() {
		t.Run(name, func(t *testing.T) {
			got, err := pack(events)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ColumnCount != 2 {
				t.Fatalf("ColumnCount = %d, want 2", got.ColumnCount)
			}
			a, _ := got.ByID(1)
			b, _ := got.ByID(2)
			c, _ := got.ByID(3)
			if a.Column == b.Column {
				t.Errorf("A and B overlap but share column %d", a.Column)
			}
			if c.Column != 0 {
				t.Errorf("C column = %d, want first free column 0", c.Column)
			}
			for _, e := range got.Events {
				if e.ColumnCount != 2 {
					t.Errorf("event %d ColumnCount = %d, want 2", e.ID, e.ColumnCount)
				}
			}
		})
	}
}

func TestPack_EdgeCases(t *testing.T) {
	tests := []struct {
		name        string
		events      []Event
		wantColumns []int
		wantCount   int
	}{
		{name: "empty", events: nil, wantCount: 0},
		{name: "single", events: []Event{{ID: 1, StartMinute: 480, EndMinute: 510}}, wantColumns: []int{0}, wantCount: 1},
		{
			name: "touching intervals share a column",
			events: []Event{
				{ID: 1, StartMinute: 480, EndMinute: 510},
				{ID: 2, StartMinute: 510, EndMinute: 540},
				{ID: 3, StartMinute: 540, EndMinute: 570},
			},
			wantColumns: []int{0, 0, 0},
			wantCount:   1,
		},
		{
			name: "identical starts keep input order",
			events: []Event{
				{ID: 7, StartMinute: 600, EndMinute: 630},
				{ID: 3, StartMinute: 600, EndMinute: 660},
				{ID: 5, StartMinute: 600, EndMinute: 615},
			},
			wantColumns: []int{0, 1, 2},
			wantCount:   3,
		},
		{
			name: "lowest free column is reused",
			events: []Event{
				{ID: 1, StartMinute: 480, EndMinute: 540},
				{ID: 2, StartMinute: 480, EndMinute: 600},
				{ID: 3, StartMinute: 480, EndMinute: 520},
				{ID: 4, StartMinute: 545, EndMinute: 560},
			},
			wantColumns: []int{0, 1, 2, 0},
			wantCount:   3,
		},
		{
			name: "event past closing is packed normally",
			events: []Event{
				{ID: 1, StartMinute: 19 * 60, EndMinute: 21 * 60},
				{ID: 2, StartMinute: 20 * 60, EndMinute: 22 * 60},
			},
			wantColumns: []int{0, 1},
			wantCount:   2,
		},
	}

	for _, tt := range tests {
		for name, pack := range packers() {
			t.Run(tt.name+"/"+name, func(t *testing.T) {
				got, err := pack(tt.events)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got.ColumnCount != tt.wantCount {
					t.Errorf("ColumnCount = %d, want %d", got.ColumnCount, tt.wantCount)
				}
				var cols []int
				for _, e := range got.Events {
					cols = append(cols, e.Column)
				}
				if !reflect.DeepEqual(cols, tt.wantColumns) {
					t.Errorf("columns = %v, want %v", cols, tt.wantColumns)
				}
			})
		}
	}
}

func TestPack_RejectsEmptyIntervals(t *testing.T) {
	events := []Event{
		{ID: 1, StartMinute: 480, EndMinute: 510},
		{ID: 9, StartMinute: 600, EndMinute: 600},
	}
	for name, pack := range packers() {
		t.Run(name, func(t *testing.T) {
			_, err := pack(events)
			if !errors.Is(err, ErrPackingInput) {
				t.Fatalf("expected ErrPackingInput, got %v", err)
			}
			var perr *PackingInputError
			if !errors.As(err, &perr) || perr.ID != 9 {
				t.Errorf("expected error for event 9, got %v", err)
			}
		})
	}
}

func TestPack_DoesNotModifyInput(t *testing.T) {
	events := []Event{
		{ID: 1, StartMinute: 700, EndMinute: 730},
		{ID: 2, StartMinute: 480, EndMinute: 500},
	}
	before := append([]Event(nil), events...)
	if _, err := Pack(events); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(events, before) {
		t.Errorf("input reordered: %v", events)
	}
}

// TestPack_Properties checks correctness, optimality, determinism and
// scan/heap equivalence on random days.
func TestPack_Properties(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1024))

	for round := 0; round < 500; round++ {
		events := randomDay(rng, rng.IntN(25))

		scan, err := Pack(events)
		if err != nil {
			t.Fatalf("round %d: %v", round, err)
		}

		for i, a := range scan.Events {
			for _, b := range scan.Events[i+1:] {
				if a.Column == b.Column && Overlaps(a.StartMinute, a.EndMinute, b.StartMinute, b.EndMinute) {
					t.Fatalf("round %d: events %d and %d overlap in column %d", round, a.ID, b.ID, a.Column)
				}
			}
		}

		if want := MaxOverlap(events); scan.ColumnCount != want {
			t.Fatalf("round %d: ColumnCount = %d, max overlap = %d", round, scan.ColumnCount, want)
		}

		again, _ := Pack(events)
		if !reflect.DeepEqual(scan, again) {
			t.Fatalf("round %d: Pack is not deterministic", round)
		}

		fast, err := PackHeap(events)
		if err != nil {
			t.Fatalf("round %d: PackHeap: %v", round, err)
		}
		if !reflect.DeepEqual(scan, fast) {
			t.Fatalf("round %d: PackHeap differs from Pack\nscan: %+v\nheap: %+v", round, scan, fast)
		}
	}
}

func TestMaxOverlap(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		want   int
	}{
		{name: "none", want: 0},
		{name: "touching", events: []Event{{1, 0, 10}, {2, 10, 20}}, want: 1},
		{name: "nested", events: []Event{{1, 0, 100}, {2, 10, 20}, {3, 15, 30}}, want: 3},
		{name: "empty interval ignored", events: []Event{{1, 0, 10}, {2, 5, 5}}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxOverlap(tt.events); got != tt.want {
				t.Errorf("MaxOverlap() = %d, want %d", got, tt.want)
			}
		})
	}
}

func packers() map[string]func([]Event) (PackResult, error) {
	return map[string]func([]Event) (PackResult, error){
		"scan": Pack,
		"heap": PackHeap,
	}
}

// randomDay draws starts on a coarse grid so ties and touching ends are common.
func randomDay(rng *rand.Rand, n int) []Event {
	events := make([]Event, n)
	for i := range events {
		start := 8*60 + rng.IntN(24)*30
		duration := (1 + rng.IntN(6)) * 15
		events[i] = Event{ID: int64(i + 1), StartMinute: start, EndMinute: start + duration}
	}
	return events
}
