package agenda

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/javiermolinar/agenda/internal/calendar"
)

const defaultMemoSize = 256

// layoutMemo caches the geometry of a day keyed by the hash of its
// intervals. When full it is cleared rather than evicted piecemeal.
type layoutMemo struct {
	mu      sync.Mutex
	max     int
	entries map[uint64][]calendar.Positioned
	hits    int
	misses  int
}

func newLayoutMemo(size int) *layoutMemo {
	return &layoutMemo{max: size, entries: make(map[uint64][]calendar.Positioned, size)}
}

func (m *layoutMemo) get(key uint64) ([]calendar.Positioned, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	if ok {
		m.hits++
		return append([]calendar.Positioned(nil), v...), true
	}
	m.misses++
	return nil, false
}

func (m *layoutMemo) put(key uint64, v []calendar.Positioned) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) >= m.max {
		clear(m.entries)
	}
	m.entries[key] = append([]calendar.Positioned(nil), v...)
}

func (m *layoutMemo) stats() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}

// dayKey hashes the grid settings and the intervals in input order.
// Order matters: ties are broken by it.
func dayKey(h calendar.Hours, cellPx float64, events []calendar.Event) uint64 {
	d := xxhash.New()
	var buf [8]byte
	write := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	write(uint64(h.OpenMinute))
	write(uint64(h.CloseMinute))
	write(uint64(h.SlotSizeMinutes))
	write(math.Float64bits(cellPx))
	write(uint64(len(events)))
	for _, e := range events {
		write(uint64(e.StartMinute))
		write(uint64(e.EndMinute))
	}
	return d.Sum64()
}
