package solver

import (
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

// Approximate bytes per map entry, including bucket overhead.
const entrySize = 40

// TranspositionTable memoizes win/lose results by state key. It is owned by
// a single solver and is not safe for concurrent use.
type TranspositionTable struct {
	table      map[uint64]bool
	maxEntries int

	created uint64
	lookups uint64
	hits    uint64
	clears  uint64
}

func (t *TranspositionTable) lookup(key uint64) (win bool, ok bool) {
	t.lookups++
	win, ok = t.table[key]
	if ok {
		t.hits++
	}
	return win, ok
}

func (t *TranspositionTable) store(key uint64, win bool) {
	if t.maxEntries > 0 && len(t.table) >= t.maxEntries {
		clear(t.table)
		t.clears++
		log.Debug().Int("max-entries", t.maxEntries).Msg("transposition-table-cleared")
	}
	t.table[key] = win
	t.created++
}

// Reset empties the table. A fractionOfMemory of 0 leaves the table
// unbounded; a positive fraction caps it to that share of system memory,
// after which the table is cleared whenever it fills up.
func (t *TranspositionTable) Reset(fractionOfMemory float64) {
	t.maxEntries = 0
	if fractionOfMemory > 0 {
		totalMem := memory.TotalMemory()
		t.maxEntries = int(fractionOfMemory * float64(totalMem) / entrySize)
		if t.maxEntries < 1 {
			t.maxEntries = 1
		}
		log.Debug().Int("max-entries", t.maxEntries).
			Uint64("total-system-memory-bytes", totalMem).
			Msg("transposition-table-size")
	}
	if t.table == nil {
		t.table = make(map[uint64]bool)
	} else {
		clear(t.table)
	}
	t.created = 0
	t.lookups = 0
	t.hits = 0
	t.clears = 0
}

// Len is the number of stored entries.
func (t *TranspositionTable) Len() int {
	return len(t.table)
}

// Stats returns the created, lookups, hits and clears counters.
func (t *TranspositionTable) Stats() (created, lookups, hits, clears uint64) {
	return t.created, t.lookups, t.hits, t.clears
}
