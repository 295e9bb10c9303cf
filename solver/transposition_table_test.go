package solver

import (
	"testing"

	"github.com/matryer/is"
)

func TestTTableCap(t *testing.T) {
	is := is.New(t)
	tt := &TranspositionTable{}
	tt.Reset(0)
	tt.maxEntries = 2
	tt.store(1, true)
	tt.store(2, false)
	is.Equal(tt.Len(), 2)
	tt.store(3, false)
	is.Equal(tt.Len(), 1)
	_, ok := tt.lookup(1)
	is.True(!ok)
	win, ok := tt.lookup(3)
	is.True(ok)
	is.True(!win)
	created, lookups, hits, clears := tt.Stats()
	is.Equal([]uint64{created, lookups, hits, clears}, []uint64{3, 2, 1, 1})

	tt.Reset(0)
	is.Equal(tt.Len(), 0)
	is.Equal(tt.maxEntries, 0)
}
