// Package deal produces the 52-card decks the solver consumes: seeded
// shuffles, random seeds, deal IDs, and a loop that keeps dealing until it
// finds a winnable game.
package deal

import (
	"fmt"
	"math"

	"github.com/cespare/xxhash"
	"lukechampine.com/frand"

	"github.com/domino14/klondike/card"
)

const zeroSeedReplacement = 0x4D445EED

// ShuffleRng is a small xorshift64* generator. The same seed always gives
// the same sequence, on every platform.
type ShuffleRng struct {
	x uint64
}

func NewShuffleRng(seed uint64) *ShuffleRng {
	if seed == 0 {
		seed = zeroSeedReplacement
	}
	return &ShuffleRng{x: seed}
}

func (r *ShuffleRng) Uint32() uint32 {
	r.x ^= r.x >> 12
	r.x ^= r.x << 25
	r.x ^= r.x >> 27
	return uint32((r.x * 0x2545F4914F6CDD1D) >> 32)
}

// Shuffled returns the ordered deck after a Fisher-Yates shuffle driven by
// seed.
func Shuffled(seed uint64) card.Deck {
	d := card.OrderedDeck()
	rng := NewShuffleRng(seed)
	for i := len(d) - 1; i > 0; i-- {
		j := int(rng.Uint32() % uint32(i+1))
		d[i], d[j] = d[j], d[i]
	}
	return d
}

// RandomSeed returns a non-zero seed from a CSPRNG.
func RandomSeed() uint64 {
	return frand.Uint64n(math.MaxUint64) + 1
}

// Fingerprint identifies a deck by a hash of its token form.
func Fingerprint(d card.Deck) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(d.String()))
}
