package game

const (
	keyOffset = 1469598103934665603
	keyPrime  = 1099511628211
	stockSalt = 0x9e3779b97f4a7c15
	pileSep   = 0xA3
)

// Key hashes the whole state to 64 bits for the transposition table. Field
// order: foundations, stock (draw, phase, length, cards), then each pile
// (separator, UpFrom, length, cards). Collisions are not detected.
func (s *State) Key() uint64 {
	h := uint64(keyOffset)
	mix := func(x uint64) {
		h ^= x
		h *= keyPrime
	}
	for _, f := range s.Foundations {
		mix(uint64(f + 1))
	}
	mix(uint64(s.Stock.Draw))
	mix(uint64(s.Stock.Phase))
	mix(uint64(len(s.Stock.Cards)))
	for _, c := range s.Stock.Cards {
		mix(uint64(c) + stockSalt)
	}
	for i := range s.Piles {
		p := &s.Piles[i]
		mix(pileSep)
		mix(uint64(p.UpFrom))
		mix(uint64(len(p.Cards)))
		for _, c := range p.Cards {
			mix(uint64(c))
		}
	}
	return h
}
