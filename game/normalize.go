package game

import "github.com/domino14/klondike/card"

// SafeToFoundation reports whether c can be put on its foundation without
// ever being needed later to hold a lower card of the other color. With r
// the card's rank, oc1 and oc2 the foundations of the opposite color, and
// sc the foundation of the other suit of the same color, it is safe iff
//
//	r <= min(oc1, oc2)+2 && r <= sc+3
//
// The offsets must stay exactly as they are; the solver relies on them for
// soundness. Legality (c being the next card of its suit) is not checked.
func SafeToFoundation(c card.Card, f [NumFoundations]int8) bool {
	su := c.Suit()
	o1, o2 := su.OppositeColors()
	r := int(c.Rank())
	oc := min(int(f[o1]), int(f[o2]))
	sc := int(f[su.SameColor()])
	return r <= oc+2 && r <= sc+3
}

// Normalize applies all forced moves in place until none are left: face-down
// tops are turned over, and any card that is both next for its foundation
// and safe is promoted. Tableau tops are looked at before the stock.
func (s *State) Normalize() {
	for {
		s.exposeTops()
		if !s.promoteOne() {
			return
		}
	}
}

func (s *State) exposeTops() {
	for i := range s.Piles {
		p := &s.Piles[i]
		if p.UpFrom == len(p.Cards) && len(p.Cards) > 0 {
			p.UpFrom--
		}
	}
}

func (s *State) promotable(c card.Card) bool {
	return s.CanPromote(c) && SafeToFoundation(c, s.Foundations)
}

func (s *State) promoteOne() bool {
	for i := range s.Piles {
		p := &s.Piles[i]
		c, ok := p.Top()
		if !ok || p.UpFrom == len(p.Cards) || !s.promotable(c) {
			continue
		}
		p.Cards = p.Cards[:len(p.Cards)-1]
		p.clamp()
		s.Foundations[c.Suit()]++
		return true
	}
	for _, idx := range s.Stock.PlayableIndices() {
		c := s.Stock.Cards[idx]
		if s.promotable(c) {
			s.Stock.TakeAt(idx)
			s.Foundations[c.Suit()]++
			return true
		}
	}
	return false
}
