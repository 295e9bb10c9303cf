package game

import (
	"fmt"

	"github.com/domino14/klondike/move"
)

// PlayMove returns a new state with m applied. The receiver is not touched.
// m must be legal in s; moves come from the move generator, so an
// inconsistent move is a programming error and panics.
func (s *State) PlayMove(m move.Move) *State {
	n := s.Copy()
	switch m.Action() {
	case move.MoveTypeTableauToFoundation:
		p := &n.Piles[m.Src()]
		c, ok := p.Top()
		if !ok || c != m.Card() {
			panic(fmt.Sprintf("pile %d does not end in %v", m.Src(), m.Card()))
		}
		p.Cards = p.Cards[:len(p.Cards)-1]
		p.clamp()
		n.Foundations[c.Suit()]++

	case move.MoveTypeTableauToTableau:
		src := &n.Piles[m.Src()]
		run := src.Cards[m.Start():]
		n.Piles[m.Dst()].Cards = append(n.Piles[m.Dst()].Cards, run...)
		src.Cards = src.Cards[:m.Start()]
		src.clamp()

	case move.MoveTypeWasteToFoundation:
		c := n.Stock.TakeAt(m.StockIndex())
		n.Foundations[c.Suit()]++

	case move.MoveTypeWasteToTableau:
		c := n.Stock.TakeAt(m.StockIndex())
		n.Piles[m.Dst()].Cards = append(n.Piles[m.Dst()].Cards, c)

	case move.MoveTypeFoundationToTableau:
		su := m.FoundationSuit()
		c, ok := n.FoundationTop(su)
		if !ok {
			panic(fmt.Sprintf("foundation %v is empty", su))
		}
		n.Foundations[su]--
		n.Piles[m.Dst()].Cards = append(n.Piles[m.Dst()].Cards, c)
	}
	return n
}
