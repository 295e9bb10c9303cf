package game

import (
	"fmt"
	"strings"

	"github.com/domino14/klondike/card"
)

// ToDisplayText turns the state into a multi-line string. Face-down cards
// are shown as ##, empty foundations as --.
func (s *State) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString("Foundations:")
	for su := range s.Foundations {
		if c, ok := s.FoundationTop(card.Suit(su)); ok {
			sb.WriteString(" " + c.String())
		} else {
			sb.WriteString(" --")
		}
	}
	sb.WriteString("\n")

	playable := s.Stock.PlayableIndices()
	fmt.Fprintf(&sb, "Stock: %d cards, draw %d, playable:", s.Stock.Len(), s.Stock.Draw)
	for _, idx := range playable {
		sb.WriteString(" " + s.Stock.Cards[idx].String())
	}
	sb.WriteString("\n")

	for i := range s.Piles {
		p := &s.Piles[i]
		fmt.Fprintf(&sb, "t%d:", i+1)
		for j, c := range p.Cards {
			if j < p.UpFrom {
				sb.WriteString(" ##")
			} else {
				sb.WriteString(" " + c.String())
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
