package game

import (
	"fmt"

	"github.com/domino14/klondike/card"
)

// StockWaste is the compressed ("K+") form of the stock and waste piles.
// Cards holds every undealt card in dealing order. Instead of keeping a
// separate waste pile, a card at index i is playable iff i%Draw == Phase,
// which is exactly the set of cards that can reach the top of the waste
// by cycling the stock with the given draw arity.
type StockWaste struct {
	Cards []card.Card
	Draw  int
	Phase int
}

// NewStockWaste copies cards into a fresh stock with the phase a new deal
// starts in.
func NewStockWaste(cards []card.Card, draw int) StockWaste {
	return StockWaste{
		Cards: append([]card.Card(nil), cards...),
		Draw:  draw,
		Phase: draw - 1,
	}
}

// PlayableIndices returns, in ascending order, every index currently
// playable.
func (k *StockWaste) PlayableIndices() []int {
	if k.Draw < 1 {
		return nil
	}
	idxs := make([]int, 0, len(k.Cards)/k.Draw+1)
	for i := k.Phase; i < len(k.Cards); i += k.Draw {
		idxs = append(idxs, i)
	}
	return idxs
}

// IsPlayable reports whether idx is a playable index.
func (k *StockWaste) IsPlayable(idx int) bool {
	return idx >= 0 && idx < len(k.Cards) && idx%k.Draw == k.Phase
}

// TakeAt removes and returns the card at idx, turning the phase back by
// one. idx must be playable.
func (k *StockWaste) TakeAt(idx int) card.Card {
	if !k.IsPlayable(idx) {
		panic(fmt.Sprintf("stock index %d is not playable (draw %d, phase %d, len %d)",
			idx, k.Draw, k.Phase, len(k.Cards)))
	}
	c := k.Cards[idx]
	k.Cards = append(k.Cards[:idx], k.Cards[idx+1:]...)
	if k.Draw > 1 {
		k.Phase = (k.Phase + k.Draw - 1) % k.Draw
	}
	return c
}

func (k *StockWaste) Len() int {
	return len(k.Cards)
}

func (k StockWaste) copy() StockWaste {
	return StockWaste{
		Cards: append([]card.Card(nil), k.Cards...),
		Draw:  k.Draw,
		Phase: k.Phase,
	}
}
