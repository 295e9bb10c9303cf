// Package movegen generates the legal Klondike moves of a position and
// orders them so that the search tries the promising ones first.
package movegen

import (
	"slices"

	"github.com/samber/lo"

	"github.com/domino14/klondike/card"
	"github.com/domino14/klondike/game"
	"github.com/domino14/klondike/move"
)

type SortingParameter int

const (
	// SortByPriority orders exposing moves first and foundation pulls last.
	SortByPriority SortingParameter = iota
	// SortByNone keeps generation order.
	SortByNone
)

// MoveGenerator is the interface the solver searches with.
type MoveGenerator interface {
	GenAll(s *game.State) []move.Move
	SetSortingParameter(p SortingParameter)
}

// KlondikeGenerator generates moves for standard Klondike rules.
type KlondikeGenerator struct {
	sortingParameter SortingParameter
}

func NewKlondikeGenerator() *KlondikeGenerator {
	return &KlondikeGenerator{sortingParameter: SortByPriority}
}

func (g *KlondikeGenerator) SetSortingParameter(p SortingParameter) {
	g.sortingParameter = p
}

// GenAll returns every legal move in s as a fresh slice.
func (g *KlondikeGenerator) GenAll(s *game.State) []move.Move {
	moves := make([]move.Move, 0, 16)
	firstEmpty := firstEmptyPile(s)

	for i := range s.Piles {
		p := &s.Piles[i]
		top, ok := p.Top()
		if ok && p.UpFrom < len(p.Cards) && s.CanPromote(top) {
			moves = append(moves, move.NewTableauToFoundation(top, i))
		}
	}

	for i := range s.Piles {
		p := &s.Piles[i]
		if p.Empty() || p.UpFrom >= len(p.Cards) {
			continue
		}
		for _, start := range runStarts(p) {
			c := p.Cards[start]
			if c.IsKing() && start == 0 {
				// would only swap columns
				continue
			}
			for _, dst := range destinations(s, c, i, firstEmpty) {
				moves = append(moves, move.NewTableauToTableau(c, i, start, dst))
			}
		}
	}

	for _, idx := range s.Stock.PlayableIndices() {
		c := s.Stock.Cards[idx]
		if s.CanPromote(c) {
			moves = append(moves, move.NewWasteToFoundation(c, idx))
		}
		for _, dst := range destinations(s, c, -1, firstEmpty) {
			moves = append(moves, move.NewWasteToTableau(c, idx, dst))
		}
	}

	for su := range s.Foundations {
		c, ok := s.FoundationTop(card.Suit(su))
		if !ok {
			continue
		}
		lowered := s.Foundations
		lowered[su]--
		if game.SafeToFoundation(c, lowered) {
			// normalization would put it straight back
			continue
		}
		for _, dst := range destinations(s, c, -1, firstEmpty) {
			moves = append(moves, move.NewFoundationToTableau(c, dst))
		}
	}

	if g.sortingParameter == SortByPriority {
		slices.SortStableFunc(moves, func(a, b move.Move) int {
			return priority(s, a) - priority(s, b)
		})
	}
	return moves
}

// runStarts returns, from the top down, every index at which a valid
// descending alternating-colour run to the top of p begins.
func runStarts(p *game.Pile) []int {
	n := len(p.Cards)
	starts := []int{n - 1}
	for i := n - 2; i >= p.UpFrom; i-- {
		if !card.CanBuildOnto(p.Cards[i+1], p.Cards[i]) {
			break
		}
		starts = append(starts, i)
	}
	return starts
}

// destinations lists the piles other than src that can take c. A king can
// only go to the first empty pile.
func destinations(s *game.State, c card.Card, src, firstEmpty int) []int {
	if c.IsKing() {
		if firstEmpty < 0 || firstEmpty == src {
			return nil
		}
		return []int{firstEmpty}
	}
	var dsts []int
	for i := range s.Piles {
		if i == src {
			continue
		}
		p := &s.Piles[i]
		top, ok := p.Top()
		if !ok || p.UpFrom >= len(p.Cards) {
			continue
		}
		if card.CanBuildOnto(c, top) {
			dsts = append(dsts, i)
		}
	}
	return dsts
}

func firstEmptyPile(s *game.State) int {
	_, idx, ok := lo.FindIndexOf(s.Piles[:], func(p game.Pile) bool {
		return p.Empty()
	})
	if !ok {
		return -1
	}
	return idx
}

// priority ranks a move; lower goes first.
func priority(s *game.State, m move.Move) int {
	switch m.Action() {
	case move.MoveTypeTableauToTableau:
		if m.Start() == s.Piles[m.Src()].UpFrom {
			return 0
		}
		return 3
	case move.MoveTypeWasteToTableau:
		return 1
	case move.MoveTypeWasteToFoundation:
		return 2
	case move.MoveTypeTableauToFoundation:
		return 3
	}
	return 4
}
