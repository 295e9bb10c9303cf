// Package testhelpers holds decks and positions shared by tests.
package testhelpers

import (
	"github.com/domino14/klondike/card"
	"github.com/domino14/klondike/game"
)

// AutoWinDeck returns a deck that, dealt for draw-1, is won by
// normalization alone: every pile runs downward in rank from bottom to top
// and the stock holds the eights through kings.
func AutoWinDeck() card.Deck {
	var d card.Deck
	i := 0
	for r := 6; r >= 0; r-- {
		for su := card.Clubs; su <= card.Spades; su++ {
			d[i] = card.New(su, uint8(r))
			i++
		}
	}
	for r := 7; r < card.NumRanks; r++ {
		for su := card.Clubs; su <= card.Spades; su++ {
			d[i] = card.New(su, uint8(r))
			i++
		}
	}
	return d
}

// AutoWinDeckString is AutoWinDeck in token form.
const AutoWinDeckString = "7C 7D 7H 7S 6C 6D 6H 6S 5C 5D 5H 5S 4C 4D 4H 4S " +
	"3C 3D 3H 3S 2C 2D 2H 2S AC AD AH AS " +
	"8C 8D 8H 8S 9C 9D 9H 9S TC TD TH TS JC JD JH JS QC QD QH QS KC KD KH KS"

// Cards parses tokens and panics on a bad one.
func Cards(toks ...string) []card.Card {
	cs := make([]card.Card, len(toks))
	for i, t := range toks {
		c, err := card.FromToken(t)
		if err != nil {
			panic(err)
		}
		cs[i] = c
	}
	return cs
}

// Pile builds a pile from tokens, bottom first.
func Pile(upFrom int, toks ...string) game.Pile {
	return game.Pile{Cards: Cards(toks...), UpFrom: upFrom}
}

// EmptyState has no cards anywhere and empty foundations. Tests fill in
// only what they need.
func EmptyState(draw int) *game.State {
	s := &game.State{Stock: game.NewStockWaste(nil, draw)}
	for i := range s.Foundations {
		s.Foundations[i] = game.NoCard
	}
	return s
}

// DeadState is a position with no legal move and no forced move: every
// foundation is at six, the face-up tops are the four kings and three
// eights, and every other card is face down beneath them.
func DeadState() *game.State {
	s := &game.State{
		Foundations: [game.NumFoundations]int8{5, 5, 5, 5},
		Stock:       game.NewStockWaste(nil, 3),
	}
	piles := [][]string{
		{"7C", "7D", "7H", "KC"},
		{"7S", "8S", "9C", "KD"},
		{"9D", "9H", "9S", "KH"},
		{"TC", "TD", "TH", "KS"},
		{"TS", "JC", "JD", "8C"},
		{"JH", "JS", "QC", "8D"},
		{"QD", "QH", "QS", "8H"},
	}
	for i, p := range piles {
		s.Piles[i] = Pile(3, p...)
	}
	return s
}

// SearchWinState is winnable, but not by normalization alone: the king of
// diamonds has to be played to its foundation by choice, and the king of
// spades has to be moved off the queen of spades.
func SearchWinState() *game.State {
	s := &game.State{
		Foundations: [game.NumFoundations]int8{9, 10, 9, 10},
		Stock:       game.NewStockWaste(nil, 1),
	}
	s.Piles[0] = Pile(2, "JC", "JH", "KD")
	s.Piles[1] = Pile(0, "QD")
	s.Piles[2] = Pile(0, "QC")
	s.Piles[3] = Pile(0, "KC")
	s.Piles[4] = Pile(0, "QH")
	s.Piles[5] = Pile(0, "KH")
	s.Piles[6] = Pile(0, "QS", "KS")
	return s
}

// BounceState has a single red seven that can only shuttle between the two
// black eights, so every line of play returns to the starting position.
func BounceState() *game.State {
	s := EmptyState(1)
	s.Piles[0] = Pile(0, "8S", "7H")
	s.Piles[1] = Pile(0, "8C")
	return s
}
