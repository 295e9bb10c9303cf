// Package game holds the Klondike position model used by the solver: seven
// tableau piles, four foundation counters and the compressed stock/waste.
// States have value semantics; every move produces a new State.
package game

import (
	"fmt"
	"slices"

	"github.com/domino14/klondike/card"
)

const (
	NumPiles       = 7
	NumFoundations = card.NumSuits
	// NoCard is the foundation counter of a suit with no card placed.
	NoCard int8 = -1
)

// A Pile is a tableau column, bottom to top. Cards at or above UpFrom are
// face up; cards below it are face down.
type Pile struct {
	Cards  []card.Card
	UpFrom int
}

// Top returns the top card, if any.
func (p *Pile) Top() (card.Card, bool) {
	if len(p.Cards) == 0 {
		return 0, false
	}
	return p.Cards[len(p.Cards)-1], true
}

func (p *Pile) Empty() bool {
	return len(p.Cards) == 0
}

// FaceUp returns the face-up part of the pile. The slice aliases the pile.
func (p *Pile) FaceUp() []card.Card {
	return p.Cards[p.UpFrom:]
}

func (p *Pile) clamp() {
	if p.UpFrom > len(p.Cards) {
		p.UpFrom = len(p.Cards)
	}
}

func (p Pile) copy() Pile {
	return Pile{Cards: append([]card.Card(nil), p.Cards...), UpFrom: p.UpFrom}
}

// State is a full Klondike position.
type State struct {
	Piles       [NumPiles]Pile
	Foundations [NumFoundations]int8
	Stock       StockWaste
}

// Deal lays out deck the Klondike way: pile i gets i+1 cards with only the
// top one face up, and the remaining cards form the stock. The draw arity
// must be 1 or 3 and the deck must hold 52 distinct cards; anything else is
// a programming error and panics. The returned state is not normalized.
func Deal(deck card.Deck, draw int) *State {
	if draw != 1 && draw != 3 {
		panic(fmt.Sprintf("draw must be 1 or 3, got %d", draw))
	}
	if err := deck.Validate(); err != nil {
		panic(fmt.Sprintf("invalid deck: %v", err))
	}
	s := &State{}
	it := 0
	for i := range s.Piles {
		s.Piles[i].Cards = append([]card.Card(nil), deck[it:it+i+1]...)
		s.Piles[i].UpFrom = i
		it += i + 1
	}
	for i := range s.Foundations {
		s.Foundations[i] = NoCard
	}
	s.Stock = NewStockWaste(deck[it:], draw)
	return s
}

// Copy returns a fully independent copy of s.
func (s *State) Copy() *State {
	n := &State{Foundations: s.Foundations, Stock: s.Stock.copy()}
	for i := range s.Piles {
		n.Piles[i] = s.Piles[i].copy()
	}
	return n
}

// Equal compares two states field by field.
func (s *State) Equal(o *State) bool {
	if s.Foundations != o.Foundations ||
		s.Stock.Draw != o.Stock.Draw || s.Stock.Phase != o.Stock.Phase ||
		!slices.Equal(s.Stock.Cards, o.Stock.Cards) {
		return false
	}
	for i := range s.Piles {
		if s.Piles[i].UpFrom != o.Piles[i].UpFrom ||
			!slices.Equal(s.Piles[i].Cards, o.Piles[i].Cards) {
			return false
		}
	}
	return true
}

// Won is true when every foundation holds its king.
func (s *State) Won() bool {
	for _, f := range s.Foundations {
		if f != card.RankKing {
			return false
		}
	}
	return true
}

// Cards returns every card in the position: piles, stock, and the cards
// implied by the foundation counters.
func (s *State) Cards() []card.Card {
	cards := make([]card.Card, 0, card.DeckSize)
	for su, f := range s.Foundations {
		for r := int8(0); r <= f; r++ {
			cards = append(cards, card.New(card.Suit(su), uint8(r)))
		}
	}
	for i := range s.Piles {
		cards = append(cards, s.Piles[i].Cards...)
	}
	cards = append(cards, s.Stock.Cards...)
	return cards
}

// CanPromote reports whether c is exactly one rank above its suit's
// foundation, i.e. may legally go there now.
func (s *State) CanPromote(c card.Card) bool {
	return int8(c.Rank()) == s.Foundations[c.Suit()]+1
}

// FoundationTop returns the top card of the foundation for su, if any.
func (s *State) FoundationTop(su card.Suit) (card.Card, bool) {
	f := s.Foundations[su]
	if f == NoCard {
		return 0, false
	}
	return card.New(su, uint8(f)), true
}
