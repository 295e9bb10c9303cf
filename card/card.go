// Package card maps the 8-bit card codes used by the solver to their rank,
// suit and color. Codes 0..12 are Clubs A..K, 13..25 Diamonds, 26..38
// Hearts and 39..51 Spades.
package card

import "strings"

const (
	NumRanks  = 13
	NumSuits  = 4
	DeckSize  = NumRanks * NumSuits
	RankAce   = 0
	RankKing  = NumRanks - 1
	rankRunes = "A23456789TJQK"
	suitRunes = "CDHS"
)

type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// IsRed is true for diamonds and hearts.
func (s Suit) IsRed() bool {
	return s == Diamonds || s == Hearts
}

// SameColor returns the other suit of this suit's color.
func (s Suit) SameColor() Suit {
	switch s {
	case Clubs:
		return Spades
	case Spades:
		return Clubs
	case Diamonds:
		return Hearts
	default:
		return Diamonds
	}
}

// OppositeColors returns the two suits of the other color.
func (s Suit) OppositeColors() (Suit, Suit) {
	if s.IsRed() {
		return Clubs, Spades
	}
	return Diamonds, Hearts
}

func (s Suit) String() string {
	if s >= NumSuits {
		return "?"
	}
	return string(suitRunes[s])
}

// Card is a card code in [0, 51].
type Card uint8

func New(s Suit, rank uint8) Card {
	return Card(uint8(s)*NumRanks + rank)
}

func (c Card) Rank() uint8 {
	return uint8(c) % NumRanks
}

func (c Card) Suit() Suit {
	return Suit(uint8(c) / NumRanks)
}

func (c Card) IsRed() bool {
	return c.Suit().IsRed()
}

func (c Card) IsKing() bool {
	return c.Rank() == RankKing
}

func (c Card) Valid() bool {
	return c < DeckSize
}

// String returns a two-character token such as "AS" or "TD".
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return string([]byte{rankRunes[c.Rank()], suitRunes[c.Suit()]})
}

// AlternatingColors is true if a and b are of different colors.
func AlternatingColors(a, b Card) bool {
	return a.IsRed() != b.IsRed()
}

// CanBuildOnto reports whether x can be placed on top of y in a tableau
// pile: one rank lower and of the other color.
func CanBuildOnto(x, y Card) bool {
	return x.Rank()+1 == y.Rank() && AlternatingColors(x, y)
}

// Deck is a full 52-card sequence in dealing order.
type Deck [DeckSize]Card

// OrderedDeck returns the codes 0..51 in order.
func OrderedDeck() Deck {
	var d Deck
	for i := range d {
		d[i] = Card(i)
	}
	return d
}

func (d Deck) String() string {
	var sb strings.Builder
	for i, c := range d {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}
