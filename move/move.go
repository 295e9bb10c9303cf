package move

import (
	"fmt"

	"github.com/domino14/klondike/card"
)

// MoveType is the kind of a Klondike move.
type MoveType uint8

const (
	MoveTypeTableauToFoundation MoveType = iota
	MoveTypeTableauToTableau
	MoveTypeWasteToFoundation
	MoveTypeWasteToTableau
	MoveTypeFoundationToTableau
)

func (t MoveType) String() string {
	switch t {
	case MoveTypeTableauToFoundation:
		return "tableau-to-foundation"
	case MoveTypeTableauToTableau:
		return "tableau-to-tableau"
	case MoveTypeWasteToFoundation:
		return "waste-to-foundation"
	case MoveTypeWasteToTableau:
		return "waste-to-tableau"
	case MoveTypeFoundationToTableau:
		return "foundation-to-tableau"
	}
	return "unknown"
}

// A Move is a single transition between two game states. Pile indices are
// 0-based. Only the fields relevant to the move's type are meaningful.
type Move struct {
	action   MoveType
	card     card.Card
	src      int
	start    int
	dst      int
	stockIdx int
	suit     card.Suit
}

// NewTableauToFoundation moves the top card c of pile src to its foundation.
func NewTableauToFoundation(c card.Card, src int) Move {
	return Move{action: MoveTypeTableauToFoundation, card: c, src: src}
}

// NewTableauToTableau moves the run starting at index start of pile src,
// whose bottom card is c, onto pile dst.
func NewTableauToTableau(c card.Card, src, start, dst int) Move {
	return Move{action: MoveTypeTableauToTableau, card: c, src: src, start: start, dst: dst}
}

// NewWasteToFoundation moves the stock card at stockIdx to its foundation.
func NewWasteToFoundation(c card.Card, stockIdx int) Move {
	return Move{action: MoveTypeWasteToFoundation, card: c, stockIdx: stockIdx}
}

// NewWasteToTableau moves the stock card at stockIdx onto pile dst.
func NewWasteToTableau(c card.Card, stockIdx, dst int) Move {
	return Move{action: MoveTypeWasteToTableau, card: c, stockIdx: stockIdx, dst: dst}
}

// NewFoundationToTableau pulls the top card c of the foundation for its
// suit back onto pile dst.
func NewFoundationToTableau(c card.Card, dst int) Move {
	return Move{action: MoveTypeFoundationToTableau, card: c, suit: c.Suit(), dst: dst}
}

func (m Move) Action() MoveType { return m.action }
func (m Move) Card() card.Card { return m.card }
func (m Move) Src() int { return m.src }
func (m Move) Start() int { return m.start }
func (m Move) Dst() int { return m.dst }
func (m Move) StockIndex() int { return m.stockIdx }
func (m Move) FoundationSuit() card.Suit { return m.suit }

// ShortDescription renders the move with 1-based pile numbers, e.g.
// "7H t2-t5" or "AS w-f".
func (m Move) ShortDescription() string {
	switch m.action {
	case MoveTypeTableauToFoundation:
		return fmt.Sprintf("%s t%d-f", m.card, m.src+1)
	case MoveTypeTableauToTableau:
		return fmt.Sprintf("%s t%d-t%d", m.card, m.src+1, m.dst+1)
	case MoveTypeWasteToFoundation:
		return fmt.Sprintf("%s w-f", m.card)
	case MoveTypeWasteToTableau:
		return fmt.Sprintf("%s w-t%d", m.card, m.dst+1)
	case MoveTypeFoundationToTableau:
		return fmt.Sprintf("%s f-t%d", m.card, m.dst+1)
	}
	return "?"
}

func (m Move) String() string {
	return fmt.Sprintf("<action: %v card: %v src: %d start: %d dst: %d stock: %d>",
		m.action, m.card, m.src, m.start, m.dst, m.stockIdx)
}
