package card

import (
	"fmt"
	"strings"
)

// FromToken parses a token such as "AS", "td" or "10H". The rank is taken
// from the first byte and the suit from the last.
func FromToken(tok string) (Card, error) {
	t := strings.ToUpper(strings.TrimSpace(tok))
	if len(t) < 2 || len(t) > 3 {
		return 0, fmt.Errorf("bad card token `%s`", tok)
	}
	r := strings.IndexByte(rankRunes, t[0])
	if t[0] == '1' && len(t) == 3 && t[1] == '0' {
		r = strings.IndexByte(rankRunes, 'T')
	}
	if r < 0 {
		return 0, fmt.Errorf("bad rank in card token `%s`", tok)
	}
	s := strings.IndexByte(suitRunes, t[len(t)-1])
	if s < 0 {
		return 0, fmt.Errorf("bad suit in card token `%s`", tok)
	}
	return New(Suit(s), uint8(r)), nil
}

// ParseDeck turns exactly 52 tokens into a deck. It returns false on a
// wrong token count or any malformed token. It does not check that the
// cards are distinct; use Validate for that.
func ParseDeck(tokens []string) (Deck, bool) {
	var d Deck
	if len(tokens) != DeckSize {
		return d, false
	}
	for i, tok := range tokens {
		c, err := FromToken(tok)
		if err != nil {
			return Deck{}, false
		}
		d[i] = c
	}
	return d, true
}

// ParseDeckString splits s on whitespace and calls ParseDeck.
func ParseDeckString(s string) (Deck, bool) {
	return ParseDeck(strings.Fields(s))
}

// Validate checks that every code is in range and appears exactly once.
func (d Deck) Validate() error {
	var seen [DeckSize]bool
	for i, c := range d {
		if !c.Valid() {
			return fmt.Errorf("card code %d at position %d out of range", c, i)
		}
		if seen[c] {
			return fmt.Errorf("duplicate card %s at position %d", c, i)
		}
		seen[c] = true
	}
	return nil
}
