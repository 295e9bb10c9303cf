package game_test

import (
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/klondike/card"
	"github.com/domino14/klondike/deal"
	"github.com/domino14/klondike/game"
	"github.com/domino14/klondike/movegen"
	"github.com/domino14/klondike/testhelpers"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func assertConserved(t *testing.T, s *game.State) {
	t.Helper()
	cs := s.Cards()
	slices.Sort(cs)
	d := card.OrderedDeck()
	assert.Equal(t, d[:], cs)
}

func TestDealLayout(t *testing.T) {
	is := is.New(t)
	d := card.OrderedDeck()
	s := game.Deal(d, 3)
	it := 0
	for i, p := range s.Piles {
		is.Equal(len(p.Cards), i+1)
		is.Equal(p.UpFrom, i)
		is.Equal(p.Cards[0], d[it])
		it += i + 1
	}
	is.Equal(s.Stock.Len(), 24)
	is.Equal(s.Stock.Cards[0], d[28])
	is.Equal(s.Stock.Phase, 2)
	is.Equal(s.Foundations, [4]int8{game.NoCard, game.NoCard, game.NoCard, game.NoCard})
	assertConserved(t, s)
}

func TestDealPreconditions(t *testing.T) {
	d := card.OrderedDeck()
	assert.Panics(t, func() { game.Deal(d, 2) })
	assert.Panics(t, func() { game.Deal(d, 0) })
	d[5] = d[4]
	assert.Panics(t, func() { game.Deal(d, 1) })
}

func TestNormalizeAutoWin(t *testing.T) {
	is := is.New(t)
	s := game.Deal(testhelpers.AutoWinDeck(), 1)
	is.True(!s.Won())
	s.Normalize()
	is.True(s.Won())
	assertConserved(t, s)
}

func TestAutoWinDeckString(t *testing.T) {
	is := is.New(t)
	d, ok := card.ParseDeckString(testhelpers.AutoWinDeckString)
	is.True(ok)
	is.Equal(d, testhelpers.AutoWinDeck())
}

func TestNormalizeIdempotent(t *testing.T) {
	is := is.New(t)
	for seed := uint64(1); seed <= 50; seed++ {
		s := game.Deal(deal.Shuffled(seed), 3)
		s.Normalize()
		again := s.Copy()
		again.Normalize()
		is.True(again.Equal(s))
		is.Equal(again.Key(), s.Key())
	}
}

// Plays random legal moves from many deals, checking that no card is ever
// lost or duplicated and that playing never mutates the parent state.
func TestConservationRandomWalk(t *testing.T) {
	is := is.New(t)
	gen := movegen.NewKlondikeGenerator()
	for seed := uint64(1); seed <= 40; seed++ {
		rng := deal.NewShuffleRng(seed * 7919)
		draw := 1 + 2*int(seed%2)
		s := game.Deal(deal.Shuffled(seed), draw)
		s.Normalize()
		assertConserved(t, s)
		for step := 0; step < 200 && !s.Won(); step++ {
			moves := gen.GenAll(s)
			if len(moves) == 0 {
				break
			}
			m := moves[int(rng.Uint32())%len(moves)]
			before := s.Copy()
			next := s.PlayMove(m)
			is.True(s.Equal(before))
			assertConserved(t, next)
			next.Normalize()
			assertConserved(t, next)
			for _, p := range next.Piles {
				is.True(p.UpFrom >= 0 && p.UpFrom <= len(p.Cards))
				if len(p.Cards) > 0 {
					// normalized piles always show their top card
					is.True(p.UpFrom < len(p.Cards))
				}
			}
			s = next
		}
	}
}

func TestCopyIsIndependent(t *testing.T) {
	is := is.New(t)
	s := game.Deal(deal.Shuffled(42), 3)
	c := s.Copy()
	is.True(c.Equal(s))
	c.Piles[6].Cards[6] = c.Piles[0].Cards[0]
	c.Stock.Cards[0] = 0
	c.Foundations[2] = 4
	is.True(!c.Equal(s))
	is.True(s.Equal(game.Deal(deal.Shuffled(42), 3)))
}

func TestKey(t *testing.T) {
	is := is.New(t)
	a := game.Deal(deal.Shuffled(9), 3)
	b := game.Deal(deal.Shuffled(9), 3)
	is.Equal(a.Key(), b.Key())

	b.Stock.Phase = 1
	is.True(a.Key() != b.Key())

	c := game.Deal(deal.Shuffled(9), 1)
	is.True(a.Key() != c.Key())

	d := a.Copy()
	d.Piles[3].UpFrom = 2
	is.True(a.Key() != d.Key())

	is.True(a.Key() != game.Deal(deal.Shuffled(10), 3).Key())
}

func TestPlaySearchWin(t *testing.T) {
	is := is.New(t)
	s := testhelpers.SearchWinState()
	s.Normalize()
	is.True(!s.Won())
	// the queen of diamonds is the only safe card
	is.Equal(s.Foundations[card.Diamonds], int8(11))
	is.True(s.Piles[1].Empty())
}

func TestDisplay(t *testing.T) {
	is := is.New(t)
	s := game.Deal(card.OrderedDeck(), 3)
	txt := s.ToDisplayText()
	lines := strings.Split(strings.TrimSpace(txt), "\n")
	is.Equal(len(lines), 9)
	is.Equal(lines[0], "Foundations: -- -- -- --")
	is.Equal(lines[2], "t1: AC")
	is.Equal(lines[3], "t2: ## 3C")
	is.True(strings.HasPrefix(lines[1], "Stock: 24 cards, draw 3, playable: 5H"))
}
