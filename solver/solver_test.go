package solver_test

import (
	"os"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/klondike/card"
	"github.com/domino14/klondike/deal"
	"github.com/domino14/klondike/solver"
	"github.com/domino14/klondike/testhelpers"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func TestAutoWinDeal(t *testing.T) {
	is := is.New(t)
	tstart := time.Now()
	is.Equal(solver.Solve(testhelpers.AutoWinDeck(), 1, 200*time.Millisecond), solver.Winnable)
	is.True(time.Since(tstart) < 200*time.Millisecond)
}

func TestAutoWinDealFromTokens(t *testing.T) {
	is := is.New(t)
	d, ok := card.ParseDeckString(testhelpers.AutoWinDeckString)
	is.True(ok)
	s := solver.NewSolver()
	is.Equal(s.Solve(d, 1, 200*time.Millisecond), solver.Winnable)
	// won during normalization of the root, before any node is counted
	is.Equal(s.Nodes(), uint64(0))
}

func TestDeadStateUnwinnable(t *testing.T) {
	is := is.New(t)
	s := solver.NewSolver()
	is.Equal(s.SolveState(testhelpers.DeadState(), time.Second), solver.Unwinnable)
	is.Equal(s.Nodes(), uint64(1))
	created, _, _, _ := s.TTable().Stats()
	is.Equal(created, uint64(1))
}

func TestSearchWin(t *testing.T) {
	is := is.New(t)
	s := solver.NewSolver()
	st := testhelpers.SearchWinState()
	before := st.Copy()
	is.Equal(s.SolveState(st, time.Second), solver.Winnable)
	is.True(s.Nodes() > 1)
	// the caller's state is left alone
	is.True(st.Equal(before))
}

func TestRepeatedPositionIsCut(t *testing.T) {
	is := is.New(t)
	s := solver.NewSolver()
	// 7H t1-t2, then 7H t2-t1 reaches the root again.
	is.Equal(s.SolveState(testhelpers.BounceState(), time.Second), solver.Unwinnable)
	is.Equal(s.Cycles(), uint64(1))
	is.Equal(s.Nodes(), uint64(3))

	// a second call gets the same answer from a fresh table
	is.Equal(s.SolveState(testhelpers.BounceState(), time.Second), solver.Unwinnable)
	is.True(s.Cycles() > 0)
}

func TestTimeout(t *testing.T) {
	is := is.New(t)
	s := solver.NewSolver()
	s.SetPollInterval(1)
	is.Equal(s.SolveState(testhelpers.SearchWinState(), 0), solver.Timeout)
	is.Equal(s.Nodes(), uint64(1))
}

func TestPreconditions(t *testing.T) {
	assert.Panics(t, func() { solver.Solve(card.OrderedDeck(), 2, time.Second) })
	d := card.OrderedDeck()
	d[0] = 51
	assert.Panics(t, func() { solver.Solve(d, 3, time.Second) })
}

func TestDeterministic(t *testing.T) {
	is := is.New(t)
	for seed := uint64(1); seed <= 6; seed++ {
		d := deal.Shuffled(seed)
		for _, draw := range []int{1, 3} {
			r1 := solver.Solve(d, draw, time.Second)
			r2 := solver.Solve(d, draw, time.Second)
			if r1 == solver.Timeout || r2 == solver.Timeout {
				continue
			}
			is.Equal(r1, r2)
		}
	}
}

func TestDeterministicNodeCount(t *testing.T) {
	is := is.New(t)
	s := solver.NewSolver()
	d := deal.Shuffled(1234)
	r1 := s.Solve(d, 3, 5*time.Second)
	n1 := s.Nodes()
	r2 := s.Solve(d, 3, 5*time.Second)
	if r1.Definite() && r2.Definite() {
		is.Equal(r1, r2)
		is.Equal(n1, s.Nodes())
	}
}

func TestMonotonicInBudget(t *testing.T) {
	is := is.New(t)
	for seed := uint64(100); seed < 110; seed++ {
		d := deal.Shuffled(seed)
		short := solver.Solve(d, 3, 50*time.Millisecond)
		long := solver.Solve(d, 3, 2*time.Second)
		if short.Definite() {
			is.Equal(short, long)
		}
	}
}

func TestBoundedTable(t *testing.T) {
	is := is.New(t)
	s := solver.NewSolver()
	// a tiny cap forces the table to be cleared over and over
	s.SetTTableMemoryFraction(1e-12)
	for seed := uint64(1); seed <= 3; seed++ {
		d := deal.Shuffled(seed)
		bounded := s.Solve(d, 3, time.Second)
		unbounded := solver.Solve(d, 3, time.Second)
		if bounded.Definite() && unbounded.Definite() {
			is.Equal(bounded, unbounded)
		}
	}
}

func TestResultStrings(t *testing.T) {
	is := is.New(t)
	for _, r := range []solver.Result{solver.Winnable, solver.Unwinnable, solver.Timeout} {
		p, ok := solver.ParseResult(r.String())
		is.True(ok)
		is.Equal(p, r)
	}
	_, ok := solver.ParseResult("maybe")
	is.True(!ok)
	is.True(!solver.Timeout.Definite())
}

func BenchmarkSolveDrawThree(b *testing.B) {
	s := solver.NewSolver()
	for i := 0; i < b.N; i++ {
		s.Solve(deal.Shuffled(uint64(i%64)+1), 3, solver.DefaultTimeBudget)
	}
}
