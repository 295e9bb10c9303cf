// Package solver decides whether a Klondike deal can be won, using a
// depth-first search on an explicit stack, memoized in a transposition
// table and bounded by a wall-clock budget.
package solver

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/klondike/card"
	"github.com/domino14/klondike/game"
	"github.com/domino14/klondike/move"
	"github.com/domino14/klondike/movegen"
)

const (
	// DefaultPollInterval is how many nodes are expanded between deadline
	// checks.
	DefaultPollInterval = 1024
	// DefaultTimeBudget is the budget interactive callers use.
	DefaultTimeBudget = 120 * time.Millisecond
)

type frame struct {
	state    *game.State
	key      uint64
	moves    []move.Move
	next     int
	expanded bool
}

type expansion int

const (
	expOpen expansion = iota
	expWon
	expLost
	expTimeout
)

// Solver runs one search at a time. Create it with NewSolver or call Init
// before use.
type Solver struct {
	movegen      movegen.MoveGenerator
	ttable       *TranspositionTable
	pollInterval uint64
	ttFraction   float64

	deadline time.Time
	onPath   map[uint64]struct{}
	nodes    uint64
	cycles   uint64
	maxDepth int
	elapsed  time.Duration
}

func NewSolver() *Solver {
	s := &Solver{}
	s.Init(movegen.NewKlondikeGenerator())
	return s
}

func (s *Solver) Init(m movegen.MoveGenerator) {
	s.movegen = m
	s.ttable = &TranspositionTable{}
	s.pollInterval = DefaultPollInterval
}

// SetPollInterval sets how many nodes are expanded between deadline checks.
func (s *Solver) SetPollInterval(n int) {
	if n < 1 {
		n = 1
	}
	s.pollInterval = uint64(n)
}

// SetTTableMemoryFraction caps the transposition table to a share of
// system memory. 0 leaves it unbounded.
func (s *Solver) SetTTableMemoryFraction(f float64) {
	s.ttFraction = f
}

// Solve deals deck with the given draw arity and searches it. The draw
// arity must be 1 or 3 and deck must hold 52 distinct cards, or Solve
// panics.
func (s *Solver) Solve(deck card.Deck, draw int, budget time.Duration) Result {
	return s.SolveState(game.Deal(deck, draw), budget)
}

// SolveState searches from an arbitrary position. st is not modified.
func (s *Solver) SolveState(st *game.State, budget time.Duration) Result {
	tstart := time.Now()
	s.deadline = tstart.Add(budget)
	s.ttable.Reset(s.ttFraction)
	s.onPath = make(map[uint64]struct{})
	s.nodes = 0
	s.cycles = 0
	s.maxDepth = 0

	res := s.search(st.Copy())
	s.elapsed = time.Since(tstart)

	created, lookups, hits, clears := s.ttable.Stats()
	log.Debug().
		Str("result", res.String()).
		Uint64("nodes", s.nodes).
		Uint64("cycles", s.cycles).
		Int("max-depth", s.maxDepth).
		Uint64("ttable-created", created).
		Uint64("ttable-lookups", lookups).
		Uint64("ttable-hits", hits).
		Uint64("ttable-clears", clears).
		Float64("time-elapsed-sec", s.elapsed.Seconds()).
		Msg("solve-returning")
	return res
}

func (s *Solver) search(root *game.State) Result {
	stack := []*frame{{state: root}}
	// won is the result of the frame that was just popped, if resolved.
	won, resolved := false, false

	pop := func() {
		stack[len(stack)-1] = nil
		stack = stack[:len(stack)-1]
		resolved = true
	}

	for len(stack) > 0 {
		if len(stack) > s.maxDepth {
			s.maxDepth = len(stack)
		}
		f := stack[len(stack)-1]
		switch {
		case resolved:
			resolved = false
			if won {
				s.ttable.store(f.key, true)
				delete(s.onPath, f.key)
				pop()
				continue
			}
		case !f.expanded:
			switch s.expand(f) {
			case expTimeout:
				return Timeout
			case expWon:
				won = true
				pop()
				continue
			case expLost:
				won = false
				pop()
				continue
			}
		}

		if f.next < len(f.moves) {
			m := f.moves[f.next]
			f.next++
			stack = append(stack, &frame{state: f.state.PlayMove(m)})
			continue
		}
		s.ttable.store(f.key, false)
		delete(s.onPath, f.key)
		won = false
		pop()
	}
	if won {
		return Winnable
	}
	return Unwinnable
}

// expand normalizes the frame's state and decides whether it is a leaf.
// On expOpen the frame is on the current path with its moves generated.
func (s *Solver) expand(f *frame) expansion {
	f.state.Normalize()
	if f.state.Won() {
		return expWon
	}
	s.nodes++
	if s.nodes%s.pollInterval == 0 && !time.Now().Before(s.deadline) {
		return expTimeout
	}
	f.key = f.state.Key()
	if win, ok := s.ttable.lookup(f.key); ok {
		if win {
			return expWon
		}
		return expLost
	}
	if _, ok := s.onPath[f.key]; ok {
		// A repeat of a position further up this line. Any win from here
		// is also reachable from the ancestor, so the branch is cut
		// without memoizing it.
		s.cycles++
		return expLost
	}
	f.moves = s.movegen.GenAll(f.state)
	if len(f.moves) == 0 {
		s.ttable.store(f.key, false)
		return expLost
	}
	s.onPath[f.key] = struct{}{}
	f.expanded = true
	return expOpen
}

// Nodes is the number of positions expanded by the last call.
func (s *Solver) Nodes() uint64 {
	return s.nodes
}

// Cycles is how many repeated positions the last call cut off.
func (s *Solver) Cycles() uint64 {
	return s.cycles
}

// Elapsed is the wall-clock time of the last call.
func (s *Solver) Elapsed() time.Duration {
	return s.elapsed
}

func (s *Solver) TTable() *TranspositionTable {
	return s.ttable
}

// Solve decides a deal with a fresh solver and an unbounded table.
func Solve(deck card.Deck, draw int, budget time.Duration) Result {
	return NewSolver().Solve(deck, draw, budget)
}
