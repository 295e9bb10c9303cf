package deal

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/klondike/card"
	"github.com/domino14/klondike/solver"
)

const (
	// MaxAttempts caps how many deals FindSolvable tries.
	MaxAttempts = 120
	// DefaultOverallDeadline bounds the whole FindSolvable loop.
	DefaultOverallDeadline = 10 * time.Second
)

var ErrNoSolvableDeal = errors.New("no solvable deal found")

// Deal is a seeded deck together with what the solver made of it.
type Deal struct {
	Seed     uint64
	Deck     card.Deck
	ID       string
	Draw     int
	Result   solver.Result
	Attempts int
	Nodes    uint64
	Elapsed  time.Duration
}

// New deals the deck for seed without solving it.
func New(seed uint64, draw int) Deal {
	d := Shuffled(seed)
	return Deal{Seed: seed, Deck: d, ID: Fingerprint(d), Draw: draw, Result: solver.Timeout}
}

// SeedSource yields seeds for FindSolvable.
type SeedSource func() uint64

// Finder keeps dealing until the solver proves a deal winnable.
type Finder struct {
	Solver   *solver.Solver
	Seeds    SeedSource
	Budget   time.Duration
	Deadline time.Duration
}

func NewFinder() *Finder {
	return &Finder{
		Solver:   solver.NewSolver(),
		Seeds:    RandomSeed,
		Budget:   solver.DefaultTimeBudget,
		Deadline: DefaultOverallDeadline,
	}
}

// Find tries up to maxAttempts deals (never more than MaxAttempts). Deals
// shown to be unwinnable are skipped; deals that time out are skipped only
// while the overall deadline has not passed.
func (f *Finder) Find(draw, maxAttempts int) (Deal, error) {
	capped := min(maxAttempts, MaxAttempts)
	overall := time.Now().Add(f.Deadline)
	tried := 0
	for attempt := 1; attempt <= capped; attempt++ {
		tried = attempt
		d := New(f.Seeds(), draw)
		d.Result = f.Solver.Solve(d.Deck, draw, f.Budget)
		d.Attempts = attempt
		d.Nodes = f.Solver.Nodes()
		d.Elapsed = f.Solver.Elapsed()
		log.Debug().Uint64("seed", d.Seed).Str("result", d.Result.String()).
			Int("attempt", attempt).Msg("find-solvable-attempt")
		switch d.Result {
		case solver.Winnable:
			return d, nil
		case solver.Unwinnable:
			continue
		}
		if !time.Now().Before(overall) {
			break
		}
	}
	return Deal{}, fmt.Errorf("%w within %d attempts", ErrNoSolvableDeal, tried)
}

// FindSolvable deals random games until one is winnable, with the default
// per-deal budget and overall deadline.
func FindSolvable(draw, maxAttempts int) (Deal, error) {
	return NewFinder().Find(draw, maxAttempts)
}
