// Package automatic solves large batches of seeded deals on several
// goroutines and analyzes the resulting logs.
package automatic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/klondike/deal"
	"github.com/domino14/klondike/solver"
	"github.com/domino14/klondike/store"
)

// LogHeader is the first line of a batch log.
var LogHeader = []string{"dealID", "seed", "draw", "result", "nodes", "elapsedMs"}

// Row is one solved deal.
type Row struct {
	DealID  string
	Seed    uint64
	Draw    int
	Result  solver.Result
	Nodes   uint64
	Elapsed time.Duration
	Cached  bool
}

func (r Row) Record() []string {
	return []string{
		r.DealID,
		fmt.Sprint(r.Seed),
		fmt.Sprint(r.Draw),
		r.Result.String(),
		fmt.Sprint(r.Nodes),
		fmt.Sprint(r.Elapsed.Milliseconds()),
	}
}

// DealRunner solves deals one at a time. Each worker goroutine owns one.
type DealRunner struct {
	solver *solver.Solver
	store  *store.Store
	draw   int
	budget time.Duration
}

// NewDealRunner makes a runner; st may be nil to skip the result cache.
func NewDealRunner(draw int, budget time.Duration, ttFraction float64, st *store.Store) *DealRunner {
	s := solver.NewSolver()
	s.SetTTableMemoryFraction(ttFraction)
	return &DealRunner{solver: s, store: st, draw: draw, budget: budget}
}

// SolveSeed deals seed and solves it, consulting and filling the store.
func (r *DealRunner) SolveSeed(ctx context.Context, seed uint64) (Row, error) {
	d := deal.New(seed, r.draw)
	if r.store != nil {
		rec, err := r.store.Get(ctx, d.ID, r.draw)
		if err == nil {
			return Row{DealID: d.ID, Seed: seed, Draw: r.draw, Result: rec.Result,
				Nodes: rec.Nodes, Elapsed: rec.Elapsed, Cached: true}, nil
		} else if !errors.Is(err, store.ErrNotFound) {
			return Row{}, err
		}
	}
	res := r.solver.Solve(d.Deck, r.draw, r.budget)
	row := Row{DealID: d.ID, Seed: seed, Draw: r.draw, Result: res,
		Nodes: r.solver.Nodes(), Elapsed: r.solver.Elapsed()}
	if r.store != nil && res.Definite() {
		err := r.store.Put(ctx, store.Record{
			DealID: d.ID, Draw: r.draw, Seed: seed, Deck: d.Deck.String(),
			Result: res, Nodes: row.Nodes, Elapsed: row.Elapsed,
		})
		if err != nil {
			return Row{}, err
		}
	}
	log.Debug().Str("deal-id", d.ID).Uint64("seed", seed).
		Str("result", res.String()).Uint64("nodes", row.Nodes).Msg("deal-solved")
	return row, nil
}
