package automatic

import (
	"context"
	"encoding/csv"
	"errors"
	"expvar"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/klondike/store"
)

var (
	SolvedCounter *expvar.Int
	IsSolving     *expvar.Int
)

func init() {
	SolvedCounter = expvar.NewInt("solvedDeals")
	IsSolving = expvar.NewInt("isSolving")
}

var ErrAlreadySolving = errors.New("deals are already being solved, please wait till complete")

var claimMu sync.Mutex

// claimWorkers marks threads workers as running unless a batch already is.
func claimWorkers(threads int) bool {
	claimMu.Lock()
	defer claimMu.Unlock()
	if IsSolving.Value() > 0 {
		return false
	}
	IsSolving.Set(int64(threads))
	return true
}

// BatchOptions describes one batch run.
type BatchOptions struct {
	Seeds          []uint64
	Draw           int
	Budget         time.Duration
	Threads        int
	TTFraction     float64
	OutputFilename string
	// Store is optional.
	Store *store.Store
}

// SolveBatch solves every seed on opts.Threads goroutines and writes one
// CSV row per deal to opts.OutputFilename. It returns when every queued
// deal is done; cancelling ctx stops queueing new deals.
func SolveBatch(ctx context.Context, opts BatchOptions) error {
	threads := max(opts.Threads, 1)
	if !claimWorkers(threads) {
		return ErrAlreadySolving
	}

	logfile, err := os.Create(opts.OutputFilename)
	if err != nil {
		IsSolving.Set(0)
		return fmt.Errorf("creating batch log: %w", err)
	}
	defer logfile.Close()
	log.Debug().Msgf("Starting %v deals, %v threads", len(opts.Seeds), threads)

	SolvedCounter.Set(0)
	jobs := make(chan uint64, 100)
	logChan := make(chan Row, 100)

	workers, wctx := errgroup.WithContext(ctx)
	for i := 0; i < threads; i++ {
		workers.Go(func() error {
			r := NewDealRunner(opts.Draw, opts.Budget, opts.TTFraction, opts.Store)
			defer IsSolving.Add(-1)
			for seed := range jobs {
				row, err := r.SolveSeed(wctx, seed)
				if err != nil {
					return err
				}
				logChan <- row
				SolvedCounter.Add(1)
			}
			return nil
		})
	}

	go func() {
	dealLoop:
		for i, seed := range opts.Seeds {
			select {
			case <-wctx.Done():
				log.Info().Msg("Got stop signal, exiting soon...")
				break dealLoop
			case jobs <- seed:
			}
			if (i+1)%1000 == 0 {
				log.Info().Msgf("Queued %v deals", i+1)
			}
		}
		close(jobs)
		log.Debug().Msg("Finished queueing all deals.")
	}()

	logger := make(chan error, 1)
	go func() {
		w := csv.NewWriter(logfile)
		w.Write(LogHeader)
		for row := range logChan {
			w.Write(row.Record())
		}
		w.Flush()
		logger <- w.Error()
	}()

	werr := workers.Wait()
	close(logChan)
	lerr := <-logger
	if werr != nil {
		return werr
	}
	if lerr != nil {
		return fmt.Errorf("writing batch log: %w", lerr)
	}
	log.Info().Int64("solved", SolvedCounter.Value()).Msg("batch-finished")
	return ctx.Err()
}
