package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"

	"github.com/domino14/klondike/automatic"
	"github.com/domino14/klondike/card"
	"github.com/domino14/klondike/config"
	"github.com/domino14/klondike/deal"
	"github.com/domino14/klondike/game"
	"github.com/domino14/klondike/store"
)

const (
	defaultBatchFile = "/tmp/klondike_batch.csv"
	histogramBins    = 15
	histogramWidth   = 50
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		usage(sc.out)
	} else {
		usageTopic(sc.out, cmd.args[0])
	}
	return nil, nil
}

func (sc *ShellController) setDraw(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(fmt.Sprintf("draw: %d", sc.draw)), nil
	}
	d, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if d != 1 && d != 3 {
		return nil, fmt.Errorf("draw must be 1 or 3, got %d", d)
	}
	sc.draw = d
	if sc.cur != nil {
		sc.cur.Draw = d
	}
	return msg(fmt.Sprintf("draw set to %d", d)), nil
}

func (sc *ShellController) setBudget(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(fmt.Sprintf("budget: %v", sc.budget)), nil
	}
	b, err := time.ParseDuration(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if b < 0 {
		return nil, errors.New("budget must not be negative")
	}
	sc.budget = b
	return msg(fmt.Sprintf("budget set to %v", b)), nil
}

func (sc *ShellController) showDeal() string {
	var sb strings.Builder
	if sc.cur.Seed != 0 {
		fmt.Fprintf(&sb, "Seed %d, ", sc.cur.Seed)
	}
	fmt.Fprintf(&sb, "deal %s\n", sc.cur.ID)
	sb.WriteString(game.Deal(sc.cur.Deck, sc.draw).ToDisplayText())
	return sb.String()
}

func (sc *ShellController) deal(cmd *shellcmd) (*Response, error) {
	seed := deal.RandomSeed()
	if len(cmd.args) > 0 {
		var err error
		seed, err = strconv.ParseUint(cmd.args[0], 10, 64)
		if err != nil {
			return nil, err
		}
	}
	d := deal.New(seed, sc.draw)
	sc.cur = &d
	return msg(sc.showDeal()), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	// Accept the deck either quoted as one argument or as 52 arguments.
	tokens := strings.Fields(strings.Join(cmd.args, " "))
	deck, ok := card.ParseDeck(tokens)
	if !ok {
		return nil, fmt.Errorf("could not parse a 52-card deck from %d tokens", len(tokens))
	}
	if err := deck.Validate(); err != nil {
		return nil, err
	}
	sc.cur = &deal.Deal{Deck: deck, ID: deal.Fingerprint(deck), Draw: sc.draw}
	return msg(sc.showDeal()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.cur == nil {
		return nil, errNoDeal
	}
	return msg(sc.showDeal()), nil
}

func (sc *ShellController) solve(cmd *shellcmd) (*Response, error) {
	if sc.cur == nil {
		return nil, errNoDeal
	}
	ctx := context.Background()
	if sc.store != nil {
		rec, err := sc.store.Get(ctx, sc.cur.ID, sc.draw)
		if err == nil {
			return msg(fmt.Sprintf("%v (cached: %d nodes, %v)", rec.Result, rec.Nodes, rec.Elapsed)), nil
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	res := sc.solver.Solve(sc.cur.Deck, sc.draw, sc.budget)
	sc.cur.Result = res
	sc.cur.Nodes = sc.solver.Nodes()
	sc.cur.Elapsed = sc.solver.Elapsed()
	if sc.store != nil && res.Definite() {
		err := sc.store.Put(ctx, store.Record{
			DealID: sc.cur.ID, Draw: sc.draw, Seed: sc.cur.Seed, Deck: sc.cur.Deck.String(),
			Result: res, Nodes: sc.cur.Nodes, Elapsed: sc.cur.Elapsed,
		})
		if err != nil {
			log.Err(err).Msg("storing-result")
		}
	}
	return msg(fmt.Sprintf("%v (%d nodes, %v)", res, sc.cur.Nodes, sc.cur.Elapsed)), nil
}

func (sc *ShellController) solvable(cmd *shellcmd) (*Response, error) {
	attempts, err := cmd.options.IntDefault("attempts", sc.config.GetInt(config.ConfigMaxAttempts))
	if err != nil {
		return nil, err
	}
	f := deal.NewFinder()
	f.Solver = sc.solver
	f.Budget = sc.budget
	f.Deadline = sc.config.GetDuration(config.ConfigSolvableDeadline)
	d, err := f.Find(sc.draw, attempts)
	if err != nil {
		return nil, err
	}
	sc.cur = &d
	return msg(fmt.Sprintf("Found after %d attempts.\n%s", d.Attempts, sc.showDeal())), nil
}

func (sc *ShellController) autosolve(cmd *shellcmd) (*Response, error) {
	opts := automatic.BatchOptions{
		Draw:           sc.draw,
		Budget:         sc.budget,
		TTFraction:     sc.config.GetFloat64(config.ConfigTTMemoryFraction),
		OutputFilename: defaultBatchFile,
		Store:          sc.store,
	}
	var err error
	opts.Threads, err = cmd.options.IntDefault("threads", sc.config.GetInt(config.ConfigThreads))
	if err != nil {
		return nil, err
	}
	if opts.Threads <= 0 {
		opts.Threads = runtime.NumCPU()
	}
	if f := cmd.options.String("file"); f != "" {
		opts.OutputFilename = f
	}

	if path := cmd.options.String("seeds"); path != "" {
		opts.Seeds, err = automatic.LoadSeeds(path)
		if err != nil {
			return nil, err
		}
	} else {
		if len(cmd.args) == 0 {
			return nil, errors.New("need a number of deals or a -seeds file")
		}
		n, err := strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, errNegativeCount
		}
		if from := cmd.options.String("from"); from != "" {
			start, err := strconv.ParseUint(from, 10, 64)
			if err != nil {
				return nil, err
			}
			opts.Seeds = automatic.SequentialSeeds(start, n)
		} else {
			opts.Seeds = automatic.GenerateSeeds(n)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	sc.showMessage(fmt.Sprintf("Solving %d deals on %d threads, logging to %s",
		len(opts.Seeds), opts.Threads, opts.OutputFilename))
	err = automatic.SolveBatch(ctx, opts)
	if err != nil && !errors.Is(err, context.Canceled) {
		return nil, err
	}
	summary, aerr := automatic.AnalyzeLogFile(opts.OutputFilename)
	if aerr != nil {
		return nil, aerr
	}
	return msg(summary.String()), nil
}

func (sc *ShellController) analyze(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need a batch log file")
	}
	summary, err := automatic.AnalyzeLogFile(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if path := cmd.options.String("yaml"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if err := summary.WriteYAML(f); err != nil {
			return nil, err
		}
	}
	var sb strings.Builder
	sb.WriteString(summary.String())
	if len(summary.ElapsedMs) > 0 {
		sb.WriteString("\nSolve time histogram (ms):\n")
		h := histogram.Hist(histogramBins, summary.ElapsedMs)
		if err := histogram.Fprint(&sb, h, histogram.Linear(histogramWidth)); err != nil {
			return nil, err
		}
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) seeds(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: seeds <n> <file>")
	}
	n, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errNegativeCount
	}
	if err := automatic.SaveSeeds(automatic.GenerateSeeds(n), cmd.args[1]); err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("wrote %d seeds to %s", n, cmd.args[1])), nil
}
