// Package bot answers solve requests over NATS. Requests and responses are
// JSON documents.
package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/klondike/card"
	"github.com/domino14/klondike/config"
	"github.com/domino14/klondike/deal"
	"github.com/domino14/klondike/solver"
	"github.com/domino14/klondike/store"
)

// MaxBudget caps the time a single request may ask for.
const MaxBudget = 60 * time.Second

// Request asks for one deal to be solved. Deck, if set, is 52 card tokens
// and wins over Seed. With neither set a random deal is solved.
type Request struct {
	Deck     string `json:"deck,omitempty"`
	Seed     uint64 `json:"seed,omitempty"`
	Draw     int    `json:"draw,omitempty"`
	BudgetMs int64  `json:"budget_ms,omitempty"`
}

type Response struct {
	DealID    string `json:"deal_id,omitempty"`
	Seed      uint64 `json:"seed,omitempty"`
	Draw      int    `json:"draw,omitempty"`
	Result    string `json:"result,omitempty"`
	Nodes     uint64 `json:"nodes"`
	ElapsedMs int64  `json:"elapsed_ms"`
	Cached    bool   `json:"cached,omitempty"`
	Error     string `json:"error,omitempty"`
}

// LambdaEvent is a Request delivered through a function invocation. The
// response is also published on ReplyChannel if it is set.
type LambdaEvent struct {
	Request
	RequestID    string `json:"request_id"`
	ReplyChannel string `json:"reply_channel"`
}

type Bot struct {
	config *config.Config
	store  *store.Store

	// The solver reuses its transposition table, so one request runs at a
	// time.
	mu     sync.Mutex
	solver *solver.Solver
}

// NewBot makes a bot. st may be nil.
func NewBot(cfg *config.Config, st *store.Store) *Bot {
	s := solver.NewSolver()
	s.SetPollInterval(cfg.GetInt(config.ConfigPollInterval))
	s.SetTTableMemoryFraction(cfg.GetFloat64(config.ConfigTTMemoryFraction))
	return &Bot{config: cfg, store: st, solver: s}
}

func errorResponse(message string, err error) Response {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return Response{Error: msg}
}

func (b *Bot) dealFor(req Request) (deal.Deal, error) {
	draw := req.Draw
	if draw == 0 {
		draw = b.config.GetInt(config.ConfigDraw)
	}
	if draw != 1 && draw != 3 {
		return deal.Deal{}, fmt.Errorf("draw must be 1 or 3, got %d", draw)
	}
	if req.Deck != "" {
		deck, ok := card.ParseDeckString(req.Deck)
		if !ok {
			return deal.Deal{}, errors.New("deck must be 52 card tokens")
		}
		if err := deck.Validate(); err != nil {
			return deal.Deal{}, err
		}
		return deal.Deal{Deck: deck, ID: deal.Fingerprint(deck), Draw: draw}, nil
	}
	seed := req.Seed
	if seed == 0 {
		seed = deal.RandomSeed()
	}
	return deal.New(seed, draw), nil
}

func (b *Bot) budgetFor(req Request) time.Duration {
	if req.BudgetMs <= 0 {
		return b.config.GetDuration(config.ConfigTimeBudget)
	}
	return min(time.Duration(req.BudgetMs)*time.Millisecond, MaxBudget)
}

// Solve answers req, consulting and filling the store if there is one.
func (b *Bot) Solve(ctx context.Context, req Request) Response {
	d, err := b.dealFor(req)
	if err != nil {
		return errorResponse("Could not parse request", err)
	}
	resp := Response{DealID: d.ID, Seed: d.Seed, Draw: d.Draw}
	if b.store != nil {
		rec, err := b.store.Get(ctx, d.ID, d.Draw)
		if err == nil {
			resp.Result = rec.Result.String()
			resp.Nodes = rec.Nodes
			resp.ElapsedMs = rec.Elapsed.Milliseconds()
			resp.Cached = true
			return resp
		} else if !errors.Is(err, store.ErrNotFound) {
			log.Err(err).Msg("store-lookup-failed")
		}
	}

	b.mu.Lock()
	res := b.solver.Solve(d.Deck, d.Draw, b.budgetFor(req))
	nodes, elapsed := b.solver.Nodes(), b.solver.Elapsed()
	b.mu.Unlock()

	resp.Result = res.String()
	resp.Nodes = nodes
	resp.ElapsedMs = elapsed.Milliseconds()
	if b.store != nil && res.Definite() {
		err := b.store.Put(ctx, store.Record{
			DealID: d.ID, Draw: d.Draw, Seed: d.Seed, Deck: d.Deck.String(),
			Result: res, Nodes: nodes, Elapsed: elapsed,
		})
		if err != nil {
			log.Err(err).Msg("store-put-failed")
		}
	}
	log.Info().Str("deal-id", d.ID).Str("result", resp.Result).
		Uint64("nodes", nodes).Dur("elapsed", elapsed).Msg("solved")
	return resp
}

// Handle decodes a JSON Request and returns the JSON Response.
func (b *Bot) Handle(data []byte) []byte {
	var resp Response
	req := Request{}
	if err := json.Unmarshal(data, &req); err != nil {
		resp = errorResponse("Could not parse request", err)
	} else {
		resp = b.Solve(context.Background(), req)
	}
	out, err := json.Marshal(resp)
	if err != nil {
		// Should never happen, ideally, but we need to do something sensible here.
		return []byte(`{"error":"could not encode response"}`)
	}
	return out
}

// listen subscribes bot to channel on nc and answers every request.
func listen(nc *nats.Conn, channel string, bot *Bot) error {
	_, err := nc.Subscribe(channel, func(m *nats.Msg) {
		log.Info().Msgf("RECV: %d bytes", len(m.Data))
		if err := m.Respond(bot.Handle(m.Data)); err != nil {
			log.Err(err).Msg("nats-respond")
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", channel, err)
	}
	if err := nc.Flush(); err != nil {
		return err
	}
	return nc.LastError()
}

func Main(channel string, bot *Bot) {
	nc, err := nats.Connect(bot.config.GetString(config.ConfigNatsURL))
	if err != nil {
		log.Fatal().Err(err).Msg("nats-connect")
	}
	if err := listen(nc, channel, bot); err != nil {
		log.Fatal().Err(err).Msg("nats-subscribe")
	}

	log.Info().Msgf("Listening on [%s]", channel)

	runtime.Goexit()
}
