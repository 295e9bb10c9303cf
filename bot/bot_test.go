package bot

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
	"github.com/nats-io/nats.go"

	"github.com/domino14/klondike/config"
	"github.com/domino14/klondike/deal"
	"github.com/domino14/klondike/store"
	"github.com/domino14/klondike/testhelpers"
)

func handle(t *testing.T, b *Bot, req string) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(b.Handle([]byte(req)), &resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestHandleDeck(t *testing.T) {
	is := is.New(t)
	b := NewBot(config.DefaultConfig(), nil)
	req, _ := json.Marshal(Request{Deck: testhelpers.AutoWinDeckString, Draw: 1})
	resp := handle(t, b, string(req))
	is.Equal(resp.Error, "")
	is.Equal(resp.Result, "winnable")
	is.Equal(resp.Draw, 1)
	is.Equal(resp.DealID, deal.Fingerprint(testhelpers.AutoWinDeck()))
	is.True(!resp.Cached)
}

func TestHandleSeed(t *testing.T) {
	is := is.New(t)
	b := NewBot(config.DefaultConfig(), nil)
	resp := handle(t, b, `{"seed": 7, "budget_ms": 50}`)
	is.Equal(resp.Error, "")
	is.Equal(resp.Seed, uint64(7))
	is.Equal(resp.Draw, 3)
	is.Equal(resp.DealID, deal.New(7, 3).ID)
	is.True(resp.Result == "winnable" || resp.Result == "unwinnable" || resp.Result == "timeout")
}

func TestHandleErrors(t *testing.T) {
	is := is.New(t)
	b := NewBot(config.DefaultConfig(), nil)

	resp := handle(t, b, `{"seed": `)
	is.True(resp.Error != "")
	is.Equal(resp.Result, "")

	resp = handle(t, b, `{"seed": 7, "draw": 2}`)
	is.Equal(resp.Error, "Could not parse request: draw must be 1 or 3, got 2")

	resp = handle(t, b, `{"deck": "AC 2C 3C"}`)
	is.Equal(resp.Error, "Could not parse request: deck must be 52 card tokens")
}

func TestBudgetFor(t *testing.T) {
	is := is.New(t)
	b := NewBot(config.DefaultConfig(), nil)
	is.Equal(b.budgetFor(Request{}), b.config.GetDuration(config.ConfigTimeBudget))
	is.Equal(b.budgetFor(Request{BudgetMs: 250}).Milliseconds(), int64(250))
	is.Equal(b.budgetFor(Request{BudgetMs: 1e9}), MaxBudget)
}

func TestHandleCached(t *testing.T) {
	is := is.New(t)
	st, err := store.Open(filepath.Join(t.TempDir(), "solves.db"))
	is.NoErr(err)
	defer st.Close()
	b := NewBot(config.DefaultConfig(), st)

	req, _ := json.Marshal(Request{Deck: testhelpers.AutoWinDeckString})
	first := handle(t, b, string(req))
	is.Equal(first.Result, "winnable")
	is.True(!first.Cached)

	second := handle(t, b, string(req))
	is.Equal(second.Result, "winnable")
	is.True(second.Cached)
	is.Equal(second.DealID, first.DealID)
}

func TestListenReportsSubscribeError(t *testing.T) {
	is := is.New(t)
	b := NewBot(config.DefaultConfig(), nil)
	err := listen(nil, "klondike.bot", b)
	is.True(err != nil)
	is.True(errors.Is(err, nats.ErrInvalidConnection))
}
