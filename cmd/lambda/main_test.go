package main

import (
	"context"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/klondike/bot"
	"github.com/domino14/klondike/config"
	"github.com/domino14/klondike/deal"
	"github.com/domino14/klondike/testhelpers"
)

func TestHandleRequest(t *testing.T) {
	is := is.New(t)
	evt := bot.LambdaEvent{
		Request:   bot.Request{Deck: testhelpers.AutoWinDeckString, Draw: 3},
		RequestID: "foo",
	}
	cfg = config.DefaultConfig()
	ctx := context.Background()
	ret, err := HandleRequest(ctx, evt)
	is.NoErr(err)
	is.Equal(ret, deal.Fingerprint(testhelpers.AutoWinDeck())+" winnable")
}

func TestHandleRequestBadDeck(t *testing.T) {
	is := is.New(t)
	cfg = config.DefaultConfig()
	_, err := HandleRequest(context.Background(), bot.LambdaEvent{Request: bot.Request{Deck: "KS"}})
	is.True(err != nil)
}
