package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/klondike/bot"
	"github.com/domino14/klondike/config"
	"github.com/domino14/klondike/store"
)

const channel = "klondike.bot"

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log.Info().Msgf("Loaded config: %v", cfg.SanitizedSettings())

	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	var st *store.Store
	if path := cfg.GetString(config.ConfigDBPath); path != "" {
		var err error
		st, err = store.Open(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("opening-store")
		}
		defer st.Close()
	}

	idleConnsClosed := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		// We received an interrupt signal, shut down.
		log.Info().Msg("got quit signal...")
		close(idleConnsClosed)
	}()

	b := bot.NewBot(cfg, st)
	go bot.Main(channel, b)

	<-idleConnsClosed
	log.Info().Msg("server gracefully shutting down")
}
