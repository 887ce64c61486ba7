package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"farm-keeper/internal/config"
	"farm-keeper/internal/farm"
	"farm-keeper/internal/logging"
	"farm-keeper/internal/notify"
	"farm-keeper/internal/protocol"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifyCfg, err := notify.ConfigFrom(cfg.Notify)
	if err != nil {
		log.Fatal().Err(err).Msg("load notify config failed")
	}
	pusher := notify.NewManager(notifyCfg)
	pusher.Start(ctx)

	client, err := protocol.Dial(protocol.DialOptions{
		URL:         cfg.Game.WSURL,
		Account:     cfg.Game.Account,
		Token:       cfg.Game.Token,
		CallTimeout: cfg.Game.CallTimeout(),
		OnPush: func(op string, _ json.RawMessage) {
			log.Warn().Str("op", op).Msg("server push")
			if op == "login_required" {
				pusher.Push("login required", "the game server asked for a fresh login; the keeper is idle until then")
			}
		},
	})
	if err != nil {
		log.Fatal().Err(err).Str("url", cfg.Game.WSURL).Msg("game connection failed")
	}
	defer client.Close()

	keeper := farm.New(cfg.Farm, client, pusher)
	if keeper.Start(ctx) {
		log.Info().
			Bool("buy", cfg.Farm.BuyEnabled).
			Bool("open", cfg.Farm.OpenEnabled).
			Dur("interval", cfg.Farm.CycleInterval()).
			Msg("keeper started")
	} else {
		log.Warn().Msg("all features disabled, keeper idle")
	}

	var server *http.Server
	if cfg.Status.Enabled {
		server = &http.Server{
			Addr:              cfg.Status.HTTPAddr,
			Handler:           newRouter(keeper),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			IdleTimeout:       120 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.Status.HTTPAddr).Msg("status http listening")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("status server stopped")
			}
		}()
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")
	keeper.Stop()
	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("status server shutdown failed")
		}
	}
}
