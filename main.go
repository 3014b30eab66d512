package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/quizbust/internal/config"
	"github.com/robalobadob/quizbust/internal/httpserver"
	"github.com/robalobadob/quizbust/internal/quiz"
	"github.com/robalobadob/quizbust/internal/service"
	"github.com/robalobadob/quizbust/internal/store"
	"github.com/robalobadob/quizbust/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	rules, err := cfg.Rules()
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.RulesFile).Msg("failed to load rules")
	}
	cat, err := cfg.Subjects()
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.SubjectsFile).Msg("failed to load subjects")
	}
	log.Info().Int("subjects", cat.Len()).Msg("subject catalogue loaded")
	provider, err := cfg.NewProvider()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure LLM provider")
	}
	if cfg.LLMProvider == config.ProviderOpenAI && cfg.LLMAPIKey == "" {
		log.Warn().Msg("LLM_API_KEY is not set; question requests will fail")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mem := store.NewMemoryStore()
	go mem.Run(ctx, cfg.SessionTTL)

	svc := service.New(mem, quiz.NewRequester(provider, cfg.PromptStyle), rules)
	srv := httpserver.New(svc, provider, cat, httpserver.Options{
		Origins:        cfg.ClientOrigins,
		RequestTimeout: cfg.RequestTimeout,
		DailySalt:      cfg.DailySalt,
	})

	botDone := make(chan struct{})
	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, svc, cat)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to start telegram bot")
		}
		go func() {
			defer close(botDone)
			bot.Run(ctx)
		}()
	} else {
		close(botDone)
	}

	hs := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("provider", provider.Name()).
			Str("style", cfg.PromptStyle.String()).
			Msg("starting quizbust")
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	<-botDone
	log.Info().Msg("bye")
}
