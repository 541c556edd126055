package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ivanoskov/bc-money/internal/bot"
	"github.com/ivanoskov/bc-money/internal/config"
	"github.com/ivanoskov/bc-money/internal/logging"
	"github.com/ivanoskov/bc-money/internal/repository"
	"github.com/ivanoskov/bc-money/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.SetupLogging("info").WithError(err).Fatal("Config.Load")
	}
	log := logging.SetupLogging(cfg.LogLevel)

	repo, err := repository.NewSupabaseRepository(cfg.SupabaseURL, cfg.SupabaseKey)
	if err != nil {
		log.WithError(err).Fatal("Repository.Init")
	}

	finance := service.NewFinanceService(repo, log,
		service.WithFetchTimeout(cfg.FetchTimeout),
		service.WithTopCategories(cfg.TopCategories),
		service.WithCurrency(cfg.Currency),
	)

	b, err := bot.NewBot(cfg.TelegramToken, finance, cfg.TelegramUsers, log)
	if err != nil {
		log.WithError(err).Fatal("Bot.Init")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithField("users", len(cfg.TelegramUsers)).Info("Bot.Start")
	if err := b.Start(ctx); err != nil {
		log.WithError(err).Fatal("Bot.Stop")
	}
}
