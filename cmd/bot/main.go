package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Fi44er/usdt_topup/config"
	"github.com/Fi44er/usdt_topup/db"
	"github.com/Fi44er/usdt_topup/internal/api"
	"github.com/Fi44er/usdt_topup/internal/bot"
	"github.com/Fi44er/usdt_topup/internal/repository"
	"github.com/Fi44er/usdt_topup/internal/service"
	"github.com/Fi44er/usdt_topup/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const rateTTL = time.Minute

func main() {
	logger := utils.InitLogger()
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		logger.Fatal("Failed to load config: ", err)
	}
	logger.SetLevelName(cfg.LogLevel)

	database, err := db.ConnectDb(cfg.DB_URL, logger)
	if err != nil {
		logger.Fatal(err)
	}

	if err := db.Migrate(database, cfg.AutoMigrate, logger); err != nil {
		logger.Fatal(err)
	}

	fallback, _ := cfg.Fallback()
	urgentFee, _ := cfg.UrgentFee()

	repo := repository.NewRepository(database, logger)
	svc := service.NewService(repo, utils.NewRateService(cfg.RateURL, rateTTL), service.Options{
		DepositAddress: cfg.DepositAddress,
		FallbackRate:   fallback,
		UrgentFee:      urgentFee,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := svc.EnsureBootstrapOperator(ctx, cfg.AdminLogin, cfg.AdminPassword); err != nil {
		logger.Fatal(err)
	}

	server := api.NewServer(svc, cfg.TelegramBotToken, logger).MakeServer(cfg.HTTPAddr)
	go func() {
		logger.Infof("HTTP API listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed: ", err)
		}
	}()

	if cfg.TelegramBotToken != "" {
		telegramBot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			logger.Fatal("Failed to create bot API: ", err)
		}
		go bot.NewBot(telegramBot, svc, logger).Start(ctx)
	} else {
		logger.Warn("TELEGRAM_BOT_TOKEN is not set, running HTTP API only")
	}

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("HTTP shutdown: %v", err)
	}
}
