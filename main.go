package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"combain-support-bot/internal/classifier"
	"combain-support-bot/internal/complaint"
	"combain-support-bot/internal/config"
	"combain-support-bot/internal/gemini"
	"combain-support-bot/internal/handlers"
	"combain-support-bot/internal/health"
	"combain-support-bot/internal/logging"
	"combain-support-bot/internal/notify"
	"combain-support-bot/internal/scheduler"
	"combain-support-bot/internal/storage"
	"combain-support-bot/internal/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.LoadFromEnv() // .env, bot.yaml, TELEGRAM_BOT_TOKEN etc.
	utils.Must(err)
	utils.Must(cfg.Validate())

	log := logging.Setup(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repo storage.Registrations
	if cfg.DatabasePath != "" {
		db, err := storage.New(cfg.DatabasePath)
		utils.Must(err)
		defer db.Close()
		repo = db
	}
	sessions := storage.NewSessionStore(repo, log)
	utils.Must(sessions.Load())

	gen, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	utils.Must(err)
	defer gen.Close()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	utils.Must(err)
	log.Info("authorized", "bot", bot.Self.UserName)

	loc, err := cfg.Location()
	utils.Must(err)
	weekday, err := cfg.Weekday()
	utils.Must(err)

	hour, minute := cfg.Broadcast.At()

	sched, err := scheduler.Start(scheduler.Config{
		Location:  loc,
		Weekday:   weekday,
		Hour:      hour,
		Minute:    minute,
		Message:   cfg.Broadcast.Message,
		Retention: cfg.Retention(),
	}, sessions, bot, clockwork.NewRealClock(), log)
	utils.Must(err)

	liveness := health.NewServer(cfg.HealthAddr, health.BotStatus(sessions, sched.NextBroadcast), log)
	liveness.Start()

	h := &handlers.Handler{
		Bot:        bot,
		Sessions:   sessions,
		Tracker:    complaint.NewTracker(sessions),
		Classifier: classifier.New(gen, cfg.APITimeout(), log),
		Forwarder:  &notify.Forwarder{Bot: bot, OperatorID: cfg.OperatorChatID, Log: log},
		Promotions: sched,
		NewRef:     notify.NewRef,
		Clock:      clockwork.NewRealClock(),
		Log:        log,
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := bot.GetUpdatesChan(updateConfig)

	log.Info("bot started", "operator_chat_id", cfg.OperatorChatID, "persistent", repo != nil)
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case upd, ok := <-updates:
			if !ok {
				break loop
			}
			if upd.Message != nil {
				h.HandleMessage(ctx, upd.Message)
			}
		}
	}

	log.Info("shutting down")
	bot.StopReceivingUpdates()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := liveness.Shutdown(shutdownCtx); err != nil {
		log.Error("liveness shutdown", "err", err)
	}
	if err := sched.Shutdown(); err != nil {
		log.Error("scheduler shutdown", "err", err)
	}
}
