package main

import (
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	setupLogger()
	defer closeLogger()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("PANIC", "recover", r, "stack", string(debug.Stack()))
		}
	}()

	cfg, err := loadConfig("config.json")
	if err != nil {
		slog.Error("Config load failed", "err", err)
		os.Exit(1)
	}

	engine, err := buildEngine(&cfg, nil)
	if err != nil {
		slog.Error("Engine setup failed", "err", err)
		os.Exit(1)
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		slog.Error("Bot startup failed", "err", err)
		os.Exit(1)
	}
	slog.Info("Bot started", "username", bot.Self.UserName)

	app = InitApp(&cfg, engine)
	engine.notifier = newTelegramNotifier(bot, cfg.AllowedUserID, app.QuietNow)

	for _, device := range cfg.Devices {
		if err := engine.StartMonitoring(device); err != nil {
			slog.Warn("Could not register device from config", "device", device, "err", err)
		}
	}

	if err := engine.Start(); err != nil {
		slog.Error("Monitor start failed", "err", err)
		os.Exit(1)
	}
	slog.Info("Drive monitor running", "devices", len(cfg.Devices), "interval", engine.cfg.PollInterval.String())

	// Daily log maintenance.
	pruneTicker := time.NewTicker(24 * time.Hour)
	defer pruneTicker.Stop()
	go func() {
		for range pruneTicker.C {
			pruneOldLogs()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for {
		select {
		case s := <-sig:
			slog.Info("Shutting down", "signal", s.String())
			bot.StopReceivingUpdates()
			if err := engine.Stop(); err != nil {
				slog.Error("Monitor stop failed", "err", err)
			}
			return

		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.CallbackQuery != nil {
				if update.CallbackQuery.From == nil || update.CallbackQuery.From.ID != cfg.AllowedUserID {
					continue
				}
				go handleCallback(bot, update.CallbackQuery)
				continue
			}
			if update.Message == nil || update.Message.Chat.ID != cfg.AllowedUserID {
				continue
			}
			if update.Message.IsCommand() {
				go handleCommand(bot, update.Message)
			}
		}
	}
}

// buildEngine assembles the engine from config: metric source, persistence,
// model weights. The notifier is attached later, once the bot exists.
func buildEngine(cfg *Config, notifier Notifier) (*Engine, error) {
	source := newDriveSource()

	var sink PersistenceSink
	if cfg.Persistence.Enabled {
		fs, err := newFileSink(cfg.Persistence.Dir)
		if err != nil {
			return nil, err
		}
		sink = fs
	}

	var weights *ModelWeights
	if cfg.Prediction.WeightsPath != "" {
		w, err := loadModelWeights(cfg.Prediction.WeightsPath)
		if err != nil {
			slog.Warn("Could not load model weights, using built-in set", "path", cfg.Prediction.WeightsPath, "err", err)
		} else {
			weights = &w
		}
	}

	if !commandExists("smartctl") {
		slog.Warn("smartctl not found: temperature, error rate and sector health will be unavailable")
	}

	return NewEngine(monitorConfigFromConfig(*cfg), EngineOptions{
		Source:   source,
		Health:   source,
		Sink:     sink,
		Notifier: notifier,
		Weights:  weights,
	}), nil
}
