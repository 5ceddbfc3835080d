package main

import (
	"context"
	"log/slog"
	"time"

	"usbmon/internal/cmdexec"
	"usbmon/internal/format"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Formatting wrappers backed by internal/format.
func formatDuration(d time.Duration) string  { return format.FormatDuration(d) }
func makeProgressBar(percent float64) string { return format.MakeProgressBar(percent) }
func truncate(s string, max int) string      { return format.Truncate(s, max) }

// safeSend sends a message and logs any error.
func safeSend(bot BotAPI, msg tgbotapi.Chattable) {
	if bot == nil {
		return
	}
	if _, err := bot.Send(msg); err != nil {
		slog.Error("Failed to send message", "err", err)
	}
}

// Command execution wrappers backed by internal/cmdexec.
func setCommandRunner(r cmdexec.Runner) (restore func()) {
	return cmdexec.SetRunner(r)
}

func commandExists(name string) bool {
	return cmdexec.Exists(name)
}

func runCommandOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return cmdexec.Output(ctx, name, args...)
}
