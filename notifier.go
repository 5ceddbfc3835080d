package main

import (
	"fmt"
	"log/slog"
)

// Notifier receives alerts as they are raised.
type Notifier interface {
	Notify(a Alert)
}

// telegramNotifier pushes alerts to the configured chat. During quiet hours
// only critical alerts get through.
type telegramNotifier struct {
	bot    BotAPI
	chatID int64
	quiet  func() bool
}

func newTelegramNotifier(bot BotAPI, chatID int64, quiet func() bool) *telegramNotifier {
	return &telegramNotifier{bot: bot, chatID: chatID, quiet: quiet}
}

func (n *telegramNotifier) Notify(a Alert) {
	if n.bot == nil {
		return
	}
	if !a.Critical && n.quiet != nil && n.quiet() {
		slog.Debug("Alert suppressed by quiet hours", "device", a.DeviceID, "metric", a.Metric.String())
		return
	}
	sendMarkdown(n.bot, n.chatID, formatAlertMessage(a))
}

func formatAlertMessage(a Alert) string {
	icon := "⚠️"
	level := "Warning"
	if a.Critical {
		icon = "🚨"
		level = "CRITICAL"
	}
	return fmt.Sprintf("%s *%s: %s*\n\n💾 Device: `%s`\n📏 %s: `%.2f %s` (threshold `%.2f`)\n🕐 %s",
		icon, level, a.Message,
		a.DeviceID,
		a.Metric.String(), a.Value, a.Metric.Unit(), a.Threshold,
		a.Timestamp.Format("15:04:05"))
}
