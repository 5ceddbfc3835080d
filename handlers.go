package main

import (
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var cmdRegistry *CommandRegistry

func init() {
	cmdRegistry = SetupCommandRegistry()
}

func handleCommand(bot BotAPI, msg *tgbotapi.Message) {
	if app == nil {
		slog.Error("App context is nil in handleCommand")
		return
	}
	if cmdRegistry.Execute(app, bot, msg) {
		return
	}
	safeSend(bot, tgbotapi.NewMessage(msg.Chat.ID, "Unknown command. Try /help"))
}

func handleCallback(bot BotAPI, query *tgbotapi.CallbackQuery) {
	if app == nil {
		slog.Error("App context is nil in handleCallback")
		return
	}
	if query == nil || query.Message == nil {
		return
	}
	if _, err := bot.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		slog.Error("Failed to answer callback", "err", err)
	}
	chatID := query.Message.Chat.ID
	msgID := query.Message.MessageID

	switch query.Data {
	case "refresh_status":
		kb := getMainKeyboard(app)
		editMessage(bot, chatID, msgID, getStatusText(app), &kb)

	case "show_devices":
		kb := getMainKeyboard(app)
		editMessage(bot, chatID, msgID, getDevicesText(app), &kb)

	case "show_alerts":
		kb := getMainKeyboard(app)
		editMessage(bot, chatID, msgID, getAlertsText(app), &kb)

	case "show_thresholds":
		kb := getMainKeyboard(app)
		editMessage(bot, chatID, msgID, getThresholdsText(app), &kb)

	case "confirm_clear":
		handleClearConfirm(app, bot, chatID, msgID)

	case "cancel_clear":
		app.Bot.ClearPendingAction()
		editMessage(bot, chatID, msgID, "_Cancelled_", nil)

	default:
		slog.Warn("Unknown callback", "data", query.Data)
	}
}
