package main

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ═══════════════════════════════════════════════════════════════════
//  MESSAGE HELPERS
// ═══════════════════════════════════════════════════════════════════

func sendMarkdown(bot BotAPI, chatID int64, text string) {
	if bot == nil {
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := bot.Send(msg); err != nil {
		slog.Error("Error sending Markdown message. Retrying as plain text", "err", err)
		msg.ParseMode = ""
		safeSend(bot, msg)
	}
}

func sendWithKeyboard(ctx *AppContext, bot BotAPI, chatID int64, text string) {
	if bot == nil {
		return
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = getMainKeyboard(ctx)
	if _, err := bot.Send(msg); err != nil {
		slog.Error("Error sending Markdown message with keyboard. Retrying as plain text", "err", err)
		msg.ParseMode = ""
		safeSend(bot, msg)
	}
}

func editMessage(bot BotAPI, chatID int64, msgID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	if bot == nil {
		return
	}
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = "Markdown"
	if keyboard != nil {
		edit.ReplyMarkup = keyboard
	}
	if _, err := bot.Send(edit); err != nil {
		slog.Error("Error editing message to Markdown. Retrying as plain text", "err", err)
		edit.ParseMode = ""
		safeSend(bot, edit)
	}
}

func getMainKeyboard(_ *AppContext) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", "refresh_status"),
			tgbotapi.NewInlineKeyboardButtonData("🔌 Drives", "show_devices"),
			tgbotapi.NewInlineKeyboardButtonData("🔔 Alerts", "show_alerts"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📏 Thresholds", "show_thresholds"),
		),
	)
}

// ═══════════════════════════════════════════════════════════════════
//  CLEAR CONFIRMATION
// ═══════════════════════════════════════════════════════════════════

func askClearConfirmation(ctx *AppContext, bot BotAPI, chatID int64, msgID int) {
	ctx.Bot.SetPendingAction("clear_alerts")

	total, _ := ctx.Engine.AlertCounts()
	question := fmt.Sprintf("🗑 *Clear the alert log?*\n\n_All %d entries will be dropped. This cannot be undone._", total)

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes, clear it", "confirm_clear"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "cancel_clear"),
		),
	)

	if msgID > 0 {
		editMessage(bot, chatID, msgID, question, &kb)
	} else {
		msg := tgbotapi.NewMessage(chatID, question)
		msg.ParseMode = "Markdown"
		msg.ReplyMarkup = kb
		safeSend(bot, msg)
	}
}

func handleClearConfirm(ctx *AppContext, bot BotAPI, chatID int64, msgID int) {
	action := ctx.Bot.GetPendingAction()
	ctx.Bot.ClearPendingAction()

	if action != "clear_alerts" {
		editMessage(bot, chatID, msgID, "_Session expired — try again_", nil)
		return
	}

	ctx.Engine.ClearAlerts()
	editMessage(bot, chatID, msgID, "🗑 Alert log cleared", nil)
}
