package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type StatusCmd struct{}

func (c *StatusCmd) Execute(ctx *AppContext, bot BotAPI, msg *tgbotapi.Message, args string) {
	sendWithKeyboard(ctx, bot, msg.Chat.ID, getStatusText(ctx))
}
func (c *StatusCmd) Description() string { return "Show monitored drives" }

type DevicesCmd struct{}

func (c *DevicesCmd) Execute(ctx *AppContext, bot BotAPI, msg *tgbotapi.Message, args string) {
	sendMarkdown(bot, msg.Chat.ID, getDevicesText(ctx))
}
func (c *DevicesCmd) Description() string { return "List mounted drives" }

type WatchCmd struct{}

func (c *WatchCmd) Execute(ctx *AppContext, bot BotAPI, msg *tgbotapi.Message, args string) {
	device := strings.TrimSpace(args)
	if device == "" {
		sendMarkdown(bot, msg.Chat.ID, "Usage: `/watch /mnt/usb0`")
		return
	}
	if err := ctx.Engine.StartMonitoring(device); err != nil {
		switch {
		case errors.Is(err, ErrRegistryFull):
			sendMarkdown(bot, msg.Chat.ID, fmt.Sprintf("❌ Registry full (%d drives max). `/unwatch` one first.", maxDevices))
		case errors.Is(err, ErrInvalidDevice):
			sendMarkdown(bot, msg.Chat.ID, "❌ Invalid device identifier.")
		default:
			sendMarkdown(bot, msg.Chat.ID, fmt.Sprintf("❌ Could not watch `%s`: %s", device, err.Error()))
		}
		return
	}
	sendMarkdown(bot, msg.Chat.ID, fmt.Sprintf("👁 Now watching `%s`", device))
}
func (c *WatchCmd) Description() string { return "Start monitoring a drive" }

type UnwatchCmd struct{}

func (c *UnwatchCmd) Execute(ctx *AppContext, bot BotAPI, msg *tgbotapi.Message, args string) {
	device := strings.TrimSpace(args)
	if device == "" {
		sendMarkdown(bot, msg.Chat.ID, "Usage: `/unwatch /mnt/usb0`")
		return
	}
	if err := ctx.Engine.StopMonitoring(device); err != nil {
		sendMarkdown(bot, msg.Chat.ID, fmt.Sprintf("❌ `%s` was never watched.", device))
		return
	}
	sendMarkdown(bot, msg.Chat.ID, fmt.Sprintf("🛑 Stopped watching `%s` (stats kept)", device))
}
func (c *UnwatchCmd) Description() string { return "Stop monitoring a drive" }

type AlertsCmd struct{}

func (c *AlertsCmd) Execute(ctx *AppContext, bot BotAPI, msg *tgbotapi.Message, args string) {
	sendWithKeyboard(ctx, bot, msg.Chat.ID, getAlertsText(ctx))
}
func (c *AlertsCmd) Description() string { return "Show the alert log" }

type AckCmd struct{}

func (c *AckCmd) Execute(ctx *AppContext, bot BotAPI, msg *tgbotapi.Message, args string) {
	alertID := strings.TrimSpace(args)
	if alertID == "" {
		sendMarkdown(bot, msg.Chat.ID, "Usage: `/ack <alert-id>`\nIDs are shown by `/alerts`.")
		return
	}
	if err := ctx.Engine.Acknowledge(alertID); err != nil {
		sendMarkdown(bot, msg.Chat.ID, fmt.Sprintf("❌ No alert with ID `%s`", alertID))
		return
	}
	sendMarkdown(bot, msg.Chat.ID, fmt.Sprintf("✅ Alert `%s` acknowledged", alertID))
}
func (c *AckCmd) Description() string { return "Acknowledge an alert" }

type ClearCmd struct{}

func (c *ClearCmd) Execute(ctx *AppContext, bot BotAPI, msg *tgbotapi.Message, args string) {
	askClearConfirmation(ctx, bot, msg.Chat.ID, 0)
}
func (c *ClearCmd) Description() string { return "Clear the alert log" }

type PredictCmd struct{}

func (c *PredictCmd) Execute(ctx *AppContext, bot BotAPI, msg *tgbotapi.Message, args string) {
	device := strings.TrimSpace(args)
	if device == "" {
		sendMarkdown(bot, msg.Chat.ID, "Usage: `/predict /mnt/usb0`")
		return
	}
	sendMarkdown(bot, msg.Chat.ID, getPredictionText(ctx, device))
}
func (c *PredictCmd) Description() string { return "Predict drive failure" }

type ThresholdCmd struct{}

func (c *ThresholdCmd) Execute(ctx *AppContext, bot BotAPI, msg *tgbotapi.Message, args string) {
	args = strings.TrimSpace(args)
	if args == "" {
		sendMarkdown(bot, msg.Chat.ID, getThresholdsText(ctx))
		return
	}

	fields := strings.Fields(args)
	if len(fields) != 2 {
		sendMarkdown(bot, msg.Chat.ID, "Usage: `/threshold temperature 55`")
		return
	}
	kind, ok := metricKindFromName(fields[0])
	if !ok {
		sendMarkdown(bot, msg.Chat.ID, fmt.Sprintf("❌ Unknown metric `%s`", fields[0]))
		return
	}
	value, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		sendMarkdown(bot, msg.Chat.ID, fmt.Sprintf("❌ `%s` is not a number", fields[1]))
		return
	}
	if err := ctx.Engine.SetThreshold(kind, value); err != nil {
		sendMarkdown(bot, msg.Chat.ID, fmt.Sprintf("❌ Rejected: %s", err.Error()))
		return
	}
	sendMarkdown(bot, msg.Chat.ID, fmt.Sprintf("✅ %s threshold set to `%.2f %s`", kind.String(), value, kind.Unit()))
}
func (c *ThresholdCmd) Description() string { return "Show or set metric thresholds" }

type ExportCmd struct{}

func (c *ExportCmd) Execute(ctx *AppContext, bot BotAPI, msg *tgbotapi.Message, args string) {
	path := strings.TrimSpace(args)
	if path == "" {
		path = "usbmon_export.json"
	}
	if err := ctx.Engine.ExportData(path); err != nil {
		sendMarkdown(bot, msg.Chat.ID, fmt.Sprintf("❌ Export failed: %s", err.Error()))
		return
	}
	sendMarkdown(bot, msg.Chat.ID, fmt.Sprintf("💾 Monitoring data exported to `%s`", path))
}
func (c *ExportCmd) Description() string { return "Export monitoring data to JSON" }

type HelpCmd struct{}

func (c *HelpCmd) Execute(ctx *AppContext, bot BotAPI, msg *tgbotapi.Message, args string) {
	sendMarkdown(bot, msg.Chat.ID, getHelpText())
}
func (c *HelpCmd) Description() string { return "Show available commands" }
