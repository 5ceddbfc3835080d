package main

import (
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeBot struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	nextID   int
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.sent = append(b.sent, c)
	b.nextID++
	return tgbotapi.Message{MessageID: b.nextID, Chat: &tgbotapi.Chat{ID: 1}}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{}, nil
}

func newTestAppContext() *AppContext {
	cfg := &Config{
		AllowedUserID: 1,
		Timezone:      "UTC",
		Monitor: MonitorSection{
			PollIntervalSeconds: 1,
			WarningMultiplier:   0.8,
			CriticalMultiplier:  0.9,
		},
	}
	mc := defaultMonitorConfig()
	mc.AutoNotify = false
	mc.PersistEnabled = false
	engine := NewEngine(mc, EngineOptions{Source: newFakeSource()})
	return &AppContext{
		Config:   cfg,
		Engine:   engine,
		Bot:      &BotContext{StartTime: time.Now().Add(-10 * time.Minute)},
		Location: time.UTC,
	}
}

func commandMessage(text string) *tgbotapi.Message {
	length := len(text)
	if i := strings.IndexByte(text, ' '); i > 0 {
		length = i
	}
	return &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 1},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
	}
}

func TestHandleCommandStatus(t *testing.T) {
	prev := app
	app = newTestAppContext()
	t.Cleanup(func() { app = prev })

	bot := &fakeBot{}
	handleCommand(bot, commandMessage("/status"))
	if len(bot.sent) == 0 {
		t.Fatalf("expected a reply for /status")
	}
}

func TestHandleCommandUnknown(t *testing.T) {
	prev := app
	app = newTestAppContext()
	t.Cleanup(func() { app = prev })

	bot := &fakeBot{}
	handleCommand(bot, commandMessage("/frobnicate"))
	if len(bot.sent) != 1 {
		t.Fatalf("expected one fallback reply, got %d", len(bot.sent))
	}
}

func TestHandleCallbackRefreshStatus(t *testing.T) {
	prev := app
	app = newTestAppContext()
	t.Cleanup(func() { app = prev })

	bot := &fakeBot{}
	query := &tgbotapi.CallbackQuery{
		ID:      "1",
		Data:    "refresh_status",
		From:    &tgbotapi.User{ID: 1},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}, MessageID: 10},
	}

	handleCallback(bot, query)
	if len(bot.requests) == 0 {
		t.Fatalf("expected callback ack request")
	}
	if len(bot.sent) == 0 {
		t.Fatalf("expected edited status message")
	}
}

func TestHandleCallbackClearConfirmFlow(t *testing.T) {
	prev := app
	app = newTestAppContext()
	t.Cleanup(func() { app = prev })

	if err := app.Engine.StartMonitoring("/mnt/usb0"); err != nil {
		t.Fatalf("StartMonitoring: %v", err)
	}
	if _, err := app.Engine.Raise("/mnt/usb0", MetricTemperature, 61, 60, "Critical threshold exceeded", true); err != nil {
		t.Fatalf("Raise: %v", err)
	}

	bot := &fakeBot{}
	handleCommand(bot, commandMessage("/clear"))
	if app.Bot.GetPendingAction() != "clear_alerts" {
		t.Fatalf("pending action = %q, want clear_alerts", app.Bot.GetPendingAction())
	}

	query := &tgbotapi.CallbackQuery{
		ID:      "2",
		Data:    "confirm_clear",
		From:    &tgbotapi.User{ID: 1},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}, MessageID: 11},
	}
	handleCallback(bot, query)

	if total, _ := app.Engine.AlertCounts(); total != 0 {
		t.Fatalf("alert log not cleared, %d entries left", total)
	}
	if app.Bot.GetPendingAction() != "" {
		t.Fatalf("pending action not cleared")
	}
}

func TestHandleCallbackExpiredClearConfirm(t *testing.T) {
	prev := app
	app = newTestAppContext()
	t.Cleanup(func() { app = prev })

	if err := app.Engine.StartMonitoring("/mnt/usb0"); err != nil {
		t.Fatalf("StartMonitoring: %v", err)
	}
	if _, err := app.Engine.Raise("/mnt/usb0", MetricTemperature, 61, 60, "Critical threshold exceeded", true); err != nil {
		t.Fatalf("Raise: %v", err)
	}

	bot := &fakeBot{}
	query := &tgbotapi.CallbackQuery{
		ID:      "3",
		Data:    "confirm_clear",
		From:    &tgbotapi.User{ID: 1},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}, MessageID: 12},
	}
	handleCallback(bot, query)

	if total, _ := app.Engine.AlertCounts(); total != 1 {
		t.Fatalf("alerts should survive a confirm without pending action")
	}
}

func TestHandleCallbackNilIgnored(t *testing.T) {
	prev := app
	app = newTestAppContext()
	t.Cleanup(func() { app = prev })

	bot := &fakeBot{}
	handleCallback(bot, nil)
	if len(bot.requests) != 0 {
		t.Fatalf("expected no callback ack for nil query")
	}
}

func TestHandleCallbackNilMessageIgnored(t *testing.T) {
	prev := app
	app = newTestAppContext()
	t.Cleanup(func() { app = prev })

	bot := &fakeBot{}
	query := &tgbotapi.CallbackQuery{ID: "4", Data: "refresh_status", From: &tgbotapi.User{ID: 1}}

	handleCallback(bot, query)
	if len(bot.requests) != 0 {
		t.Fatalf("expected no callback ack for callback without message")
	}
}
