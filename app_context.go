package main

import (
	"sync"
	"time"
)

// AppContext holds the application dependencies.
type AppContext struct {
	Config   *Config
	Engine   *Engine
	Bot      *BotContext
	Location *time.Location
}

// app is the process-wide context, set in main and swapped in tests.
var app *AppContext

// BotContext holds bot-specific interaction state.
type BotContext struct {
	mu            sync.Mutex
	StartTime     time.Time
	PendingAction string
}

func (b *BotContext) SetPendingAction(action string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.PendingAction = action
}

func (b *BotContext) GetPendingAction() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.PendingAction
}

func (b *BotContext) ClearPendingAction() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.PendingAction = ""
}

// InitApp wires the application context around a built engine.
func InitApp(cfg *Config, engine *Engine) *AppContext {
	return &AppContext{
		Config:   cfg,
		Engine:   engine,
		Bot:      &BotContext{StartTime: time.Now()},
		Location: loadLocation(cfg.Timezone),
	}
}

// QuietNow reports whether quiet hours are active right now.
func (a *AppContext) QuietNow() bool {
	return quietHoursActive(a.Config.QuietHours, a.Location, time.Now())
}
