package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// loadConfig reads config.json, fills missing fields from the defaults
// template and writes the completed file back so users see every knob.
func loadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w (copy config.example.json to get started)", path, err)
	}

	configMap := map[string]interface{}{}
	if err := json.Unmarshal(data, &configMap); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	if fillMissingConfigFields(configMap) {
		if updated, err := json.MarshalIndent(configMap, "", "  "); err == nil {
			if err := os.WriteFile(path, updated, 0644); err != nil {
				slog.Warn("Could not write completed config back", "path", path, "err", err)
			}
		}
	}

	merged, err := json.Marshal(configMap)
	if err != nil {
		return Config{}, fmt.Errorf("serialize merged config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(merged, &cfg); err != nil {
		return Config{}, fmt.Errorf("apply merged config: %w", err)
	}

	sanitizeConfig(&cfg)

	if cfg.BotToken == "" {
		return Config{}, errors.New("bot_token empty in config")
	}
	if cfg.AllowedUserID == 0 {
		return Config{}, errors.New("allowed_user_id empty or invalid in config")
	}
	return cfg, nil
}

// sanitizeConfig clamps out-of-range values to usable ones.
func sanitizeConfig(cfg *Config) {
	if cfg.Monitor.PollIntervalSeconds < 1 {
		cfg.Monitor.PollIntervalSeconds = 1
	}
	if cfg.Monitor.WarningMultiplier <= 0 || cfg.Monitor.WarningMultiplier > 1 {
		cfg.Monitor.WarningMultiplier = 0.8
	}
	if cfg.Monitor.CriticalMultiplier <= 0 || cfg.Monitor.CriticalMultiplier > 1 {
		cfg.Monitor.CriticalMultiplier = 0.9
	}
	if cfg.Monitor.CriticalMultiplier < cfg.Monitor.WarningMultiplier {
		cfg.Monitor.CriticalMultiplier = cfg.Monitor.WarningMultiplier
	}
	if cfg.Monitor.ShutdownWaitSeconds < 1 {
		cfg.Monitor.ShutdownWaitSeconds = 5
	}
	if cfg.Persistence.Enabled && cfg.Persistence.Dir == "" {
		cfg.Persistence.Dir = "health_history"
	}
	if cfg.MetricsLog.Enabled && cfg.MetricsLog.Path == "" {
		cfg.MetricsLog.Path = "metrics.csv"
	}
}

// monitorConfigFromConfig maps the config file section onto the engine's
// runtime configuration.
func monitorConfigFromConfig(cfg Config) MonitorConfig {
	mc := defaultMonitorConfig()
	mc.PollInterval = time.Duration(cfg.Monitor.PollIntervalSeconds) * time.Second
	mc.WarningMultiplier = cfg.Monitor.WarningMultiplier
	mc.CriticalMultiplier = cfg.Monitor.CriticalMultiplier
	mc.AutoNotify = cfg.Monitor.AutoNotify
	mc.PersistEnabled = cfg.Persistence.Enabled
	mc.ShutdownWait = time.Duration(cfg.Monitor.ShutdownWaitSeconds) * time.Second
	if cfg.MetricsLog.Enabled {
		mc.MetricsLogPath = cfg.MetricsLog.Path
	}

	if len(cfg.Monitor.EnabledMetrics) > 0 {
		var enabled [MetricCount]bool
		for _, name := range cfg.Monitor.EnabledMetrics {
			kind, ok := metricKindFromName(name)
			if !ok {
				slog.Warn("Unknown metric in enabled_metrics", "name", name)
				continue
			}
			enabled[kind] = true
		}
		mc.Enabled = enabled
	}
	return mc
}

func metricKindFromName(name string) (MetricKind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k := MetricKind(0); k < MetricCount; k++ {
		token := strings.ReplaceAll(strings.ToLower(k.String()), " ", "_")
		if token == name {
			return k, true
		}
	}
	return 0, false
}

// loadLocation resolves the configured timezone, falling back to UTC.
func loadLocation(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		slog.Warn("Timezone not found, using UTC", "tz", tz)
		return time.UTC
	}
	return loc
}

// quietHoursActive reports whether now falls inside the configured window.
// Windows may wrap past midnight (23:30 to 07:00).
func quietHoursActive(qh QuietHoursConfig, loc *time.Location, now time.Time) bool {
	if !qh.Enabled {
		return false
	}
	local := now.In(loc)
	minutes := local.Hour()*60 + local.Minute()
	start := qh.StartHour*60 + qh.StartMinute
	end := qh.EndHour*60 + qh.EndMinute

	if start == end {
		return false
	}
	if start < end {
		return minutes >= start && minutes < end
	}
	return minutes >= start || minutes < end
}
