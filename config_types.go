package main

type Config struct {
	BotToken      string            `json:"bot_token"`
	AllowedUserID int64             `json:"allowed_user_id"`
	Timezone      string            `json:"timezone"`
	Devices       []string          `json:"devices"`
	Monitor       MonitorSection    `json:"monitor"`
	QuietHours    QuietHoursConfig  `json:"quiet_hours"`
	Persistence   PersistenceConfig `json:"persistence"`
	MetricsLog    MetricsLogConfig  `json:"metrics_log"`
	Prediction    PredictionConfig  `json:"prediction"`
}

type MonitorSection struct {
	PollIntervalSeconds int      `json:"poll_interval_seconds"`
	WarningMultiplier   float64  `json:"warning_multiplier"`
	CriticalMultiplier  float64  `json:"critical_multiplier"`
	AutoNotify          bool     `json:"auto_notify"`
	EnabledMetrics      []string `json:"enabled_metrics"`
	ShutdownWaitSeconds int      `json:"shutdown_wait_seconds"`
}

type QuietHoursConfig struct {
	Enabled     bool `json:"enabled"`
	StartHour   int  `json:"start_hour"`
	StartMinute int  `json:"start_minute"`
	EndHour     int  `json:"end_hour"`
	EndMinute   int  `json:"end_minute"`
}

type PersistenceConfig struct {
	Enabled bool   `json:"enabled"`
	Dir     string `json:"dir"`
}

type MetricsLogConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

type PredictionConfig struct {
	WeightsPath string `json:"weights_path"`
}
