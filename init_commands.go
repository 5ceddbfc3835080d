package main

func SetupCommandRegistry() *CommandRegistry {
	r := NewCommandRegistry()

	// Monitoring
	r.Register("status", &StatusCmd{})
	r.Register("start", &StatusCmd{}) // Alias
	r.Register("devices", &DevicesCmd{})
	r.Register("watch", &WatchCmd{})
	r.Register("unwatch", &UnwatchCmd{})

	// Alerts
	r.Register("alerts", &AlertsCmd{})
	r.Register("ack", &AckCmd{})
	r.Register("clear", &ClearCmd{})

	// Prediction
	r.Register("predict", &PredictCmd{})
	r.Register("prediction", &PredictCmd{}) // Alias

	// Tuning
	r.Register("threshold", &ThresholdCmd{})
	r.Register("thresholds", &ThresholdCmd{}) // Alias
	r.Register("export", &ExportCmd{})

	r.Register("help", &HelpCmd{})

	return r
}
