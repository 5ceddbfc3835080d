package main

import "encoding/json"

func defaultConfigTemplate() Config {
	return Config{
		Timezone: "Europe/Rome",
		Devices:  []string{},
		Monitor: MonitorSection{
			PollIntervalSeconds: 1,
			WarningMultiplier:   0.8,
			CriticalMultiplier:  0.9,
			AutoNotify:          true,
			EnabledMetrics: []string{
				"temperature", "read_speed", "write_speed", "error_rate",
				"power_consumption", "capacity_usage", "sector_health",
			},
			ShutdownWaitSeconds: 5,
		},
		QuietHours:  QuietHoursConfig{Enabled: true, StartHour: 23, StartMinute: 30, EndHour: 7, EndMinute: 0},
		Persistence: PersistenceConfig{Enabled: true, Dir: "health_history"},
		MetricsLog:  MetricsLogConfig{Enabled: false, Path: "metrics.csv"},
		Prediction:  PredictionConfig{WeightsPath: ""},
	}
}

func fillMissingConfigFields(configMap map[string]interface{}) bool {
	defaults := defaultConfigTemplate()
	defaultBytes, err := json.Marshal(defaults)
	if err != nil {
		return false
	}
	var defaultMap map[string]interface{}
	if err := json.Unmarshal(defaultBytes, &defaultMap); err != nil {
		return false
	}
	return fillMissingMap(configMap, defaultMap)
}

func fillMissingMap(configMap, defaultMap map[string]interface{}) bool {
	changed := false
	for key, defaultValue := range defaultMap {
		currentValue, exists := configMap[key]
		if !exists || currentValue == nil {
			configMap[key] = defaultValue
			changed = true
			continue
		}

		currentMap, currentIsMap := currentValue.(map[string]interface{})
		defaultSubMap, defaultIsMap := defaultValue.(map[string]interface{})
		if currentIsMap && defaultIsMap {
			if fillMissingMap(currentMap, defaultSubMap) {
				changed = true
			}
		}
	}
	return changed
}
