package main

import "usbmon/internal/model"

// Type aliases to internal model package
type MetricKind = model.MetricKind
type DeviceRecord = model.DeviceRecord
type Alert = model.Alert
type HealthSample = model.HealthSample
type HealthPrediction = model.HealthPrediction

const MetricCount = model.MetricCount

const (
	MetricTemperature      = model.Temperature
	MetricReadSpeed        = model.ReadSpeed
	MetricWriteSpeed       = model.WriteSpeed
	MetricErrorRate        = model.ErrorRate
	MetricPowerConsumption = model.PowerConsumption
	MetricVibration        = model.Vibration
	MetricElectromagnetic  = model.Electromagnetic
	MetricCapacityUsage    = model.CapacityUsage
	MetricSectorHealth     = model.SectorHealth
)
