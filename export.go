package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// monitorSnapshot is the on-disk shape of an exported registry + alert log.
type monitorSnapshot struct {
	ExportedAt time.Time      `json:"exported_at"`
	Devices    []DeviceRecord `json:"devices"`
	Alerts     []Alert        `json:"alerts"`
}

// ExportData writes the device registry and alert log to a JSON file.
func (e *Engine) ExportData(path string) error {
	snap := monitorSnapshot{
		ExportedAt: time.Now(),
		Devices:    e.Devices(),
		Alerts:     e.Alerts(),
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize monitoring data: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write monitoring data: %w", err)
	}
	return nil
}

// ImportData replaces the registry and alert log with a previously exported
// snapshot, truncating anything beyond the fixed capacities.
func (e *Engine) ImportData(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read monitoring data: %w", err)
	}
	var snap monitorSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse monitoring data: %w", err)
	}

	if len(snap.Devices) > maxDevices {
		snap.Devices = snap.Devices[:maxDevices]
	}
	if len(snap.Alerts) > maxAlerts {
		snap.Alerts = snap.Alerts[:maxAlerts]
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.devices = e.devices[:0]
	for i := range snap.Devices {
		d := snap.Devices[i]
		e.devices = append(e.devices, &d)
	}
	e.alerts = append(e.alerts[:0], snap.Alerts...)
	return nil
}
