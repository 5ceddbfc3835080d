package main

import (
	"path/filepath"
	"strings"
	"time"
)

// maxDevices bounds the registry. Slots are deactivated, never freed, so the
// ceiling is a deliberate resource bound rather than an eviction policy.
const maxDevices = 16

// applySample feeds one observation into the record's running statistics.
// The first sample for a metric seeds mean/min/max with the value itself.
func applySample(d *DeviceRecord, kind MetricKind, value float64) {
	d.Current[kind] = value
	n := d.Counts[kind]
	if n == 0 {
		d.Mean[kind] = value
		d.Max[kind] = value
		d.Min[kind] = value
	} else {
		d.Mean[kind] = (d.Mean[kind]*float64(n) + value) / float64(n+1)
		if value > d.Max[kind] {
			d.Max[kind] = value
		}
		if value < d.Min[kind] {
			d.Min[kind] = value
		}
	}
	d.Counts[kind] = n + 1
}

// StartMonitoring activates monitoring for a device, registering it on first
// sight. Registration fails with ErrRegistryFull once all slots are taken.
// Starting the engine loop is a separate operation (Start).
func (e *Engine) StartMonitoring(deviceID string) error {
	if strings.TrimSpace(deviceID) == "" {
		return ErrInvalidDevice
	}

	// Seed predictive history from the sink before touching shared state.
	var history []HealthSample
	if e.sink != nil && e.cfg.PersistEnabled {
		if h, err := e.sink.LoadHistory(deviceID); err == nil && len(h) > 0 {
			if len(h) > maxHealthSamples {
				h = h[len(h)-maxHealthSamples:]
			}
			history = h
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if d := e.findDevice(deviceID); d != nil {
		d.Monitoring = true
		if history != nil && len(e.histories[deviceID]) == 0 {
			e.histories[deviceID] = history
		}
		return nil
	}

	if len(e.devices) >= maxDevices {
		return ErrRegistryFull
	}

	d := &DeviceRecord{
		ID:         deviceID,
		Name:       deviceDisplayName(deviceID),
		Monitoring: true,
		Healthy:    true,
		LastUpdate: time.Now(),
	}
	e.devices = append(e.devices, d)
	if history != nil {
		e.histories[deviceID] = history
	}
	return nil
}

// StopMonitoring deactivates a device without freeing its slot. Stopping an
// already-stopped device is a no-op.
func (e *Engine) StopMonitoring(deviceID string) error {
	if strings.TrimSpace(deviceID) == "" {
		return ErrInvalidDevice
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	d := e.findDevice(deviceID)
	if d == nil {
		return ErrUnknownDevice
	}
	d.Monitoring = false
	return nil
}

// IsMonitored reports whether a device is registered and active.
func (e *Engine) IsMonitored(deviceID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	d := e.findDevice(deviceID)
	return d != nil && d.Monitoring
}

// GetStatus returns a copy of the device record.
func (e *Engine) GetStatus(deviceID string) (DeviceRecord, error) {
	if strings.TrimSpace(deviceID) == "" {
		return DeviceRecord{}, ErrInvalidDevice
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	d := e.findDevice(deviceID)
	if d == nil {
		return DeviceRecord{}, ErrUnknownDevice
	}
	return *d, nil
}

// Devices returns copies of all registered device records in registration
// order, active or not.
func (e *Engine) Devices() []DeviceRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]DeviceRecord, 0, len(e.devices))
	for _, d := range e.devices {
		out = append(out, *d)
	}
	return out
}

// findDevice must be called with e.mu held.
func (e *Engine) findDevice(deviceID string) *DeviceRecord {
	for _, d := range e.devices {
		if d.ID == deviceID {
			return d
		}
	}
	return nil
}

// activeDeviceIDs snapshots the ids the poll loop should visit this tick.
func (e *Engine) activeDeviceIDs() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]string, 0, len(e.devices))
	for _, d := range e.devices {
		if d.Monitoring {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

func deviceDisplayName(deviceID string) string {
	name := filepath.Base(strings.TrimRight(deviceID, "/\\"))
	if name == "" || name == "." {
		return deviceID
	}
	return name
}
