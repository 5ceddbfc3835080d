package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// maxAlerts bounds the alert log: one slot per device per metric kind. Once
// full, new alerts are rejected until the caller clears or exports the log.
const maxAlerts = maxDevices * int(MetricCount)

// Raise appends an alert to the log and, when auto-notify is on, pushes it to
// the notifier. Duplicate alerts are allowed: each breach produces one alert
// per evaluation tick.
func (e *Engine) Raise(deviceID string, kind MetricKind, value, threshold float64, message string, critical bool) (Alert, error) {
	e.mu.Lock()
	a, err := e.raiseLocked(deviceID, kind, value, threshold, message, critical)
	e.mu.Unlock()
	if err != nil {
		return Alert{}, err
	}
	e.notify(a)
	return a, nil
}

// raiseLocked must be called with e.mu held.
func (e *Engine) raiseLocked(deviceID string, kind MetricKind, value, threshold float64, message string, critical bool) (Alert, error) {
	if len(e.alerts) >= maxAlerts {
		return Alert{}, ErrAlertLogFull
	}
	a := Alert{
		ID:        uuid.NewString(),
		DeviceID:  deviceID,
		Metric:    kind,
		Value:     value,
		Threshold: threshold,
		Message:   message,
		Timestamp: time.Now(),
		Critical:  critical,
	}
	e.alerts = append(e.alerts, a)
	return a, nil
}

// Acknowledge marks one alert as seen.
func (e *Engine) Acknowledge(alertID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.alerts {
		if e.alerts[i].ID == alertID {
			e.alerts[i].Acknowledged = true
			return nil
		}
	}
	return ErrAlertNotFound
}

// ClearAlerts empties the alert log, freeing capacity for new alerts.
func (e *Engine) ClearAlerts() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.alerts = e.alerts[:0]
}

// Alerts returns a copy of the log in insertion order.
func (e *Engine) Alerts() []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Alert, len(e.alerts))
	copy(out, e.alerts)
	return out
}

// AlertCounts returns total and unacknowledged alert counts.
func (e *Engine) AlertCounts() (total, unacked int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.alerts {
		if !e.alerts[i].Acknowledged {
			unacked++
		}
	}
	return len(e.alerts), unacked
}

func (e *Engine) notify(a Alert) {
	if !e.cfg.AutoNotify || e.notifier == nil {
		return
	}
	e.notifier.Notify(a)
}

func alertSummary(a Alert) string {
	return fmt.Sprintf("%s: %s %.2f%s (threshold %.2f)",
		a.DeviceID, a.Metric.String(), a.Value, a.Metric.Unit(), a.Threshold)
}
