package main

import (
	"errors"
	"fmt"
	"testing"
)

func TestRaiseAppendsInOrder(t *testing.T) {
	e := newTestEngine(newFakeSource())

	first, err := e.Raise("/mnt/usb0", MetricTemperature, 65, 54, "Critical threshold exceeded", true)
	if err != nil {
		t.Fatalf("Raise: %v", err)
	}
	second, err := e.Raise("/mnt/usb0", MetricErrorRate, 0.42, 0.4, "Warning threshold exceeded", false)
	if err != nil {
		t.Fatalf("Raise: %v", err)
	}
	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("alert IDs must be unique and non-empty: %q, %q", first.ID, second.ID)
	}

	alerts := e.Alerts()
	if len(alerts) != 2 {
		t.Fatalf("len(alerts) = %d, want 2", len(alerts))
	}
	if alerts[0].ID != first.ID || alerts[1].ID != second.ID {
		t.Fatal("alerts not in insertion order")
	}
	if !alerts[0].Critical || alerts[1].Critical {
		t.Fatal("critical flags lost")
	}
}

func TestRaiseAllowsDuplicates(t *testing.T) {
	e := newTestEngine(newFakeSource())
	for i := 0; i < 3; i++ {
		if _, err := e.Raise("/mnt/usb0", MetricTemperature, 65, 54, "Critical threshold exceeded", true); err != nil {
			t.Fatalf("Raise #%d: %v", i, err)
		}
	}
	if got, _ := e.AlertCounts(); got != 3 {
		t.Fatalf("total = %d, want 3 (duplicates are not suppressed)", got)
	}
}

func TestAlertLogFull(t *testing.T) {
	e := newTestEngine(newFakeSource())

	for i := 0; i < maxAlerts; i++ {
		if _, err := e.Raise(fmt.Sprintf("/mnt/usb%d", i%4), MetricTemperature, 65, 54, "Critical threshold exceeded", true); err != nil {
			t.Fatalf("Raise #%d: %v", i, err)
		}
	}

	before := e.Alerts()
	if _, err := e.Raise("/mnt/usb0", MetricTemperature, 70, 54, "Critical threshold exceeded", true); !errors.Is(err, ErrAlertLogFull) {
		t.Fatalf("Raise on full log = %v, want ErrAlertLogFull", err)
	}

	// Rejection must leave the log untouched: same length, same entries.
	after := e.Alerts()
	if len(after) != maxAlerts {
		t.Fatalf("len(alerts) = %d after rejection, want %d", len(after), maxAlerts)
	}
	if after[0].ID != before[0].ID || after[len(after)-1].ID != before[len(before)-1].ID {
		t.Fatal("existing alerts disturbed by rejected Raise")
	}
}

func TestClearAlertsFreesCapacity(t *testing.T) {
	e := newTestEngine(newFakeSource())

	for i := 0; i < maxAlerts; i++ {
		if _, err := e.Raise("/mnt/usb0", MetricTemperature, 65, 54, "Critical threshold exceeded", true); err != nil {
			t.Fatal(err)
		}
	}
	e.ClearAlerts()

	if total, _ := e.AlertCounts(); total != 0 {
		t.Fatalf("total = %d after clear, want 0", total)
	}
	if _, err := e.Raise("/mnt/usb0", MetricTemperature, 65, 54, "Critical threshold exceeded", true); err != nil {
		t.Fatalf("Raise after clear: %v", err)
	}
}

func TestAcknowledge(t *testing.T) {
	e := newTestEngine(newFakeSource())

	a, err := e.Raise("/mnt/usb0", MetricTemperature, 65, 54, "Critical threshold exceeded", true)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Raise("/mnt/usb0", MetricErrorRate, 0.42, 0.4, "Warning threshold exceeded", false); err != nil {
		t.Fatal(err)
	}

	if err := e.Acknowledge(a.ID); err != nil {
		t.Fatalf("Acknowledge: %v", err)
	}
	total, unacked := e.AlertCounts()
	if total != 2 || unacked != 1 {
		t.Fatalf("counts = (%d, %d), want (2, 1)", total, unacked)
	}

	if err := e.Acknowledge("no-such-id"); !errors.Is(err, ErrAlertNotFound) {
		t.Fatalf("Acknowledge unknown = %v, want ErrAlertNotFound", err)
	}
}

func TestRaiseNotifiesWhenEnabled(t *testing.T) {
	src := newFakeSource()
	cfg := defaultMonitorConfig()
	cfg.AutoNotify = true
	cfg.PersistEnabled = false
	n := &captureNotifier{}
	e := NewEngine(cfg, EngineOptions{Source: src, Health: src, Notifier: n})

	if _, err := e.Raise("/mnt/usb0", MetricTemperature, 65, 54, "Critical threshold exceeded", true); err != nil {
		t.Fatal(err)
	}
	if len(n.alerts) != 1 {
		t.Fatalf("notifier received %d alerts, want 1", len(n.alerts))
	}

	// With auto-notify off the notifier stays quiet.
	e.cfg.AutoNotify = false
	if _, err := e.Raise("/mnt/usb0", MetricTemperature, 66, 54, "Critical threshold exceeded", true); err != nil {
		t.Fatal(err)
	}
	if len(n.alerts) != 1 {
		t.Fatalf("notifier received %d alerts with auto-notify off, want 1", len(n.alerts))
	}
}

type captureNotifier struct {
	alerts []Alert
}

func (c *captureNotifier) Notify(a Alert) {
	c.alerts = append(c.alerts, a)
}
