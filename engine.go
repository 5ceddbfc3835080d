package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

const (
	defaultPollInterval = 1 * time.Second
	defaultShutdownWait = 5 * time.Second

	// maxHealthSamples bounds the per-device predictive history; the oldest
	// sample is evicted on overflow.
	maxHealthSamples = 1000
)

// MonitorConfig is the engine configuration, fixed for the lifetime of an
// engine instance.
type MonitorConfig struct {
	PollInterval       time.Duration
	Enabled            [MetricCount]bool
	WarningMultiplier  float64
	CriticalMultiplier float64
	AutoNotify         bool
	PersistEnabled     bool
	MetricsLogPath     string
	ShutdownWait       time.Duration
}

// defaultMonitorConfig mirrors the historical defaults: vibration and EM
// sampling off, everything else on, warn at 80% and critical at 90% of each
// metric's base threshold.
func defaultMonitorConfig() MonitorConfig {
	cfg := MonitorConfig{
		PollInterval:       defaultPollInterval,
		WarningMultiplier:  0.8,
		CriticalMultiplier: 0.9,
		AutoNotify:         true,
		ShutdownWait:       defaultShutdownWait,
	}
	for k := MetricKind(0); k < MetricCount; k++ {
		cfg.Enabled[k] = true
	}
	cfg.Enabled[MetricVibration] = false
	cfg.Enabled[MetricElectromagnetic] = false
	return cfg
}

func sanitizeMonitorConfig(cfg MonitorConfig) MonitorConfig {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.WarningMultiplier <= 0 {
		cfg.WarningMultiplier = 0.8
	}
	if cfg.CriticalMultiplier <= 0 {
		cfg.CriticalMultiplier = 0.9
	}
	if cfg.ShutdownWait <= 0 {
		cfg.ShutdownWait = defaultShutdownWait
	}
	return cfg
}

// EngineOptions carries the engine's external collaborators. Any of them may
// be nil: a nil source means no metric is sampled, a nil sink disables
// persistence, a nil notifier silences alerts.
type EngineOptions struct {
	Source   MetricSource
	Health   HealthSource
	Sink     PersistenceSink
	Notifier Notifier
	Weights  *ModelWeights
}

// Engine owns the device registry, the alert log and the poll loop. All
// public operations serialize against the loop through one mutex. Multiple
// independent engines can coexist (one per test, typically).
type Engine struct {
	cfg      MonitorConfig
	source   MetricSource
	health   HealthSource
	sink     PersistenceSink
	notifier Notifier
	weights  ModelWeights

	mu         sync.Mutex
	devices    []*DeviceRecord
	alerts     []Alert
	histories  map[string][]HealthSample
	thresholds [MetricCount]float64
	running    bool
	cancel     context.CancelFunc
	done       chan struct{}
}

// NewEngine builds a stopped engine. Start launches the poll loop.
func NewEngine(cfg MonitorConfig, opts EngineOptions) *Engine {
	e := &Engine{
		cfg:       sanitizeMonitorConfig(cfg),
		source:    opts.Source,
		health:    opts.Health,
		sink:      opts.Sink,
		notifier:  opts.Notifier,
		devices:   make([]*DeviceRecord, 0, maxDevices),
		alerts:    make([]Alert, 0, maxAlerts),
		histories: make(map[string][]HealthSample),
	}
	if opts.Weights != nil {
		e.weights = *opts.Weights
	} else {
		e.weights = defaultModelWeights()
	}
	e.thresholds = baseThresholds
	return e
}

// Start launches the poll loop. The registry and alert log are left as they
// are, so metrics and alerts survive stop/start cycles.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	e.cancel = cancel
	e.done = done
	e.running = true
	e.mu.Unlock()

	go e.run(ctx, done)
	slog.Info("Monitor started", "interval", e.cfg.PollInterval.String())
	return nil
}

// Stop signals the loop and waits for it to exit, bounded by ShutdownWait.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return ErrNotRunning
	}
	cancel := e.cancel
	done := e.done
	e.mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-time.After(e.cfg.ShutdownWait):
		return ErrShutdownTimeout
	}

	e.mu.Lock()
	e.running = false
	e.cancel = nil
	e.done = nil
	e.mu.Unlock()

	slog.Info("Monitor stopped")
	return nil
}

// Running reports whether the poll loop is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// SetThreshold overrides the base alert threshold for one metric.
func (e *Engine) SetThreshold(kind MetricKind, value float64) error {
	if !kind.Valid() || value <= 0 {
		return fmt.Errorf("threshold for %s: %w", kind, ErrInvalidThreshold)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.thresholds[kind] = value
	return nil
}

// Threshold returns the active base threshold for one metric.
func (e *Engine) Threshold(kind MetricKind) (float64, error) {
	if !kind.Valid() {
		return 0, ErrInvalidThreshold
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.thresholds[kind], nil
}

func (e *Engine) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(e.cfg.PollInterval)
	defer ticker.Stop()

	slog.Info("Monitor loop running")
	for {
		select {
		case <-ctx.Done():
			slog.Info("Monitor loop exiting")
			return
		case <-ticker.C:
			e.tick(ctx)
		}
	}
}

// tick visits every active device once. Cancellation is honored between
// devices only, so in-flight per-device work always completes.
func (e *Engine) tick(ctx context.Context) {
	for _, id := range e.activeDeviceIDs() {
		if ctx.Err() != nil {
			return
		}
		e.pollDevice(id)
	}
}

// pollDevice samples every enabled metric for one device, updates running
// statistics, evaluates thresholds and raises alerts. A failed sample is
// logged and skipped; it never aborts the rest of the tick.
func (e *Engine) pollDevice(deviceID string) {
	var values [MetricCount]float64
	var sampled [MetricCount]bool

	if e.source != nil {
		for k := MetricKind(0); k < MetricCount; k++ {
			if !e.cfg.Enabled[k] {
				continue
			}
			v, ok := e.source.Sample(deviceID, k)
			if !ok {
				slog.Warn("Metric sample failed", "device", deviceID, "metric", k.String())
				continue
			}
			values[k] = v
			sampled[k] = true
		}
	}

	var sample *HealthSample
	if e.health != nil {
		s, err := e.health.Collect(deviceID)
		if err != nil {
			slog.Warn("Health sample failed", "device", deviceID, "err", err)
		} else {
			if s.Timestamp.IsZero() {
				s.Timestamp = time.Now()
			}
			sample = &s
		}
	}

	var raised []Alert
	e.mu.Lock()
	d := e.findDevice(deviceID)
	if d == nil || !d.Monitoring {
		e.mu.Unlock()
		return
	}

	healthy := true
	anySampled := false
	for k := MetricKind(0); k < MetricCount; k++ {
		if !sampled[k] {
			continue
		}
		anySampled = true
		applySample(d, k, values[k])

		sev := severityAgainst(e.thresholds[k], values[k], e.cfg.WarningMultiplier, e.cfg.CriticalMultiplier)
		switch sev {
		case SeverityCritical:
			healthy = false
			d.ErrorCount++
			a, err := e.raiseLocked(deviceID, k, values[k], e.thresholds[k]*e.cfg.CriticalMultiplier,
				"Critical threshold exceeded", true)
			if err != nil {
				slog.Warn("Alert dropped", "device", deviceID, "metric", k.String(), "err", err)
			} else {
				raised = append(raised, a)
			}
		case SeverityWarning:
			d.WarningCount++
			a, err := e.raiseLocked(deviceID, k, values[k], e.thresholds[k]*e.cfg.WarningMultiplier,
				"Warning threshold exceeded", false)
			if err != nil {
				slog.Warn("Alert dropped", "device", deviceID, "metric", k.String(), "err", err)
			} else {
				raised = append(raised, a)
			}
		}
	}
	// A tick with no successful samples carries no evidence either way; the
	// device keeps its previous health state until samples flow again.
	if anySampled {
		d.Healthy = healthy
	}
	d.DataPoints++
	d.LastUpdate = time.Now()

	if sample != nil {
		e.appendHistoryLocked(deviceID, *sample)
	}
	record := *d
	e.mu.Unlock()

	if sample != nil && e.sink != nil && e.cfg.PersistEnabled {
		if err := e.sink.Append(deviceID, *sample); err != nil {
			slog.Warn("Health sample persist failed", "device", deviceID, "err", err)
		}
	}
	if e.cfg.MetricsLogPath != "" {
		logMetricsLine(e.cfg.MetricsLogPath, record)
	}
	for _, a := range raised {
		e.notify(a)
		slog.Info("Alert raised", "alert", alertSummary(a), "critical", a.Critical)
	}
}

// appendHistoryLocked must be called with e.mu held.
func (e *Engine) appendHistoryLocked(deviceID string, s HealthSample) {
	h := append(e.histories[deviceID], s)
	if len(h) > maxHealthSamples {
		h = h[len(h)-maxHealthSamples:]
	}
	e.histories[deviceID] = h
}

// logMetricsLine appends one CSV line of current metric values per device.
func logMetricsLine(path string, d DeviceRecord) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		slog.Warn("Metrics log open failed", "path", path, "err", err)
		return
	}
	defer f.Close()

	line := fmt.Sprintf("%d,%s", d.LastUpdate.Unix(), d.ID)
	for k := MetricKind(0); k < MetricCount; k++ {
		line += fmt.Sprintf(",%.2f", d.Current[k])
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		slog.Warn("Metrics log write failed", "path", path, "err", err)
	}
}
