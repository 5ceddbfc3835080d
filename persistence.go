package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// PersistenceSink stores health history across restarts.
type PersistenceSink interface {
	Append(deviceID string, sample HealthSample) error
	LoadHistory(deviceID string) ([]HealthSample, error)
}

// fileSink keeps one JSON history file per device under a directory.
type fileSink struct {
	mu  sync.Mutex
	dir string
}

func newFileSink(dir string) (*fileSink, error) {
	if dir == "" {
		return nil, errors.New("empty persistence directory")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create persistence dir: %w", err)
	}
	return &fileSink{dir: dir}, nil
}

func (f *fileSink) path(deviceID string) string {
	return filepath.Join(f.dir, sanitizeFileName(deviceID)+".json")
}

// Append loads the device history file, appends the sample, and writes it
// back, trimming to the in-memory history capacity.
func (f *fileSink) Append(deviceID string, sample HealthSample) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	history, err := f.loadLocked(deviceID)
	if err != nil {
		return err
	}
	history = append(history, sample)
	if len(history) > maxHealthSamples {
		history = history[len(history)-maxHealthSamples:]
	}

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := os.WriteFile(f.path(deviceID), data, 0644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// LoadHistory reads the stored history for a device. A missing file is not
// an error, it just means no history yet.
func (f *fileSink) LoadHistory(deviceID string) ([]HealthSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadLocked(deviceID)
}

func (f *fileSink) loadLocked(deviceID string) ([]HealthSample, error) {
	data, err := os.ReadFile(f.path(deviceID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}
	var history []HealthSample
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	return history, nil
}

// sanitizeFileName maps a mount path to a flat file name: /mnt/usb0 -> mnt_usb0.
func sanitizeFileName(deviceID string) string {
	name := strings.Trim(deviceID, "/")
	if name == "" {
		name = "root"
	}
	replacer := strings.NewReplacer("/", "_", "\\", "_", " ", "_", ":", "_")
	return replacer.Replace(name)
}
