package main

import (
	"path/filepath"
	"testing"
	"time"
)

func TestFileSinkRoundTrip(t *testing.T) {
	sink, err := newFileSink(t.TempDir())
	if err != nil {
		t.Fatalf("newFileSink: %v", err)
	}

	s1 := healthySample()
	s2 := healthySample()
	s2.BadSectors = 3

	if err := sink.Append("/mnt/usb0", s1); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := sink.Append("/mnt/usb0", s2); err != nil {
		t.Fatalf("Append: %v", err)
	}

	history, err := sink.LoadHistory("/mnt/usb0")
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(history))
	}
	if history[0].BadSectors != 0 || history[1].BadSectors != 3 {
		t.Fatal("samples out of order or corrupted")
	}
}

func TestFileSinkMissingHistory(t *testing.T) {
	sink, err := newFileSink(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	history, err := sink.LoadHistory("/mnt/never-written")
	if err != nil {
		t.Fatalf("LoadHistory on missing file: %v", err)
	}
	if history != nil {
		t.Fatalf("expected nil history, got %d samples", len(history))
	}
}

func TestFileSinkSeparatesDevices(t *testing.T) {
	sink, err := newFileSink(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := sink.Append("/mnt/usb0", healthySample()); err != nil {
		t.Fatal(err)
	}
	if err := sink.Append("/mnt/usb1", healthySample()); err != nil {
		t.Fatal(err)
	}

	h0, _ := sink.LoadHistory("/mnt/usb0")
	h1, _ := sink.LoadHistory("/mnt/usb1")
	if len(h0) != 1 || len(h1) != 1 {
		t.Fatalf("histories mixed: usb0=%d usb1=%d", len(h0), len(h1))
	}
}

func TestFileSinkEmptyDir(t *testing.T) {
	if _, err := newFileSink(""); err == nil {
		t.Fatal("expected error for empty directory")
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/mnt/usb0", "mnt_usb0"},
		{"/media/user/My Stick", "media_user_My_Stick"},
		{"usb1", "usb1"},
		{"/", "root"},
	}
	for _, tc := range tests {
		if got := sanitizeFileName(tc.in); got != tc.want {
			t.Errorf("sanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEnginePersistsAndReloadsHistory(t *testing.T) {
	dir := t.TempDir()
	sink, err := newFileSink(dir)
	if err != nil {
		t.Fatal(err)
	}

	src := newFakeSource()
	cfg := defaultMonitorConfig()
	cfg.PollInterval = 10 * time.Millisecond
	cfg.AutoNotify = false
	cfg.PersistEnabled = true
	e := NewEngine(cfg, EngineOptions{Source: src, Health: src, Sink: sink})

	if err := e.StartMonitoring("/mnt/usb0"); err != nil {
		t.Fatal(err)
	}
	if err := e.RecordHealthSample("/mnt/usb0", healthySample()); err != nil {
		t.Fatal(err)
	}

	// A second engine pointed at the same sink picks up the history when the
	// device registers.
	e2 := NewEngine(cfg, EngineOptions{Source: src, Health: src, Sink: sink})
	if err := e2.StartMonitoring("/mnt/usb0"); err != nil {
		t.Fatal(err)
	}
	if got := len(e2.History("/mnt/usb0")); got != 1 {
		t.Fatalf("reloaded history length = %d, want 1", got)
	}

	if len(mustGlob(t, filepath.Join(dir, "*.json"))) != 1 {
		t.Fatal("expected exactly one history file on disk")
	}
}

func mustGlob(t *testing.T, pattern string) []string {
	t.Helper()
	matches, err := filepath.Glob(pattern)
	if err != nil {
		t.Fatal(err)
	}
	return matches
}
