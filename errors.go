package main

import "errors"

// Engine errors surfaced to callers. Per-metric sampling failures are
// recovered inside the poll loop and never reach this set.
var (
	ErrInvalidDevice    = errors.New("invalid device identifier")
	ErrInvalidThreshold = errors.New("invalid metric threshold")
	ErrUnknownDevice    = errors.New("device not registered")
	ErrRegistryFull     = errors.New("device registry full")
	ErrAlertLogFull     = errors.New("alert log full")
	ErrAlertNotFound    = errors.New("alert not found")
	ErrAlreadyRunning   = errors.New("monitor already running")
	ErrNotRunning       = errors.New("monitor not running")
	ErrShutdownTimeout  = errors.New("monitor loop did not stop in time")
)
