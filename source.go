package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"usbmon/internal/cmdexec"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
)

// MetricSource supplies sampled metric values. A false ok means the metric
// could not be acquired and is skipped for that tick.
type MetricSource interface {
	Sample(deviceID string, kind MetricKind) (float64, bool)
}

// HealthSource supplies raw counter snapshots for predictive scoring.
type HealthSource interface {
	Collect(deviceID string) (HealthSample, error)
}

const smartCacheTTL = 30 * time.Second

// smartAttrs is the parsed subset of `smartctl -A` output the monitor needs.
type smartAttrs struct {
	temperature  float64
	reallocated  uint64
	spinRetries  uint64
	crcErrors    uint64
	powerCycles  uint64
	powerOnHours uint64
	fetched      time.Time
	ok           bool
}

type ioPoint struct {
	readBytes  uint64
	writeBytes uint64
	readCount  uint64
	writeCount uint64
	at         time.Time
}

// driveSource acquires metrics for mounted drives through gopsutil and
// smartctl. Device identifiers are mount paths.
type driveSource struct {
	mu         sync.Mutex
	smart      map[string]smartAttrs // keyed by block device name
	lastIO     map[string]ioPoint
	readMBs    map[string]float64
	writeMBs   map[string]float64
	devByMount map[string]string
}

func newDriveSource() *driveSource {
	return &driveSource{
		smart:      make(map[string]smartAttrs),
		lastIO:     make(map[string]ioPoint),
		readMBs:    make(map[string]float64),
		writeMBs:   make(map[string]float64),
		devByMount: make(map[string]string),
	}
}

// Sample acquires one metric for the drive mounted at deviceID. Vibration,
// EM and power draw have no acquisition path on commodity hardware and
// always report not-ok.
func (s *driveSource) Sample(deviceID string, kind MetricKind) (float64, bool) {
	switch kind {
	case MetricCapacityUsage:
		u, err := disk.Usage(deviceID)
		if err != nil {
			return 0, false
		}
		return u.UsedPercent, true

	case MetricReadSpeed:
		r, _, ok := s.transferSpeeds(deviceID)
		return r, ok

	case MetricWriteSpeed:
		_, w, ok := s.transferSpeeds(deviceID)
		return w, ok

	case MetricTemperature:
		return s.temperature(deviceID)

	case MetricErrorRate:
		return s.errorRate(deviceID)

	case MetricSectorHealth:
		attrs, ok := s.smartFor(deviceID)
		if !ok {
			return 0, false
		}
		health := 100.0 - float64(attrs.reallocated)
		if health < 0 {
			health = 0
		}
		return health, true

	default:
		return 0, false
	}
}

// Collect builds a full health sample from I/O counters and SMART data.
func (s *driveSource) Collect(deviceID string) (HealthSample, error) {
	dev, err := s.blockDevice(deviceID)
	if err != nil {
		return HealthSample{}, err
	}

	counters, err := disk.IOCounters(dev)
	if err != nil {
		return HealthSample{}, fmt.Errorf("io counters for %s: %w", dev, err)
	}
	io, found := counters[dev]
	if !found {
		return HealthSample{}, fmt.Errorf("no io counters for %s", dev)
	}

	attrs, _ := s.smartFor(deviceID)
	readMBs, writeMBs, _ := s.transferSpeeds(deviceID)

	return HealthSample{
		TotalWrites:    io.WriteCount,
		TotalReads:     io.ReadCount,
		ErrorCount:     attrs.crcErrors,
		RetryCount:     attrs.spinRetries,
		BadSectors:     attrs.reallocated,
		AvgWriteSpeed:  writeMBs,
		AvgReadSpeed:   readMBs,
		AvgTemperature: attrs.temperature,
		PowerCycles:    uint32(attrs.powerCycles),
		HoursUsed:      uint32(attrs.powerOnHours),
		Timestamp:      time.Now(),
	}, nil
}

// transferSpeeds derives MB/s from I/O counter deltas between calls. The
// first call for a device has no baseline and reports not-ok.
func (s *driveSource) transferSpeeds(deviceID string) (readMBs, writeMBs float64, ok bool) {
	dev, err := s.blockDevice(deviceID)
	if err != nil {
		return 0, 0, false
	}
	counters, err := disk.IOCounters(dev)
	if err != nil {
		return 0, 0, false
	}
	io, found := counters[dev]
	if !found {
		return 0, 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	prev, havePrev := s.lastIO[dev]
	point := ioPoint{
		readBytes:  io.ReadBytes,
		writeBytes: io.WriteBytes,
		readCount:  io.ReadCount,
		writeCount: io.WriteCount,
		at:         now,
	}

	if !havePrev {
		s.lastIO[dev] = point
		return 0, 0, false
	}

	elapsed := now.Sub(prev.at).Seconds()
	if elapsed < 0.5 {
		// Too soon for a stable delta, reuse the last computed speeds.
		return s.readMBs[dev], s.writeMBs[dev], true
	}

	readMBs = float64(io.ReadBytes-prev.readBytes) / elapsed / 1024 / 1024
	writeMBs = float64(io.WriteBytes-prev.writeBytes) / elapsed / 1024 / 1024
	s.lastIO[dev] = point
	s.readMBs[dev] = readMBs
	s.writeMBs[dev] = writeMBs
	return readMBs, writeMBs, true
}

func (s *driveSource) temperature(deviceID string) (float64, bool) {
	if attrs, ok := s.smartFor(deviceID); ok && attrs.temperature > 0 {
		return attrs.temperature, true
	}

	// Fall back to host sensors when SMART exposes no temperature.
	dev, err := s.blockDevice(deviceID)
	if err != nil {
		return 0, false
	}
	sensors, err := host.SensorsTemperatures()
	if err != nil {
		return 0, false
	}
	for _, t := range sensors {
		if strings.Contains(t.SensorKey, dev) && t.Temperature > 0 {
			return t.Temperature, true
		}
	}
	return 0, false
}

// errorRate reports interface CRC errors as a percentage of total I/O
// operations.
func (s *driveSource) errorRate(deviceID string) (float64, bool) {
	dev, err := s.blockDevice(deviceID)
	if err != nil {
		return 0, false
	}
	attrs, ok := s.smartFor(deviceID)
	if !ok {
		return 0, false
	}
	counters, err := disk.IOCounters(dev)
	if err != nil {
		return 0, false
	}
	io, found := counters[dev]
	if !found {
		return 0, false
	}
	ops := io.ReadCount + io.WriteCount
	if ops == 0 {
		return 0, true
	}
	return float64(attrs.crcErrors) / float64(ops) * 100.0, true
}

// smartFor returns cached SMART attributes for the drive backing a mount,
// refreshing when the cache entry is older than smartCacheTTL.
func (s *driveSource) smartFor(deviceID string) (smartAttrs, bool) {
	dev, err := s.blockDevice(deviceID)
	if err != nil {
		return smartAttrs{}, false
	}

	s.mu.Lock()
	cached, have := s.smart[dev]
	s.mu.Unlock()
	if have && time.Since(cached.fetched) < smartCacheTTL {
		return cached, cached.ok
	}

	attrs := readSmartAttrs(dev)
	attrs.fetched = time.Now()

	s.mu.Lock()
	s.smart[dev] = attrs
	s.mu.Unlock()
	return attrs, attrs.ok
}

// blockDevice resolves a mount path to its parent block device name.
func (s *driveSource) blockDevice(deviceID string) (string, error) {
	s.mu.Lock()
	if dev, ok := s.devByMount[deviceID]; ok {
		s.mu.Unlock()
		return dev, nil
	}
	s.mu.Unlock()

	parts, err := disk.Partitions(false)
	if err != nil {
		return "", fmt.Errorf("list partitions: %w", err)
	}
	for _, p := range parts {
		if p.Mountpoint != deviceID {
			continue
		}
		dev := parentDisk(strings.TrimPrefix(p.Device, "/dev/"))
		s.mu.Lock()
		s.devByMount[deviceID] = dev
		s.mu.Unlock()
		return dev, nil
	}
	return "", fmt.Errorf("no partition mounted at %s", deviceID)
}

// parentDisk strips the partition suffix: sdb1 -> sdb, nvme0n1p2 -> nvme0n1,
// mmcblk0p1 -> mmcblk0. Devices that number partitions with a pN suffix keep
// the digit preceding the p.
func parentDisk(name string) string {
	if i := strings.LastIndexByte(name, 'p'); i > 0 && isDigit(name[i-1]) && allDigits(name[i+1:]) {
		return name[:i]
	}
	return strings.TrimRight(name, "0123456789")
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

// readSmartAttrs shells out to smartctl and parses the attribute table.
func readSmartAttrs(dev string) smartAttrs {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	out, err := cmdexec.Output(ctx, "smartctl", "-A", "/dev/"+dev)
	if err != nil {
		return smartAttrs{}
	}

	attrs := smartAttrs{ok: true}
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 10 {
			continue
		}
		raw, convErr := strconv.ParseUint(fields[9], 10, 64)
		if convErr != nil {
			continue
		}
		switch {
		case strings.Contains(line, "Temperature_Celsius"), strings.Contains(line, "Temperature_Internal"):
			attrs.temperature = float64(raw)
		case strings.Contains(line, "Reallocated_Sector_Ct"):
			attrs.reallocated = raw
		case strings.Contains(line, "Spin_Retry_Count"), strings.Contains(line, "Calibration_Retry_Count"):
			attrs.spinRetries += raw
		case strings.Contains(line, "UDMA_CRC_Error_Count"), strings.Contains(line, "CRC_Error_Count"):
			attrs.crcErrors = raw
		case strings.Contains(line, "Power_Cycle_Count"):
			attrs.powerCycles = raw
		case strings.Contains(line, "Power_On_Hours"):
			attrs.powerOnHours = raw
		}
	}
	return attrs
}

// listRemovableMounts lists candidate mount points for the /devices command.
func listRemovableMounts() []string {
	parts, err := disk.Partitions(false)
	if err != nil {
		return nil
	}
	var mounts []string
	for _, p := range parts {
		mounts = append(mounts, p.Mountpoint)
	}
	return mounts
}
