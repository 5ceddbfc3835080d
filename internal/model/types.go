package model

import "time"

// MetricKind identifies one category of drive signal.
type MetricKind int

const (
	Temperature MetricKind = iota
	ReadSpeed
	WriteSpeed
	ErrorRate
	PowerConsumption
	Vibration
	Electromagnetic
	CapacityUsage
	SectorHealth

	// MetricCount is the number of metric kinds; kinds index fixed arrays.
	MetricCount
)

var metricNames = [MetricCount]string{
	"Temperature",
	"Read Speed",
	"Write Speed",
	"Error Rate",
	"Power Consumption",
	"Vibration",
	"EM Signature",
	"Capacity Usage",
	"Sector Health",
}

var metricUnits = [MetricCount]string{
	"°C", "MB/s", "MB/s", "%", "W", "Hz", "strength", "%", "%",
}

func (k MetricKind) String() string {
	if k < 0 || k >= MetricCount {
		return "Unknown"
	}
	return metricNames[k]
}

// Unit returns the display unit for the metric.
func (k MetricKind) Unit() string {
	if k < 0 || k >= MetricCount {
		return ""
	}
	return metricUnits[k]
}

// Valid reports whether k names a real metric.
func (k MetricKind) Valid() bool {
	return k >= 0 && k < MetricCount
}

// DeviceRecord holds the monitoring state of one drive. Records are
// allocated once and deactivated, never removed.
type DeviceRecord struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Monitoring   bool                 `json:"monitoring"`
	Healthy      bool                 `json:"healthy"`
	Current      [MetricCount]float64 `json:"current"`
	Mean         [MetricCount]float64 `json:"mean"`
	Max          [MetricCount]float64 `json:"max"`
	Min          [MetricCount]float64 `json:"min"`
	Counts       [MetricCount]uint64  `json:"counts"`
	DataPoints   uint64               `json:"data_points"`
	LastUpdate   time.Time            `json:"last_update"`
	ErrorCount   uint64               `json:"error_count"`
	WarningCount uint64               `json:"warning_count"`
}

// Alert is one threshold breach raised by the monitor.
type Alert struct {
	ID           string     `json:"id"`
	DeviceID     string     `json:"device_id"`
	Metric       MetricKind `json:"metric"`
	Value        float64    `json:"value"`
	Threshold    float64    `json:"threshold"`
	Message      string     `json:"message"`
	Timestamp    time.Time  `json:"timestamp"`
	Critical     bool       `json:"critical"`
	Acknowledged bool       `json:"acknowledged"`
}

// HealthSample is a snapshot of raw usage and error counters for one drive,
// the input to predictive scoring.
type HealthSample struct {
	TotalWrites    uint64    `json:"total_writes"`
	TotalReads     uint64    `json:"total_reads"`
	ErrorCount     uint64    `json:"error_count"`
	RetryCount     uint64    `json:"retry_count"`
	BadSectors     uint64    `json:"bad_sectors"`
	AvgWriteSpeed  float64   `json:"avg_write_speed"`
	AvgReadSpeed   float64   `json:"avg_read_speed"`
	AvgTemperature float64   `json:"avg_temperature"`
	PowerCycles    uint32    `json:"power_cycles"`
	HoursUsed      uint32    `json:"hours_used"`
	Timestamp      time.Time `json:"timestamp"`
}

// HealthPrediction is a derived failure estimate, always recomputed from the
// newest HealthSample and never persisted as source of truth.
type HealthPrediction struct {
	FailureProbability float64 `json:"failure_probability"`
	DaysRemaining      int     `json:"days_remaining"`
	Recommendation     string  `json:"recommendation"`
	Critical           bool    `json:"critical"`
	Warning            bool    `json:"warning"`
}
