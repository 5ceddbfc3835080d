package main

// Severity classifies a threshold comparison.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "none"
	}
}

// baseThresholds holds the static per-metric alert baseline. Warning and
// critical levels are fractions of these values (config multipliers).
var baseThresholds = [MetricCount]float64{
	MetricTemperature:      60.0, // °C
	MetricReadSpeed:        5.0,  // MB/s
	MetricWriteSpeed:       5.0,  // MB/s
	MetricErrorRate:        0.5,  // %
	MetricPowerConsumption: 5.0,  // W
	MetricVibration:        3.0,  // Hz
	MetricElectromagnetic:  0.8,  // normalized
	MetricCapacityUsage:    90.0, // %
	MetricSectorHealth:     80.0, // %
}

// evaluateMetric maps an observed value to a severity. Pure and
// deterministic: same inputs always yield the same severity.
func evaluateMetric(kind MetricKind, value, warnMult, critMult float64) Severity {
	if !kind.Valid() {
		return SeverityNone
	}
	return severityAgainst(baseThresholds[kind], value, warnMult, critMult)
}

// severityAgainst compares a value to warning/critical fractions of a base
// threshold. Critical wins when both levels are crossed.
func severityAgainst(base, value, warnMult, critMult float64) Severity {
	switch {
	case value >= base*critMult:
		return SeverityCritical
	case value >= base*warnMult:
		return SeverityWarning
	default:
		return SeverityNone
	}
}
