package main

import (
	"encoding/json"
	"math"
	"os"
	"strings"
)

const (
	criticalFailureProbability = 0.8
	warningFailureProbability  = 0.6

	// nominalSpeedMBs is the baseline transfer speed a healthy stick is
	// expected to sustain; averages below half of it count as degradation.
	nominalSpeedMBs = 20.0
)

// ModelWeights parameterizes the 8-16-1 feed-forward scorer. The weights are
// a configuration artifact loaded at startup; the engine never adjusts them.
// The built-in set is an arbitrary placeholder and its probability output is
// not calibrated against real failure data.
type ModelWeights struct {
	InputHidden [8][16]float64 `json:"input_hidden"`
	HiddenBias  [16]float64    `json:"hidden_bias"`
	HiddenOut   [16]float64    `json:"hidden_out"`
	OutBias     float64        `json:"out_bias"`
}

// defaultModelWeights fills the placeholder set from a fixed linear
// congruential sequence so every engine ships the same weights.
func defaultModelWeights() ModelWeights {
	var w ModelWeights
	seed := uint64(0x2545F4914F6CDD1D)
	next := func() float64 {
		seed = seed*6364136223846793005 + 1442695040888963407
		return float64(seed>>11)/float64(1<<53)*2 - 1
	}
	for i := 0; i < 8; i++ {
		for j := 0; j < 16; j++ {
			w.InputHidden[i][j] = next()
		}
	}
	for j := 0; j < 16; j++ {
		w.HiddenBias[j] = next()
		w.HiddenOut[j] = next()
	}
	w.OutBias = next()
	return w
}

// loadModelWeights reads an externally supplied weight set.
func loadModelWeights(path string) (ModelWeights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ModelWeights{}, err
	}
	var w ModelWeights
	if err := json.Unmarshal(data, &w); err != nil {
		return ModelWeights{}, err
	}
	return w, nil
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// modelInputs normalizes the eight scored sample fields into fixed ranges.
func modelInputs(s HealthSample) [8]float64 {
	return [8]float64{
		float64(s.ErrorCount) / 1000.0,
		float64(s.RetryCount) / 1000.0,
		float64(s.BadSectors) / 100.0,
		s.AvgWriteSpeed / 100.0,
		s.AvgReadSpeed / 100.0,
		float64(s.PowerCycles) / 1000.0,
		float64(s.HoursUsed) / 10000.0,
		s.AvgTemperature / 100.0,
	}
}

// Score runs the sample through the two sigmoid layers; the output in (0,1)
// is read as a failure probability.
func (w *ModelWeights) Score(s HealthSample) float64 {
	in := modelInputs(s)

	var hidden [16]float64
	for j := 0; j < 16; j++ {
		sum := w.HiddenBias[j]
		for i := 0; i < 8; i++ {
			sum += in[i] * w.InputHidden[i][j]
		}
		hidden[j] = sigmoid(sum)
	}

	out := w.OutBias
	for j := 0; j < 16; j++ {
		out += hidden[j] * w.HiddenOut[j]
	}
	return sigmoid(out)
}

// heuristicScore rates a sample from 1.0 (healthy) down to 0.0: error and
// retry ratios, bad sectors, degraded transfer speed and heavy wear all
// subtract from the score.
func heuristicScore(s HealthSample) float64 {
	score := 1.0

	if s.TotalWrites > 0 {
		score -= float64(s.ErrorCount) / float64(s.TotalWrites) * 0.3
		score -= float64(s.RetryCount) / float64(s.TotalWrites) * 0.2
	}
	if s.BadSectors > 0 {
		score -= 0.4
	}
	if s.AvgWriteSpeed > 0 && s.AvgReadSpeed > 0 {
		if (s.AvgWriteSpeed+s.AvgReadSpeed)/(2.0*nominalSpeedMBs) < 0.5 {
			score -= 0.2
		}
	}
	if s.HoursUsed > 10000 {
		score -= 0.1
	}

	return math.Min(1.0, math.Max(0.0, score))
}

// estimateDaysRemaining buckets the heuristic score into a coarse horizon.
func estimateDaysRemaining(s HealthSample) int {
	switch score := heuristicScore(s); {
	case score > 0.8:
		return 730
	case score > 0.6:
		return 365
	case score > 0.4:
		return 182
	case score > 0.2:
		return 91
	default:
		return 30
	}
}

// noDataPrediction is the conservative default when a device has no recorded
// health history. Missing history is not an error.
func noDataPrediction() HealthPrediction {
	return HealthPrediction{
		FailureProbability: 0.1,
		DaysRemaining:      365,
		Recommendation:     "No health history recorded. Drive appears healthy.",
	}
}

func predictionFrom(s HealthSample, w *ModelWeights) HealthPrediction {
	p := HealthPrediction{
		FailureProbability: w.Score(s),
		DaysRemaining:      estimateDaysRemaining(s),
	}
	p.Critical = p.FailureProbability >= criticalFailureProbability
	p.Warning = p.FailureProbability >= warningFailureProbability
	p.Recommendation = recommendationFor(p)
	return p
}

func recommendationFor(p HealthPrediction) string {
	switch {
	case p.Critical:
		return "CRITICAL: Drive failure imminent. Back up data immediately and replace the drive."
	case p.Warning:
		return "WARNING: Drive showing signs of failure. Consider backing up data soon."
	case p.FailureProbability > 0.3:
		return "Drive is aging but still functional. Monitor for further degradation."
	default:
		return "Drive is healthy and operating normally."
	}
}

// Predict recomputes a failure estimate from the device's newest health
// sample. Predictions are derived values and are never stored.
func (e *Engine) Predict(deviceID string) (HealthPrediction, error) {
	if strings.TrimSpace(deviceID) == "" {
		return HealthPrediction{}, ErrInvalidDevice
	}

	e.mu.Lock()
	d := e.findDevice(deviceID)
	var last *HealthSample
	if h := e.histories[deviceID]; len(h) > 0 {
		s := h[len(h)-1]
		last = &s
	}
	weights := e.weights
	e.mu.Unlock()

	if d == nil {
		return HealthPrediction{}, ErrUnknownDevice
	}
	if last == nil {
		return noDataPrediction(), nil
	}
	return predictionFrom(*last, &weights), nil
}

// History returns a copy of the device's recorded health samples, oldest
// first.
func (e *Engine) History(deviceID string) []HealthSample {
	e.mu.Lock()
	defer e.mu.Unlock()

	h := e.histories[deviceID]
	out := make([]HealthSample, len(h))
	copy(out, h)
	return out
}

// RecordHealthSample appends a sample to the device history outside the poll
// loop, for collaborators that acquire counters on their own schedule.
func (e *Engine) RecordHealthSample(deviceID string, s HealthSample) error {
	if strings.TrimSpace(deviceID) == "" {
		return ErrInvalidDevice
	}
	e.mu.Lock()
	if e.findDevice(deviceID) == nil {
		e.mu.Unlock()
		return ErrUnknownDevice
	}
	e.appendHistoryLocked(deviceID, s)
	e.mu.Unlock()

	if e.sink != nil && e.cfg.PersistEnabled {
		if err := e.sink.Append(deviceID, s); err != nil {
			return err
		}
	}
	return nil
}
