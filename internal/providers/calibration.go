package providers

import "sync"

// calibrationAlpha weights recent observations in the moving average.
const calibrationAlpha = 0.3

// CalibrationSample is a snapshot of what has been learned about one
// provider's token counting relative to our estimates.
type CalibrationSample struct {
	// TokenRatio scales raw estimates; >1 means the provider bills more
	// tokens than the character heuristic predicts.
	TokenRatio float64

	// SampleCount is how many observations fed the ratio.
	SampleCount int

	// CostPerToken is the most recently observed effective rate.
	CostPerToken float64
}

// Calibration learns per-provider token ratios from reported actuals using
// an exponential moving average. In-memory only; restarting the process
// starts the learning over.
type Calibration struct {
	mu      sync.RWMutex
	entries map[string]CalibrationSample
}

// NewCalibration returns an empty calibration store.
func NewCalibration() *Calibration {
	return &Calibration{entries: make(map[string]CalibrationSample)}
}

// Ratio returns the learned token ratio for a provider, 1.0 when nothing
// has been learned yet.
func (c *Calibration) Ratio(provider string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[provider]; ok {
		return e.TokenRatio
	}
	return 1.0
}

// Sample returns the full snapshot for a provider.
func (c *Calibration) Sample(provider string) (CalibrationSample, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[provider]
	return e, ok
}

// Learn folds one observed optimization into the provider's calibration.
// estimated is what we predicted, actual is what the provider billed, and
// costUSD is the real charge. Non-positive estimates leave the ratio
// untouched but still count the sample.
func (c *Calibration) Learn(provider string, estimated, actual int, costUSD float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[provider]
	if !ok {
		e = CalibrationSample{TokenRatio: 1.0}
	}

	if estimated > 0 {
		observed := float64(actual) / float64(estimated)
		e.TokenRatio = calibrationAlpha*observed + (1-calibrationAlpha)*e.TokenRatio
	}
	e.SampleCount++

	if actual > 0 {
		e.CostPerToken = costUSD / float64(actual)
	} else {
		e.CostPerToken = 0
	}

	c.entries[provider] = e
}
