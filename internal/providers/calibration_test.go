package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalibration_Ratio_DefaultsToOne(t *testing.T) {
	cal := NewCalibration()

	assert.Equal(t, 1.0, cal.Ratio("openai"))

	_, ok := cal.Sample("openai")
	assert.False(t, ok)
}

func TestCalibration_Learn_MovesRatioTowardObserved(t *testing.T) {
	cal := NewCalibration()

	// Observed ratio 1.5, folded at alpha 0.3 into the 1.0 prior.
	cal.Learn("openai", 100, 150, 0.0045)

	sample, ok := cal.Sample("openai")
	require.True(t, ok)
	assert.InDelta(t, 1.15, sample.TokenRatio, 1e-9)
	assert.Equal(t, 1, sample.SampleCount)
	assert.InDelta(t, 0.00003, sample.CostPerToken, 1e-12)

	// A spot-on observation pulls the ratio back toward 1.0.
	cal.Learn("openai", 100, 100, 0.003)

	sample, ok = cal.Sample("openai")
	require.True(t, ok)
	assert.InDelta(t, 1.105, sample.TokenRatio, 1e-9)
	assert.Equal(t, 2, sample.SampleCount)
}

func TestCalibration_Learn_ZeroEstimateKeepsRatio(t *testing.T) {
	cal := NewCalibration()

	cal.Learn("groq", 0, 50, 0.0001)

	sample, ok := cal.Sample("groq")
	require.True(t, ok)
	assert.Equal(t, 1.0, sample.TokenRatio)
	assert.Equal(t, 1, sample.SampleCount)
}

func TestCalibration_Learn_ZeroActualZeroesCostPerToken(t *testing.T) {
	cal := NewCalibration()

	cal.Learn("groq", 100, 0, 0.0001)

	sample, ok := cal.Sample("groq")
	require.True(t, ok)
	assert.Equal(t, 0.0, sample.CostPerToken)
}

func TestCalibration_IsPerProvider(t *testing.T) {
	cal := NewCalibration()

	cal.Learn("openai", 100, 150, 0.0045)

	assert.InDelta(t, 1.15, cal.Ratio("openai"), 1e-9)
	assert.Equal(t, 1.0, cal.Ratio("anthropic"))
}
