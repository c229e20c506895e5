package providers

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnknownProvider reports a name absent from the catalog.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrUnknownModel reports a model the provider does not list.
	ErrUnknownModel = errors.New("unknown model")
)

// Estimate projects what a prompt will cost on one provider. Output volume
// is assumed to be 20% of input, the usual shape of an optimization reply.
type Estimate struct {
	Provider              string  `json:"provider"`
	Model                 string  `json:"model"`
	EstimatedInputTokens  int     `json:"estimated_input_tokens"`
	EstimatedOutputTokens int     `json:"estimated_output_tokens"`
	TotalTokens           int     `json:"total_tokens"`
	CostUSD               float64 `json:"cost_usd"`
	CostPer1KTokens       float64 `json:"cost_per_1k_tokens"`
	TokensPerDollar       float64 `json:"tokens_per_dollar"`
}

// Estimator projects token counts and costs against the live catalog,
// scaled by whatever the calibration store has learned.
type Estimator struct {
	catalog     *Catalog
	calibration *Calibration
}

// NewEstimator wires an estimator to its catalog and calibration store.
func NewEstimator(catalog *Catalog, calibration *Calibration) (*Estimator, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if calibration == nil {
		return nil, fmt.Errorf("calibration is required")
	}
	return &Estimator{catalog: catalog, calibration: calibration}, nil
}

// Estimate projects text onto a provider and model. An empty model picks
// the provider's default. The raw count is length/4 floored, then scaled
// by the provider's learned ratio; this is billing math, distinct from the
// engine's uniform before/after yardstick.
func (e *Estimator) Estimate(text, provider, model string) (Estimate, error) {
	info, ok := e.catalog.Get(provider)
	if !ok {
		return Estimate{}, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}

	if model == "" {
		model = info.DefaultModel()
	}
	if !info.hasModel(model) {
		return Estimate{}, fmt.Errorf("%w: %s/%s", ErrUnknownModel, provider, model)
	}

	inputTokens := len(text) / 4
	inputTokens = int(float64(inputTokens) * e.calibration.Ratio(provider))
	outputTokens := int(float64(inputTokens) * 0.2)
	total := inputTokens + outputTokens

	inputCost := float64(inputTokens) / 1000 * info.CostPer1KInput
	outputCost := float64(outputTokens) / 1000 * info.CostPer1KOutput
	totalCost := inputCost + outputCost

	est := Estimate{
		Provider:              provider,
		Model:                 model,
		EstimatedInputTokens:  inputTokens,
		EstimatedOutputTokens: outputTokens,
		TotalTokens:           total,
		CostUSD:               roundTo(totalCost, 4),
	}
	if total > 0 {
		est.CostPer1KTokens = roundTo(totalCost*1000/float64(total), 4)
	}
	if totalCost > 0 {
		est.TokensPerDollar = roundTo(float64(total)/totalCost, 2)
	}
	return est, nil
}

// roundTo rounds v to the given number of decimal places, matching the
// presentation the API has always produced.
func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
