package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	optimizeLevel     string
	optimizeProvider  string
	optimizeThreshold float64
	optimizeDetect    bool
	optimizeCostPer1K float64
	optimizePreview   bool

	estimateProvider string
	estimateModel    string
)

func init() {
	optimizeCmd.Flags().StringVar(&optimizeLevel, "level", "", "optimization level (conservative, balanced, aggressive)")
	optimizeCmd.Flags().StringVar(&optimizeProvider, "provider", "", "target provider for cost accounting")
	optimizeCmd.Flags().Float64Var(&optimizeThreshold, "threshold", -1, "similarity threshold override (0.0-1.0)")
	optimizeCmd.Flags().BoolVar(&optimizeDetect, "detect-code", true, "skip structural rewriting for code-like prompts")
	optimizeCmd.Flags().Float64Var(&optimizeCostPer1K, "cost-per-1k", 0, "cost per 1K tokens in USD for savings estimates")
	optimizeCmd.Flags().BoolVar(&optimizePreview, "preview", false, "report token counts without rewriting the prompt")

	estimateCmd.Flags().StringVar(&estimateProvider, "provider", "openai", "provider to price against")
	estimateCmd.Flags().StringVar(&estimateModel, "model", "", "model to price against (provider default when empty)")
}

// optimizeCmd optimizes a prompt from a file or stdin
var optimizeCmd = &cobra.Command{
	Use:   "optimize [file]",
	Short: "Optimize a prompt from a file or stdin",
	Long: `Optimize a prompt from a file or stdin using the shrinkd server.
The optimized text is written to stdout; savings statistics go to stderr.

Examples:
  # Optimize a prompt file
  shrinkctl optimize prompt.txt

  # Optimize from stdin with aggressive collapsing
  cat prompt.txt | shrinkctl optimize --level aggressive -

  # Report savings without rewriting
  shrinkctl optimize --preview prompt.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOptimize,
}

// estimateCmd estimates token counts and cost for a prompt
var estimateCmd = &cobra.Command{
	Use:   "estimate [file]",
	Short: "Estimate token counts and cost for a prompt",
	Long: `Estimate token counts and cost for a prompt on one provider.

Examples:
  # Estimate against the openai default model
  shrinkctl estimate prompt.txt

  # Estimate against a specific provider and model
  shrinkctl estimate --provider anthropic --model claude-3-haiku prompt.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEstimate,
}

// OptimizeRequest matches internal/httpapi/optimize.go OptimizeRequest
type OptimizeRequest struct {
	Prompt     string   `json:"prompt"`
	Level      string   `json:"level,omitempty"`
	Provider   string   `json:"provider,omitempty"`
	DetectCode *bool    `json:"detect_code,omitempty"`
	Threshold  *float64 `json:"threshold,omitempty"`
	CostPer1K  float64  `json:"cost_per_1k,omitempty"`
}

// OptimizeResponse matches internal/httpapi/optimize.go OptimizeResponse
type OptimizeResponse struct {
	RequestID       string  `json:"request_id"`
	TokensBefore    int     `json:"tokens_before"`
	TokensAfter     int     `json:"tokens_after"`
	PercentSaved    float64 `json:"percent_saved"`
	EstCostSavedUSD float64 `json:"est_cost_saved_usd"`
	OptimizedText   string  `json:"optimized_text"`
}

// EstimateRequest matches internal/httpapi/providers.go EstimateRequest
type EstimateRequest struct {
	Text     string `json:"text"`
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
}

// EstimateResponse matches internal/providers/estimate.go Estimate
type EstimateResponse struct {
	Provider              string  `json:"provider"`
	Model                 string  `json:"model"`
	EstimatedInputTokens  int     `json:"estimated_input_tokens"`
	EstimatedOutputTokens int     `json:"estimated_output_tokens"`
	TotalTokens           int     `json:"total_tokens"`
	CostUSD               float64 `json:"cost_usd"`
	CostPer1KTokens       float64 `json:"cost_per_1k_tokens"`
	TokensPerDollar       float64 `json:"tokens_per_dollar"`
}

// runOptimize handles the optimize command
func runOptimize(cmd *cobra.Command, args []string) error {
	content, err := readInput(args)
	if err != nil {
		return err
	}
	if len(content) == 0 {
		return fmt.Errorf("no prompt content to optimize")
	}

	reqBody := OptimizeRequest{
		Prompt:    string(content),
		Level:     optimizeLevel,
		Provider:  optimizeProvider,
		CostPer1K: optimizeCostPer1K,
	}
	if cmd.Flags().Changed("detect-code") {
		reqBody.DetectCode = &optimizeDetect
	}
	if cmd.Flags().Changed("threshold") {
		reqBody.Threshold = &optimizeThreshold
	}

	path := "/api/v1/optimize"
	if optimizePreview {
		path = "/api/v1/optimize/preview"
	}

	var optResp OptimizeResponse
	if err := postJSON(path, reqBody, &optResp); err != nil {
		return err
	}

	// Optimized text to stdout so it can be piped onward
	fmt.Print(optResp.OptimizedText)

	fmt.Fprintf(os.Stderr, "\n[shrinkctl] %d -> %d tokens (%.1f%% saved", optResp.TokensBefore, optResp.TokensAfter, optResp.PercentSaved)
	if optResp.EstCostSavedUSD > 0 {
		fmt.Fprintf(os.Stderr, ", ~$%.4f", optResp.EstCostSavedUSD)
	}
	fmt.Fprintf(os.Stderr, ") [%s]\n", optResp.RequestID)

	return nil
}

// runEstimate handles the estimate command
func runEstimate(cmd *cobra.Command, args []string) error {
	content, err := readInput(args)
	if err != nil {
		return err
	}
	if len(content) == 0 {
		return fmt.Errorf("no prompt content to estimate")
	}

	reqBody := EstimateRequest{
		Text:     string(content),
		Provider: estimateProvider,
		Model:    estimateModel,
	}

	var est EstimateResponse
	if err := postJSON("/api/v1/estimate", reqBody, &est); err != nil {
		return err
	}

	fmt.Printf("Provider:       %s\n", est.Provider)
	fmt.Printf("Model:          %s\n", est.Model)
	fmt.Printf("Input Tokens:   %d\n", est.EstimatedInputTokens)
	fmt.Printf("Output Tokens:  %d\n", est.EstimatedOutputTokens)
	fmt.Printf("Total Tokens:   %d\n", est.TotalTokens)
	fmt.Printf("Estimated Cost: $%.4f\n", est.CostUSD)

	return nil
}

// postJSON sends body to the server path and decodes the JSON response into out.
func postJSON(path string, body, out any) error {
	reqJSON, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := serverURL + path
	httpReq, err := http.NewRequest("POST", url, bytes.NewReader(reqJSON))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
