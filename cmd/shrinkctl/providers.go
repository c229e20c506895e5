package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	recommendPriority string
	recommendBudget   float64
)

func init() {
	providersCmd.AddCommand(recommendCmd)
	recommendCmd.Flags().StringVar(&recommendPriority, "priority", "cost", "ranking priority (cost, speed, quality, balanced)")
	recommendCmd.Flags().Float64Var(&recommendBudget, "budget", 0, "exclude providers whose estimated cost exceeds this USD amount")
}

// providersCmd lists the provider catalog
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the provider catalog",
	Long: `List the providers shrinkd knows about, with their models and per-1K rates.

Examples:
  # List providers
  shrinkctl providers

  # Rank providers for a prompt
  shrinkctl providers recommend prompt.txt`,
	RunE: runProviders,
}

// recommendCmd ranks providers for a prompt
var recommendCmd = &cobra.Command{
	Use:   "recommend [file]",
	Short: "Rank providers for a prompt",
	Long: `Rank providers for a prompt by cost, speed, or quality.

Examples:
  # Cheapest providers for a prompt
  shrinkctl providers recommend prompt.txt

  # Best quality within a budget
  shrinkctl providers recommend --priority quality --budget 0.10 prompt.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRecommend,
}

// ProviderEntry matches internal/httpapi/providers.go ProviderEntry
type ProviderEntry struct {
	Name            string   `json:"name"`
	Models          []string `json:"models"`
	DefaultModel    string   `json:"default_model"`
	CostPer1KInput  float64  `json:"cost_per_1k_input"`
	CostPer1KOutput float64  `json:"cost_per_1k_output"`
	SpeedRank       int      `json:"speed_rank"`
	QualityRank     int      `json:"quality_rank"`
}

// ProvidersResponse matches internal/httpapi/providers.go ProvidersResponse
type ProvidersResponse struct {
	Providers []ProviderEntry `json:"providers"`
}

// RecommendRequest matches internal/httpapi/providers.go RecommendRequest
type RecommendRequest struct {
	Text        string  `json:"text"`
	Priority    string  `json:"priority,omitempty"`
	BudgetLimit float64 `json:"budget_limit,omitempty"`
}

// RecommendationEntry matches internal/providers/recommend.go Recommendation
type RecommendationEntry struct {
	Provider        string  `json:"provider"`
	Model           string  `json:"model"`
	EstimatedTokens int     `json:"estimated_tokens"`
	CostUSD         float64 `json:"cost_usd"`
	Badge           string  `json:"recommendation"`
}

// RecommendResponse matches internal/httpapi/providers.go RecommendResponse
type RecommendResponse struct {
	Recommendations []RecommendationEntry `json:"recommendations"`
}

// runProviders handles the providers command
func runProviders(cmd *cobra.Command, args []string) error {
	var resp ProvidersResponse
	if err := getJSON(serverURL+"/api/v1/providers", &resp); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PROVIDER\tDEFAULT MODEL\tIN $/1K\tOUT $/1K\tMODELS")
	for _, p := range resp.Providers {
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%.4f\t%d\n",
			p.Name, p.DefaultModel, p.CostPer1KInput, p.CostPer1KOutput, len(p.Models))
	}
	return w.Flush()
}

// runRecommend handles the providers recommend command
func runRecommend(cmd *cobra.Command, args []string) error {
	content, err := readInput(args)
	if err != nil {
		return err
	}
	if len(content) == 0 {
		return fmt.Errorf("no prompt content to rank providers against")
	}

	reqBody := RecommendRequest{
		Text:        string(content),
		Priority:    recommendPriority,
		BudgetLimit: recommendBudget,
	}

	var resp RecommendResponse
	if err := postJSON("/api/v1/providers/recommend", reqBody, &resp); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tPROVIDER\tMODEL\tTOKENS\tCOST\tBADGE")
	for i, rec := range resp.Recommendations {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t$%.4f\t%s\n",
			i+1, rec.Provider, rec.Model, rec.EstimatedTokens, rec.CostUSD, rec.Badge)
	}
	return w.Flush()
}
