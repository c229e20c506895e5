package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var anomalyDays int

func init() {
	usageCmd.AddCommand(usageSummaryCmd)
	usageCmd.AddCommand(usagePredictionCmd)
	usageCmd.AddCommand(usageAnomaliesCmd)
	usageCmd.AddCommand(usageAdviceCmd)
	usageCmd.AddCommand(usageEfficiencyCmd)
	usageAnomaliesCmd.Flags().IntVar(&anomalyDays, "days", 0, "lookback window in days (server default when 0)")
}

// usageCmd groups the usage analytics subcommands
var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Inspect usage analytics",
	Long: `Inspect spend and token usage recorded by the shrinkd server.

Examples:
  # Aggregate usage
  shrinkctl usage summary

  # 30-day spend projection
  shrinkctl usage prediction

  # Spend spikes in the last week
  shrinkctl usage anomalies --days 7`,
}

var usageSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show aggregate spend and token usage",
	RunE:  runUsageSummary,
}

var usagePredictionCmd = &cobra.Command{
	Use:   "prediction",
	Short: "Show the projected monthly spend",
	RunE:  runUsagePrediction,
}

var usageAnomaliesCmd = &cobra.Command{
	Use:   "anomalies",
	Short: "Show recent spend anomalies",
	RunE:  runUsageAnomalies,
}

var usageAdviceCmd = &cobra.Command{
	Use:   "advice",
	Short: "Show cost-reduction recommendations",
	RunE:  runUsageAdvice,
}

var usageEfficiencyCmd = &cobra.Command{
	Use:   "efficiency",
	Short: "Show the spending efficiency score",
	RunE:  runUsageEfficiency,
}

// BucketStat matches internal/costs/ledger.go BucketStat
type BucketStat struct {
	CostUSD float64 `json:"cost_usd"`
	Tokens  int     `json:"tokens"`
}

// SummaryResponse matches internal/costs/ledger.go Summary
type SummaryResponse struct {
	TotalCostUSD float64               `json:"total_cost_usd"`
	TotalTokens  int                   `json:"total_tokens"`
	Requests     int                   `json:"requests"`
	DaysObserved int                   `json:"days_observed"`
	ByProvider   map[string]BucketStat `json:"by_provider"`
	ByLevel      map[string]BucketStat `json:"by_level"`
}

// PredictionResponse matches internal/costs/predictor.go Prediction
type PredictionResponse struct {
	DailyAverageUSD     float64 `json:"daily_average_usd"`
	ProjectedMonthlyUSD float64 `json:"projected_monthly_usd"`
	DaysObserved        int     `json:"days_observed"`
	Confidence          float64 `json:"confidence"`
	Trend               string  `json:"trend"`
}

// AnomalyEntry matches internal/costs/anomaly.go Anomaly
type AnomalyEntry struct {
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	BaselineUSD float64 `json:"baseline_usd"`
	ObservedUSD float64 `json:"observed_usd"`
	Severity    string  `json:"severity"`
	Message     string  `json:"message"`
}

// AnomaliesResponse matches internal/httpapi/usage.go AnomaliesResponse
type AnomaliesResponse struct {
	Anomalies []AnomalyEntry `json:"anomalies"`
}

// AdviceEntry matches internal/costs/advisor.go Advice
type AdviceEntry struct {
	Type                string  `json:"type"`
	PotentialSavingsUSD float64 `json:"potential_savings_usd"`
	Message             string  `json:"message"`
}

// AdviceResponse matches internal/httpapi/usage.go AdviceResponse
type AdviceResponse struct {
	Advice []AdviceEntry `json:"advice"`
}

// EfficiencyResponse matches internal/costs/efficiency.go Efficiency
type EfficiencyResponse struct {
	Score           int     `json:"score"`
	Message         string  `json:"message"`
	CostPerTokenUSD float64 `json:"cost_per_token_usd"`
	TokensAnalyzed  int     `json:"tokens_analyzed"`
}

// runUsageSummary handles the usage summary command
func runUsageSummary(cmd *cobra.Command, args []string) error {
	var resp SummaryResponse
	if err := getJSON(serverURL+"/api/v1/usage/summary", &resp); err != nil {
		return err
	}

	fmt.Printf("Total Cost:    $%.4f\n", resp.TotalCostUSD)
	fmt.Printf("Total Tokens:  %d\n", resp.TotalTokens)
	fmt.Printf("Requests:      %d\n", resp.Requests)
	fmt.Printf("Days Observed: %d\n", resp.DaysObserved)

	if len(resp.ByProvider) > 0 {
		fmt.Println("\nBy Provider:")
		printBuckets(resp.ByProvider)
	}
	if len(resp.ByLevel) > 0 {
		fmt.Println("\nBy Level:")
		printBuckets(resp.ByLevel)
	}
	return nil
}

// printBuckets writes one bucket map in stable key order
func printBuckets(buckets map[string]BucketStat) {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s\t$%.4f\t%d tokens\n", k, buckets[k].CostUSD, buckets[k].Tokens)
	}
	w.Flush()
}

// runUsagePrediction handles the usage prediction command
func runUsagePrediction(cmd *cobra.Command, args []string) error {
	var resp PredictionResponse
	if err := getJSON(serverURL+"/api/v1/usage/prediction", &resp); err != nil {
		return err
	}

	fmt.Printf("Daily Average:     $%.4f\n", resp.DailyAverageUSD)
	fmt.Printf("Projected Monthly: $%.2f\n", resp.ProjectedMonthlyUSD)
	fmt.Printf("Days Observed:     %d\n", resp.DaysObserved)
	fmt.Printf("Confidence:        %.0f%%\n", resp.Confidence*100)
	fmt.Printf("Trend:             %s\n", resp.Trend)
	return nil
}

// runUsageAnomalies handles the usage anomalies command
func runUsageAnomalies(cmd *cobra.Command, args []string) error {
	url := serverURL + "/api/v1/usage/anomalies"
	if anomalyDays > 0 {
		url = fmt.Sprintf("%s?days=%d", url, anomalyDays)
	}

	var resp AnomaliesResponse
	if err := getJSON(url, &resp); err != nil {
		return err
	}

	if len(resp.Anomalies) == 0 {
		fmt.Println("No anomalies detected.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tSEVERITY\tBASELINE\tOBSERVED\tMESSAGE")
	for _, a := range resp.Anomalies {
		fmt.Fprintf(w, "%s\t%s\t$%.4f\t$%.4f\t%s\n",
			a.Date, a.Severity, a.BaselineUSD, a.ObservedUSD, a.Message)
	}
	return w.Flush()
}

// runUsageAdvice handles the usage advice command
func runUsageAdvice(cmd *cobra.Command, args []string) error {
	var resp AdviceResponse
	if err := getJSON(serverURL+"/api/v1/usage/advice", &resp); err != nil {
		return err
	}

	if len(resp.Advice) == 0 {
		fmt.Println("No recommendations; spending looks healthy.")
		return nil
	}

	for _, a := range resp.Advice {
		fmt.Printf("[%s] %s", a.Type, a.Message)
		if a.PotentialSavingsUSD > 0 {
			fmt.Printf(" (potential savings: $%.2f)", a.PotentialSavingsUSD)
		}
		fmt.Println()
	}
	return nil
}

// runUsageEfficiency handles the usage efficiency command
func runUsageEfficiency(cmd *cobra.Command, args []string) error {
	var resp EfficiencyResponse
	if err := getJSON(serverURL+"/api/v1/usage/efficiency", &resp); err != nil {
		return err
	}

	fmt.Printf("Efficiency Score: %d/100\n", resp.Score)
	fmt.Printf("Cost Per Token:   $%.8f\n", resp.CostPerTokenUSD)
	fmt.Printf("Tokens Analyzed:  %d\n", resp.TokensAnalyzed)
	fmt.Printf("%s\n", resp.Message)
	return nil
}
