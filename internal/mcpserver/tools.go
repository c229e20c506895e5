package mcpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fortresslabs/shrinkd/internal/optimizer"
	"github.com/fortresslabs/shrinkd/internal/providers"
)

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools() {
	s.registerOptimizeTool()
	s.registerEstimateTool()
	s.registerRecommendTool()
}

// ===== OPTIMIZE TOOL =====

type optimizeInput struct {
	Prompt     string   `json:"prompt" jsonschema:"required,Prompt text to optimize"`
	Level      string   `json:"level,omitempty" jsonschema:"Optimization level: conservative | balanced | aggressive"`
	Provider   string   `json:"provider,omitempty" jsonschema:"Target LLM provider (anthropic, openai, copilot, claude-desktop, ...)"`
	DetectCode *bool    `json:"detect_code,omitempty" jsonschema:"Strip code boilerplate when the prompt looks like source (default true)"`
	Threshold  *float64 `json:"threshold,omitempty" jsonschema:"Custom similarity threshold overriding the level preset"`
	CostPer1K  float64  `json:"cost_per_1k,omitempty" jsonschema:"USD per 1000 tokens for the savings estimate"`
}

type optimizeOutput struct {
	TokensBefore    int     `json:"tokens_before"`
	TokensAfter     int     `json:"tokens_after"`
	PercentSaved    float64 `json:"percent_saved"`
	EstCostSavedUSD float64 `json:"est_cost_saved_usd"`
	OptimizedText   string  `json:"optimized_text"`
}

func (s *Server) registerOptimizeTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "optimize_prompt",
		Description: "Shrink a prompt by removing duplicate and near-duplicate lines before sending it to an LLM",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args optimizeInput) (*mcp.CallToolResult, optimizeOutput, error) {
		start := time.Now()
		s.metrics.IncrementActive(ctx, "optimize_prompt")
		var toolErr error
		defer func() {
			s.metrics.DecrementActive(ctx, "optimize_prompt")
			s.metrics.RecordInvocation(ctx, "optimize_prompt", time.Since(start), toolErr)
		}()

		res, err := s.optimizer.Optimize(ctx, args.Prompt, optimizer.Options{
			Level:      optimizer.Level(args.Level),
			Provider:   optimizer.Provider(args.Provider),
			DetectCode: args.DetectCode,
			Threshold:  args.Threshold,
			CostPer1K:  args.CostPer1K,
		})
		if err != nil {
			toolErr = fmt.Errorf("optimize failed: %w", err)
			return nil, optimizeOutput{}, toolErr
		}

		s.logger.Debug("optimize_prompt served",
			zap.Int("tokens_before", res.TokensBefore),
			zap.Int("tokens_after", res.TokensAfter),
		)

		result := optimizeOutput{
			TokensBefore:    res.TokensBefore,
			TokensAfter:     res.TokensAfter,
			PercentSaved:    res.PercentSaved,
			EstCostSavedUSD: res.EstCostSavedUSD,
			OptimizedText:   res.OptimizedText,
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Optimized: %d -> %d tokens (%.1f%% saved)",
					res.TokensBefore, res.TokensAfter, res.PercentSaved)},
			},
		}, result, nil
	})
}

// ===== ESTIMATE TOOL =====

type estimateInput struct {
	Text     string `json:"text" jsonschema:"required,Text to estimate"`
	Provider string `json:"provider" jsonschema:"required,Provider name from the catalog"`
	Model    string `json:"model,omitempty" jsonschema:"Model name; empty picks the provider default"`
}

type estimateOutput struct {
	Provider              string  `json:"provider"`
	Model                 string  `json:"model"`
	EstimatedInputTokens  int     `json:"estimated_input_tokens"`
	EstimatedOutputTokens int     `json:"estimated_output_tokens"`
	TotalTokens           int     `json:"total_tokens"`
	CostUSD               float64 `json:"cost_usd"`
	CostPer1KTokens       float64 `json:"cost_per_1k_tokens"`
	TokensPerDollar       float64 `json:"tokens_per_dollar"`
}

func (s *Server) registerEstimateTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "estimate_tokens",
		Description: "Estimate token usage and cost for a prompt on one provider",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args estimateInput) (*mcp.CallToolResult, estimateOutput, error) {
		start := time.Now()
		s.metrics.IncrementActive(ctx, "estimate_tokens")
		var toolErr error
		defer func() {
			s.metrics.DecrementActive(ctx, "estimate_tokens")
			s.metrics.RecordInvocation(ctx, "estimate_tokens", time.Since(start), toolErr)
		}()

		est, err := s.estimator.Estimate(args.Text, args.Provider, args.Model)
		if err != nil {
			toolErr = fmt.Errorf("estimate failed: %w", err)
			return nil, estimateOutput{}, toolErr
		}

		result := estimateOutput{
			Provider:              est.Provider,
			Model:                 est.Model,
			EstimatedInputTokens:  est.EstimatedInputTokens,
			EstimatedOutputTokens: est.EstimatedOutputTokens,
			TotalTokens:           est.TotalTokens,
			CostUSD:               est.CostUSD,
			CostPer1KTokens:       est.CostPer1KTokens,
			TokensPerDollar:       est.TokensPerDollar,
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("%s/%s: ~%d tokens, $%.4f",
					est.Provider, est.Model, est.TotalTokens, est.CostUSD)},
			},
		}, result, nil
	})
}

// ===== RECOMMEND TOOL =====

type recommendInput struct {
	Text        string  `json:"text" jsonschema:"required,Prompt the recommendation is for"`
	Priority    string  `json:"priority,omitempty" jsonschema:"Ranking priority: cost | speed | quality | value (default cost)"`
	BudgetLimit float64 `json:"budget_limit,omitempty" jsonschema:"Budget ceiling in USD (default 1.00)"`
}

type recommendOutput struct {
	Recommendations []providers.Recommendation `json:"recommendations"`
}

func (s *Server) registerRecommendTool() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "recommend_provider",
		Description: "Rank LLM providers for a prompt by cost, speed, quality, or value",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args recommendInput) (*mcp.CallToolResult, recommendOutput, error) {
		start := time.Now()
		s.metrics.IncrementActive(ctx, "recommend_provider")
		var toolErr error
		defer func() {
			s.metrics.DecrementActive(ctx, "recommend_provider")
			s.metrics.RecordInvocation(ctx, "recommend_provider", time.Since(start), toolErr)
		}()

		if args.Text == "" {
			toolErr = fmt.Errorf("text is required")
			return nil, recommendOutput{}, toolErr
		}

		recs := s.recommender.Recommend(args.Text, providers.Preference{
			Priority:    args.Priority,
			BudgetLimit: args.BudgetLimit,
		})

		summary := "No providers available"
		if len(recs) > 0 {
			summary = fmt.Sprintf("Top pick: %s/%s at $%.4f (%s)",
				recs[0].Provider, recs[0].Model, recs[0].CostUSD, recs[0].Badge)
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				&mcp.TextContent{Text: summary},
			},
		}, recommendOutput{Recommendations: recs}, nil
	})
}
