package providers

import (
	"fmt"
	"sort"
)

// Badges attached to recommendations. They explain the placement in terms
// of the caller's priority rather than raw numbers.
const (
	BadgeLowestCost  = "LOWEST_COST"
	BadgeFastest     = "FASTEST"
	BadgeBestQuality = "BEST_QUALITY"
	BadgeBestValue   = "BEST_VALUE"
	BadgeGoodChoice  = "GOOD_CHOICE"
)

// Priorities a Preference may carry. Anything unrecognized is scored and
// sorted on tokens per dollar.
const (
	PriorityCost    = "cost"
	PrioritySpeed   = "speed"
	PriorityQuality = "quality"
	PriorityValue   = "value"
)

// Preference steers recommendation ranking. An empty Priority means cost
// and a non-positive BudgetLimit means one dollar.
type Preference struct {
	Priority    string  `json:"priority"`
	BudgetLimit float64 `json:"budget_limit"`
}

// DefaultPreference is what callers get when they send no preference at all.
func DefaultPreference() Preference {
	return Preference{Priority: PriorityCost, BudgetLimit: 1.00}
}

func (p Preference) normalize() Preference {
	if p.Priority == "" {
		p.Priority = PriorityCost
	}
	if p.BudgetLimit <= 0 {
		p.BudgetLimit = 1.00
	}
	return p
}

// LevelPotential projects the savings one optimization level would yield
// on an already-estimated prompt, priced at the estimate's blended rate.
type LevelPotential struct {
	Level          string  `json:"level"`
	TokensSaved    int     `json:"tokens_saved"`
	TokensSavedPct int     `json:"tokens_saved_pct"`
	CostSaved      float64 `json:"cost_saved"`
	CostSavedPct   int     `json:"cost_saved_pct"`
	Description    string  `json:"description"`
}

// Recommendation is one ranked provider choice. Rank is a unitless score
// on the preference axis; providers over budget keep a rank of zero but
// are still reported.
type Recommendation struct {
	Provider        string           `json:"provider"`
	Model           string           `json:"model"`
	EstimatedTokens int              `json:"estimated_tokens"`
	CostUSD         float64          `json:"cost_usd"`
	CostPer1KTokens float64          `json:"cost_per_1k_tokens"`
	TokensPerDollar float64          `json:"tokens_per_dollar"`
	Potential       []LevelPotential `json:"optimization_potential"`
	Badge           string           `json:"recommendation"`
	Rank            float64          `json:"rank"`
}

// Recommender scores catalog providers for a prompt and returns the best
// matches for the caller's preference.
type Recommender struct {
	catalog   *Catalog
	estimator *Estimator
}

// NewRecommender wires a recommender to its catalog and estimator.
func NewRecommender(catalog *Catalog, estimator *Estimator) (*Recommender, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if estimator == nil {
		return nil, fmt.Errorf("estimator is required")
	}
	return &Recommender{catalog: catalog, estimator: estimator}, nil
}

// Recommend estimates text on every cataloged provider, badges and scores
// each against the preference, orders them on the priority axis, and
// returns the top three.
func (r *Recommender) Recommend(text string, pref Preference) []Recommendation {
	pref = pref.normalize()

	infos := r.catalog.List()
	byName := make(map[string]Info, len(infos))
	recs := make([]Recommendation, 0, len(infos))
	for _, info := range infos {
		byName[info.Name] = info

		est, err := r.estimator.Estimate(text, info.Name, "")
		if err != nil {
			continue
		}
		recs = append(recs, Recommendation{
			Provider:        est.Provider,
			Model:           est.Model,
			EstimatedTokens: est.TotalTokens,
			CostUSD:         est.CostUSD,
			CostPer1KTokens: est.CostPer1KTokens,
			TokensPerDollar: est.TokensPerDollar,
			Potential:       levelPotentials(est),
			Badge:           badgeFor(est, info, pref),
			Rank:            rankFor(est, info, pref),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		switch pref.Priority {
		case PriorityCost:
			return recs[i].CostUSD < recs[j].CostUSD
		case PrioritySpeed:
			return byName[recs[i].Provider].SpeedRank < byName[recs[j].Provider].SpeedRank
		case PriorityQuality:
			return byName[recs[i].Provider].QualityRank < byName[recs[j].Provider].QualityRank
		default:
			return recs[i].TokensPerDollar > recs[j].TokensPerDollar
		}
	})

	if len(recs) > 3 {
		recs = recs[:3]
	}
	return recs
}

// badgeFor picks a badge on the priority axis, falling through to the
// value badges when the priority-specific condition does not hold.
func badgeFor(est Estimate, info Info, pref Preference) string {
	switch pref.Priority {
	case PriorityCost:
		if est.CostUSD < 0.01 {
			return BadgeLowestCost
		}
	case PrioritySpeed:
		if info.SpeedRank == 1 {
			return BadgeFastest
		}
	case PriorityQuality:
		if info.QualityRank == 1 {
			return BadgeBestQuality
		}
	}
	if est.TokensPerDollar > 50000 {
		return BadgeBestValue
	}
	return BadgeGoodChoice
}

func rankFor(est Estimate, info Info, pref Preference) float64 {
	if est.CostUSD > pref.BudgetLimit {
		return 0
	}
	switch pref.Priority {
	case PriorityCost:
		return 1.0 - est.CostUSD/pref.BudgetLimit
	case PrioritySpeed:
		return 1.0 / float64(info.SpeedRank)
	case PriorityQuality:
		return 1.0 / float64(info.QualityRank)
	default:
		return est.TokensPerDollar / 100000
	}
}

func levelPotentials(est Estimate) []LevelPotential {
	levels := LevelNames()
	out := make([]LevelPotential, 0, len(levels))
	for _, level := range levels {
		profile := LevelSavings(level)
		saved := int(float64(est.TotalTokens) * profile.TokensSavedPct)
		out = append(out, LevelPotential{
			Level:          level,
			TokensSaved:    saved,
			TokensSavedPct: int(profile.TokensSavedPct * 100),
			CostSaved:      roundTo(float64(saved)/1000*est.CostPer1KTokens, 4),
			CostSavedPct:   int(profile.TokensSavedPct * 100),
			Description:    profile.Description,
		})
	}
	return out
}
