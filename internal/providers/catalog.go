package providers

import "sync"

// ModelSpec describes one model's context window limits.
type ModelSpec struct {
	Name         string
	InputTokens  int
	OutputTokens int
}

// Info is one provider's catalog entry. Ranks run from 1 (fastest, best
// quality) upward. The first model listed is the default for estimates.
type Info struct {
	Name            string
	Models          []ModelSpec
	CostPer1KInput  float64
	CostPer1KOutput float64
	SpeedRank       int
	QualityRank     int
}

// DefaultModel returns the provider's first listed model name.
func (i Info) DefaultModel() string {
	if len(i.Models) == 0 {
		return ""
	}
	return i.Models[0].Name
}

// hasModel reports whether name is one of the provider's models.
func (i Info) hasModel(name string) bool {
	for _, m := range i.Models {
		if m.Name == name {
			return true
		}
	}
	return false
}

// seedCatalog returns fresh copies of the built-in provider entries in
// their canonical order. Prices are list prices per 1K tokens and go stale;
// override them from disk rather than editing this table.
func seedCatalog() []Info {
	return []Info{
		{
			Name: "openai",
			Models: []ModelSpec{
				{Name: "gpt-4-turbo", InputTokens: 4096, OutputTokens: 8192},
				{Name: "gpt-4", InputTokens: 8192, OutputTokens: 32768},
				{Name: "gpt-3.5-turbo", InputTokens: 4096, OutputTokens: 4096},
			},
			CostPer1KInput:  0.03,
			CostPer1KOutput: 0.06,
			SpeedRank:       1,
			QualityRank:     1,
		},
		{
			Name: "anthropic",
			Models: []ModelSpec{
				{Name: "claude-3-opus", InputTokens: 200000, OutputTokens: 4096},
				{Name: "claude-3-sonnet", InputTokens: 200000, OutputTokens: 4096},
				{Name: "claude-3-haiku", InputTokens: 200000, OutputTokens: 4096},
			},
			CostPer1KInput:  0.015,
			CostPer1KOutput: 0.075,
			SpeedRank:       2,
			QualityRank:     2,
		},
		{
			Name: "google",
			Models: []ModelSpec{
				{Name: "gemini-pro", InputTokens: 32768, OutputTokens: 8192},
				{Name: "gemini-1.5-pro", InputTokens: 1000000, OutputTokens: 4096},
			},
			CostPer1KInput:  0.000125,
			CostPer1KOutput: 0.000375,
			SpeedRank:       2,
			QualityRank:     2,
		},
		{
			Name: "azure",
			Models: []ModelSpec{
				{Name: "gpt-4-deployment", InputTokens: 8192, OutputTokens: 32768},
				{Name: "gpt-35-turbo", InputTokens: 4096, OutputTokens: 4096},
			},
			CostPer1KInput:  0.03,
			CostPer1KOutput: 0.06,
			SpeedRank:       1,
			QualityRank:     1,
		},
		{
			Name: "groq",
			Models: []ModelSpec{
				{Name: "mixtral-8x7b", InputTokens: 32768, OutputTokens: 8192},
				{Name: "llama2-70b", InputTokens: 4096, OutputTokens: 1024},
			},
			CostPer1KInput:  0.0005,
			CostPer1KOutput: 0.0015,
			SpeedRank:       3,
			QualityRank:     3,
		},
	}
}

// Catalog is the live provider table. Reads take an RLock; override
// application swaps the whole table under the write lock.
type Catalog struct {
	mu    sync.RWMutex
	infos map[string]Info
	order []string
}

// NewCatalog returns a catalog seeded with the built-in providers.
func NewCatalog() *Catalog {
	c := &Catalog{}
	c.reset()
	return c
}

// reset rebuilds the table from the built-in seed. Callers hold no lock.
func (c *Catalog) reset() {
	seed := seedCatalog()
	infos := make(map[string]Info, len(seed))
	order := make([]string, 0, len(seed))
	for _, info := range seed {
		infos[info.Name] = info
		order = append(order, info.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.infos = infos
	c.order = order
}

// Get looks up a provider by name.
func (c *Catalog) Get(name string) (Info, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.infos[name]
	return info, ok
}

// List returns every provider in canonical order: seed order first,
// override-added providers after, alphabetically.
func (c *Catalog) List() []Info {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Info, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.infos[name])
	}
	return out
}

// Names returns the provider names in the same order as List.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}
