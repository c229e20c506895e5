package providers

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
)

// ErrInvalidOverrides reports an overrides file that exists but cannot be
// decoded or fails validation.
var ErrInvalidOverrides = errors.New("invalid provider overrides")

// ModelOverride adds a model to a provider or replaces the entry with the
// same name.
type ModelOverride struct {
	Name         string `toml:"name"`
	InputTokens  int    `toml:"input_tokens"`
	OutputTokens int    `toml:"output_tokens"`
}

// ProviderOverride adjusts one provider's catalog entry. Unset fields keep
// the built-in value. Providers absent from the seed must carry both rates
// and at least one model; their unset ranks default to 2.
type ProviderOverride struct {
	CostPer1KInput  *float64        `toml:"cost_per_1k_input"`
	CostPer1KOutput *float64        `toml:"cost_per_1k_output"`
	SpeedRank       *int            `toml:"speed_rank"`
	QualityRank     *int            `toml:"quality_rank"`
	Models          []ModelOverride `toml:"models"`
}

// Overrides is a decoded pricing overrides file:
//
//	[providers.openai]
//	cost_per_1k_input = 0.025
//
//	[[providers.openai.models]]
//	name = "gpt-4o"
//	input_tokens = 128000
//	output_tokens = 16384
type Overrides struct {
	Providers map[string]ProviderOverride `toml:"providers"`
}

// LoadOverrides reads and validates a TOML overrides file. An empty path
// or a missing file yields (nil, nil); a file that exists but cannot be
// used is an error.
func LoadOverrides(path string) (*Overrides, error) {
	if path == "" {
		return nil, nil
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var o Overrides
	if _, err := toml.DecodeFile(path, &o); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidOverrides, path, err)
	}
	if err := o.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidOverrides, path, err)
	}
	return &o, nil
}

// validate fails fast on entries that would corrupt the catalog.
func (o *Overrides) validate() error {
	seedNames := make(map[string]bool)
	for _, info := range seedCatalog() {
		seedNames[info.Name] = true
	}

	for name, ov := range o.Providers {
		if name == "" {
			return fmt.Errorf("provider entries need a name")
		}
		if ov.CostPer1KInput != nil && *ov.CostPer1KInput < 0 {
			return fmt.Errorf("provider %s: cost_per_1k_input must not be negative", name)
		}
		if ov.CostPer1KOutput != nil && *ov.CostPer1KOutput < 0 {
			return fmt.Errorf("provider %s: cost_per_1k_output must not be negative", name)
		}
		if ov.SpeedRank != nil && *ov.SpeedRank < 1 {
			return fmt.Errorf("provider %s: speed_rank must be >= 1", name)
		}
		if ov.QualityRank != nil && *ov.QualityRank < 1 {
			return fmt.Errorf("provider %s: quality_rank must be >= 1", name)
		}
		for _, m := range ov.Models {
			if m.Name == "" {
				return fmt.Errorf("provider %s: model entries need a name", name)
			}
			if m.InputTokens <= 0 || m.OutputTokens <= 0 {
				return fmt.Errorf("provider %s: model %s needs positive token windows", name, m.Name)
			}
		}
		if !seedNames[name] {
			if ov.CostPer1KInput == nil || ov.CostPer1KOutput == nil {
				return fmt.Errorf("new provider %s needs both per-1k rates", name)
			}
			if len(ov.Models) == 0 {
				return fmt.Errorf("new provider %s needs at least one model", name)
			}
		}
	}
	return nil
}

// ApplyOverrides rebuilds the catalog from the built-in seed and layers o
// on top, so reapplying an edited file never compounds earlier edits. A
// nil o restores the seed. Override-added providers are listed after the
// seed, alphabetically.
func (c *Catalog) ApplyOverrides(o *Overrides) {
	seed := seedCatalog()
	infos := make(map[string]Info, len(seed))
	order := make([]string, 0, len(seed))
	for _, info := range seed {
		infos[info.Name] = info
		order = append(order, info.Name)
	}

	if o != nil {
		extras := make([]string, 0, len(o.Providers))
		for name, ov := range o.Providers {
			info, ok := infos[name]
			if !ok {
				info = Info{Name: name, SpeedRank: 2, QualityRank: 2}
				extras = append(extras, name)
			}
			if ov.CostPer1KInput != nil {
				info.CostPer1KInput = *ov.CostPer1KInput
			}
			if ov.CostPer1KOutput != nil {
				info.CostPer1KOutput = *ov.CostPer1KOutput
			}
			if ov.SpeedRank != nil {
				info.SpeedRank = *ov.SpeedRank
			}
			if ov.QualityRank != nil {
				info.QualityRank = *ov.QualityRank
			}
			for _, m := range ov.Models {
				spec := ModelSpec{Name: m.Name, InputTokens: m.InputTokens, OutputTokens: m.OutputTokens}
				if i := indexOfModel(info.Models, m.Name); i >= 0 {
					info.Models[i] = spec
				} else {
					info.Models = append(info.Models, spec)
				}
			}
			infos[name] = info
		}
		sort.Strings(extras)
		order = append(order, extras...)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.infos = infos
	c.order = order
}

func indexOfModel(models []ModelSpec, name string) int {
	for i, m := range models {
		if m.Name == name {
			return i
		}
	}
	return -1
}
