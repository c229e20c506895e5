package providers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeOverridesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "providers.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestLoadOverrides_EmptyPath(t *testing.T) {
	o, err := LoadOverrides("")
	require.NoError(t, err)
	assert.Nil(t, o)
}

func TestLoadOverrides_MissingFile(t *testing.T) {
	o, err := LoadOverrides(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Nil(t, o)
}

func TestLoadOverrides_InvalidTOML(t *testing.T) {
	path := writeOverridesFile(t, "[providers.openai\ncost = oops")

	_, err := LoadOverrides(path)
	assert.ErrorIs(t, err, ErrInvalidOverrides)
}

func TestLoadOverrides_Valid(t *testing.T) {
	path := writeOverridesFile(t, `
[providers.openai]
cost_per_1k_input = 0.025
speed_rank = 2

[[providers.openai.models]]
name = "gpt-4o"
input_tokens = 128000
output_tokens = 16384

[providers.mistral]
cost_per_1k_input = 0.002
cost_per_1k_output = 0.006

[[providers.mistral.models]]
name = "mistral-large"
input_tokens = 32768
output_tokens = 8192
`)

	o, err := LoadOverrides(path)
	require.NoError(t, err)
	require.NotNil(t, o)

	openai, ok := o.Providers["openai"]
	require.True(t, ok)
	require.NotNil(t, openai.CostPer1KInput)
	assert.Equal(t, 0.025, *openai.CostPer1KInput)
	assert.Nil(t, openai.CostPer1KOutput)
	require.NotNil(t, openai.SpeedRank)
	assert.Equal(t, 2, *openai.SpeedRank)
	require.Len(t, openai.Models, 1)
	assert.Equal(t, "gpt-4o", openai.Models[0].Name)

	mistral, ok := o.Providers["mistral"]
	require.True(t, ok)
	require.Len(t, mistral.Models, 1)
}

func TestLoadOverrides_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "negative input rate",
			content: `
[providers.openai]
cost_per_1k_input = -0.01
`,
		},
		{
			name: "zero speed rank",
			content: `
[providers.openai]
speed_rank = 0
`,
		},
		{
			name: "model without name",
			content: `
[[providers.openai.models]]
input_tokens = 1000
output_tokens = 1000
`,
		},
		{
			name: "model with zero window",
			content: `
[[providers.openai.models]]
name = "gpt-4o"
input_tokens = 0
output_tokens = 1000
`,
		},
		{
			name: "new provider missing rates",
			content: `
[providers.mistral]
cost_per_1k_input = 0.002

[[providers.mistral.models]]
name = "mistral-large"
input_tokens = 32768
output_tokens = 8192
`,
		},
		{
			name: "new provider missing models",
			content: `
[providers.mistral]
cost_per_1k_input = 0.002
cost_per_1k_output = 0.006
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeOverridesFile(t, tt.content)
			_, err := LoadOverrides(path)
			assert.ErrorIs(t, err, ErrInvalidOverrides)
		})
	}
}

func TestCatalog_ApplyOverrides_AdjustsSeedEntry(t *testing.T) {
	c := NewCatalog()

	c.ApplyOverrides(&Overrides{Providers: map[string]ProviderOverride{
		"openai": {
			CostPer1KInput: floatPtr(0.025),
			SpeedRank:      intPtr(2),
		},
	}})

	openai, ok := c.Get("openai")
	require.True(t, ok)
	assert.Equal(t, 0.025, openai.CostPer1KInput)
	assert.Equal(t, 0.06, openai.CostPer1KOutput)
	assert.Equal(t, 2, openai.SpeedRank)
	assert.Equal(t, 1, openai.QualityRank)

	// Untouched providers keep their seed entries.
	groq, ok := c.Get("groq")
	require.True(t, ok)
	assert.Equal(t, 0.0005, groq.CostPer1KInput)
}

func TestCatalog_ApplyOverrides_ModelsReplaceAndAppend(t *testing.T) {
	c := NewCatalog()

	c.ApplyOverrides(&Overrides{Providers: map[string]ProviderOverride{
		"openai": {
			Models: []ModelOverride{
				{Name: "gpt-4", InputTokens: 16384, OutputTokens: 16384},
				{Name: "gpt-4o", InputTokens: 128000, OutputTokens: 16384},
			},
		},
	}})

	openai, ok := c.Get("openai")
	require.True(t, ok)
	require.Len(t, openai.Models, 4)

	// gpt-4 is replaced in place, gpt-4o appended.
	assert.Equal(t, "gpt-4-turbo", openai.Models[0].Name)
	assert.Equal(t, "gpt-4", openai.Models[1].Name)
	assert.Equal(t, 16384, openai.Models[1].InputTokens)
	assert.Equal(t, "gpt-3.5-turbo", openai.Models[2].Name)
	assert.Equal(t, "gpt-4o", openai.Models[3].Name)
}

func TestCatalog_ApplyOverrides_NewProvidersAppendedAlphabetically(t *testing.T) {
	c := NewCatalog()

	c.ApplyOverrides(&Overrides{Providers: map[string]ProviderOverride{
		"mistral": {
			CostPer1KInput:  floatPtr(0.002),
			CostPer1KOutput: floatPtr(0.006),
			Models:          []ModelOverride{{Name: "mistral-large", InputTokens: 32768, OutputTokens: 8192}},
		},
		"cohere": {
			CostPer1KInput:  floatPtr(0.001),
			CostPer1KOutput: floatPtr(0.002),
			Models:          []ModelOverride{{Name: "command-r", InputTokens: 128000, OutputTokens: 4096}},
		},
	}})

	assert.Equal(t,
		[]string{"openai", "anthropic", "google", "azure", "groq", "cohere", "mistral"},
		c.Names())

	mistral, ok := c.Get("mistral")
	require.True(t, ok)
	assert.Equal(t, 2, mistral.SpeedRank)
	assert.Equal(t, 2, mistral.QualityRank)
	assert.Equal(t, "mistral-large", mistral.DefaultModel())
}

func TestCatalog_ApplyOverrides_IsIdempotent(t *testing.T) {
	c := NewCatalog()
	o := &Overrides{Providers: map[string]ProviderOverride{
		"openai": {
			CostPer1KInput: floatPtr(0.025),
			Models:         []ModelOverride{{Name: "gpt-4o", InputTokens: 128000, OutputTokens: 16384}},
		},
	}}

	c.ApplyOverrides(o)
	first := c.List()

	c.ApplyOverrides(o)
	assert.Equal(t, first, c.List())
}

func TestCatalog_ApplyOverrides_NilRestoresSeed(t *testing.T) {
	c := NewCatalog()

	c.ApplyOverrides(&Overrides{Providers: map[string]ProviderOverride{
		"openai": {CostPer1KInput: floatPtr(0.5)},
	}})
	c.ApplyOverrides(nil)

	assert.Equal(t, NewCatalog().List(), c.List())
}
