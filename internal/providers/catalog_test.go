package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog_SeedsBuiltinProviders(t *testing.T) {
	c := NewCatalog()

	assert.Equal(t, []string{"openai", "anthropic", "google", "azure", "groq"}, c.Names())

	openai, ok := c.Get("openai")
	require.True(t, ok)
	assert.Equal(t, 0.03, openai.CostPer1KInput)
	assert.Equal(t, 0.06, openai.CostPer1KOutput)
	assert.Equal(t, 1, openai.SpeedRank)
	assert.Equal(t, 1, openai.QualityRank)
	assert.Equal(t, "gpt-4-turbo", openai.DefaultModel())

	google, ok := c.Get("google")
	require.True(t, ok)
	assert.True(t, google.hasModel("gemini-1.5-pro"))
	assert.Equal(t, 0.000125, google.CostPer1KInput)

	groq, ok := c.Get("groq")
	require.True(t, ok)
	assert.Equal(t, 3, groq.SpeedRank)
	assert.Equal(t, 3, groq.QualityRank)
}

func TestCatalog_Get_UnknownProvider(t *testing.T) {
	c := NewCatalog()

	_, ok := c.Get("no-such-provider")
	assert.False(t, ok)
}

func TestCatalog_List_MatchesNamesOrder(t *testing.T) {
	c := NewCatalog()

	names := c.Names()
	infos := c.List()
	require.Len(t, infos, len(names))
	for i, info := range infos {
		assert.Equal(t, names[i], info.Name)
	}
}

func TestInfo_DefaultModel(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		want     string
	}{
		{name: "openai first listed", provider: "openai", want: "gpt-4-turbo"},
		{name: "anthropic first listed", provider: "anthropic", want: "claude-3-opus"},
		{name: "azure first listed", provider: "azure", want: "gpt-4-deployment"},
	}

	c := NewCatalog()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, ok := c.Get(tt.provider)
			require.True(t, ok)
			assert.Equal(t, tt.want, info.DefaultModel())
		})
	}
}

func TestInfo_DefaultModel_NoModels(t *testing.T) {
	assert.Equal(t, "", Info{Name: "bare"}.DefaultModel())
}

func TestInfo_HasModel(t *testing.T) {
	c := NewCatalog()
	anthropic, ok := c.Get("anthropic")
	require.True(t, ok)

	assert.True(t, anthropic.hasModel("claude-3-haiku"))
	assert.False(t, anthropic.hasModel("claude-2"))
}
