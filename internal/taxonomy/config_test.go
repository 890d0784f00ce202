package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSmartConfig_IsValid(t *testing.T) {
	cfg := DefaultSmartConfig()
	assert.True(t, cfg.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestSmartConfig_Validate(t *testing.T) {
	valid := DefaultSmartConfig()

	cases := []struct {
		name   string
		mutate func(*SmartConfig)
	}{
		{"negative min_depth", func(c *SmartConfig) { c.MinDepth = -1 }},
		{"negative min_hyponyms", func(c *SmartConfig) { c.MinHyponyms = -1 }},
		{"negative min_leaf_size", func(c *SmartConfig) { c.MinLeafSize = -1 }},
		{"threshold above 1", func(c *SmartConfig) { c.SemanticThreshold = 1.5 }},
		{"threshold below 0", func(c *SmartConfig) { c.SemanticThreshold = -0.1 }},
		{"negative min cluster", func(c *SmartConfig) { c.SemanticArrangementMinCluster = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestGetChildConfig_NoOverridesReturnsUnchanged(t *testing.T) {
	cfg := DefaultSmartConfig()
	got := cfg.GetChildConfig("dog", "n123")
	assert.Equal(t, cfg, got)
}

func TestGetChildConfig_DisabledNeverApplies(t *testing.T) {
	minDepth := 1
	cfg := SmartConfig{
		Enabled:           false,
		CategoryOverrides: map[string]CategoryOverride{"dog": {MinDepth: &minDepth}},
	}
	got := cfg.GetChildConfig("dog", "")
	assert.Equal(t, cfg, got)
}

func TestGetChildConfig_WNIDTakesPrecedenceOverName(t *testing.T) {
	wnidDepth := 1
	nameDepth := 9
	cfg := SmartConfig{
		Enabled: true,
		CategoryOverrides: map[string]CategoryOverride{
			"n123": {MinDepth: &wnidDepth},
			"dog":  {MinDepth: &nameDepth},
		},
	}
	got := cfg.GetChildConfig("dog", "n123")
	assert.Equal(t, 1, got.MinDepth)
}

func TestGetChildConfig_NameFallsBackCaseInsensitively(t *testing.T) {
	depth := 4
	cfg := SmartConfig{
		Enabled:           true,
		CategoryOverrides: map[string]CategoryOverride{"dog": {MinDepth: &depth}},
	}
	got := cfg.GetChildConfig("Dog", "")
	assert.Equal(t, 4, got.MinDepth)
}

func TestGetChildConfig_OverridesPropagateAndRetainMap(t *testing.T) {
	depth := 2
	overrides := map[string]CategoryOverride{"dog": {MinDepth: &depth}}
	cfg := SmartConfig{Enabled: true, MinDepth: 6, CategoryOverrides: overrides}

	got := cfg.GetChildConfig("dog", "")
	require.Equal(t, 2, got.MinDepth)
	assert.Equal(t, overrides, got.CategoryOverrides, "the override map itself is carried forward unchanged for deeper descendants")
}

func TestGetChildConfig_PartialOverrideLeavesOtherFieldsIntact(t *testing.T) {
	leafSize := 9
	cfg := SmartConfig{
		Enabled:     true,
		MinDepth:    6,
		MinHyponyms: 10,
		MinLeafSize: 3,
		CategoryOverrides: map[string]CategoryOverride{
			"dog": {MinLeafSize: &leafSize},
		},
	}
	got := cfg.GetChildConfig("dog", "")
	assert.Equal(t, 9, got.MinLeafSize)
	assert.Equal(t, 6, got.MinDepth, "fields not named in the override are untouched")
	assert.Equal(t, 10, got.MinHyponyms)
}
