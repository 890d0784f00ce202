package embedding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenAIEngine_RequiresAPIKey(t *testing.T) {
	_, err := NewGenAIEngine("", "", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestGenAIEngine_DimensionsAndName(t *testing.T) {
	eng := &GenAIEngine{model: "gemini-embedding-001"}
	assert.Equal(t, 3072, eng.Dimensions())
	assert.Equal(t, "genai:gemini-embedding-001", eng.Name())
}

func TestGenAIEngine_Close(t *testing.T) {
	eng := &GenAIEngine{}
	assert.NoError(t, eng.Close())
}

func TestInt32Ptr(t *testing.T) {
	p := int32Ptr(42)
	require.NotNil(t, p)
	assert.Equal(t, int32(42), *p)
}
