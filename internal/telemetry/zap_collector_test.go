package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"taxonomyshaper/internal/taxonomy"
)

func newObservedCollector() (*ZapCollector, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewZapCollector(zap.New(core)), logs
}

func TestNewZapCollector_AssignsUniqueRunIDs(t *testing.T) {
	a := NewZapCollector(nil)
	b := NewZapCollector(nil)
	assert.NotEmpty(t, a.RunID())
	assert.NotEqual(t, a.RunID(), b.RunID())
}

func TestZapCollector_Collect_LogsRunIDAndEventKind(t *testing.T) {
	c, logs := newObservedCollector()
	c.Collect(taxonomy.Event{Kind: taxonomy.EventLimitReached})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "taxonomy_event", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, c.RunID(), fields["run_id"])
	assert.Equal(t, string(taxonomy.EventLimitReached), fields["event"])
}

func TestZapCollector_Collect_IncludesPathWhenPresent(t *testing.T) {
	c, logs := newObservedCollector()
	c.Collect(taxonomy.Event{Kind: taxonomy.EventOrphansBubbled, Path: []string{"Animals", "Dog"}})

	fields := logs.All()[0].ContextMap()
	path, ok := fields["path"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"Animals", "Dog"}, path)
}

func TestZapCollector_Collect_OmitsPathWhenEmpty(t *testing.T) {
	c, logs := newObservedCollector()
	c.Collect(taxonomy.Event{Kind: taxonomy.EventCacheHit})

	_, hasPath := logs.All()[0].ContextMap()["path"]
	assert.False(t, hasPath)
}

func TestZapCollector_Collect_IncludesExtraFields(t *testing.T) {
	c, logs := newObservedCollector()
	c.Collect(taxonomy.Event{Kind: taxonomy.EventOrphansBubbled, Fields: map[string]any{"count": 3}})

	fields := logs.All()[0].ContextMap()
	assert.EqualValues(t, 3, fields["count"])
}
