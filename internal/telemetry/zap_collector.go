// Package telemetry implements the Event Log: a taxonomy.EventCollector that
// writes structured log lines via zap, tagging every event with a run ID so
// a batch CLI invocation's many concurrent Traverse calls can be told apart
// in the resulting log stream.
package telemetry

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taxonomyshaper/internal/taxonomy"
)

// ZapCollector adapts taxonomy.EventCollector to zap structured logging.
type ZapCollector struct {
	log   *zap.Logger
	runID string
}

// NewZapCollector creates a ZapCollector with a fresh run ID.
func NewZapCollector(log *zap.Logger) *ZapCollector {
	if log == nil {
		log = zap.NewNop()
	}
	return &ZapCollector{
		log:   log.With(zap.String("component", "event_log")),
		runID: uuid.NewString(),
	}
}

// RunID returns the run ID every event from this collector is tagged with.
func (c *ZapCollector) RunID() string { return c.runID }

// Collect implements taxonomy.EventCollector.
func (c *ZapCollector) Collect(e taxonomy.Event) {
	fields := make([]zap.Field, 0, len(e.Fields)+3)
	fields = append(fields, zap.String("run_id", c.runID), zap.String("event", string(e.Kind)))
	if len(e.Path) > 0 {
		fields = append(fields, zap.Strings("path", e.Path))
	}
	for k, v := range e.Fields {
		fields = append(fields, zap.Any(k, v))
	}
	c.log.Info("taxonomy_event", fields...)
}
