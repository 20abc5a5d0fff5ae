package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.BuildDuration.Observe(0.01)
	m.CompactDuration.Observe(0.02)
	m.CompactionRatio.Observe(0.75)
	m.CollisionsResolved.Add(3)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["nbody_tree_build_seconds"])
	assert.True(t, names["nbody_tree_compact_seconds"])
	assert.True(t, names["nbody_tree_compaction_ratio"])
	assert.True(t, names["nbody_collisions_resolved_total"])
}

func TestCollisionsResolvedCounterAccumulates(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.CollisionsResolved.Add(2)
	m.CollisionsResolved.Add(5)

	assert.Equal(t, 7.0, testutil.ToFloat64(m.CollisionsResolved))
}
