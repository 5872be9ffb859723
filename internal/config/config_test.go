package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hash-partition-bench/internal/partitioner"
	"hash-partition-bench/internal/placement"
)

var envNames = []string{
	"PREFIX", "TUPLE_COUNT", "RUNS", "WORKER_OPTIONS", "MIN_HASH_BITS", "MAX_HASH_BITS",
	"MAX_CAPACITY", "HASH_MODE", "PLACEMENT", "MEMORY_LIMIT_BYTES", "METRICS_PORT",
	"KAFKA_BROKER", "KAFKA_TOPIC",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range envNames {
		t.Setenv(name, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Empty(t, cfg.Prefix)
	assert.Equal(t, DefaultTupleCount, cfg.TupleCount)
	assert.Equal(t, DefaultRuns, cfg.Runs)
	assert.Equal(t, []int{1, 2, 4, 8, 16}, cfg.WorkerOptions)
	assert.Equal(t, 1, cfg.MinHashBits)
	assert.Equal(t, 18, cfg.MaxHashBits)
	assert.Len(t, cfg.HashBits(), 18)
	assert.Zero(t, cfg.MaxCapacity)
	assert.Equal(t, partitioner.Murmur3Mode, cfg.HashMode)
	assert.Equal(t, placement.NoneKind, cfg.Placement)
	assert.Zero(t, cfg.MetricsPort)
	assert.False(t, cfg.Kafka.Enabled())
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PREFIX", "run1_")
	t.Setenv("TUPLE_COUNT", "1024")
	t.Setenv("RUNS", "2")
	t.Setenv("WORKER_OPTIONS", "1, 3 ,6")
	t.Setenv("MIN_HASH_BITS", "2")
	t.Setenv("MAX_HASH_BITS", "4")
	t.Setenv("MAX_CAPACITY", "100")
	t.Setenv("HASH_MODE", "xxhash")
	t.Setenv("PLACEMENT", "core")
	t.Setenv("MEMORY_LIMIT_BYTES", "1048576")
	t.Setenv("METRICS_PORT", "9100")
	t.Setenv("KAFKA_BROKER", "localhost:9092")
	t.Setenv("KAFKA_TOPIC", "bench")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "run1_", cfg.Prefix)
	assert.Equal(t, 1024, cfg.TupleCount)
	assert.Equal(t, 2, cfg.Runs)
	assert.Equal(t, []int{1, 3, 6}, cfg.WorkerOptions)
	assert.Equal(t, []int{2, 3, 4}, cfg.HashBits())
	assert.Equal(t, 100, cfg.MaxCapacity)
	assert.Equal(t, partitioner.XXHashMode, cfg.HashMode)
	assert.Equal(t, placement.CoreKind, cfg.Placement)
	assert.Equal(t, int64(1<<20), cfg.MemoryLimitBytes)
	assert.Equal(t, 9100, cfg.MetricsPort)
	assert.True(t, cfg.Kafka.Enabled())
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"TUPLE_COUNT", "abc"},
		{"TUPLE_COUNT", "32000001"},
		{"RUNS", "0"},
		{"WORKER_OPTIONS", "1,x"},
		{"WORKER_OPTIONS", "0"},
		{"WORKER_OPTIONS", ","},
		{"MAX_HASH_BITS", "31"},
		{"MIN_HASH_BITS", "19"},
		{"MAX_CAPACITY", "-1"},
		{"HASH_MODE", "crc32"},
		{"PLACEMENT", "socket"},
		{"METRICS_PORT", "70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.name, tt.value)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
