package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"hash-partition-bench/internal/partitioner"
	"hash-partition-bench/internal/placement"
	"hash-partition-bench/internal/planner"
	"hash-partition-bench/internal/record"
)

const (
	DefaultTupleCount  = 1 << 24
	DefaultRuns        = 5
	DefaultMinHashBits = 1
	DefaultMaxHashBits = 18
)

var DefaultWorkerOptions = []int{1, 2, 4, 8, 16}

type Config struct {
	// Prefix задаёт префикс файлов с результатами развёртки.
	Prefix        string
	TupleCount    int
	Runs          int
	WorkerOptions []int
	MinHashBits   int
	MaxHashBits   int
	// MaxCapacity ограничивает ёмкость партиции; 0 снимает предел.
	MaxCapacity      int
	HashMode         partitioner.Mode
	Placement        placement.Kind
	MemoryLimitBytes int64
	MetricsPort      int
	Kafka            KafkaConfig
}

type KafkaConfig struct {
	Broker string
	Topic  string
}

// Enabled сообщает, задан ли брокер для отправки результатов.
func (k KafkaConfig) Enabled() bool {
	return k.Broker != "" && k.Topic != ""
}

// LoadConfig читает конфигурацию из переменных окружения.
// Отсутствующие переменные получают значения по умолчанию.
func LoadConfig() (*Config, error) {
	tupleCount, err := parseInt("TUPLE_COUNT", DefaultTupleCount)
	if err != nil {
		return nil, err
	}
	if tupleCount <= 0 || tupleCount > record.MaxTuples {
		return nil, fmt.Errorf("invalid TUPLE_COUNT: %d out of (0, %d]", tupleCount, record.MaxTuples)
	}

	runs, err := parseInt("RUNS", DefaultRuns)
	if err != nil {
		return nil, err
	}
	if runs <= 0 {
		return nil, fmt.Errorf("invalid RUNS: %d", runs)
	}

	workers, err := parseWorkers(os.Getenv("WORKER_OPTIONS"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse WORKER_OPTIONS: %w", err)
	}

	minBits, err := parseInt("MIN_HASH_BITS", DefaultMinHashBits)
	if err != nil {
		return nil, err
	}
	maxBits, err := parseInt("MAX_HASH_BITS", DefaultMaxHashBits)
	if err != nil {
		return nil, err
	}
	if minBits < 0 || maxBits < minBits || maxBits > planner.MaxHashBits {
		return nil, fmt.Errorf("invalid hash bits range [%d, %d]", minBits, maxBits)
	}

	maxCapacity, err := parseInt("MAX_CAPACITY", 0)
	if err != nil {
		return nil, err
	}
	if maxCapacity < 0 {
		return nil, fmt.Errorf("invalid MAX_CAPACITY: %d", maxCapacity)
	}

	hashMode := partitioner.Murmur3Mode
	if v := os.Getenv("HASH_MODE"); v != "" {
		hashMode, err = partitioner.ParseMode(v)
		if err != nil {
			return nil, fmt.Errorf("invalid HASH_MODE: %w", err)
		}
	}

	kind := placement.NoneKind
	if v := os.Getenv("PLACEMENT"); v != "" {
		kind, err = placement.ParseKind(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PLACEMENT: %w", err)
		}
	}

	memoryLimit, err := parseInt("MEMORY_LIMIT_BYTES", 0)
	if err != nil {
		return nil, err
	}
	if memoryLimit < 0 {
		return nil, fmt.Errorf("invalid MEMORY_LIMIT_BYTES: %d", memoryLimit)
	}

	metricsPort, err := parseInt("METRICS_PORT", 0)
	if err != nil {
		return nil, err
	}
	if metricsPort < 0 || metricsPort > 65535 {
		return nil, fmt.Errorf("invalid METRICS_PORT: %d", metricsPort)
	}

	return &Config{
		Prefix:           os.Getenv("PREFIX"),
		TupleCount:       tupleCount,
		Runs:             runs,
		WorkerOptions:    workers,
		MinHashBits:      minBits,
		MaxHashBits:      maxBits,
		MaxCapacity:      maxCapacity,
		HashMode:         hashMode,
		Placement:        kind,
		MemoryLimitBytes: int64(memoryLimit),
		MetricsPort:      metricsPort,
		Kafka: KafkaConfig{
			Broker: os.Getenv("KAFKA_BROKER"),
			Topic:  os.Getenv("KAFKA_TOPIC"),
		},
	}, nil
}

// HashBits возвращает все значения числа бит хэша из диапазона конфигурации.
func (c *Config) HashBits() []int {
	bits := make([]int, 0, c.MaxHashBits-c.MinHashBits+1)
	for b := c.MinHashBits; b <= c.MaxHashBits; b++ {
		bits = append(bits, b)
	}
	return bits
}

func parseInt(name string, def int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}

	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

func parseWorkers(s string) ([]int, error) {
	if s == "" {
		return append([]int(nil), DefaultWorkerOptions...), nil
	}

	var workers []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid worker count %q: %w", part, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("invalid worker count %d", n)
		}
		workers = append(workers, n)
	}

	if len(workers) == 0 {
		return nil, fmt.Errorf("no worker counts in %q", s)
	}
	return workers, nil
}
