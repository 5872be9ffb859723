package partitioner

import (
	"hash/fnv"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

// Router выбирает партицию для записи по её ключу.
// Результат зависит только от ключа, числа партиций и режима хэширования.
type Router struct {
	config atomic.Value
}

// NewRouter создаёт Router с режимом хэширования по умолчанию (murmur3).
func NewRouter() *Router {
	r := &Router{}
	r.config.Store(newConfig(defaultMode))
	return r
}

// SetMode переключает функцию хэширования.
// Обновление конфигурации происходит атомарно и потокобезопасно.
func (r *Router) SetMode(mode Mode) error {
	switch mode {
	case Murmur3Mode, XXHashMode, FNVMode:
	default:
		zap.L().Error("invalid mode", zap.String("mode", string(mode)))
		return ErrInvalidMode
	}

	r.config.Store(newConfig(mode))

	return nil
}

// Mode возвращает текущий режим хэширования.
func (r *Router) Mode() Mode {
	return r.config.Load().(*Config).mode
}

// Route возвращает номер партиции ключа в диапазоне [0, count).
func (r *Router) Route(key [8]byte, count int) (int, error) {
	if count <= 0 {
		return 0, ErrInvalidCount
	}
	return r.Func()(key, count), nil
}

// Func возвращает функцию маршрутизации для текущего режима без проверки count.
// Предназначена для горячего цикла воркеров: её берут один раз на сегмент.
func (r *Router) Func() RouteFn {
	hash := r.config.Load().(*Config).hash
	return func(key [8]byte, count int) int {
		return int(uint64(hash(key)) % uint64(count))
	}
}

func newConfig(mode Mode) *Config {
	c := &Config{mode: mode}

	switch mode {
	case XXHashMode:
		c.hash = func(key [8]byte) uint32 {
			h := xxhash.Sum64(key[:])
			return uint32(h ^ h>>32)
		}
	case FNVMode:
		c.hash = func(key [8]byte) uint32 {
			h := fnv.New32a()
			_, _ = h.Write(key[:])
			return h.Sum32()
		}
	default:
		c.hash = func(key [8]byte) uint32 {
			return murmur3Key(key, murmurSeed)
		}
	}

	return c
}
