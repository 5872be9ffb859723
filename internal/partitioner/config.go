package partitioner

type Config struct {
	mode Mode
	hash HashFn
}

// HashFn хэширует 8-байтовый ключ в 32-битное значение.
type HashFn = func(key [8]byte) uint32

// RouteFn отображает ключ в номер партиции из [0, count).
type RouteFn = func(key [8]byte, count int) int
