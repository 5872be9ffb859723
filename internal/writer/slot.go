package writer

import "sync"

const cacheLineSize = 64

// slot — счётчик занятых позиций одной партиции под собственным мьютексом.
// Размер выровнен по кэш-линии, чтобы соседние партиции не делили одну линию.
type slot struct {
	mu   sync.Mutex
	next int
	_    [cacheLineSize - 16]byte
}
