package record

import (
	"crypto/rand"
	"fmt"
	mrand "math/rand/v2"
)

// Generate создаёт count записей, заполненных байтами из системного
// источника энтропии. count должен лежать в диапазоне (0, MaxTuples].
func Generate(count int) ([]Record, error) {
	if count <= 0 || count > MaxTuples {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}

	buf := make([]byte, count*Size)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("read entropy: %w", err)
	}

	return fromBytes(buf), nil
}

// GenerateSeeded создаёт count псевдослучайных записей из фиксированного seed.
// Одинаковый seed всегда даёт одинаковый набор записей.
func GenerateSeeded(count int, seed uint64) ([]Record, error) {
	if count <= 0 || count > MaxTuples {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}

	src := mrand.NewChaCha8(seedBytes(seed))
	buf := make([]byte, count*Size)
	_, _ = src.Read(buf)

	return fromBytes(buf), nil
}

// SameKey создаёт count записей с одним и тем же ключом и разными payload.
func SameKey(count int, key [8]byte) []Record {
	records := make([]Record, count)
	for i := range records {
		records[i].Key = key
		records[i].Payload = [8]byte{
			byte(i), byte(i >> 8), byte(i >> 16), byte(i >> 24),
		}
	}
	return records
}

func fromBytes(buf []byte) []Record {
	records := make([]Record, len(buf)/Size)
	for i := range records {
		off := i * Size
		records[i].Key = [8]byte(buf[off : off+8])
		records[i].Payload = [8]byte(buf[off+8 : off+Size])
	}
	return records
}

func seedBytes(seed uint64) [32]byte {
	var s [32]byte
	for i := range 8 {
		s[i] = byte(seed >> (8 * i))
	}
	return s
}
