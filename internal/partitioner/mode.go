package partitioner

type Mode string

const (
	Murmur3Mode Mode = "murmur3"
	XXHashMode  Mode = "xxhash"
	FNVMode     Mode = "fnv"

	defaultMode = Murmur3Mode
)

// ParseMode возвращает Mode по его строковому имени.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case Murmur3Mode, XXHashMode, FNVMode:
		return Mode(s), nil
	case "":
		return defaultMode, nil
	}
	return "", ErrInvalidMode
}
