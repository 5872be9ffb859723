package record

// Size — размер одной записи в байтах.
const Size = 16

// MaxTuples ограничивает число записей, создаваемых за один вызов генератора.
const MaxTuples = 32_000_000

// Record — неизменяемая пара ключ/значение; партиция выбирается по ключу.
type Record struct {
	Key     [8]byte
	Payload [8]byte
}
