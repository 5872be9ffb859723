package harness

type Strategy string

const (
	// SharedStrategy — все воркеры пишут в общие буферы под мьютексом партиции.
	SharedStrategy Strategy = "concurrent"
	// IsolatedStrategy — у каждого воркера свои буферы, затем консолидация.
	IsolatedStrategy Strategy = "independent"
)

// ParseStrategy возвращает Strategy по имени метода из отчёта.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case SharedStrategy, IsolatedStrategy:
		return Strategy(s), nil
	}
	return "", ErrInvalidStrategy
}
