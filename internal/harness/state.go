package harness

type State int32

const (
	Idle State = iota
	WarmUp
	Reset
	Timed
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case WarmUp:
		return "warm_up"
	case Reset:
		return "reset"
	case Timed:
		return "timed"
	case Done:
		return "done"
	case Failed:
		return "failed"
	}
	return "unknown"
}
