package pipeline

// State is a phase of a pipeline run.
type State int

const (
	StateInit State = iota
	StateLoadingCheckpoint
	StateProcessing
	StateFinalizing
	StateDone
	StateInterrupted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateLoadingCheckpoint:
		return "LOADING_CHECKPOINT"
	case StateProcessing:
		return "PROCESSING"
	case StateFinalizing:
		return "FINALIZING"
	case StateDone:
		return "DONE"
	case StateInterrupted:
		return "INTERRUPTED"
	case StateFailed:
		return "FAILED"
	}
	return "UNKNOWN"
}

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateInterrupted || s == StateFailed
}
