package controller

// Phase identifies which variant of the controller state is active
type Phase int

const (
	// PhaseData means no fetch is in flight; Items holds the accumulated results
	PhaseData Phase = iota
	// PhaseLoading means a full search is in flight and there is nothing to show yet
	PhaseLoading
	// PhaseLoadingMore means a load-more fetch is in flight; previous items are still shown
	PhaseLoadingMore
	// PhaseFailed means the most recent fetch returned an error
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseData:
		return "Data"
	case PhaseLoading:
		return "Loading"
	case PhaseLoadingMore:
		return "LoadingMore"
	case PhaseFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// State is the observable controller state. Items is a snapshot: the
// controller never mutates a published slice, so observers may read it
// without synchronization. Err is set only in PhaseFailed.
type State[T any] struct {
	Phase Phase
	Items []T
	Err   error
}
