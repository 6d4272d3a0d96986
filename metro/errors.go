package metro

import "errors"

// Capacity errors are expected outcomes of contention. The state machine
// consumes them and retries on the next tick; they never stop a run.
var (
	ErrStationFull = errors.New("station full")
	ErrTrackFull   = errors.New("track full")
	ErrTrainFull   = errors.New("train full")
)

// Contract errors indicate a construction or state-machine defect. The
// driver treats them as fatal for the offending train only.
var (
	ErrStationAction = errors.New("invalid station action")
	ErrLineAction    = errors.New("invalid line action")
	ErrLineBounds    = errors.New("line index out of range")
)

// Retryable reports whether err is resource contention rather than a defect.
func Retryable(err error) bool {
	return errors.Is(err, ErrStationFull) ||
		errors.Is(err, ErrTrackFull) ||
		errors.Is(err, ErrTrainFull)
}
