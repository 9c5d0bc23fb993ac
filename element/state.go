package element

import (
	"github.com/xaionaro-go/avelement/types"
)

// ValidateTransition checks a state change against the state machine:
// Stopped -> Paused -> Running -> Paused, any state -> Stopped, and a state
// to itself.
func ValidateTransition(from, to types.MediaState) error {
	switch {
	case from == to:
		return nil
	case to == types.MediaStateStopped:
		return nil
	case from == types.MediaStateStopped && to == types.MediaStatePaused:
		return nil
	case from == types.MediaStatePaused && to == types.MediaStateRunning:
		return nil
	case from == types.MediaStateRunning && to == types.MediaStatePaused:
		return nil
	}
	return ErrInvalidTransition{From: from, To: to}
}

// TransitionPath returns the states to pass through to get from one state
// to another, excluding the starting one.
func TransitionPath(from, to types.MediaState) []types.MediaState {
	var path []types.MediaState
	for cur := from; cur != to; {
		switch {
		case to == types.MediaStateStopped:
			cur = types.MediaStateStopped
		case cur == types.MediaStateStopped:
			cur = types.MediaStatePaused
		case cur == types.MediaStatePaused:
			cur = types.MediaStateRunning
		case cur == types.MediaStateRunning:
			cur = types.MediaStatePaused
		default:
			return nil
		}
		path = append(path, cur)
	}
	return path
}
