// media_state.go defines the lifecycle states of elements and pipelines.

package types

import "fmt"

// MediaState is the pipeline-wide lifecycle state. The zero value is
// MediaStateStopped.
type MediaState int

const (
	MediaStateStopped = MediaState(iota)
	MediaStatePaused
	MediaStateRunning
)

func (s MediaState) String() string {
	switch s {
	case MediaStateStopped:
		return "stopped"
	case MediaStatePaused:
		return "paused"
	case MediaStateRunning:
		return "running"
	default:
		return fmt.Sprintf("MediaState(%d)", int(s))
	}
}
