// info.go defines the format descriptors attached to pins.

package pin

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/avelement/types"
	"github.com/xaionaro-go/xsync"
)

// Info describes the media carried by a pin. The category is fixed at
// creation; category-specific parameters may be negotiated later.
type Info interface {
	fmt.Stringer
	Category() types.MediaCategory
}

type BasicInfo struct {
	MediaCategory types.MediaCategory
}

var _ Info = (*BasicInfo)(nil)

func NewInfo(category types.MediaCategory) *BasicInfo {
	return &BasicInfo{MediaCategory: category}
}

func (i *BasicInfo) Category() types.MediaCategory {
	return i.MediaCategory
}

func (i *BasicInfo) String() string {
	return fmt.Sprintf("Info(%s)", i.MediaCategory)
}

type AudioParams struct {
	StreamType types.AudioStreamType
	SampleRate int
	Channels   int
}

// IsKnown returns true if the parameters describe a real stream.
func (p AudioParams) IsKnown() bool {
	return p.SampleRate > 0 && p.Channels > 0
}

func (p AudioParams) String() string {
	return fmt.Sprintf("%s:%dHz:%dch", p.StreamType, p.SampleRate, p.Channels)
}

// AudioInfo is the descriptor of an audio pin. Its parameters start either
// known (a producer that knows its stream) or unknown; unknown parameters
// are set exactly once, when the consuming element sees the first data.
type AudioInfo struct {
	locker     xsync.Mutex
	params     AudioParams
	negotiated bool
}

var _ Info = (*AudioInfo)(nil)

func NewAudioInfo(params AudioParams) *AudioInfo {
	return &AudioInfo{
		params:     params,
		negotiated: params.IsKnown(),
	}
}

func (i *AudioInfo) Category() types.MediaCategory {
	return types.MediaCategoryAudio
}

func (i *AudioInfo) GetAudioParams(ctx context.Context) AudioParams {
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &i.locker, func() AudioParams {
		return i.params
	})
}

func (i *AudioInfo) IsNegotiated(ctx context.Context) bool {
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &i.locker, func() bool {
		return i.negotiated
	})
}

// SetAudioParams fixes the parameters. Setting the same parameters again is
// a no-op; setting different ones after they were fixed is an error.
func (i *AudioInfo) SetAudioParams(ctx context.Context, params AudioParams) error {
	return xsync.DoR1(xsync.WithNoLogging(ctx, true), &i.locker, func() error {
		if i.negotiated {
			if i.params == params {
				return nil
			}
			return ErrAlreadyNegotiated{Current: i.params, Requested: params}
		}
		i.params = params
		i.negotiated = true
		return nil
	})
}

func (i *AudioInfo) String() string {
	ctx := context.TODO()
	return fmt.Sprintf("AudioInfo(%s)", i.GetAudioParams(ctx))
}
