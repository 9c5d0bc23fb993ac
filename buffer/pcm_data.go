package buffer

import (
	"fmt"

	"github.com/xaionaro-go/avelement/types"
)

// PcmData is a buffer of decoded planar audio: one plane per output channel,
// each plane holding Samples samples of Format.
type PcmData struct {
	Base

	Format   types.PcmFormat
	Channels int
	Samples  int
	Planes   [][]byte
}

var _ Buffer = (*PcmData)(nil)

func NewPcmData(
	owner types.ElementID,
	format types.PcmFormat,
	channels int,
	samples int,
) *PcmData {
	d := &PcmData{
		Base: Base{Owner: owner},
	}
	d.Reshape(format, channels, samples)
	return d
}

// Reshape sets the tag of the buffer and resizes the planes, reusing the
// already allocated memory where possible.
func (d *PcmData) Reshape(
	format types.PcmFormat,
	channels int,
	samples int,
) {
	d.Format = format
	d.Channels = channels
	d.Samples = samples
	channelSize := d.ChannelSize()
	if cap(d.Planes) < channels {
		planes := make([][]byte, channels)
		copy(planes, d.Planes)
		d.Planes = planes
	}
	d.Planes = d.Planes[:channels]
	for idx := range d.Planes {
		if cap(d.Planes[idx]) < channelSize {
			d.Planes[idx] = make([]byte, channelSize)
			continue
		}
		d.Planes[idx] = d.Planes[idx][:channelSize]
	}
}

// FitsIn returns true if Reshape with these parameters does not need
// to allocate.
func (d *PcmData) FitsIn(
	format types.PcmFormat,
	channels int,
	samples int,
) bool {
	if cap(d.Planes) < channels {
		return false
	}
	channelSize := samples * format.BytesPerSample()
	for _, plane := range d.Planes[:channels] {
		if cap(plane) < channelSize {
			return false
		}
	}
	return true
}

// ChannelSize is the size of one plane in bytes.
func (d *PcmData) ChannelSize() int {
	return d.Samples * d.Format.BytesPerSample()
}

func (d *PcmData) Size() int {
	return d.Channels * d.ChannelSize()
}

func (d *PcmData) String() string {
	return fmt.Sprintf("PcmData(%s; ch:%d; samples:%d; ts:%f)", d.Format, d.Channels, d.Samples, d.TimeStampValue)
}
