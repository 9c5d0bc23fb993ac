// Package audio converts the samples of decoded buffers from and to
// normalized float64 values.
package audio

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/xaionaro-go/avelement/buffer"
	"github.com/xaionaro-go/avelement/types"
)

// ExtractSamples returns the samples of one channel normalized to [-1, 1].
func ExtractSamples(d *buffer.PcmData, channel int) ([]float64, error) {
	plane, err := planeOf(d, channel)
	if err != nil {
		return nil, err
	}
	res := make([]float64, d.Samples)
	if len(plane) == 0 {
		return res, nil
	}
	ptr := unsafe.Pointer(&plane[0])
	switch d.Format {
	case types.PcmFormatFloat32Planes:
		samples := unsafe.Slice((*float32)(ptr), d.Samples)
		for i := range d.Samples {
			res[i] = float64(samples[i])
		}
	case types.PcmFormatInt16Planes:
		samples := unsafe.Slice((*int16)(ptr), d.Samples)
		for i := range d.Samples {
			res[i] = float64(samples[i]) / 32768.0
		}
	}
	return res, nil
}

// FillSamples writes normalized samples into one channel; extra samples
// are ignored.
func FillSamples(d *buffer.PcmData, channel int, samples []float64) error {
	plane, err := planeOf(d, channel)
	if err != nil {
		return err
	}
	if len(plane) == 0 {
		return nil
	}
	samples = samples[:min(len(samples), d.Samples)]
	ptr := unsafe.Pointer(&plane[0])
	switch d.Format {
	case types.PcmFormatFloat32Planes:
		out := unsafe.Slice((*float32)(ptr), d.Samples)
		for i, sample := range samples {
			out[i] = float32(sample)
		}
	case types.PcmFormatInt16Planes:
		out := unsafe.Slice((*int16)(ptr), d.Samples)
		for i, sample := range samples {
			out[i] = int16(math.Max(-1, math.Min(1, sample)) * 32767.0)
		}
	}
	return nil
}

// Peak returns the maximal absolute value of the samples.
func Peak(samples []float64) float64 {
	var peak float64
	for _, s := range samples {
		peak = max(peak, math.Abs(s))
	}
	return peak
}

func planeOf(d *buffer.PcmData, channel int) ([]byte, error) {
	if !d.Format.IsPlanar() {
		return nil, fmt.Errorf("unsupported sample format: %v", d.Format)
	}
	if channel < 0 || channel >= len(d.Planes) {
		return nil, fmt.Errorf("channel %d is out of range [0, %d)", channel, len(d.Planes))
	}
	plane := d.Planes[channel]
	if len(plane) < d.ChannelSize() {
		return nil, fmt.Errorf("plane %d is %d bytes, expected %d", channel, len(plane), d.ChannelSize())
	}
	return plane, nil
}
