// pcm_format.go defines the sample layouts of decoded audio buffers.

package types

import "fmt"

type PcmFormat int

const (
	PcmFormatUnknown = PcmFormat(iota)
	PcmFormatInt16
	PcmFormatInt16Planes
	PcmFormatFloat32
	PcmFormatFloat32Planes
)

func (f PcmFormat) String() string {
	switch f {
	case PcmFormatUnknown:
		return "unknown"
	case PcmFormatInt16:
		return "s16"
	case PcmFormatInt16Planes:
		return "s16p"
	case PcmFormatFloat32:
		return "flt"
	case PcmFormatFloat32Planes:
		return "fltp"
	default:
		return fmt.Sprintf("PcmFormat(%d)", int(f))
	}
}

// BytesPerSample returns the size of one sample of one channel, or 0 if
// the format is unknown.
func (f PcmFormat) BytesPerSample() int {
	switch f {
	case PcmFormatInt16, PcmFormatInt16Planes:
		return 2
	case PcmFormatFloat32, PcmFormatFloat32Planes:
		return 4
	default:
		return 0
	}
}

func (f PcmFormat) IsPlanar() bool {
	switch f {
	case PcmFormatInt16Planes, PcmFormatFloat32Planes:
		return true
	default:
		return false
	}
}
