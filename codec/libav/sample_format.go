package libav

import (
	"fmt"
	"strings"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/avelement/types"
)

// PcmFormatFromAstiav returns the PCM format of a libav sample format, or
// PcmFormatUnknown if it has no equivalent.
func PcmFormatFromAstiav(f astiav.SampleFormat) types.PcmFormat {
	switch f {
	case astiav.SampleFormatS16:
		return types.PcmFormatInt16
	case astiav.SampleFormatS16P:
		return types.PcmFormatInt16Planes
	case astiav.SampleFormatFlt:
		return types.PcmFormatFloat32
	case astiav.SampleFormatFltp:
		return types.PcmFormatFloat32Planes
	}
	return types.PcmFormatUnknown
}

func sampleFormatFromString(s string) (astiav.SampleFormat, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "s16":
		return astiav.SampleFormatS16, nil
	case "s16p":
		return astiav.SampleFormatS16P, nil
	case "flt":
		return astiav.SampleFormatFlt, nil
	case "fltp":
		return astiav.SampleFormatFltp, nil
	}
	return astiav.SampleFormatNone, fmt.Errorf("unsupported sample format '%s'", s)
}
