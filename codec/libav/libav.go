// Package libav implements the decoding capability and a demuxing packet
// reader on top of libav (FFmpeg).
package libav

import (
	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/avelement/types"
)

func CodecIDFromStreamType(t types.AudioStreamType) (astiav.CodecID, bool) {
	switch t {
	case types.AudioStreamTypeAac:
		return astiav.CodecIDAac, true
	case types.AudioStreamTypeAc3:
		return astiav.CodecIDAc3, true
	case types.AudioStreamTypeEac3:
		return astiav.CodecIDEac3, true
	case types.AudioStreamTypeDts:
		return astiav.CodecIDDts, true
	case types.AudioStreamTypeMpeg2Layer3:
		return astiav.CodecIDMp3, true
	case types.AudioStreamTypeFlac:
		return astiav.CodecIDFlac, true
	case types.AudioStreamTypeOpus:
		return astiav.CodecIDOpus, true
	case types.AudioStreamTypeVorbis:
		return astiav.CodecIDVorbis, true
	}
	return astiav.CodecIDNone, false
}

func StreamTypeFromCodecID(id astiav.CodecID) types.AudioStreamType {
	switch id {
	case astiav.CodecIDAac, astiav.CodecIDAacLatm:
		return types.AudioStreamTypeAac
	case astiav.CodecIDAc3:
		return types.AudioStreamTypeAc3
	case astiav.CodecIDEac3:
		return types.AudioStreamTypeEac3
	case astiav.CodecIDDts:
		return types.AudioStreamTypeDts
	case astiav.CodecIDMp3:
		return types.AudioStreamTypeMpeg2Layer3
	case astiav.CodecIDFlac:
		return types.AudioStreamTypeFlac
	case astiav.CodecIDOpus:
		return types.AudioStreamTypeOpus
	case astiav.CodecIDVorbis:
		return types.AudioStreamTypeVorbis
	case astiav.CodecIDWmapro:
		return types.AudioStreamTypeWmaPro
	case astiav.CodecIDTruehd:
		return types.AudioStreamTypeDolbyTrueHD
	}
	return types.AudioStreamTypeUnknown
}
