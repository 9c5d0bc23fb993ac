// audio_stream_type.go defines the codec tag of an audio stream.

package types

import (
	"fmt"
	"strings"
)

type AudioStreamType int

const (
	AudioStreamTypeUnknown = AudioStreamType(iota)
	AudioStreamTypePcm
	AudioStreamTypeMpeg2Layer3
	AudioStreamTypeAc3
	AudioStreamTypeEac3
	AudioStreamTypeAac
	AudioStreamTypeDts
	AudioStreamTypeFlac
	AudioStreamTypeOpus
	AudioStreamTypeVorbis
	AudioStreamTypeWmaPro
	AudioStreamTypeDolbyTrueHD
	endOfAudioStreamType
)

func (t AudioStreamType) String() string {
	switch t {
	case AudioStreamTypeUnknown:
		return "unknown"
	case AudioStreamTypePcm:
		return "pcm"
	case AudioStreamTypeMpeg2Layer3:
		return "mp3"
	case AudioStreamTypeAc3:
		return "ac3"
	case AudioStreamTypeEac3:
		return "eac3"
	case AudioStreamTypeAac:
		return "aac"
	case AudioStreamTypeDts:
		return "dts"
	case AudioStreamTypeFlac:
		return "flac"
	case AudioStreamTypeOpus:
		return "opus"
	case AudioStreamTypeVorbis:
		return "vorbis"
	case AudioStreamTypeWmaPro:
		return "wmapro"
	case AudioStreamTypeDolbyTrueHD:
		return "truehd"
	default:
		return fmt.Sprintf("AudioStreamType(%d)", int(t))
	}
}

func AudioStreamTypeFromString(s string) (AudioStreamType, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for t := AudioStreamTypeUnknown; t < endOfAudioStreamType; t++ {
		if t.String() == s {
			return t, nil
		}
	}
	switch s {
	case "mpeg2layer3", "mpeg1layer3":
		return AudioStreamTypeMpeg2Layer3, nil
	case "dolbytruehd":
		return AudioStreamTypeDolbyTrueHD, nil
	}
	return AudioStreamTypeUnknown, fmt.Errorf("unknown audio stream type '%s'", s)
}

func (t AudioStreamType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *AudioStreamType) UnmarshalText(b []byte) error {
	v, err := AudioStreamTypeFromString(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
