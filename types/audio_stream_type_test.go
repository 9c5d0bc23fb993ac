package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAudioStreamTypeFromString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    AudioStreamType
		wantErr bool
	}{
		{name: "aac", input: "aac", want: AudioStreamTypeAac},
		{name: "trimmed uppercase", input: " AC3 ", want: AudioStreamTypeAc3},
		{name: "mp3 alias", input: "mpeg2layer3", want: AudioStreamTypeMpeg2Layer3},
		{name: "round trip", input: AudioStreamTypeDolbyTrueHD.String(), want: AudioStreamTypeDolbyTrueHD},
		{name: "unsupported", input: "speex", want: AudioStreamTypeUnknown, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := AudioStreamTypeFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func TestPcmFormat(t *testing.T) {
	require.Equal(t, 2, PcmFormatInt16Planes.BytesPerSample())
	require.Equal(t, 4, PcmFormatFloat32Planes.BytesPerSample())
	require.Zero(t, PcmFormatUnknown.BytesPerSample())
	require.True(t, PcmFormatFloat32Planes.IsPlanar())
	require.False(t, PcmFormatFloat32.IsPlanar())
}
