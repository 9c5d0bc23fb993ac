package audio

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/avelement/buffer"
	"github.com/xaionaro-go/avelement/types"
)

func TestFillAndExtract(t *testing.T) {
	in := []float64{0, 0.5, -0.25, 1, -1}
	for _, format := range []types.PcmFormat{types.PcmFormatFloat32Planes, types.PcmFormatInt16Planes} {
		t.Run(format.String(), func(t *testing.T) {
			d := buffer.NewPcmData(1, format, 2, len(in))
			require.NoError(t, FillSamples(d, 1, in))

			out, err := ExtractSamples(d, 1)
			require.NoError(t, err)
			require.InDeltaSlice(t, in, out, 1e-3)

			silent, err := ExtractSamples(d, 0)
			require.NoError(t, err)
			require.Zero(t, Peak(silent))
			require.InDelta(t, 1, Peak(out), 1e-3)
		})
	}
}

func TestErrors(t *testing.T) {
	d := buffer.NewPcmData(1, types.PcmFormatInt16, 1, 4)
	_, err := ExtractSamples(d, 0)
	require.Error(t, err)

	d = buffer.NewPcmData(1, types.PcmFormatFloat32Planes, 2, 4)
	_, err = ExtractSamples(d, 2)
	require.Error(t, err)
	require.Error(t, FillSamples(d, -1, nil))
}
