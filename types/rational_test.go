package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRationalFromString(t *testing.T) {
	for _, tt := range []struct {
		input   string
		want    Rational
		wantErr bool
	}{
		{input: "1/90000", want: Rational{1, 90000}},
		{input: "1/48000", want: Rational{1, 48000}},
		{input: "2/96000", want: Rational{2, 96000}},
		{input: " 1/1000 ", want: Rational{1, 1000}},
		{input: "0.001", want: Rational{1, 1000}},
		{input: "48000", want: Rational{48000, 1}},
		{input: "0/1", want: Rational{0, 1}},
		{input: "1/0", wantErr: true},
		{input: "", wantErr: true},
		{input: "invalid", wantErr: true},
		{input: "10/invalid", wantErr: true},
	} {
		t.Run(tt.input, func(t *testing.T) {
			r, err := RationalFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, *r)
		})
	}
}

func TestRationalSeconds(t *testing.T) {
	tb := Rational{Num: 1, Den: 90000}
	require.InDelta(t, 2.0, tb.Seconds(180000), 1e-12)
	require.InDelta(t, 1024.0/48000.0, Rational{Num: 1, Den: 48000}.Seconds(1024), 1e-12)
	require.Zero(t, Rational{}.Seconds(100))
	require.True(t, Rational{}.IsZero())
}

func TestRationalText(t *testing.T) {
	var r Rational
	require.NoError(t, r.UnmarshalJSON([]byte(`"1/1000"`)))
	require.Equal(t, Rational{Num: 1, Den: 1000}, r)
	b, err := r.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `"1/1000"`, string(b))

	require.NoError(t, r.Set("1/44100"))
	require.Equal(t, "1/44100", r.String())
	require.Equal(t, "rational", r.Type())
	require.Error(t, r.Set("x"))
}
