package linguistics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberToSpanish(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "cero"},
		{7, "siete"},
		{10, "diez"},
		{15, "quince"},
		{20, "veinte"},
		{21, "veintiún"},
		{22, "veintidós"},
		{23, "veintitrés"},
		{27, "veintisiete"},
		{30, "treinta"},
		{45, "cuarenta y cinco"},
		{100, "cien"},
		{101, "ciento uno"},
		{110, "ciento diez"},
		{115, "ciento quince"},
		{500, "quinientos"},
		{999, "novecientos noventa y nueve"},
		{1000, "mil"},
		{1001, "mil uno"},
		{2024, "dos mil veinticuatro"},
		{2100, "dos mil ciento"},
		{9999, "nueve mil novecientos noventa y nueve"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := NumberToSpanish(tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Spanish)
		})
	}
}

func TestNumberToSpanish_Parts(t *testing.T) {
	got, err := NumberToSpanish(1345)
	require.NoError(t, err)

	assert.Equal(t, []Part{
		{Part: "mil", Meaning: LabelThousand},
		{Part: "trescientos", Meaning: LabelHundreds},
		{Part: "cuarenta", Meaning: LabelTens},
		{Part: "cinco", Meaning: LabelUnit},
	}, got.Parts)
}

func TestNumberToSpanish_OutOfRange(t *testing.T) {
	for _, n := range []int{-1, 10000, 123456} {
		_, err := NumberToSpanish(n)
		require.ErrorIs(t, err, ErrOutOfRange)
	}
}

func TestNumberToSpanish_AllInRange(t *testing.T) {
	for n := MinNumber; n <= MaxNumber; n++ {
		got, err := NumberToSpanish(n)
		require.NoError(t, err, "n=%d", n)
		require.NotEmpty(t, got.Spanish, "n=%d", n)
		require.NotEmpty(t, got.Parts, "n=%d", n)

		assert.Equal(t, strings.Join(strings.Fields(got.Spanish), " "), got.Spanish, "n=%d has stray whitespace", n)

		for i := 1; i < len(got.Parts); i++ {
			prev, cur := Magnitude(got.Parts[i-1].Meaning), Magnitude(got.Parts[i].Meaning)
			if cur >= prev {
				t.Fatalf("n=%d: parts not in strictly descending magnitude: %+v", n, got.Parts)
			}
		}
		for _, p := range got.Parts {
			if Magnitude(p.Meaning) == 0 {
				t.Fatalf("n=%d: unknown part label %q", n, p.Meaning)
			}
		}
	}
}
