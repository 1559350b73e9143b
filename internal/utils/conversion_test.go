package utils

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntSqrt(t *testing.T) {
	tests := []struct {
		name  string
		input int64
		want  int64
	}{
		{name: "zero", input: 0, want: 0},
		{name: "one", input: 1, want: 1},
		{name: "perfect square", input: 1_000_000, want: 1_000},
		{name: "floors between squares", input: 999_999, want: 999},
		{name: "small non-square", input: 3, want: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := IntSqrt(sdkmath.NewInt(tc.input))
			require.NoError(t, err)
			assert.Equal(t, sdkmath.NewInt(tc.want), got)
		})
	}
}

func TestIntSqrtLargeValue(t *testing.T) {
	// 1e24 is far beyond int64; the result must still be exact.
	v, err := ParseAmount("1000000000000000000000000")
	require.NoError(t, err)

	got, err := IntSqrt(v)
	require.NoError(t, err)

	want, err := ParseAmount("1000000000000")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestIntSqrtRejectsNegative(t *testing.T) {
	_, err := IntSqrt(sdkmath.NewInt(-4))
	require.ErrorIs(t, err, ErrAmountNegative)
}

func TestMulDiv(t *testing.T) {
	tests := []struct {
		name    string
		a, b, d int64
		want    int64
	}{
		{name: "exact", a: 10, b: 6, d: 3, want: 20},
		{name: "floors", a: 7, b: 3, d: 2, want: 10},
		{name: "zero numerator", a: 0, b: 100, d: 7, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MulDiv(sdkmath.NewInt(tc.a), sdkmath.NewInt(tc.b), sdkmath.NewInt(tc.d))
			require.NoError(t, err)
			assert.Equal(t, sdkmath.NewInt(tc.want), got)
		})
	}
}

func TestMulDivErrors(t *testing.T) {
	_, err := MulDiv(sdkmath.NewInt(1), sdkmath.NewInt(1), sdkmath.ZeroInt())
	require.ErrorIs(t, err, ErrDivisionByZero)

	_, err = MulDiv(sdkmath.NewInt(-1), sdkmath.NewInt(1), sdkmath.NewInt(1))
	require.ErrorIs(t, err, ErrAmountNegative)
}

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount("123456789")
	require.NoError(t, err)
	assert.Equal(t, sdkmath.NewInt(123456789), got)

	_, err = ParseAmount("-5")
	require.ErrorIs(t, err, ErrAmountNegative)

	_, err = ParseAmount("not a number")
	require.ErrorIs(t, err, ErrParseFailed)
}

func TestAmountToDisplay(t *testing.T) {
	s, err := AmountToDisplay(sdkmath.NewInt(1_500_000), 6)
	require.NoError(t, err)
	assert.Equal(t, "1.500000000000000000", s)

	_, err = AmountToDisplay(sdkmath.NewInt(1), 19)
	require.ErrorIs(t, err, ErrInvalidPrecision)
}
