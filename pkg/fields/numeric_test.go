package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"1.811,00", 1811.00},
		{"300,00", 300.00},
		{"442,00", 442.00},
		{"13.236,00", 13236.00},
		// No decimal comma: a trailing three-digit dot group is a
		// thousands separator.
		{"2.700", 2700},
		{"14.112", 14112},
		{"1.703.657", 1703657},
		// Anything else after the last dot is a decimal part.
		{"8.50", 8.50},
		{"1.811.5", 1811.5},
		{"825", 825},
		{"  1.700,00  ", 1700.00},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := ParseAmount(tc.raw)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, got, 0.001)
		})
	}
}

func TestParseAmountErrors(t *testing.T) {
	_, err := ParseAmount("")
	assert.ErrorContains(t, err, "empty amount")

	_, err = ParseAmount("   ")
	assert.ErrorContains(t, err, "empty amount")

	_, err = ParseAmount("-300,00")
	assert.ErrorContains(t, err, "negative amount")

	_, err = ParseAmount("euros")
	assert.ErrorContains(t, err, "parsing amount")
}

func TestParseGrade(t *testing.T) {
	got, err := ParseGrade("8,00")
	require.NoError(t, err)
	assert.Equal(t, 8.00, got)

	got, err = ParseGrade("9,50")
	require.NoError(t, err)
	assert.Equal(t, 9.50, got)

	got, err = ParseGrade("10")
	require.NoError(t, err)
	assert.Equal(t, 10.0, got)

	_, err = ParseGrade("12,00")
	assert.ErrorContains(t, err, "outside [0,10]")

	_, err = ParseGrade("-1")
	assert.ErrorContains(t, err, "outside [0,10]")

	_, err = ParseGrade("alta")
	assert.ErrorContains(t, err, "parsing grade")
}

func TestParsePercent(t *testing.T) {
	got, err := ParsePercent("65")
	require.NoError(t, err)
	assert.Equal(t, 65.0, got)

	got, err = ParsePercent("25 %")
	require.NoError(t, err)
	assert.Equal(t, 25.0, got)

	got, err = ParsePercent("100")
	require.NoError(t, err)
	assert.Equal(t, 100.0, got)

	// Out-of-range percentages are rejected, never clamped.
	_, err = ParsePercent("125")
	assert.ErrorContains(t, err, "outside [0,100]")
}

func TestParseCredits(t *testing.T) {
	got, err := ParseCredits("60")
	require.NoError(t, err)
	assert.Equal(t, 60, got)

	got, err = ParseCredits("30")
	require.NoError(t, err)
	assert.Equal(t, 30, got)

	_, err = ParseCredits("-6")
	assert.ErrorContains(t, err, "negative credit count")

	_, err = ParseCredits("sesenta")
	assert.ErrorContains(t, err, "parsing credit count")
}
