package mapping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2026-03-15", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"03/15/2026", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"15/03/2026", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"Mar 15, 2026", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"15 Mar 2026", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"20260315", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2026-03-15 10:30:00", time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := ParseDate(tt.input)
		require.NoError(t, err, tt.input)
		assert.True(t, tt.want.Equal(got), "input %q: got %v", tt.input, got)
	}
}

func TestParseDateTwoDigitYear(t *testing.T) {
	got, err := ParseDate("03/15/26")
	require.NoError(t, err)
	assert.Equal(t, 2026, got.Year())

	got, err = ParseDate("03/15/50")
	require.NoError(t, err)
	assert.Equal(t, 2050, got.Year())

	got, err = ParseDate("03/15/51")
	require.NoError(t, err)
	assert.Equal(t, 1951, got.Year())

	got, err = ParseDate("03/15/99")
	require.NoError(t, err)
	assert.Equal(t, 1999, got.Year())
}

func TestParseDateInvalid(t *testing.T) {
	_, err := ParseDate("")
	assert.Error(t, err)

	_, err = ParseDate("not a date")
	assert.Error(t, err)
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "42"},
		{"42.50", "42.5"},
		{"$1,234.56", "1234.56"},
		{"£99.99", "99.99"},
		{"€10", "10"},
		{"-5.25", "-5.25"},
		{"(5.25)", "-5.25"},
		{"($1,000.00)", "-1000"},
		{" 7.5 ", "7.5"},
	}
	for _, tt := range tests {
		got, err := ParseDecimal(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got.String(), "input %q", tt.input)
	}
}

func TestParseDecimalInvalid(t *testing.T) {
	_, err := ParseDecimal("")
	assert.Error(t, err)

	_, err = ParseDecimal("N/A")
	assert.Error(t, err)
}

func TestParseBool(t *testing.T) {
	assert.True(t, ParseBool("true"))
	assert.True(t, ParseBool("YES"))
	assert.True(t, ParseBool("1"))
	assert.True(t, ParseBool(" y "))
	assert.False(t, ParseBool("no"))
	assert.False(t, ParseBool(""))
	assert.False(t, ParseBool("0"))
}

func TestIsUUID(t *testing.T) {
	assert.True(t, IsUUID("a1b2c3d4-e5f6-7890-abcd-ef1234567890"))
	assert.True(t, IsUUID(" A1B2C3D4-E5F6-7890-ABCD-EF1234567890 "))
	assert.False(t, IsUUID("Acme Corp"))
	assert.False(t, IsUUID("a1b2c3d4e5f67890abcdef1234567890"))
}
