package extractor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func TestNormalizeDate_ThreeTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"may", "5 мая 2023", "2023-05-05"},
		{"december", "28 декабря 2023", "2023-12-28"},
		{"january", "1 января 2022", "2022-01-01"},
		{"two digit day", "17 сентября 2021", "2021-09-17"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, known, err := NormalizeDate(tt.in, fixedNow)
			require.NoError(t, err)
			assert.True(t, known)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDate_TwoTokensDefaultsToCurrentYear(t *testing.T) {
	got, known, err := NormalizeDate("5 мая", fixedNow)
	require.NoError(t, err)
	assert.True(t, known)
	assert.Equal(t, "2024-05-05", got)
}

func TestNormalizeDate_UnknownMonthFallsBackToJanuary(t *testing.T) {
	got, known, err := NormalizeDate("5 foo 2023", fixedNow)
	require.NoError(t, err)
	assert.False(t, known, "unknown month must be signalled")
	assert.Equal(t, "2023-01-05", got)
}

func TestNormalizeDate_DayZeroPadding(t *testing.T) {
	got, _, err := NormalizeDate("9 июля 2023", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "2023-07-09", got)

	got, _, err = NormalizeDate("19 июля 2023", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "2023-07-19", got)
}

func TestNormalizeDate_UnsupportedShapes(t *testing.T) {
	for _, in := range []string{"", "вчера", "5 мая 2023 г.", "   "} {
		_, _, err := NormalizeDate(in, fixedNow)
		assert.Error(t, err, "input %q", in)
	}
}

func TestNormalizeDate_ExtraWhitespace(t *testing.T) {
	got, known, err := NormalizeDate("  5   мая   2023 ", fixedNow)
	require.NoError(t, err)
	assert.True(t, known)
	assert.Equal(t, "2023-05-05", got)
}
