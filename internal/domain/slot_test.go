package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/homeservice/internal/domain"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in      string
		minutes int
		wantErr bool
	}{
		{in: "00:00", minutes: 0},
		{in: "09:30", minutes: 570},
		{in: "23:59", minutes: 1439},
		{in: "09:30:00", minutes: 570},
		{in: "24:00", wantErr: true},
		{in: "09:60", wantErr: true},
		{in: "930", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range cases {
		got, err := domain.ParseTimeOfDay(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.minutes, got.Minutes(), "input %q", tc.in)
	}
}

func TestTimeOfDayString(t *testing.T) {
	tod, err := domain.ParseTimeOfDay("07:05")
	require.NoError(t, err)
	assert.Equal(t, "07:05", tod.String())
}

func TestTimeOfDayAt(t *testing.T) {
	tod, err := domain.ParseTimeOfDay("14:15")
	require.NoError(t, err)

	date := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	at := tod.At(date)
	assert.Equal(t, 14, at.Hour())
	assert.Equal(t, 15, at.Minute())
	assert.Equal(t, date.Day(), at.Day())
}
