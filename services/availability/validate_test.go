package availability

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidSlot(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"00:00", true},
		{"09:30", true},
		{"23:59", true},
		{"24:00", false},
		{"9:30", false},
		{"09:60", false},
		{"0930", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidSlot(tt.in))
		})
	}
}

func TestNormalizeSlots(t *testing.T) {
	got, err := NormalizeSlots([]string{"14:00", " 09:00", "14:00"})
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "14:00"}, got)

	got, err = NormalizeSlots(nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	_, err = NormalizeSlots([]string{"09:00", "9:00"})
	var vErr ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestParseWeekday(t *testing.T) {
	got, err := ParseWeekday(" Monday ")
	require.NoError(t, err)
	assert.Equal(t, "monday", got)

	_, err = ParseWeekday("mon")
	assert.Error(t, err)
}

func TestWeekdayOf(t *testing.T) {
	got, err := WeekdayOf("2025-06-08")
	require.NoError(t, err)
	assert.Equal(t, "sunday", got)

	_, err = WeekdayOf("2025-13-01")
	assert.Error(t, err)
}

func TestParseAppointmentTime(t *testing.T) {
	_, date, slot, err := ParseAppointmentTime("2025-06-02 09:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", date)
	assert.Equal(t, "09:00", slot)

	_, _, _, err = ParseAppointmentTime("2025-06-02T09:00")
	assert.Error(t, err)
}
