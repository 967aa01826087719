package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationFromRange_FullDay(t *testing.T) {
	min, err := DurationFromRange("09:00", "17:00")
	require.NoError(t, err)
	assert.Equal(t, 480, min)
}

func TestDurationFromRange_EndBeforeStart(t *testing.T) {
	// The calculator does not correct inverted ranges; the negative value
	// must surface so the submission flow can reject it.
	min, err := DurationFromRange("17:00", "09:00")
	require.NoError(t, err)
	assert.Equal(t, -480, min)
}

func TestDurationFromRange_PartialMinutes(t *testing.T) {
	min, err := DurationFromRange("09:15", "10:05")
	require.NoError(t, err)
	assert.Equal(t, 50, min)
}

func TestDurationFromRange_Invalid(t *testing.T) {
	for _, v := range []string{"", "9", "24:00", "09:60", "ab:cd", "09-00"} {
		_, err := DurationFromRange(v, "10:00")
		assert.Error(t, err, "start %q", v)
		_, err = DurationFromRange("10:00", v)
		assert.Error(t, err, "end %q", v)
	}
}

func TestDurationFromHours(t *testing.T) {
	assert.Equal(t, 150, DurationFromHours(2.5))
	assert.Equal(t, 60, DurationFromHours(1))
	assert.Equal(t, 0, DurationFromHours(0))
	// Rounds to the nearest whole minute.
	assert.Equal(t, 100, DurationFromHours(1.666))
}
