package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var policyToday = time.Date(2025, time.March, 14, 15, 30, 0, 0, time.UTC)

func TestValidateManualDate_Today(t *testing.T) {
	require.NoError(t, ValidateManualDate(policyToday, policyToday))
}

func TestValidateManualDate_WithinWindow(t *testing.T) {
	require.NoError(t, ValidateManualDate(policyToday.AddDate(0, 0, -3), policyToday))
}

func TestValidateManualDate_WindowBoundary(t *testing.T) {
	// Exactly 7 days back is the last permitted day; 8 is out.
	assert.NoError(t, ValidateManualDate(policyToday.AddDate(0, 0, -7), policyToday))
	assert.ErrorIs(t, ValidateManualDate(policyToday.AddDate(0, 0, -8), policyToday), ErrEntryWindow)
}

func TestValidateManualDate_Future(t *testing.T) {
	assert.ErrorIs(t, ValidateManualDate(policyToday.AddDate(0, 0, 1), policyToday), ErrFutureDate)
}

func TestValidateManualDate_IgnoresTimeOfDay(t *testing.T) {
	// Late tonight is still "today", not a future date.
	candidate := time.Date(2025, time.March, 14, 23, 59, 0, 0, time.UTC)
	early := time.Date(2025, time.March, 14, 0, 1, 0, 0, time.UTC)
	assert.NoError(t, ValidateManualDate(candidate, early))
}
