package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DurationFromRange converts two same-day HH:MM wall-clock values into a
// duration in minutes. No wraparound or clamping is applied: if end precedes
// start the result is negative and the caller must reject it.
func DurationFromRange(start, end string) (int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, fmt.Errorf("start time: %w", err)
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, fmt.Errorf("end time: %w", err)
	}
	return e - s, nil
}

// DurationFromHours converts a decimal hours value into whole minutes,
// rounding to the nearest minute so half-hour increments stay exact.
func DurationFromHours(hours float64) int {
	return int(math.Round(hours * 60))
}

// ParseClock returns minutes since midnight for an HH:MM value.
func ParseClock(v string) (int, error) {
	hh, mm, ok := strings.Cut(v, ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock value %q", v)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", v)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", v)
	}
	return h*60 + m, nil
}
