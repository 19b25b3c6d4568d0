package attendancewindow

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the length of the clock domain.
const MinutesPerDay = 24 * 60

var ErrInvalidTimeOfDay = errors.New("time of day must be HH:MM or HH:MM:SS")

// TimeOfDay is a wall-clock position expressed as minutes since midnight, in [0, 1440).
type TimeOfDay int

// NewTimeOfDay wraps any integer into the clock domain.
func NewTimeOfDay(minutes int) TimeOfDay {
	m := minutes % MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return TimeOfDay(m)
}

// FromTime reads the wall clock of t in its own location.
func FromTime(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

// ParseTimeOfDay parses "HH:MM:SS" or "HH:MM". Seconds are truncated.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidTimeOfDay)
	}

	limits := []int{23, 59, 59}
	values := make([]int, len(parts))
	for i, p := range parts {
		if len(p) != 2 {
			return 0, fmt.Errorf("%q: %w", s, ErrInvalidTimeOfDay)
		}
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 || v > limits[i] {
			return 0, fmt.Errorf("%q: %w", s, ErrInvalidTimeOfDay)
		}
		values[i] = v
	}

	return TimeOfDay(values[0]*60 + values[1]), nil
}

// Minutes returns the normalized minute count.
func (t TimeOfDay) Minutes() int {
	return int(NewTimeOfDay(int(t)))
}

func (t TimeOfDay) String() string {
	m := t.Minutes()
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
