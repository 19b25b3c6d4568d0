package attendancewindow

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		input string
		want  TimeOfDay
	}{
		{"00:00", 0},
		{"06:00", 360},
		{"08:00:00", 480},
		{"17:30:59", 1050},
		{" 23:59:00 ", 1439},
	}
	for _, c := range cases {
		got, err := ParseTimeOfDay(c.input)
		if assert.NoError(t, err, c.input) {
			assert.Equal(t, c.want, got, c.input)
		}
	}
}

func TestParseTimeOfDay_Invalid(t *testing.T) {
	invalid := []string{"", "8:00", "24:00", "12:60", "12:00:60", "12", "12:00:00:00", "ab:cd", "-1:00"}
	for _, s := range invalid {
		_, err := ParseTimeOfDay(s)
		assert.True(t, errors.Is(err, ErrInvalidTimeOfDay), "ParseTimeOfDay(%q) err = %v", s, err)
	}
}

func TestNewTimeOfDay_Wraps(t *testing.T) {
	assert.Equal(t, TimeOfDay(0), NewTimeOfDay(1440))
	assert.Equal(t, TimeOfDay(1), NewTimeOfDay(1441))
	assert.Equal(t, TimeOfDay(1439), NewTimeOfDay(-1))
	assert.Equal(t, TimeOfDay(1380), NewTimeOfDay(-2940))
}

func TestFromTime_UsesLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	utc := time.Date(2025, 3, 10, 1, 15, 42, 0, time.UTC)

	assert.Equal(t, TimeOfDay(75), FromTime(utc))
	assert.Equal(t, TimeOfDay(8*60+15), FromTime(utc.In(jakarta)))
}

func TestTimeOfDay_String(t *testing.T) {
	assert.Equal(t, "06:00", TimeOfDay(360).String())
	assert.Equal(t, "17:30", TimeOfDay(1050).String())
	assert.Equal(t, "00:05", TimeOfDay(1445).String())
}
