package attendancewindow

import (
	"fmt"

	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Config holds the tunable attendance window knobs. Build it once at startup
// and pass it to every evaluation.
type Config struct {
	CheckinStart  TimeOfDay
	CheckinEnd    TimeOfDay
	CheckoutLock  TimeOfDay
	OvertimeStart TimeOfDay

	CheckinLockEnabled  bool
	CheckoutLockEnabled bool

	MaxPaidHoursPerDay decimal.Decimal
	MinPaidHoursPerDay decimal.Decimal
	HourlyRateUSDT     decimal.Decimal
}

// DefaultConfig returns the 06:00-17:30 window with an 11.5h ceiling, 5h floor
// and 2 USDT hourly rate.
//
// OvertimeStart equals CheckoutLock here, so the default overtime window is
// empty. Operators who want one must move CheckoutLock past OvertimeStart.
func DefaultConfig() Config {
	return Config{
		CheckinStart:        360,
		CheckinEnd:          1050,
		CheckoutLock:        1050,
		OvertimeStart:       1050,
		CheckinLockEnabled:  true,
		CheckoutLockEnabled: true,
		MaxPaidHoursPerDay:  decimal.NewFromFloat(11.5),
		MinPaidHoursPerDay:  decimal.NewFromInt(5),
		HourlyRateUSDT:      decimal.NewFromInt(2),
	}
}

// Validate is meant to run once at configuration load. Evaluation functions
// assume a validated config.
func (c Config) Validate() error {
	var errs validator.ValidationErrors

	minutes := []struct {
		field string
		value TimeOfDay
	}{
		{"checkin_start", c.CheckinStart},
		{"checkin_end", c.CheckinEnd},
		{"checkout_lock", c.CheckoutLock},
		{"overtime_start", c.OvertimeStart},
	}
	for _, m := range minutes {
		if int(m.value) < 0 || int(m.value) >= MinutesPerDay {
			errs = append(errs, validator.ValidationError{
				Field:   m.field,
				Message: fmt.Sprintf("%s must be between 0 and %d minutes", m.field, MinutesPerDay-1),
			})
		}
	}

	if c.CheckinEnd < c.CheckinStart {
		errs = append(errs, validator.ValidationError{
			Field:   "checkin_end",
			Message: "checkin_end must not be before checkin_start",
		})
	}

	decimals := []struct {
		field string
		value decimal.Decimal
	}{
		{"max_paid_hours", c.MaxPaidHoursPerDay},
		{"min_paid_hours", c.MinPaidHoursPerDay},
		{"hourly_rate_usdt", c.HourlyRateUSDT},
	}
	for _, d := range decimals {
		if d.value.IsNegative() {
			errs = append(errs, validator.ValidationError{
				Field:   d.field,
				Message: d.field + " must not be negative",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
