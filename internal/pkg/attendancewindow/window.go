// Package attendancewindow decides, for a single employee day, whether the
// check-in and check-out actions are open and what the day would pay.
//
// Every function is pure and total. The results are advisory: the backend
// recomputes attendance and payroll on its own before anything is paid.
package attendancewindow

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	sixty = decimal.NewFromInt(60)
	half  = decimal.NewFromFloat(0.5)
)

// Record is one employee's attendance for the day being evaluated.
// A nil CheckIn means the employee has not clocked in yet.
type Record struct {
	Date                 time.Time
	CheckIn              *TimeOfDay
	CheckOut             *TimeOfDay
	LateCheckoutApproved bool
}

// Evaluation is the full window state at one instant.
type Evaluation struct {
	CanCheckIn             bool
	CanCheckOut            bool
	IsOvertime             bool
	IsLocked               bool
	ShowLateCheckinWarning bool
	EffectiveWorkedHours   decimal.Decimal
	PreviewPayUSDT         decimal.Decimal
}

func hasCheckIn(record *Record) bool {
	return record != nil && record.CheckIn != nil
}

func hasCheckOut(record *Record) bool {
	return record != nil && record.CheckOut != nil
}

// CanCheckIn reports whether the clock allows a check-in. It assumes record is
// today's record.
func CanCheckIn(now TimeOfDay, record *Record, cfg Config) bool {
	if !cfg.CheckinLockEnabled {
		return true
	}
	if hasCheckIn(record) {
		return false
	}
	n := now.Minutes()
	return n >= int(cfg.CheckinStart) && n <= int(cfg.CheckinEnd)
}

// CanCheckOut only looks at the clock. Whether a check-in exists is the
// caller's concern (see Evaluate).
func CanCheckOut(now TimeOfDay, cfg Config) bool {
	if !cfg.CheckoutLockEnabled {
		return true
	}
	return now.Minutes() < int(cfg.CheckoutLock)
}

func IsOvertime(now TimeOfDay, cfg Config) bool {
	n := now.Minutes()
	return cfg.CheckoutLockEnabled && n >= int(cfg.OvertimeStart) && n < int(cfg.CheckoutLock)
}

func IsLocked(now TimeOfDay, cfg Config) bool {
	return cfg.CheckoutLockEnabled && now.Minutes() >= int(cfg.CheckoutLock)
}

func ShouldShowLateCheckinWarning(now TimeOfDay, record *Record, cfg Config) bool {
	return cfg.CheckinLockEnabled && !hasCheckIn(record) && now.Minutes() > int(cfg.CheckinEnd)
}

// EffectiveWorkedHours returns the hours between checkIn and end, where end is
// either the checkout or the current time. With the checkout lock enabled the
// span never extends past the lock. Negative spans yield zero and the result
// never exceeds MaxPaidHoursPerDay. Rounded to 2 places for display.
func EffectiveWorkedHours(checkIn, end TimeOfDay, cfg Config) decimal.Decimal {
	endMinutes := end.Minutes()
	if cfg.CheckoutLockEnabled && endMinutes > int(cfg.CheckoutLock) {
		endMinutes = int(cfg.CheckoutLock)
	}

	span := endMinutes - checkIn.Minutes()
	if span <= 0 {
		return decimal.Zero
	}

	hours := decimal.NewFromInt(int64(span)).Div(sixty)
	if hours.GreaterThan(cfg.MaxPaidHoursPerDay) {
		hours = cfg.MaxPaidHoursPerDay
	}
	return hours.Round(2)
}

// PreviewPay estimates the day's pay. An approved late-checkout explanation
// pays half and skips the minimum-hours floor.
func PreviewPay(hours decimal.Decimal, cfg Config, lateCheckoutApproved bool) decimal.Decimal {
	if lateCheckoutApproved {
		return hours.Mul(cfg.HourlyRateUSDT).Mul(half)
	}
	if hours.LessThan(cfg.MinPaidHoursPerDay) {
		return decimal.Zero
	}
	return hours.Mul(cfg.HourlyRateUSDT)
}

// Evaluate composes the window rules for one instant. Unlike the individual
// functions it applies the record preconditions: no second check-in, and
// check-out only while a session is open.
func Evaluate(now TimeOfDay, record *Record, cfg Config) Evaluation {
	now = NewTimeOfDay(int(now))
	checkedIn := hasCheckIn(record)
	checkedOut := hasCheckOut(record)

	eval := Evaluation{
		CanCheckIn:             !checkedIn && CanCheckIn(now, record, cfg),
		CanCheckOut:            checkedIn && !checkedOut && CanCheckOut(now, cfg),
		IsOvertime:             IsOvertime(now, cfg),
		IsLocked:               IsLocked(now, cfg),
		ShowLateCheckinWarning: ShouldShowLateCheckinWarning(now, record, cfg),
		EffectiveWorkedHours:   decimal.Zero,
		PreviewPayUSDT:         decimal.Zero,
	}

	if !checkedIn {
		return eval
	}

	end := now
	if checkedOut {
		end = *record.CheckOut
	}

	eval.EffectiveWorkedHours = EffectiveWorkedHours(*record.CheckIn, end, cfg)
	eval.PreviewPayUSDT = PreviewPay(eval.EffectiveWorkedHours, cfg, record.LateCheckoutApproved)
	return eval
}
