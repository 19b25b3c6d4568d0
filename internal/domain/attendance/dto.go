package attendance

import (
	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/attendancewindow"
	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/validator"
)

// ========================================
// WINDOW DTOs
// ========================================

// EvaluateWindowRequest is a what-if evaluation. Times are wall-clock HH:MM or
// HH:MM:SS; an empty Now means the server clock in the default timezone.
type EvaluateWindowRequest struct {
	Date                 *string `json:"date,omitempty"` // YYYY-MM-DD, echoed back
	Now                  *string `json:"now,omitempty"`
	CheckInTime          *string `json:"check_in_time,omitempty"`
	CheckOutTime         *string `json:"check_out_time,omitempty"`
	LateCheckoutApproved bool    `json:"late_checkout_approved"`
}

func (r *EvaluateWindowRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != nil && *r.Date != "" {
		if _, valid := validator.IsValidDate(*r.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	times := []struct {
		field string
		value *string
	}{
		{"now", r.Now},
		{"check_in_time", r.CheckInTime},
		{"check_out_time", r.CheckOutTime},
	}
	for _, t := range times {
		if t.value == nil || validator.IsEmpty(*t.value) {
			continue
		}
		if _, err := attendancewindow.ParseTimeOfDay(*t.value); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   t.field,
				Message: t.field + " must be in HH:MM or HH:MM:SS format",
			})
		}
	}

	hasCheckIn := r.CheckInTime != nil && !validator.IsEmpty(*r.CheckInTime)
	hasCheckOut := r.CheckOutTime != nil && !validator.IsEmpty(*r.CheckOutTime)
	if hasCheckOut && !hasCheckIn {
		errs = append(errs, validator.ValidationError{
			Field:   "check_out_time",
			Message: "check_out_time requires check_in_time",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// WindowStatusResponse is the rendered window state. Hours and pay are fixed
// two-decimal strings; pay is a preview, never an authorization to pay.
type WindowStatusResponse struct {
	Date                   string  `json:"date"`
	Now                    string  `json:"now"`
	Timezone               string  `json:"timezone"`
	AttendanceID           *string `json:"attendance_id,omitempty"`
	CheckInTime            *string `json:"check_in_time,omitempty"`
	CheckOutTime           *string `json:"check_out_time,omitempty"`
	HasCheckedIn           bool    `json:"has_checked_in"`
	HasCheckedOut          bool    `json:"has_checked_out"`
	CanCheckIn             bool    `json:"can_check_in"`
	CanCheckOut            bool    `json:"can_check_out"`
	IsOvertime             bool    `json:"is_overtime"`
	IsLocked               bool    `json:"is_locked"`
	ShowLateCheckinWarning bool    `json:"show_late_checkin_warning"`
	LateCheckoutApproved   bool    `json:"late_checkout_approved"`
	EffectiveWorkedHours   string  `json:"effective_worked_hours"`
	PreviewPayUSDT         string  `json:"preview_pay_usdt"`
	Message                string  `json:"message"`
}

type WindowConfigResponse struct {
	CheckinStart        string `json:"checkin_start"`
	CheckinEnd          string `json:"checkin_end"`
	CheckoutLock        string `json:"checkout_lock"`
	OvertimeStart       string `json:"overtime_start"`
	CheckinLockEnabled  bool   `json:"checkin_lock_enabled"`
	CheckoutLockEnabled bool   `json:"checkout_lock_enabled"`
	MaxPaidHoursPerDay  string `json:"max_paid_hours_per_day"`
	MinPaidHoursPerDay  string `json:"min_paid_hours_per_day"`
	HourlyRateUSDT      string `json:"hourly_rate_usdt"`
	DefaultTimezone     string `json:"default_timezone"`
}

type StreamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// ========================================
// STREAM EVENTS
// ========================================

const (
	EventWindowOvertime = "window_overtime"
	EventWindowLocked   = "window_locked"
)

type WindowTransitionEvent struct {
	AttendanceID         string `json:"attendance_id"`
	Date                 string `json:"date"`
	OccurredAt           string `json:"occurred_at"`
	EffectiveWorkedHours string `json:"effective_worked_hours"`
	PreviewPayUSDT       string `json:"preview_pay_usdt"`
}
