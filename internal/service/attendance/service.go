package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-window-go/internal/config"
	"github.com/cmlabs-hris/attendance-window-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/attendancewindow"
	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
)

const endOfDay = attendancewindow.TimeOfDay(attendancewindow.MinutesPerDay - 1)

type WindowServiceImpl struct {
	attendance.AttendanceRepository
	cfg      config.AttendanceConfig
	metrics  *metrics.Recorder
	now      func() time.Time
	location *time.Location
}

type Option func(*WindowServiceImpl)

// WithClock replaces time.Now as the source of the current instant.
func WithClock(now func() time.Time) Option {
	return func(s *WindowServiceImpl) {
		s.now = now
	}
}

func NewWindowService(
	attendanceRepo attendance.AttendanceRepository,
	cfg config.AttendanceConfig,
	recorder *metrics.Recorder,
	opts ...Option,
) attendance.WindowService {
	loc, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}

	s := &WindowServiceImpl{
		AttendanceRepository: attendanceRepo,
		cfg:                  cfg,
		metrics:              recorder,
		now:                  time.Now,
		location:             loc,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getClaimsFromContext extracts company_id and employee_id from the JWT context
func getClaimsFromContext(ctx context.Context) (companyID, employeeID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", attendance.ErrCompanyClaimMissing
	}

	employeeID, ok = claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", "", attendance.ErrEmployeeClaimMissing
	}

	return companyID, employeeID, nil
}

// GetMyWindow implements attendance.WindowService.
func (s *WindowServiceImpl) GetMyWindow(ctx context.Context) (attendance.WindowStatusResponse, error) {
	companyID, employeeID, err := getClaimsFromContext(ctx)
	if err != nil {
		return attendance.WindowStatusResponse{}, err
	}

	timezoneStr, err := s.AttendanceRepository.GetTimezoneByEmployeeID(ctx, employeeID, companyID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return attendance.WindowStatusResponse{}, fmt.Errorf("failed to get timezone by employee ID: %w", err)
	}
	loc := s.resolveLocation(timezoneStr)

	nowLocal := s.now().In(loc)
	today := civilDate(nowLocal)

	// Looking the record up by the employee's local "today" is what keeps a
	// second check-in on the same day impossible.
	att, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today, companyID)
	if err != nil {
		return attendance.WindowStatusResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	now := attendancewindow.FromTime(nowLocal)
	record := toRecord(att, loc)
	eval := attendancewindow.Evaluate(now, record, s.cfg.Window)
	s.metrics.ObserveEvaluation("self", eval)

	resp := buildResponse(today, now, loc.String(), record, eval, s.cfg.Window)
	if att != nil {
		resp.AttendanceID = &att.ID
	}
	return resp, nil
}

// EvaluateWindow implements attendance.WindowService.
func (s *WindowServiceImpl) EvaluateWindow(ctx context.Context, req attendance.EvaluateWindowRequest) (attendance.WindowStatusResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.WindowStatusResponse{}, err
	}

	nowLocal := s.now().In(s.location)
	date := civilDate(nowLocal)
	if req.Date != nil && *req.Date != "" {
		date, _ = validator.IsValidDate(*req.Date)
	}

	now := attendancewindow.FromTime(nowLocal)
	if parsed, ok, err := parseOptionalTime(req.Now); err != nil {
		return attendance.WindowStatusResponse{}, err
	} else if ok {
		now = parsed
	}

	var record *attendancewindow.Record
	if checkIn, ok, err := parseOptionalTime(req.CheckInTime); err != nil {
		return attendance.WindowStatusResponse{}, err
	} else if ok {
		record = &attendancewindow.Record{
			Date:                 date,
			CheckIn:              &checkIn,
			LateCheckoutApproved: req.LateCheckoutApproved,
		}
		checkOut, ok, err := parseOptionalTime(req.CheckOutTime)
		if err != nil {
			return attendance.WindowStatusResponse{}, err
		}
		if ok {
			record.CheckOut = &checkOut
		}
	}

	eval := attendancewindow.Evaluate(now, record, s.cfg.Window)
	s.metrics.ObserveEvaluation("what_if", eval)

	return buildResponse(date, now, s.location.String(), record, eval, s.cfg.Window), nil
}

// GetWindowConfig implements attendance.WindowService.
func (s *WindowServiceImpl) GetWindowConfig(ctx context.Context) attendance.WindowConfigResponse {
	w := s.cfg.Window
	return attendance.WindowConfigResponse{
		CheckinStart:        w.CheckinStart.String(),
		CheckinEnd:          w.CheckinEnd.String(),
		CheckoutLock:        w.CheckoutLock.String(),
		OvertimeStart:       w.OvertimeStart.String(),
		CheckinLockEnabled:  w.CheckinLockEnabled,
		CheckoutLockEnabled: w.CheckoutLockEnabled,
		MaxPaidHoursPerDay:  w.MaxPaidHoursPerDay.StringFixed(2),
		MinPaidHoursPerDay:  w.MinPaidHoursPerDay.StringFixed(2),
		HourlyRateUSDT:      w.HourlyRateUSDT.StringFixed(2),
		DefaultTimezone:     s.location.String(),
	}
}

// EvaluateSession implements attendance.WindowService. A record dated before
// the local "today" is evaluated at the last minute of its own day.
func (s *WindowServiceImpl) EvaluateSession(att attendance.Attendance, now time.Time) attendancewindow.Evaluation {
	var tz string
	if att.Timezone != nil {
		tz = *att.Timezone
	}
	loc := s.resolveLocation(tz)

	nowLocal := now.In(loc)
	at := attendancewindow.FromTime(nowLocal)
	if civilDate(nowLocal).After(civilDate(att.Date)) {
		at = endOfDay
	}

	eval := attendancewindow.Evaluate(at, toRecord(&att, loc), s.cfg.Window)
	s.metrics.ObserveEvaluation("watcher", eval)
	return eval
}

func (s *WindowServiceImpl) resolveLocation(name string) *time.Location {
	if name == "" {
		return s.location
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return s.location
	}
	return loc
}

func parseOptionalTime(value *string) (attendancewindow.TimeOfDay, bool, error) {
	if value == nil || validator.IsEmpty(*value) {
		return 0, false, nil
	}
	t, err := attendancewindow.ParseTimeOfDay(*value)
	if err != nil {
		return 0, false, attendance.ErrInvalidTimeOfDay
	}
	return t, true, nil
}

// civilDate drops the clock and location, keeping the calendar day as seen in t's location.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// toRecord converts stored UTC timestamps into wall-clock minutes in loc.
// A clock-out that lands on a later calendar day than the record counts as 23:59.
func toRecord(att *attendance.Attendance, loc *time.Location) *attendancewindow.Record {
	if att == nil {
		return nil
	}

	record := &attendancewindow.Record{
		Date:                 att.Date,
		LateCheckoutApproved: att.LateCheckoutApproved,
	}

	if att.ClockIn != nil {
		in := attendancewindow.FromTime(att.ClockIn.In(loc))
		record.CheckIn = &in
	}

	if att.ClockOut != nil {
		outLocal := att.ClockOut.In(loc)
		out := attendancewindow.FromTime(outLocal)
		if civilDate(outLocal).After(civilDate(att.Date)) {
			out = endOfDay
		}
		record.CheckOut = &out
	}

	return record
}

func buildResponse(
	date time.Time,
	now attendancewindow.TimeOfDay,
	timezone string,
	record *attendancewindow.Record,
	eval attendancewindow.Evaluation,
	cfg attendancewindow.Config,
) attendance.WindowStatusResponse {
	resp := attendance.WindowStatusResponse{
		Date:                   date.Format("2006-01-02"),
		Now:                    now.String(),
		Timezone:               timezone,
		CanCheckIn:             eval.CanCheckIn,
		CanCheckOut:            eval.CanCheckOut,
		IsOvertime:             eval.IsOvertime,
		IsLocked:               eval.IsLocked,
		ShowLateCheckinWarning: eval.ShowLateCheckinWarning,
		EffectiveWorkedHours:   eval.EffectiveWorkedHours.StringFixed(2),
		PreviewPayUSDT:         eval.PreviewPayUSDT.StringFixed(2),
	}

	if record != nil {
		resp.LateCheckoutApproved = record.LateCheckoutApproved
		if record.CheckIn != nil {
			v := record.CheckIn.String()
			resp.CheckInTime = &v
			resp.HasCheckedIn = true
		}
		if record.CheckOut != nil {
			v := record.CheckOut.String()
			resp.CheckOutTime = &v
			resp.HasCheckedOut = true
		}
	}

	resp.Message = windowMessage(resp, now, cfg)
	return resp
}

func windowMessage(resp attendance.WindowStatusResponse, now attendancewindow.TimeOfDay, cfg attendancewindow.Config) string {
	switch {
	case resp.HasCheckedOut:
		return "You have completed today's attendance"
	case resp.HasCheckedIn && resp.IsLocked:
		return "Attendance is locked for today; worked hours stop at " + cfg.CheckoutLock.String()
	case resp.ShowLateCheckinWarning:
		return "The check-in window closed at " + cfg.CheckinEnd.String() + " and you have not checked in today"
	case resp.CanCheckIn:
		return "You can check in now"
	case resp.CanCheckOut && resp.IsOvertime:
		return "You are in the overtime window; check out before " + cfg.CheckoutLock.String()
	case resp.CanCheckOut:
		return "You can check out now"
	case !resp.HasCheckedIn && cfg.CheckinLockEnabled && now.Minutes() < int(cfg.CheckinStart):
		return "The check-in window opens at " + cfg.CheckinStart.String()
	default:
		return "No attendance action is available right now"
	}
}
