package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines read access to attendance records.
// Writes belong to the clock-in/clock-out flow, not to the window preview.
type AttendanceRepository interface {
	// GetByEmployeeAndDate retrieves attendance for specific employee on specific date.
	// Returns nil, nil when the employee has no record for that date.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*Attendance, error)

	// GetTimezoneByEmployeeID resolves the IANA timezone of the employee's branch
	GetTimezoneByEmployeeID(ctx context.Context, employeeID string, companyID string) (string, error)

	// ListOpenSessions returns clocked-in, not clocked-out records dated on or after since
	ListOpenSessions(ctx context.Context, since time.Time) ([]Attendance, error)
}
