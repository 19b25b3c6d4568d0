package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-window-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, employee_id, company_id, date,
			   clock_in, clock_out, status, late_checkout_approved,
			   created_at, updated_at
		FROM attendances
		WHERE employee_id = $1
		  AND date = $2
		  AND company_id = $3
		LIMIT 1
	`

	var att attendance.Attendance
	err := q.QueryRow(ctx, query, employeeID, date, companyID).Scan(
		&att.ID, &att.EmployeeID, &att.CompanyID, &att.Date,
		&att.ClockIn, &att.ClockOut, &att.Status, &att.LateCheckoutApproved,
		&att.CreatedAt, &att.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No existing attendance found
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &att, nil
}

// GetTimezoneByEmployeeID implements attendance.AttendanceRepository.
// Returns pgx.ErrNoRows when the employee has no branch.
func (a *attendanceRepository) GetTimezoneByEmployeeID(ctx context.Context, employeeID string, companyID string) (string, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT b.timezone
		FROM employees e
		JOIN branches b ON b.id = e.branch_id
		WHERE e.id = $1
		  AND e.company_id = $2
		  AND e.deleted_at IS NULL
	`

	var timezone string
	if err := q.QueryRow(ctx, query, employeeID, companyID).Scan(&timezone); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", err
		}
		return "", fmt.Errorf("failed to get timezone by employee id: %w", err)
	}

	return timezone, nil
}

// ListOpenSessions implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListOpenSessions(ctx context.Context, since time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT
			a.id, a.employee_id, a.company_id, a.date,
			a.clock_in, a.clock_out, a.status, a.late_checkout_approved,
			a.created_at, a.updated_at,
			e.full_name AS employee_name,
			b.timezone
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		LEFT JOIN branches b ON b.id = e.branch_id
		WHERE a.clock_in IS NOT NULL
		  AND a.clock_out IS NULL
		  AND a.date >= $1
		ORDER BY a.date ASC, a.clock_in ASC
	`

	rows, err := q.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query open sessions: %w", err)
	}
	defer rows.Close()

	var sessions []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		err := rows.Scan(
			&att.ID, &att.EmployeeID, &att.CompanyID, &att.Date,
			&att.ClockIn, &att.ClockOut, &att.Status, &att.LateCheckoutApproved,
			&att.CreatedAt, &att.UpdatedAt,
			&att.EmployeeName, &att.Timezone,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan open session: %w", err)
		}
		sessions = append(sessions, att)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate open sessions: %w", err)
	}

	return sessions, nil
}
