package attendance

import "errors"

// Attendance domain errors
var (
	// Auth errors
	ErrInvalidAccessToken = errors.New("invalid or missing access token")

	// Claim errors
	ErrEmployeeClaimMissing = errors.New("employee_id claim is missing or invalid")
	ErrCompanyClaimMissing  = errors.New("company_id claim is missing or invalid")

	// Window errors
	ErrInvalidTimeOfDay   = errors.New("time must be in HH:MM or HH:MM:SS format")
	ErrStreamTokenInvalid = errors.New("stream token is missing or invalid")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
