package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-window-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth errors
	case errors.Is(err, attendance.ErrInvalidAccessToken):
		Unauthorized(w, "Invalid token")

	// Claim errors
	case errors.Is(err, attendance.ErrEmployeeClaimMissing):
		Forbidden(w, "Token is not linked to an employee")
	case errors.Is(err, attendance.ErrCompanyClaimMissing):
		Forbidden(w, "Token is not linked to a company")
	case errors.Is(err, attendance.ErrStreamTokenInvalid):
		Unauthorized(w, err.Error())

	// Window errors
	case errors.Is(err, attendance.ErrInvalidTimeOfDay):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance not found")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
