package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/attendancewindow"
)

// WindowService exposes the attendance window rules to the HTTP layer and to
// background jobs. Results are advisory previews.
type WindowService interface {
	// GetMyWindow evaluates today's window for the authenticated employee
	GetMyWindow(ctx context.Context) (WindowStatusResponse, error)

	// EvaluateWindow evaluates caller-supplied times without touching storage
	EvaluateWindow(ctx context.Context, req EvaluateWindowRequest) (WindowStatusResponse, error)

	// GetWindowConfig returns the active window configuration
	GetWindowConfig(ctx context.Context) WindowConfigResponse

	// EvaluateSession evaluates a stored record at now, in the record's timezone
	EvaluateSession(att Attendance, now time.Time) attendancewindow.Evaluation
}
