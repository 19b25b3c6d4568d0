package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-window-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/sse"
)

// Publisher delivers an event to an employee's open streams
type Publisher interface {
	Publish(employeeID string, event sse.Event) int
}

type sessionState struct {
	overtime bool
	locked   bool
}

// WindowWatcher pushes window_overtime and window_locked to employees whose
// open session crosses the boundary. Each transition is sent once per
// attendance record for the life of the process.
type WindowWatcher struct {
	attendanceRepo attendance.AttendanceRepository
	windowSvc      attendance.WindowService
	publisher      Publisher
	metrics        *metrics.Recorder
	now            func() time.Time

	mu       sync.Mutex
	sessions map[string]sessionState
}

func NewWindowWatcher(
	attendanceRepo attendance.AttendanceRepository,
	windowSvc attendance.WindowService,
	publisher Publisher,
	recorder *metrics.Recorder,
) *WindowWatcher {
	return &WindowWatcher{
		attendanceRepo: attendanceRepo,
		windowSvc:      windowSvc,
		publisher:      publisher,
		metrics:        recorder,
		now:            time.Now,
		sessions:       make(map[string]sessionState),
	}
}

func (w *WindowWatcher) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("attendance_window_watch", interval, w.Check)
}

// Check evaluates every open session once
func (w *WindowWatcher) Check(ctx context.Context) error {
	now := w.now()

	// Record dates are local; two UTC days back covers every offset.
	since := time.Date(now.UTC().Year(), now.UTC().Month(), now.UTC().Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -2)

	sessions, err := w.attendanceRepo.ListOpenSessions(ctx, since)
	if err != nil {
		return fmt.Errorf("failed to list open sessions: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	open := make(map[string]struct{}, len(sessions))
	published := 0
	for _, att := range sessions {
		open[att.ID] = struct{}{}

		eval := w.windowSvc.EvaluateSession(att, now)
		state := w.sessions[att.ID]

		payload := attendance.WindowTransitionEvent{
			AttendanceID:         att.ID,
			Date:                 att.Date.Format("2006-01-02"),
			OccurredAt:           now.UTC().Format(time.RFC3339),
			EffectiveWorkedHours: eval.EffectiveWorkedHours.StringFixed(2),
			PreviewPayUSDT:       eval.PreviewPayUSDT.StringFixed(2),
		}

		if eval.IsOvertime && !state.overtime {
			state.overtime = true
			w.publish(att.EmployeeID, attendance.EventWindowOvertime, payload)
			published++
		}
		if eval.IsLocked && !state.locked {
			state.locked = true
			w.publish(att.EmployeeID, attendance.EventWindowLocked, payload)
			published++
		}

		w.sessions[att.ID] = state
	}

	// Forget sessions that were closed or aged out
	for id := range w.sessions {
		if _, ok := open[id]; !ok {
			delete(w.sessions, id)
		}
	}

	if published > 0 {
		slog.Info("Cron: Window transitions published", "sessions", len(sessions), "published", published)
	}

	return nil
}

func (w *WindowWatcher) publish(employeeID string, event string, payload attendance.WindowTransitionEvent) {
	w.publisher.Publish(employeeID, sse.Event{Event: event, Data: payload})
	w.metrics.ObserveTransition(event)
}
