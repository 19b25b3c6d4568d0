package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-window-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-window-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/sse"
	"github.com/go-chi/jwtauth/v5"
)

const streamKeepalive = 30 * time.Second

type WindowHandler interface {
	GetMyWindow(w http.ResponseWriter, r *http.Request)
	Evaluate(w http.ResponseWriter, r *http.Request)
	GetConfig(w http.ResponseWriter, r *http.Request)
	GetStreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type windowHandlerImpl struct {
	windowService attendance.WindowService
	jwtService    jwt.Service
	hub           *sse.Hub
	keepalive     time.Duration
}

func NewWindowHandler(windowService attendance.WindowService, jwtService jwt.Service, hub *sse.Hub) WindowHandler {
	return &windowHandlerImpl{
		windowService: windowService,
		jwtService:    jwtService,
		hub:           hub,
		keepalive:     streamKeepalive,
	}
}

// GetMyWindow implements WindowHandler.
func (h *windowHandlerImpl) GetMyWindow(w http.ResponseWriter, r *http.Request) {
	resp, err := h.windowService.GetMyWindow(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// Evaluate implements WindowHandler.
func (h *windowHandlerImpl) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req attendance.EvaluateWindowRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Evaluate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.windowService.EvaluateWindow(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}

// GetConfig implements WindowHandler.
func (h *windowHandlerImpl) GetConfig(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.windowService.GetWindowConfig(r.Context()))
}

// GetStreamToken generates a short-lived token for the window event stream
func (h *windowHandlerImpl) GetStreamToken(w http.ResponseWriter, r *http.Request) {
	_, claims, _ := jwtauth.FromContext(r.Context())

	employeeID, _ := claims["employee_id"].(string)
	if employeeID == "" {
		response.HandleError(w, attendance.ErrEmployeeClaimMissing)
		return
	}
	companyID, _ := claims["company_id"].(string)
	if companyID == "" {
		response.HandleError(w, attendance.ErrCompanyClaimMissing)
		return
	}

	token, expiresIn, err := h.jwtService.GenerateStreamToken(employeeID, companyID)
	if err != nil {
		slog.Error("GetStreamToken error", "error", err)
		response.InternalServerError(w, "Failed to generate stream token")
		return
	}

	response.Success(w, attendance.StreamTokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream pushes window transitions for the token's employee
func (h *windowHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// EventSource cannot set headers, so the token travels in the query
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.HandleError(w, attendance.ErrStreamTokenInvalid)
		return
	}

	employeeID, err := h.jwtService.ValidateStreamToken(tokenStr)
	if err != nil {
		response.HandleError(w, attendance.ErrStreamTokenInvalid)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(employeeID)
	defer cleanup()

	connected := sse.Event{Event: "connected", Data: map[string]string{"status": "connected", "employee_id": employeeID}}
	if _, err := connected.WriteTo(w); err != nil {
		return
	}
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if _, err := event.WriteTo(w); err != nil {
				slog.Error("Stream write error", "employee_id", employeeID, "event", event.Event, "error", err)
				return
			}
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, ": ping %d\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
