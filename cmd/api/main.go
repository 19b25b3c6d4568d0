package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/attendance-window-go/internal/config"
	appHTTP "github.com/cmlabs-hris/attendance-window-go/internal/handler/http"
	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-window-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-window-go/internal/service/attendance"
	"github.com/go-chi/httplog/v3"
	"golang.org/x/sync/errgroup"
)

const (
	appName         = "attendance-window"
	appVersion      = "v1.0.0"
	shutdownTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", appVersion),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("init jwt: %w", err)
	}

	recorder := metrics.NewRecorder()
	hub := sse.NewHub()
	recorder.RegisterGaugeFunc("sse_subscribers", "Active window event streams", func() float64 {
		return float64(hub.TotalSubscribers())
	})

	attendanceRepo := postgresql.NewAttendanceRepository(db)
	windowService := attendanceService.NewWindowService(attendanceRepo, cfg.Attendance, recorder)

	scheduler := cron.NewScheduler()
	cron.NewWindowWatcher(attendanceRepo, windowService, hub, recorder).
		RegisterJobs(scheduler, cfg.Attendance.WatchInterval)

	windowHandler := appHTTP.NewWindowHandler(windowService, JWTService, hub)
	router := appHTTP.NewRouter(JWTService, windowHandler, appHTTP.RouterOptions{
		Logger:         logger,
		LogLevel:       cfg.SlogLevel(),
		AllowedOrigins: cfg.App.AllowedOrigins,
		Metrics:        recorder,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// open event streams end when the process starts shutting down
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return scheduler.Run(gCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("Server exiting")
	return nil
}
