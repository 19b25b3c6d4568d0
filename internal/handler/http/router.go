package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-window-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
	Metrics        *metrics.Recorder
}

func NewRouter(JWTService jwt.Service, windowHandler WindowHandler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
		// scrapes every few seconds would drown the request log
		Skip: func(req *http.Request, respStatus int) bool {
			return req.URL.Path == "/metrics"
		},
	}))

	r.Use(opts.Metrics.Middleware)
	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/attendance/window", func(r chi.Router) {
			// Stream authenticates with a short-lived query token
			r.Get("/stream", windowHandler.Stream)

			// Requires authentication
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired)

				r.Get("/config", windowHandler.GetConfig)
				r.Post("/evaluate", windowHandler.Evaluate)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireEmployee)

					r.Get("/", windowHandler.GetMyWindow)
					r.Post("/stream/token", windowHandler.GetStreamToken)
				})
			})
		})
	})

	return r
}
