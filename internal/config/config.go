package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/attendancewindow"
	"github.com/cmlabs-hris/attendance-window-go/internal/pkg/validator"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// AttendanceConfig holds the check-in/check-out window and pay preview knobs.
type AttendanceConfig struct {
	Window          attendancewindow.Config
	DefaultTimezone string
	WatchInterval   time.Duration
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hris"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance window configuration
	attendanceCfg, err := loadAttendance()
	if err != nil {
		return nil, err
	}
	config.Attendance = attendanceCfg

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadAttendance() (AttendanceConfig, error) {
	defaults := attendancewindow.DefaultConfig()
	window := defaults
	var err error

	if window.CheckinLockEnabled, err = getEnvBool("ATTENDANCE_CHECKIN_LOCK_ENABLED", defaults.CheckinLockEnabled); err != nil {
		return AttendanceConfig{}, err
	}
	if window.CheckoutLockEnabled, err = getEnvBool("ATTENDANCE_CHECKOUT_LOCK_ENABLED", defaults.CheckoutLockEnabled); err != nil {
		return AttendanceConfig{}, err
	}

	if window.CheckinStart, err = getEnvMinutes("ATTENDANCE_CHECKIN_START", defaults.CheckinStart); err != nil {
		return AttendanceConfig{}, err
	}
	if window.CheckinEnd, err = getEnvMinutes("ATTENDANCE_CHECKIN_END", defaults.CheckinEnd); err != nil {
		return AttendanceConfig{}, err
	}
	if window.CheckoutLock, err = getEnvMinutes("ATTENDANCE_CHECKOUT_LOCK", defaults.CheckoutLock); err != nil {
		return AttendanceConfig{}, err
	}
	if window.OvertimeStart, err = getEnvMinutes("ATTENDANCE_OVERTIME_START", defaults.OvertimeStart); err != nil {
		return AttendanceConfig{}, err
	}

	if window.MaxPaidHoursPerDay, err = getEnvDecimal("ATTENDANCE_MAX_PAID_HOURS", defaults.MaxPaidHoursPerDay); err != nil {
		return AttendanceConfig{}, err
	}
	if window.MinPaidHoursPerDay, err = getEnvDecimal("ATTENDANCE_MIN_PAID_HOURS", defaults.MinPaidHoursPerDay); err != nil {
		return AttendanceConfig{}, err
	}
	if window.HourlyRateUSDT, err = getEnvDecimal("ATTENDANCE_HOURLY_RATE_USDT", defaults.HourlyRateUSDT); err != nil {
		return AttendanceConfig{}, err
	}

	watchInterval, err := time.ParseDuration(getEnv("ATTENDANCE_WATCH_INTERVAL", "1m"))
	if err != nil {
		return AttendanceConfig{}, fmt.Errorf("invalid ATTENDANCE_WATCH_INTERVAL: %w", err)
	}

	return AttendanceConfig{
		Window:          window,
		DefaultTimezone: getEnv("ATTENDANCE_DEFAULT_TIMEZONE", "UTC"),
		WatchInterval:   watchInterval,
	}, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if !validator.IsInSlice(c.App.Env, []string{"development", "staging", "production"}) {
		return fmt.Errorf("invalid APP_ENV: %q", c.App.Env)
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if !validator.IsValidTimezone(c.Attendance.DefaultTimezone) {
		return fmt.Errorf("invalid ATTENDANCE_DEFAULT_TIMEZONE: %q", c.Attendance.DefaultTimezone)
	}
	if c.Attendance.WatchInterval <= 0 {
		return fmt.Errorf("ATTENDANCE_WATCH_INTERVAL must be positive")
	}
	if err := c.Attendance.Window.Validate(); err != nil {
		return fmt.Errorf("invalid attendance window: %w", err)
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL onto slog levels, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key, fallback string) []string {
	value := getEnv(key, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

// getEnvMinutes accepts either minutes since midnight ("1050") or a clock
// time ("17:30").
func getEnvMinutes(key string, fallback attendancewindow.TimeOfDay) (attendancewindow.TimeOfDay, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	if minutes, err := strconv.Atoi(value); err == nil {
		if minutes < 0 || minutes >= attendancewindow.MinutesPerDay {
			return 0, fmt.Errorf("invalid %s: %d is outside 0-%d", key, minutes, attendancewindow.MinutesPerDay-1)
		}
		return attendancewindow.TimeOfDay(minutes), nil
	}
	t, err := attendancewindow.ParseTimeOfDay(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return t, nil
}

func getEnvDecimal(key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
