package server

import (
	"time"

	"cvintake/internal/auth"
	"cvintake/internal/config"
	cvintakeErrors "cvintake/internal/errors"
	"cvintake/internal/google"
	"cvintake/internal/ingest"
	"cvintake/internal/intake"
	"cvintake/internal/types"
)

// AcknowledgeRequest represents the request body for the acknowledge endpoint
type AcknowledgeRequest struct {
	Record types.CandidateRecord `json:"record"`
	Send   bool                  `json:"send"`
}

// ScheduleHTTPRequest represents the request body for the schedule endpoint
type ScheduleHTTPRequest struct {
	Record  types.CandidateRecord  `json:"record"`
	Request intake.ScheduleRequest `json:"request"`
}

// InterviewExportRequest represents the request body for the interview export endpoint
type InterviewExportRequest struct {
	Record types.CandidateRecord `json:"record"`
	Plan   types.InterviewPlan   `json:"plan"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Full application configuration
	AppConfig *config.Config

	// Domain services
	Session  *auth.Session
	Intake   *intake.Service
	Calendar *google.Calendar
	Mail     *google.Mail
	Reader   *ingest.Reader

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	// Logger
	Logger *cvintakeErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// Dependencies bundles the domain services the HTTP server exposes
type Dependencies struct {
	Session  *auth.Session
	Intake   *intake.Service
	Calendar *google.Calendar
	Mail     *google.Mail
	Reader   *ingest.Reader
}

// NewServer creates a new Server instance from a ServerConfig struct
func NewServer(appCfg *config.Config, cfg ServerConfig, deps Dependencies, logger *cvintakeErrors.Logger) *Server {
	// Convert API keys slice to map for O(1) lookup
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		AppConfig:      appCfg,
		Session:        deps.Session,
		Intake:         deps.Intake,
		Calendar:       deps.Calendar,
		Mail:           deps.Mail,
		Reader:         deps.Reader,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Logger:         logger,
	}
}
