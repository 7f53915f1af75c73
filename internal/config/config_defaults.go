package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Google OAuth client configuration
	v.SetDefault("google.clientID", "")
	v.SetDefault("google.clientSecret", "")
	v.SetDefault("google.redirectURL", "http://localhost:8503/auth/callback")
	v.SetDefault("google.credentialsFile", "")
	v.SetDefault("google.credentialsWatch.enabled", true)
	v.SetDefault("google.credentialsWatch.debounceDelay", time.Second)
	v.SetDefault("google.tokenFile", "google_oauth_token.json")
	v.SetDefault("google.stateFile", ".oauth_state")
	v.SetDefault("google.calendarID", "primary")
	v.SetDefault("google.timezone", "Europe/Paris")

	// Calendar call configuration
	v.SetDefault("google.calendar.timeout", 30*time.Second)
	v.SetDefault("google.calendar.circuitBreaker.enabled", true)
	v.SetDefault("google.calendar.circuitBreaker.maxRequests", 3)
	v.SetDefault("google.calendar.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("google.calendar.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("google.calendar.circuitBreaker.minRequests", 3)
	v.SetDefault("google.calendar.circuitBreaker.failureThreshold", 0.6)

	// Mail call configuration
	v.SetDefault("google.mail.timeout", 30*time.Second)
	v.SetDefault("google.mail.circuitBreaker.enabled", true)
	v.SetDefault("google.mail.circuitBreaker.maxRequests", 3)
	v.SetDefault("google.mail.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("google.mail.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("google.mail.circuitBreaker.minRequests", 3)
	v.SetDefault("google.mail.circuitBreaker.failureThreshold", 0.6)

	// Scheduling Configuration
	v.SetDefault("scheduling.startHour", 9)
	v.SetDefault("scheduling.endHour", 20)
	v.SetDefault("scheduling.defaultInterviewer", "Marie Dupont")

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8503")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	// API Authentication defaults
	v.SetDefault("server.apiKeys", []string{})
	// Rate limiting defaults
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "csv"})
	v.SetDefault("app.maxFileSize", 10*1024*1024) // 10MB résumé uploads
	v.SetDefault("app.uploadDir", filepath.Join(os.TempDir(), "cvintake-uploads"))

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.googleClient", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "cvintake")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)

	// Tracing Configuration
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)

	// Metrics Configuration
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	// Custom Metrics Configuration
	v.SetDefault("observability.customMetrics.intakeOperations.enabled", true)
	v.SetDefault("observability.customMetrics.intakeOperations.trackDuration", true)
	v.SetDefault("observability.customMetrics.intakeOperations.trackExtractionHit", true)
	v.SetDefault("observability.customMetrics.remoteCalls.enabled", true)
	v.SetDefault("observability.customMetrics.remoteCalls.trackDuration", true)
	v.SetDefault("observability.customMetrics.remoteCalls.trackFallbacks", true)
	v.SetDefault("observability.customMetrics.infrastructure.enabled", true)
	v.SetDefault("observability.customMetrics.infrastructure.trackRateLimits", true)

	// Console Configuration
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)

	// Prometheus Configuration
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	// OTLP Configuration
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
}
