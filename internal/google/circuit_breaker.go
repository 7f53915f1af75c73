package google

import (
	"fmt"

	"github.com/sony/gobreaker/v2"

	"cvintake/internal/config"
	"cvintake/internal/errors"
	"cvintake/internal/types"
)

// LinkCircuitBreaker wraps conference-link creation with circuit breaker pattern
type LinkCircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[string]
}

// BusyCircuitBreaker wraps busy-interval listing with circuit breaker pattern
type BusyCircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[[]types.BusyInterval]
}

// MailCircuitBreaker wraps mail sending with circuit breaker pattern
type MailCircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[string]
}

func breakerSettings(name string, cfg *config.CircuitBreakerConfig, logger *errors.Logger) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests &&
				failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger != nil {
				logger.Info("Circuit breaker state changed",
					"name", name,
					"from", from.String(),
					"to", to.String(),
					"max_requests", cfg.MaxRequests,
					"failure_threshold", cfg.FailureThreshold)
			}
		},
	}
}

// NewLinkCircuitBreaker creates a circuit breaker for conference-link creation.
// Returns nil when the breaker is disabled.
func NewLinkCircuitBreaker(operation string, cfg *config.CircuitBreakerConfig, logger *errors.Logger) *LinkCircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	return &LinkCircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[string](breakerSettings(fmt.Sprintf("Calendar-%s", operation), cfg, logger)),
	}
}

// NewBusyCircuitBreaker creates a circuit breaker for busy-interval listing.
// Returns nil when the breaker is disabled.
func NewBusyCircuitBreaker(operation string, cfg *config.CircuitBreakerConfig, logger *errors.Logger) *BusyCircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	return &BusyCircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[[]types.BusyInterval](breakerSettings(fmt.Sprintf("Calendar-%s", operation), cfg, logger)),
	}
}

// NewMailCircuitBreaker creates a circuit breaker for mail sending.
// Returns nil when the breaker is disabled.
func NewMailCircuitBreaker(operation string, cfg *config.CircuitBreakerConfig, logger *errors.Logger) *MailCircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	return &MailCircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[string](breakerSettings(fmt.Sprintf("Mail-%s", operation), cfg, logger)),
	}
}

// Execute executes the provided function with circuit breaker protection
func (cb *LinkCircuitBreaker) Execute(fn func() (string, error)) (string, error) {
	if cb == nil || cb.cb == nil {
		// If breaker is disabled/nil, just execute the function directly
		return fn()
	}
	return cb.cb.Execute(fn)
}

// Execute executes the provided function with circuit breaker protection
func (cb *BusyCircuitBreaker) Execute(fn func() ([]types.BusyInterval, error)) ([]types.BusyInterval, error) {
	if cb == nil || cb.cb == nil {
		return fn()
	}
	return cb.cb.Execute(fn)
}

// Execute executes the provided function with circuit breaker protection
func (cb *MailCircuitBreaker) Execute(fn func() (string, error)) (string, error) {
	if cb == nil || cb.cb == nil {
		return fn()
	}
	return cb.cb.Execute(fn)
}

// GetStats returns circuit breaker statistics
func (cb *LinkCircuitBreaker) GetStats() map[string]any {
	if cb == nil || cb.cb == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"name":    cb.cb.Name(),
		"state":   cb.cb.State().String(),
		"counts":  cb.cb.Counts(),
		"enabled": true,
	}
}

// GetStats returns circuit breaker statistics
func (cb *BusyCircuitBreaker) GetStats() map[string]any {
	if cb == nil || cb.cb == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"name":    cb.cb.Name(),
		"state":   cb.cb.State().String(),
		"counts":  cb.cb.Counts(),
		"enabled": true,
	}
}

// GetStats returns circuit breaker statistics
func (cb *MailCircuitBreaker) GetStats() map[string]any {
	if cb == nil || cb.cb == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"name":    cb.cb.Name(),
		"state":   cb.cb.State().String(),
		"counts":  cb.cb.Counts(),
		"enabled": true,
	}
}

// IsHealthy returns true if the circuit breaker is in closed state
func (cb *LinkCircuitBreaker) IsHealthy() bool {
	if cb == nil || cb.cb == nil {
		return true // If no circuit breaker, consider it healthy
	}
	return cb.cb.State() == gobreaker.StateClosed
}

// IsHealthy returns true if the circuit breaker is in closed state
func (cb *BusyCircuitBreaker) IsHealthy() bool {
	if cb == nil || cb.cb == nil {
		return true
	}
	return cb.cb.State() == gobreaker.StateClosed
}

// IsHealthy returns true if the circuit breaker is in closed state
func (cb *MailCircuitBreaker) IsHealthy() bool {
	if cb == nil || cb.cb == nil {
		return true
	}
	return cb.cb.State() == gobreaker.StateClosed
}
