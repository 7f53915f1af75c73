package server

import (
	"errors"
	"net/http"

	cvintakeErrors "cvintake/internal/errors"
	"cvintake/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// createLoginHandler starts the OAuth flow and returns the authorization URL
func (s *Server) createLoginHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("cvintake.api")
		_, span := tracer.Start(ctx, "api.auth.login")
		defer span.End()

		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if s.Session == nil {
			writeErrorResponse(w, "OAuth not configured", "no Google client credentials configured", http.StatusServiceUnavailable)
			return
		}

		authURL, err := s.Session.AuthURL()
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "auth"))
			writeErrorResponse(w, "Failed to start OAuth flow", err.Error(), http.StatusInternalServerError)
			return
		}

		span.SetAttributes(attribute.Bool("success", true))
		writeJSONResponse(w, map[string]any{
			"authorizationUrl": authURL,
			"state":            string(s.Session.Status(ctx)),
		})
	}
}

// createCallbackHandler completes the OAuth flow from the provider redirect
func (s *Server) createCallbackHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("cvintake.api")
		ctx, span := tracer.Start(ctx, "api.auth.callback")
		defer span.End()

		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if s.Session == nil {
			writeErrorResponse(w, "OAuth not configured", "no Google client credentials configured", http.StatusServiceUnavailable)
			return
		}

		query := r.URL.Query()
		code := query.Get("code")
		state := query.Get("state")
		if code == "" {
			writeErrorResponse(w, "Missing authorization code", "code query parameter is required", http.StatusBadRequest)
			return
		}

		if err := s.Session.CompleteExchange(ctx, code, state); err != nil {
			span.RecordError(err)
			var appErr *cvintakeErrors.AppError
			if errors.As(err, &appErr) && appErr.Code == cvintakeErrors.ErrCodeStateMismatch {
				span.SetAttributes(attribute.String("error.type", "state_mismatch"))
				writeErrorResponse(w, "State mismatch", "authorization response did not match the pending request", http.StatusForbidden)
				return
			}
			span.SetAttributes(attribute.String("error.type", "token_exchange"))
			writeErrorResponse(w, "Token exchange failed", err.Error(), http.StatusBadGateway)
			return
		}

		span.SetAttributes(attribute.Bool("success", true))
		writeJSONResponse(w, map[string]any{
			"state":   string(s.Session.Status(ctx)),
			"message": "authentication complete, you can close this window",
		})
	}
}

// createAuthStatusHandler reports the current OAuth session state
func (s *Server) createAuthStatusHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("cvintake.api")
		ctx, span := tracer.Start(ctx, "api.auth.status")
		defer span.End()

		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if s.Session == nil {
			writeJSONResponse(w, map[string]any{"state": "no_session"})
			return
		}

		state := s.Session.Status(ctx)
		span.SetAttributes(attribute.String("session.state", string(state)))
		writeJSONResponse(w, map[string]any{"state": string(state)})
	}
}

// createLogoutHandler clears the persisted token and pending state
func (s *Server) createLogoutHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracer := om.Tracer("cvintake.api")
		_, span := tracer.Start(r.Context(), "api.auth.logout")
		defer span.End()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if s.Session == nil {
			writeJSONResponse(w, map[string]any{"state": "no_session"})
			return
		}

		if err := s.Session.Logout(); err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Logout failed", err.Error(), http.StatusInternalServerError)
			return
		}

		span.SetAttributes(attribute.Bool("success", true))
		writeJSONResponse(w, map[string]any{"state": "no_session"})
	}
}
