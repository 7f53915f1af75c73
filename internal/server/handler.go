package server

import (
	"context"
	"errors"
	"net/http"

	cvintakeErrors "cvintake/internal/errors"
	"cvintake/internal/export"
	"cvintake/internal/intake"
	"cvintake/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// createUploadHandler ingests one résumé upload and returns the extracted record
func (s *Server) createUploadHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("cvintake.api")
		ctx, span := tracer.Start(ctx, "api.intake.upload")
		defer span.End()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if err := r.ParseMultipartForm(s.MaxRequestSize); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid multipart form", err.Error(), http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Missing file", "file form field is required", http.StatusBadRequest)
			return
		}
		defer func() {
			if err := file.Close(); err != nil {
				s.Logger.Warn("Failed to close uploaded file", "error", err)
			}
		}()

		span.SetAttributes(
			attribute.String("upload.filename", header.Filename),
			attribute.Int64("upload.size", header.Size),
			attribute.String("operation", "upload"),
		)

		doc, err := s.Reader.Read(header.Filename, file)
		metrics := om.GetMetrics()
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "document_processed", false, om,
				attribute.String("filename", header.Filename))
			var appErr *cvintakeErrors.AppError
			if errors.As(err, &appErr) && appErr.Code == cvintakeErrors.ErrCodeUnsupportedFormat {
				writeErrorResponse(w, "Unsupported file type", appErr.Message, http.StatusUnsupportedMediaType)
				return
			}
			writeErrorResponse(w, "Failed to read document", err.Error(), http.StatusUnprocessableEntity)
			return
		}

		record := s.Intake.ProcessDocument(doc.Filename, doc.Text)

		metrics.RecordBusinessMetric(ctx, "document_processed", true, om,
			attribute.String("contract_type", string(record.ContractType)),
			attribute.Bool("email_found", record.Email != ""))

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("contract_type", string(record.ContractType)),
		)

		writeJSONResponse(w, record)
	}
}

// createSlotsHandler lists free interview slots for a date
func (s *Server) createSlotsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("cvintake.api")
		ctx, span := tracer.Start(ctx, "api.intake.slots")
		defer span.End()

		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		date := r.URL.Query().Get("date")
		if date == "" {
			writeErrorResponse(w, "Missing date", "date query parameter is required (YYYY-MM-DD)", http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("request.date", date),
			attribute.String("operation", "slots"),
		)

		slots, err := s.Intake.AvailableSlots(ctx, date)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid date", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Int("slots_count", len(slots)),
		)

		writeJSONResponse(w, map[string]any{
			"date":  date,
			"slots": slots,
		})
	}
}

// createAcknowledgeHandler composes (and optionally sends) an acknowledgement
func (s *Server) createAcknowledgeHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("cvintake.api")
		ctx, span := tracer.Start(ctx, "api.intake.acknowledge")
		defer span.End()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req AcknowledgeRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.Bool("request.send", req.Send),
			attribute.String("operation", "acknowledge"),
		)

		metrics := om.GetMetrics()
		var message string
		var sent bool
		if req.Send {
			// The send path goes out to Gmail, track it as a remote call.
			_ = metrics.TrackRemoteCall(ctx, "mail_send", func(ctx context.Context) error {
				message, sent = s.Intake.Acknowledge(ctx, req.Record, true)
				return nil
			}, om)
			metrics.RecordBusinessMetric(ctx, "acknowledgement_sent", sent, om)
		} else {
			message, sent = s.Intake.Acknowledge(ctx, req.Record, false)
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Bool("mail_sent", sent),
		)

		writeJSONResponse(w, map[string]any{
			"message": message,
			"sent":    sent,
		})
	}
}

// createScheduleHandler validates and books an interview
func (s *Server) createScheduleHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("cvintake.api")
		ctx, span := tracer.Start(ctx, "api.intake.schedule")
		defer span.End()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req ScheduleHTTPRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		span.SetAttributes(
			attribute.String("request.date", req.Request.Date),
			attribute.String("request.time", req.Request.Time),
			attribute.Int("request.duration_minutes", req.Request.DurationMinutes),
			attribute.String("operation", "schedule"),
		)

		metrics := om.GetMetrics()
		var result *intake.ScheduleResult
		err := metrics.TrackRemoteCall(ctx, "schedule_interview", func(ctx context.Context) error {
			var err error
			result, err = s.Intake.Schedule(ctx, req.Record, req.Request)
			return err
		}, om)
		if err != nil {
			span.RecordError(err)
			metrics.RecordBusinessMetric(ctx, "interview_scheduled", false, om,
				attribute.String("error", err.Error()))
			var appErr *cvintakeErrors.AppError
			if errors.As(err, &appErr) && appErr.Type == cvintakeErrors.ErrorTypeValidation {
				span.SetAttributes(attribute.String("error.type", "validation"))
				writeErrorResponse(w, "Invalid scheduling request", appErr.Message, http.StatusBadRequest)
				return
			}
			writeErrorResponse(w, "Failed to schedule interview", err.Error(), http.StatusInternalServerError)
			return
		}

		metrics.RecordBusinessMetric(ctx, "interview_scheduled", true, om,
			attribute.Bool("placeholder_link", result.UsedPlaceholder),
			attribute.Bool("invitation_sent", result.InvitationSent))
		if result.UsedPlaceholder {
			metrics.RecordBusinessMetric(ctx, "placeholder_fallback", true, om)
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.Bool("placeholder_link", result.UsedPlaceholder),
			attribute.Bool("invitation_sent", result.InvitationSent),
		)

		writeJSONResponse(w, result)
	}
}

// createCandidateExportHandler renders a candidate record as CSV
func (s *Server) createCandidateExportHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracer := om.Tracer("cvintake.api")
		_, span := tracer.Start(r.Context(), "api.export.candidate")
		defer span.End()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req AcknowledgeRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		data, err := export.CandidateCSV(req.Record)
		if err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Failed to export record", err.Error(), http.StatusInternalServerError)
			return
		}

		span.SetAttributes(attribute.Bool("success", true))
		writeCSVResponse(w, "candidature.csv", data)
	}
}

// createInterviewExportHandler renders a candidate record plus interview plan as CSV
func (s *Server) createInterviewExportHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracer := om.Tracer("cvintake.api")
		_, span := tracer.Start(r.Context(), "api.export.interview")
		defer span.End()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req InterviewExportRequest
		if err := parseJSONRequest(r, &req); err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			writeErrorResponse(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		data, err := export.InterviewCSV(req.Record, req.Plan)
		if err != nil {
			span.RecordError(err)
			writeErrorResponse(w, "Failed to export interview", err.Error(), http.StatusInternalServerError)
			return
		}

		span.SetAttributes(attribute.Bool("success", true))
		writeCSVResponse(w, "entretien.csv", data)
	}
}

// writeCSVResponse writes CSV bytes as a file download
func writeCSVResponse(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if _, err := w.Write(data); err != nil {
		http.Error(w, "Failed to write response", http.StatusInternalServerError)
	}
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		return originalMiddleware(func(w http.ResponseWriter, r *http.Request) {
			// Check if this request was rate limited by examining the response
			// We'll wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			next(wrapper, r)

			// If rate limited, record metric
			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		})
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
