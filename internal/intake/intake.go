// Package intake orchestrates the résumé workflow: extraction into a
// candidate record, acknowledgement messages, interview scheduling with
// conferencing-link fallback, and notification mail.
package intake

import (
	"context"
	"fmt"
	"time"

	"cvintake/internal/compose"
	"cvintake/internal/errors"
	"cvintake/internal/extract"
	"cvintake/internal/google"
	"cvintake/internal/schedule"
	"cvintake/internal/types"
)

// ConferenceScheduler creates a conferencing event and yields its video
// link, or "" when the provider attached none.
type ConferenceScheduler interface {
	CreateConferenceEvent(ctx context.Context, title string, start time.Time, durationMinutes int) (string, error)
}

// MailSender delivers a plain-text message, reporting success only.
type MailSender interface {
	Send(ctx context.Context, to, subject, body string) bool
}

// ScheduleRequest is an operator's request to book an interview.
type ScheduleRequest struct {
	Date            string `json:"date"` // YYYY-MM-DD
	Time            string `json:"time"` // HH:MM
	DurationMinutes int    `json:"durationMinutes"`
	InterviewType   string `json:"interviewType"`
	InterviewerName string `json:"interviewerName"`
	SendInvitation  bool   `json:"sendInvitation"`
}

// ScheduleResult is the outcome of a scheduling request.
type ScheduleResult struct {
	Plan            types.InterviewPlan `json:"plan"`
	Message         string              `json:"message"`
	UsedPlaceholder bool                `json:"usedPlaceholder"`
	InvitationSent  bool                `json:"invitationSent"`
}

// Service drives the intake workflow. All collaborators are explicit;
// the service holds no per-candidate state between calls.
type Service struct {
	calendar           ConferenceScheduler
	mail               MailSender
	planner            *schedule.Planner
	location           *time.Location
	defaultInterviewer string
	logger             *errors.Logger
}

// NewService builds the orchestrator. calendar and mail may be nil, in
// which case scheduling degrades to placeholder links and invitations
// are never sent.
func NewService(calendar ConferenceScheduler, mail MailSender, planner *schedule.Planner,
	loc *time.Location, defaultInterviewer string, logger *errors.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if defaultInterviewer == "" {
		defaultInterviewer = compose.DefaultInterviewer
	}
	return &Service{
		calendar:           calendar,
		mail:               mail,
		planner:            planner,
		location:           loc,
		defaultInterviewer: defaultInterviewer,
		logger:             logger,
	}
}

// ProcessDocument runs the extractors over the document text and
// assembles a candidate record. Extraction never fails; missing fields
// come back empty or as the unspecified sentinel.
func (s *Service) ProcessDocument(filename, text string) types.CandidateRecord {
	rec := extract.Candidate(text, filename)
	if s.logger != nil {
		s.logger.Info("résumé processed",
			"file", filename,
			"email_found", rec.Email != "",
			"phone_found", rec.Phone != "",
			"contract_type", string(rec.ContractType),
			"duration", rec.Duration)
	}
	return rec
}

// Acknowledge composes the reception message for a candidate and
// optionally mails it. The message is always returned; delivery is
// reported as a flag and never blocks the workflow.
func (s *Service) Acknowledge(ctx context.Context, rec types.CandidateRecord, send bool) (string, bool) {
	message := compose.Acknowledgement(rec.ContractType)

	sent := false
	if send && s.mail != nil && rec.Email != "" {
		sent = s.mail.Send(ctx, rec.Email, compose.AcknowledgementSubject, message)
		if !sent && s.logger != nil {
			s.logger.Warn("acknowledgement mail not delivered", "to", rec.Email)
		}
	}
	return message, sent
}

// AvailableSlots lists the bookable slots for date, narrowed by the
// calendar when reachable.
func (s *Service) AvailableSlots(ctx context.Context, date string) ([]string, error) {
	return s.planner.AvailableSlots(ctx, date)
}

// Schedule validates the request, books the conferencing event (falling
// back to a placeholder link when the provider is unavailable or
// returns no video entry point) and composes the invitation. Validation
// failures leave no trace; a validation error means nothing was booked
// or sent.
func (s *Service) Schedule(ctx context.Context, rec types.CandidateRecord, req ScheduleRequest) (*ScheduleResult, error) {
	start, err := s.validate(rec, req)
	if err != nil {
		return nil, err
	}

	interviewer := req.InterviewerName
	if interviewer == "" {
		interviewer = s.defaultInterviewer
	}
	title := meetingTitle(rec)

	link, usedPlaceholder := s.conferenceLink(ctx, title, start, req.DurationMinutes)

	plan := types.InterviewPlan{
		MeetingTitle:    title,
		Date:            req.Date,
		Time:            req.Time,
		DurationMinutes: req.DurationMinutes,
		InterviewType:   req.InterviewType,
		InterviewerName: interviewer,
		ConferenceLink:  link,
	}

	message, err := compose.InterviewInvitation(rec.ContractType, req.Date, req.Time, link, interviewer)
	if err != nil {
		// The date already passed validation; this is a contract violation.
		return nil, err
	}

	sent := false
	if req.SendInvitation && s.mail != nil {
		sent = s.mail.Send(ctx, rec.Email, compose.InvitationSubject, message)
		if !sent && s.logger != nil {
			s.logger.Warn("invitation mail not delivered", "to", rec.Email)
		}
	}

	if s.logger != nil {
		s.logger.Info("interview scheduled",
			"date", req.Date,
			"time", req.Time,
			"duration_minutes", req.DurationMinutes,
			"placeholder_link", usedPlaceholder,
			"invitation_sent", sent)
	}

	return &ScheduleResult{
		Plan:            plan,
		Message:         message,
		UsedPlaceholder: usedPlaceholder,
		InvitationSent:  sent,
	}, nil
}

// validate checks the scheduling request and returns the interview
// start instant in the service timezone.
func (s *Service) validate(rec types.CandidateRecord, req ScheduleRequest) (time.Time, error) {
	if rec.Email == "" {
		return time.Time{}, errors.NewValidationError(errors.ErrCodeMissingEmail,
			"candidate email is required to schedule an interview", nil)
	}

	day, err := time.ParseInLocation("2006-01-02", req.Date, s.location)
	if err != nil {
		return time.Time{}, errors.NewValidationError(errors.ErrCodeInvalidDate,
			fmt.Sprintf("invalid interview date %q, expected YYYY-MM-DD", req.Date), err)
	}
	if !schedule.IsWorkingDay(day) {
		return time.Time{}, errors.NewValidationError(errors.ErrCodeNotWorkingDay,
			fmt.Sprintf("%s is not a working day", req.Date), nil)
	}

	if !s.planner.HasSlot(req.Time) {
		return time.Time{}, errors.NewValidationError(errors.ErrCodeInvalidSlot,
			fmt.Sprintf("time %q is not a bookable quarter-hour slot", req.Time), nil)
	}

	if !types.ValidInterviewDuration(req.DurationMinutes) {
		return time.Time{}, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("duration %d is not an accepted interview length", req.DurationMinutes), nil)
	}

	slot, err := time.ParseInLocation("15:04", req.Time, s.location)
	if err != nil {
		return time.Time{}, errors.NewValidationError(errors.ErrCodeInvalidSlot,
			fmt.Sprintf("invalid time %q, expected HH:MM", req.Time), err)
	}

	return time.Date(day.Year(), day.Month(), day.Day(),
		slot.Hour(), slot.Minute(), 0, 0, s.location), nil
}

// conferenceLink asks the calendar for a real video link and falls back
// to a locally generated placeholder on any failure or empty answer.
func (s *Service) conferenceLink(ctx context.Context, title string, start time.Time, durationMinutes int) (string, bool) {
	if s.calendar == nil {
		return google.PlaceholderLink(), true
	}
	link, err := s.calendar.CreateConferenceEvent(ctx, title, start, durationMinutes)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("conference event creation failed, using placeholder link", "error", err)
		}
		return google.PlaceholderLink(), true
	}
	if link == "" {
		if s.logger != nil {
			s.logger.Warn("provider returned no video entry point, using placeholder link")
		}
		return google.PlaceholderLink(), true
	}
	return link, false
}

func meetingTitle(rec types.CandidateRecord) string {
	who := rec.Email
	if who == "" {
		who = rec.SourceFileName
	}
	if rec.ContractType != types.ContractUnspecified && rec.ContractType != "" {
		return fmt.Sprintf("Entretien %s - %s", rec.ContractType, who)
	}
	return fmt.Sprintf("Entretien - %s", who)
}
