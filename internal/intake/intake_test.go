package intake

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"cvintake/internal/errors"
	"cvintake/internal/schedule"
	"cvintake/internal/types"
)

type stubScheduler struct {
	link  string
	err   error
	calls int
}

func (s *stubScheduler) CreateConferenceEvent(_ context.Context, _ string, _ time.Time, _ int) (string, error) {
	s.calls++
	return s.link, s.err
}

type stubMailer struct {
	ok       bool
	lastTo   string
	lastSubj string
	lastBody string
	calls    int
}

func (m *stubMailer) Send(_ context.Context, to, subject, body string) bool {
	m.calls++
	m.lastTo = to
	m.lastSubj = subject
	m.lastBody = body
	return m.ok
}

func candidate() types.CandidateRecord {
	return types.CandidateRecord{
		Email:          "jean.dupont@example.com",
		Phone:          "+33612345678",
		ContractType:   types.ContractAlternance,
		Duration:       "12 mois",
		SourceFileName: "cv_jean.pdf",
	}
}

func validRequest() ScheduleRequest {
	return ScheduleRequest{
		Date:            "2026-09-14", // a Monday
		Time:            "10:30",
		DurationMinutes: 45,
		InterviewType:   "Visio",
		InterviewerName: "Claire Martin",
	}
}

func newService(cal ConferenceScheduler, mail MailSender) *Service {
	planner := schedule.NewPlanner(nil, nil, time.UTC)
	return NewService(cal, mail, planner, time.UTC, "Marie Dupont", nil)
}

func TestProcessDocument(t *testing.T) {
	s := newService(nil, nil)
	text := "jean.dupont@example.com 06 12 34 56 78 alternance de 12 mois"

	rec := s.ProcessDocument("cv_jean.pdf", text)

	if rec.Email != "jean.dupont@example.com" {
		t.Errorf("Email = %q", rec.Email)
	}
	if rec.Phone != "+33612345678" {
		t.Errorf("Phone = %q", rec.Phone)
	}
	if rec.ContractType != types.ContractAlternance {
		t.Errorf("ContractType = %q", rec.ContractType)
	}
	if rec.Duration != "12 mois" {
		t.Errorf("Duration = %q", rec.Duration)
	}
	if rec.SourceFileName != "cv_jean.pdf" {
		t.Errorf("SourceFileName = %q", rec.SourceFileName)
	}
}

func TestAcknowledge(t *testing.T) {
	mail := &stubMailer{ok: true}
	s := newService(nil, mail)

	message, sent := s.Acknowledge(context.Background(), candidate(), true)
	if !strings.Contains(message, "un poste en Alternance") {
		t.Errorf("message = %q", message)
	}
	if !sent {
		t.Error("expected the acknowledgement to be mailed")
	}
	if mail.lastTo != "jean.dupont@example.com" {
		t.Errorf("mailed to %q", mail.lastTo)
	}
}

func TestAcknowledgeWithoutSending(t *testing.T) {
	mail := &stubMailer{ok: true}
	s := newService(nil, mail)

	_, sent := s.Acknowledge(context.Background(), candidate(), false)
	if sent || mail.calls != 0 {
		t.Error("mail must not be sent when not requested")
	}
}

func TestAcknowledgeMailFailureIsNotAnError(t *testing.T) {
	mail := &stubMailer{ok: false}
	s := newService(nil, mail)

	message, sent := s.Acknowledge(context.Background(), candidate(), true)
	if message == "" {
		t.Error("message must be composed even when delivery fails")
	}
	if sent {
		t.Error("failed delivery must be reported as false")
	}
}

func TestScheduleWithProviderLink(t *testing.T) {
	cal := &stubScheduler{link: "https://meet.google.com/abc-defg-hij"}
	mail := &stubMailer{ok: true}
	s := newService(cal, mail)

	req := validRequest()
	req.SendInvitation = true
	result, err := s.Schedule(context.Background(), candidate(), req)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	if result.Plan.ConferenceLink != cal.link {
		t.Errorf("ConferenceLink = %q", result.Plan.ConferenceLink)
	}
	if result.UsedPlaceholder {
		t.Error("provider link should not be flagged as placeholder")
	}
	if !result.Plan.Confirmed() {
		t.Error("plan with a link must be confirmed")
	}
	if !result.InvitationSent {
		t.Error("invitation should have been sent")
	}
	if !strings.Contains(result.Message, "📅 Date : 14/09/2026") {
		t.Errorf("message = %q", result.Message)
	}
	if !strings.Contains(result.Message, cal.link) {
		t.Error("message should carry the conference link")
	}
	if result.Plan.InterviewerName != "Claire Martin" {
		t.Errorf("InterviewerName = %q", result.Plan.InterviewerName)
	}
}

func TestSchedulePlaceholderFallback(t *testing.T) {
	tests := []struct {
		name string
		cal  ConferenceScheduler
	}{
		{name: "provider returns empty link", cal: &stubScheduler{link: ""}},
		{name: "provider fails", cal: &stubScheduler{err: stderrors.New("calendar down")}},
		{name: "no calendar configured", cal: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newService(tt.cal, nil)
			result, err := s.Schedule(context.Background(), candidate(), validRequest())
			if err != nil {
				t.Fatalf("Schedule failed: %v", err)
			}
			if !result.UsedPlaceholder {
				t.Error("expected a placeholder link")
			}
			if !strings.HasPrefix(result.Plan.ConferenceLink, "https://meet.google.com/") {
				t.Errorf("ConferenceLink = %q", result.Plan.ConferenceLink)
			}
			if !result.Plan.Confirmed() {
				t.Error("plan must still be confirmed with the placeholder link")
			}
		})
	}
}

func TestScheduleDefaultInterviewer(t *testing.T) {
	s := newService(&stubScheduler{link: "https://meet.google.com/x"}, nil)
	req := validRequest()
	req.InterviewerName = ""

	result, err := s.Schedule(context.Background(), candidate(), req)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if result.Plan.InterviewerName != "Marie Dupont" {
		t.Errorf("InterviewerName = %q, want default", result.Plan.InterviewerName)
	}
}

func TestScheduleValidation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*types.CandidateRecord, *ScheduleRequest)
		wantCode string
	}{
		{
			name:     "missing email",
			mutate:   func(r *types.CandidateRecord, _ *ScheduleRequest) { r.Email = "" },
			wantCode: errors.ErrCodeMissingEmail,
		},
		{
			name:     "malformed date",
			mutate:   func(_ *types.CandidateRecord, q *ScheduleRequest) { q.Date = "14/09/2026" },
			wantCode: errors.ErrCodeInvalidDate,
		},
		{
			name:     "saturday",
			mutate:   func(_ *types.CandidateRecord, q *ScheduleRequest) { q.Date = "2026-09-19" },
			wantCode: errors.ErrCodeNotWorkingDay,
		},
		{
			name:     "sunday",
			mutate:   func(_ *types.CandidateRecord, q *ScheduleRequest) { q.Date = "2026-09-20" },
			wantCode: errors.ErrCodeNotWorkingDay,
		},
		{
			name:     "time outside catalog",
			mutate:   func(_ *types.CandidateRecord, q *ScheduleRequest) { q.Time = "20:00" },
			wantCode: errors.ErrCodeInvalidSlot,
		},
		{
			name:     "time not quarter-aligned",
			mutate:   func(_ *types.CandidateRecord, q *ScheduleRequest) { q.Time = "10:20" },
			wantCode: errors.ErrCodeInvalidSlot,
		},
		{
			name:     "duration not in enum",
			mutate:   func(_ *types.CandidateRecord, q *ScheduleRequest) { q.DurationMinutes = 50 },
			wantCode: errors.ErrCodeInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := &stubScheduler{link: "https://meet.google.com/x"}
			mail := &stubMailer{ok: true}
			s := newService(cal, mail)

			rec := candidate()
			req := validRequest()
			req.SendInvitation = true
			tt.mutate(&rec, &req)

			_, err := s.Schedule(context.Background(), rec, req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			var appErr *errors.AppError
			if !stderrors.As(err, &appErr) || appErr.Code != tt.wantCode {
				t.Errorf("error = %v, want code %s", err, tt.wantCode)
			}

			// A rejected request must not have touched the calendar or mail.
			if cal.calls != 0 {
				t.Error("calendar must not be called on validation failure")
			}
			if mail.calls != 0 {
				t.Error("mail must not be sent on validation failure")
			}
		})
	}
}

func TestScheduleMailFailureIsNotAnError(t *testing.T) {
	mail := &stubMailer{ok: false}
	s := newService(&stubScheduler{link: "https://meet.google.com/x"}, mail)

	req := validRequest()
	req.SendInvitation = true
	result, err := s.Schedule(context.Background(), candidate(), req)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if result.InvitationSent {
		t.Error("failed delivery must be reported as false")
	}
	if !result.Plan.Confirmed() {
		t.Error("delivery failure must not unconfirm the plan")
	}
}

func TestAvailableSlots(t *testing.T) {
	s := newService(nil, nil)
	slots, err := s.AvailableSlots(context.Background(), "2026-09-14")
	if err != nil {
		t.Fatalf("AvailableSlots failed: %v", err)
	}
	if len(slots) != 44 {
		t.Errorf("expected fallback catalog of 44 slots, got %d", len(slots))
	}
}
