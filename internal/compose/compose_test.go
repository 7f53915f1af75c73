package compose

import (
	"strings"
	"testing"

	"cvintake/internal/types"
)

func TestAcknowledgement(t *testing.T) {
	tests := []struct {
		name         string
		contractType types.ContractType
		wantPhrase   string
	}{
		{
			name:         "known contract type",
			contractType: types.ContractAlternance,
			wantPhrase:   "un poste en Alternance",
		},
		{
			name:         "unspecified falls back to generic wording",
			contractType: types.ContractUnspecified,
			wantPhrase:   "un poste.",
		},
		{
			name:         "empty behaves like unspecified",
			contractType: "",
			wantPhrase:   "un poste.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Acknowledgement(tt.contractType)
			if !strings.HasPrefix(got, "Bonjour,") {
				t.Errorf("message should open with greeting, got %q", got)
			}
			if !strings.Contains(got, tt.wantPhrase) {
				t.Errorf("message missing %q:\n%s", tt.wantPhrase, got)
			}
			if !strings.HasSuffix(got, "Cordialement,\nL'équipe RH") {
				t.Errorf("message should close with signature, got %q", got)
			}
			if !strings.Contains(got, "Nous reviendrons vers vous sous peu.") {
				t.Errorf("message missing follow-up line:\n%s", got)
			}
		})
	}
}

func TestInterviewInvitation(t *testing.T) {
	got, err := InterviewInvitation(types.ContractStage, "2026-09-14", "10:30",
		"https://meet.google.com/abc-defg-hij", "Claire Martin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"un poste en Stage",
		"📅 Date : 14/09/2026",
		"🕐 Heure : 10:30",
		"👤 Avec : Claire Martin",
		"🔗 Lien Visio : https://meet.google.com/abc-defg-hij",
		"En cas d'impossibilité",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("invitation missing %q:\n%s", want, got)
		}
	}
}

func TestInterviewInvitationDefaultInterviewer(t *testing.T) {
	got, err := InterviewInvitation(types.ContractCDI, "2026-09-14", "09:00",
		"https://meet.google.com/abc", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "👤 Avec : "+DefaultInterviewer) {
		t.Errorf("expected default interviewer %q:\n%s", DefaultInterviewer, got)
	}
}

func TestInterviewInvitationInvalidDate(t *testing.T) {
	tests := []struct {
		name string
		date string
	}{
		{name: "wrong layout", date: "14/09/2026"},
		{name: "empty", date: ""},
		{name: "garbage", date: "demain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := InterviewInvitation(types.ContractCDI, tt.date, "09:00", "link", ""); err == nil {
				t.Errorf("expected error for date %q", tt.date)
			}
		})
	}
}
