package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"cvintake/internal/types"
)

func TestCandidateCSV(t *testing.T) {
	rec := types.CandidateRecord{
		Email:          "jean.dupont@example.com",
		Phone:          "+33612345678",
		ContractType:   types.ContractAlternance,
		Duration:       "12 mois",
		SourceFileName: "cv_jean.pdf",
	}

	data, err := CandidateCSV(rec)
	if err != nil {
		t.Fatalf("CandidateCSV failed: %v", err)
	}

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus one row, got %d rows", len(rows))
	}

	wantHeader := []string{"Email", "Téléphone", "Type de contrat", "Durée", "Fichier source"}
	for i, h := range wantHeader {
		if rows[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, rows[0][i], h)
		}
	}

	wantRow := []string{"jean.dupont@example.com", "+33612345678", "Alternance", "12 mois", "cv_jean.pdf"}
	for i, v := range wantRow {
		if rows[1][i] != v {
			t.Errorf("row[%d] = %q, want %q", i, rows[1][i], v)
		}
	}
}

func TestCandidateCSVQuotesCommas(t *testing.T) {
	rec := types.CandidateRecord{
		Email:          "a@example.com",
		SourceFileName: `cv "final", v2.pdf`,
	}

	data, err := CandidateCSV(rec)
	if err != nil {
		t.Fatalf("CandidateCSV failed: %v", err)
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if rows[1][4] != rec.SourceFileName {
		t.Errorf("source file round-trip = %q, want %q", rows[1][4], rec.SourceFileName)
	}
}

func TestInterviewCSV(t *testing.T) {
	rec := types.CandidateRecord{
		Email:          "marie@example.com",
		Phone:          "+33123456789",
		ContractType:   types.ContractStage,
		Duration:       "6 mois",
		SourceFileName: "cv_marie.docx",
	}
	plan := types.InterviewPlan{
		MeetingTitle:    "Entretien - Stage",
		Date:            "2026-09-14",
		Time:            "10:30",
		DurationMinutes: 45,
		InterviewType:   "Visio",
		InterviewerName: "Claire Martin",
		ConferenceLink:  "https://meet.google.com/abc-defg-hij",
	}

	data, err := InterviewCSV(rec, plan)
	if err != nil {
		t.Fatalf("InterviewCSV failed: %v", err)
	}
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus one row, got %d rows", len(rows))
	}

	line := strings.Join(rows[1], "|")
	for _, want := range []string{
		"marie@example.com", "2026-09-14", "10:30", "45 minutes",
		"Visio", "Claire Martin", "https://meet.google.com/abc-defg-hij", "cv_marie.docx",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("row missing %q: %s", want, line)
		}
	}
}
