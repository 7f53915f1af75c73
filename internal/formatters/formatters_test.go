package formatters

import (
	"strings"
	"testing"

	"cvintake/internal/types"
)

func TestFormatCandidateRecord(t *testing.T) {
	record := types.CandidateRecord{
		Email:          "jean.dupont@example.com",
		Phone:          "+33612345678",
		ContractType:   types.ContractCDI,
		Duration:       "unspecified",
		SourceFileName: "cv.pdf",
	}

	registry := NewFormatterRegistry()

	text, err := registry.Format(record, "text")
	if err != nil {
		t.Fatalf("text format failed: %v", err)
	}
	if !strings.Contains(text, "jean.dupont@example.com") || !strings.Contains(text, "CDI") {
		t.Errorf("text output missing fields: %q", text)
	}

	csvOut, err := registry.Format(record, "csv")
	if err != nil {
		t.Fatalf("csv format failed: %v", err)
	}
	if !strings.Contains(csvOut, "Type de contrat") {
		t.Errorf("csv output missing header: %q", csvOut)
	}

	jsonOut, err := registry.Format(record, "json")
	if err != nil {
		t.Fatalf("json format failed: %v", err)
	}
	if !strings.Contains(jsonOut, `"contractType": "CDI"`) {
		t.Errorf("json output = %q", jsonOut)
	}
}

func TestFormatUnknownFormat(t *testing.T) {
	registry := NewFormatterRegistry()
	if _, err := registry.Format(types.CandidateRecord{}, "yaml"); err == nil {
		t.Error("expected an error for an unregistered format")
	}
}
