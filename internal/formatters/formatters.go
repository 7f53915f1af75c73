package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"cvintake/internal/export"
	"cvintake/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "CandidateRecord", &CandidateTextFormatter{})
	registry.RegisterFormatter("csv", "CandidateRecord", &CandidateCSVFormatter{})
	registry.RegisterFormatter("text", "InterviewPlan", &InterviewTextFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.CandidateRecord:
		return "CandidateRecord"
	case types.InterviewPlan:
		return "InterviewPlan"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// CandidateTextFormatter handles text formatting for extracted candidate records
type CandidateTextFormatter struct{}

func (ctf *CandidateTextFormatter) Format(data any) (string, error) {
	record, ok := data.(types.CandidateRecord)
	if !ok {
		return "", fmt.Errorf("expected CandidateRecord, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== CANDIDATE RECORD ===\n\n")
	output.WriteString(fmt.Sprintf("Email:           %s\n", record.Email))
	output.WriteString(fmt.Sprintf("Téléphone:       %s\n", record.Phone))
	output.WriteString(fmt.Sprintf("Type de contrat: %s\n", record.ContractType))
	output.WriteString(fmt.Sprintf("Durée:           %s\n", record.Duration))
	output.WriteString(fmt.Sprintf("Fichier source:  %s\n", record.SourceFileName))

	return output.String(), nil
}

func (ctf *CandidateTextFormatter) SupportedType() string {
	return "CandidateRecord"
}

// CandidateCSVFormatter renders a candidate record as a two-line CSV document
type CandidateCSVFormatter struct{}

func (ccf *CandidateCSVFormatter) Format(data any) (string, error) {
	record, ok := data.(types.CandidateRecord)
	if !ok {
		return "", fmt.Errorf("expected CandidateRecord, got %T", data)
	}

	csvData, err := export.CandidateCSV(record)
	if err != nil {
		return "", err
	}
	return string(csvData), nil
}

func (ccf *CandidateCSVFormatter) SupportedType() string {
	return "CandidateRecord"
}

// InterviewTextFormatter handles text formatting for interview plans
type InterviewTextFormatter struct{}

func (itf *InterviewTextFormatter) Format(data any) (string, error) {
	plan, ok := data.(types.InterviewPlan)
	if !ok {
		return "", fmt.Errorf("expected InterviewPlan, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== INTERVIEW PLAN ===\n\n")
	output.WriteString(fmt.Sprintf("Titre:       %s\n", plan.MeetingTitle))
	output.WriteString(fmt.Sprintf("Date:        %s\n", plan.Date))
	output.WriteString(fmt.Sprintf("Heure:       %s\n", plan.Time))
	output.WriteString(fmt.Sprintf("Durée:       %d minutes\n", plan.DurationMinutes))
	output.WriteString(fmt.Sprintf("Type:        %s\n", plan.InterviewType))
	output.WriteString(fmt.Sprintf("Interviewer: %s\n", plan.InterviewerName))
	output.WriteString(fmt.Sprintf("Lien Visio:  %s\n", plan.ConferenceLink))

	return output.String(), nil
}

func (itf *InterviewTextFormatter) SupportedType() string {
	return "InterviewPlan"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
