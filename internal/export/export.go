// Package export serializes candidate records and interview plans to
// downloadable one-row CSV documents.
package export

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"cvintake/internal/errors"
	"cvintake/internal/types"
)

var candidateHeader = []string{
	"Email", "Téléphone", "Type de contrat", "Durée", "Fichier source",
}

var interviewHeader = []string{
	"Email", "Téléphone", "Type de contrat",
	"Date entretien", "Heure entretien", "Durée", "Type entretien",
	"Interviewer", "Lien Visio", "Fichier source",
}

// CandidateCSV renders a record as a header line plus one data row.
func CandidateCSV(rec types.CandidateRecord) ([]byte, error) {
	return write(candidateHeader, []string{
		rec.Email,
		rec.Phone,
		string(rec.ContractType),
		rec.Duration,
		rec.SourceFileName,
	})
}

// InterviewCSV renders a scheduled interview with its candidate as a
// header line plus one data row.
func InterviewCSV(rec types.CandidateRecord, plan types.InterviewPlan) ([]byte, error) {
	return write(interviewHeader, []string{
		rec.Email,
		rec.Phone,
		string(rec.ContractType),
		plan.Date,
		plan.Time,
		strconv.Itoa(plan.DurationMinutes) + " minutes",
		plan.InterviewType,
		plan.InterviewerName,
		plan.ConferenceLink,
		rec.SourceFileName,
	})
}

func write(header, row []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeEncodingFailed, "failed to write CSV header", err)
	}
	if err := w.Write(row); err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeEncodingFailed, "failed to write CSV row", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.NewInternalError(errors.ErrCodeEncodingFailed, "failed to flush CSV", err)
	}
	return buf.Bytes(), nil
}
