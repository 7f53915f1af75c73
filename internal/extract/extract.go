// Package extract pulls candidate fields out of raw résumé text using
// deterministic pattern matching. Extraction never fails: a field that
// cannot be found comes back empty or as the unspecified sentinel.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"cvintake/internal/types"
)

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// French mobile and landline numbers, with optional separators between
// digit pairs. Ordered from strictest to loosest; first match wins.
var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:\+33|0)[1-9]\d{8}`),
	regexp.MustCompile(`(?:\+33|0)[1-9][\s.-]?(?:\d{2}[\s.-]?){4}`),
	regexp.MustCompile(`(?:\+33|0)[1-9][\s.-]?(?:\d{2}[\s.-]?){3}\d{2}`),
}

// Strips every separator the patterns admit, including the newline and
// tab forms of \s.
var phoneSeparators = regexp.MustCompile(`[\s.-]`)

// contract keyword tables, checked in types.ContractTypes order so the
// highest-priority contract wins when a résumé mentions several.
var contractKeywords = map[types.ContractType][]string{
	types.ContractAlternance: {"alternance", "apprentissage", "contrat d'apprentissage"},
	types.ContractStage:      {"stage", "internship", "stagiare"},
	types.ContractCDI:        {"cdi", "contrat à durée indéterminée", "permanent"},
	types.ContractCDD:        {"cdd", "contrat à durée déterminée", "temporaire", "mission"},
	types.ContractFreelance:  {"freelance", "freelancer", "indépendant", "consultant"},
	types.ContractInterim:    {"intérim", "interim", "temporaire"},
}

// Duration phrases in priority order. The unit comes back exactly as
// written in the text.
var durationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s*(mois|month)`),
	regexp.MustCompile(`(\d+)\s*(semaines?|weeks?)`),
	regexp.MustCompile(`(\d+)\s*(jours?|days?)`),
	regexp.MustCompile(`(\d+)\s*(ans?|years?)`),
}

// Email returns the first e-mail address found in text, or "".
func Email(text string) string {
	return emailPattern.FindString(text)
}

// Phone returns the first French phone number found in text, normalized
// to international form: separators stripped and a leading 0 rewritten
// as +33. Returns "" when no number matches.
func Phone(text string) string {
	for _, re := range phonePatterns {
		match := re.FindString(text)
		if match == "" {
			continue
		}
		number := phoneSeparators.ReplaceAllString(match, "")
		if strings.HasPrefix(number, "0") {
			number = "+33" + number[1:]
		}
		return number
	}
	return ""
}

// ContractType detects the sought contract type from keyword mentions.
// Matching is case-insensitive; when several types appear, the first in
// the fixed priority order wins. Returns the unspecified sentinel when
// nothing matches.
func ContractType(text string) types.ContractType {
	lower := strings.ToLower(text)
	for _, ct := range types.ContractTypes {
		for _, kw := range contractKeywords[ct] {
			if strings.Contains(lower, kw) {
				return ct
			}
		}
	}
	return types.ContractUnspecified
}

// Duration finds the first duration phrase (months, weeks, days or
// years) and returns it as "<number> <unit>", with the unit word kept
// as it appeared, e.g. "6 mois" or "2 weeks". Returns the unspecified
// sentinel when no duration is mentioned.
func Duration(text string) string {
	lower := strings.ToLower(text)
	for _, re := range durationPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			return fmt.Sprintf("%s %s", m[1], m[2])
		}
	}
	return types.DurationUnspecified
}

// Candidate runs all extractors over text and assembles a record.
func Candidate(text, sourceFileName string) types.CandidateRecord {
	return types.CandidateRecord{
		Email:          Email(text),
		Phone:          Phone(text),
		ContractType:   ContractType(text),
		Duration:       Duration(text),
		SourceFileName: sourceFileName,
	}
}
