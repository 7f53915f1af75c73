package types

import "time"

// ContractType is the detected contract category for a candidacy.
type ContractType string

const (
	ContractAlternance  ContractType = "Alternance"
	ContractStage       ContractType = "Stage"
	ContractCDI         ContractType = "CDI"
	ContractCDD         ContractType = "CDD"
	ContractFreelance   ContractType = "Freelance"
	ContractInterim     ContractType = "Intérim"
	ContractUnspecified ContractType = "unspecified"
)

// DurationUnspecified marks a résumé where no duration phrase was found.
const DurationUnspecified = "unspecified"

// ContractTypes lists the detectable contract types in detection-priority
// order. The order doubles as the tie-break when a résumé mentions several.
var ContractTypes = []ContractType{
	ContractAlternance,
	ContractStage,
	ContractCDI,
	ContractCDD,
	ContractFreelance,
	ContractInterim,
}

// CandidateRecord holds the fields extracted from one uploaded résumé.
// Every field stays editable by the operator until exported or discarded.
type CandidateRecord struct {
	Email          string       `json:"email"`
	Phone          string       `json:"phone"`
	ContractType   ContractType `json:"contractType"`
	Duration       string       `json:"duration"`
	SourceFileName string       `json:"sourceFileName"`
}

// InterviewPlan describes a scheduled interview. A plan is confirmed once
// ConferenceLink is non-empty; the link is either provider-issued or a
// locally generated placeholder.
type InterviewPlan struct {
	MeetingTitle    string `json:"meetingTitle"`
	Date            string `json:"date"` // YYYY-MM-DD, must be a weekday
	Time            string `json:"time"` // HH:MM quarter-hour slot
	DurationMinutes int    `json:"durationMinutes"`
	InterviewType   string `json:"interviewType"`
	InterviewerName string `json:"interviewerName"`
	ConferenceLink  string `json:"conferenceLink"`
}

// Confirmed reports whether the plan carries a conferencing link.
func (p InterviewPlan) Confirmed() bool {
	return p.ConferenceLink != ""
}

// InterviewDurations are the accepted interview lengths in minutes.
var InterviewDurations = []int{15, 30, 45, 60, 90}

// ValidInterviewDuration reports whether minutes is one of the accepted
// interview lengths.
func ValidInterviewDuration(minutes int) bool {
	for _, d := range InterviewDurations {
		if d == minutes {
			return true
		}
	}
	return false
}

// BusyInterval is an occupied time range on the interviewer's calendar.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
