// Package compose renders the French candidate-facing messages: the
// application acknowledgement and the interview invitation.
package compose

import (
	"fmt"
	"time"

	"cvintake/internal/errors"
	"cvintake/internal/types"
)

// DefaultInterviewer is used when no interviewer name is provided.
const DefaultInterviewer = "Marie Dupont"

// contractPhrase renders the position wording; an unspecified contract
// falls back to the generic "un poste".
func contractPhrase(ct types.ContractType) string {
	if ct == types.ContractUnspecified || ct == "" {
		return "un poste"
	}
	return fmt.Sprintf("un poste en %s", ct)
}

// Acknowledgement builds the reception message sent after a résumé has
// been processed.
func Acknowledgement(ct types.ContractType) string {
	return fmt.Sprintf(`Bonjour,

Merci pour votre candidature. Nous avons bien reçu votre CV pour %s.

Nous reviendrons vers vous sous peu.

Cordialement,
L'équipe RH`, contractPhrase(ct))
}

// InterviewInvitation builds the interview invitation. The date must be
// in YYYY-MM-DD form and is rendered as DD/MM/YYYY; the interviewer
// name defaults to DefaultInterviewer when empty.
func InterviewInvitation(ct types.ContractType, date, timeOfDay, conferenceLink, interviewer string) (string, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", errors.NewValidationError(errors.ErrCodeInvalidDate,
			fmt.Sprintf("invalid interview date %q, expected YYYY-MM-DD", date), err)
	}
	if interviewer == "" {
		interviewer = DefaultInterviewer
	}

	return fmt.Sprintf(`Bonjour,

Merci pour votre candidature pour %s.

Nous avons le plaisir de vous convier à un entretien :
📅 Date : %s
🕐 Heure : %s
👤 Avec : %s

🔗 Lien Visio : %s

En cas d'impossibilité, merci de nous contacter au plus vite.

Cordialement,
L'équipe RH`, contractPhrase(ct), day.Format("02/01/2006"), timeOfDay, interviewer, conferenceLink), nil
}

// AcknowledgementSubject and InvitationSubject are the mail subjects
// that pair with the two message bodies.
const (
	AcknowledgementSubject = "Votre candidature a bien été reçue"
	InvitationSubject      = "Invitation à un entretien"
)
