package extract

import (
	"testing"

	"cvintake/internal/types"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "plain address",
			text: "Contact: jean.dupont@example.com",
			want: "jean.dupont@example.com",
		},
		{
			name: "address with plus tag",
			text: "mail me at marie+jobs@mail.example.fr please",
			want: "marie+jobs@mail.example.fr",
		},
		{
			name: "first of several",
			text: "a@example.com puis b@example.org",
			want: "a@example.com",
		},
		{
			name: "no address",
			text: "aucune adresse ici",
			want: "",
		},
		{
			name: "empty text",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Email(tt.text); got != tt.want {
				t.Errorf("Email() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPhone(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "compact national",
			text: "Tel: 0612345678",
			want: "+33612345678",
		},
		{
			name: "compact international",
			text: "joignable au +33612345678",
			want: "+33612345678",
		},
		{
			name: "spaced pairs",
			text: "06 12 34 56 78",
			want: "+33612345678",
		},
		{
			name: "dotted pairs",
			text: "01.23.45.67.89",
			want: "+33123456789",
		},
		{
			name: "dashed pairs",
			text: "appelez le 07-98-76-54-32",
			want: "+33798765432",
		},
		{
			name: "international with spaces",
			text: "+336 12 34 56 78",
			want: "+33612345678",
		},
		{
			name: "spaced pairs followed by newline",
			text: "06 12 34 56 78\nDisponible immédiatement",
			want: "+33612345678",
		},
		{
			name: "tab separated pairs",
			text: "06 12\t34 56 78",
			want: "+33612345678",
		},
		{
			name: "no number",
			text: "pas de téléphone",
			want: "",
		},
		{
			name: "leading zero then digit zero rejected",
			text: "0012345678",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Phone(tt.text); got != tt.want {
				t.Errorf("Phone() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContractType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want types.ContractType
	}{
		{
			name: "alternance keyword",
			text: "Recherche une alternance en informatique",
			want: types.ContractAlternance,
		},
		{
			name: "apprenticeship keyword maps to alternance",
			text: "Contrat d'apprentissage souhaité",
			want: types.ContractAlternance,
		},
		{
			name: "stage case-insensitive",
			text: "STAGE de fin d'études",
			want: types.ContractStage,
		},
		{
			name: "english internship",
			text: "Looking for an internship",
			want: types.ContractStage,
		},
		{
			name: "cdi long form",
			text: "poste en contrat à durée indéterminée",
			want: types.ContractCDI,
		},
		{
			name: "cdd",
			text: "disponible pour un CDD de 6 mois",
			want: types.ContractCDD,
		},
		{
			name: "temporaire resolves to cdd not interim",
			text: "cherche un emploi temporaire",
			want: types.ContractCDD,
		},
		{
			name: "freelance",
			text: "consultant indépendant",
			want: types.ContractFreelance,
		},
		{
			name: "mission keyword resolves to cdd",
			text: "missions en intérim",
			want: types.ContractCDD,
		},
		{
			name: "priority order alternance over cdi",
			text: "alternance puis CDI",
			want: types.ContractAlternance,
		},
		{
			name: "no keyword",
			text: "développeur web",
			want: types.ContractUnspecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContractType(tt.text); got != tt.want {
				t.Errorf("ContractType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContractTypeInterim(t *testing.T) {
	// Without CDD keywords in the text, the interim table must still hit.
	if got := ContractType("travail en intérim uniquement"); got != types.ContractInterim {
		t.Errorf("ContractType() = %q, want %q", got, types.ContractInterim)
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "months french",
			text: "stage de 6 mois",
			want: "6 mois",
		},
		{
			name: "months english keeps matched unit",
			text: "6 month internship",
			want: "6 month",
		},
		{
			name: "weeks plural",
			text: "disponible 8 semaines",
			want: "8 semaines",
		},
		{
			name: "weeks english keeps matched unit",
			text: "available for 2 weeks",
			want: "2 weeks",
		},
		{
			name: "week singular english",
			text: "1 week mission",
			want: "1 week",
		},
		{
			name: "days",
			text: "mission de 10 jours",
			want: "10 jours",
		},
		{
			name: "years",
			text: "alternance de 2 ans",
			want: "2 ans",
		},
		{
			name: "months beat years",
			text: "3 mois renouvelable sur 2 ans",
			want: "3 mois",
		},
		{
			name: "uppercase input",
			text: "STAGE DE 4 MOIS",
			want: "4 mois",
		},
		{
			name: "no duration",
			text: "dès que possible",
			want: types.DurationUnspecified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Duration(tt.text); got != tt.want {
				t.Errorf("Duration() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCandidate(t *testing.T) {
	text := "Jean Dupont\njean.dupont@example.com\n06 12 34 56 78\nRecherche alternance de 12 mois"
	got := Candidate(text, "cv_jean.pdf")

	want := types.CandidateRecord{
		Email:          "jean.dupont@example.com",
		Phone:          "+33612345678",
		ContractType:   types.ContractAlternance,
		Duration:       "12 mois",
		SourceFileName: "cv_jean.pdf",
	}
	if got != want {
		t.Errorf("Candidate() = %+v, want %+v", got, want)
	}
}

func TestCandidateEmptyText(t *testing.T) {
	got := Candidate("", "blank.pdf")
	if got.Email != "" || got.Phone != "" {
		t.Errorf("expected empty email and phone, got %+v", got)
	}
	if got.ContractType != types.ContractUnspecified {
		t.Errorf("ContractType = %q, want %q", got.ContractType, types.ContractUnspecified)
	}
	if got.Duration != types.DurationUnspecified {
		t.Errorf("Duration = %q, want %q", got.Duration, types.DurationUnspecified)
	}
}
