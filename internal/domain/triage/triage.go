package triage

import "strings"

// Urgency classifies how quickly a patient needs care.
type Urgency string

const (
	UrgencyCritical Urgency = "Critical"
	UrgencyModerate Urgency = "Moderate"
	UrgencyStable   Urgency = "Stable"
)

// IsValid returns true if the urgency is recognized.
func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyCritical, UrgencyModerate, UrgencyStable:
		return true
	}
	return false
}

// Assessment is the outcome of a triage evaluation.
type Assessment struct {
	Condition string  `json:"condition"`
	Urgency   Urgency `json:"urgency"`
}

var criticalKeywords = []string{
	"unconscious", "not breathing", "cardiac arrest", "heart attack", "choking",
	"drowning", "severe bleeding", "gunshot", "stab", "unresponsive", "no pulse",
	"anaphylaxis", "seizure", "convulsion", "stroke", "paralysis", "collapse",
	"electrocution", "hanging", "suffocation", "coma", "brain", "head injury",
	"skull fracture", "internal bleeding", "chest pain", "cardiac", "hemorrhage",
	"overdose", "poisoning", "suicide", "burn severe", "third degree", "amputation",
}

var moderateKeywords = []string{
	"fracture", "broken bone", "dislocation", "deep cut", "laceration",
	"breathing difficulty", "asthma attack", "allergic reaction", "high fever",
	"vomiting blood", "severe pain", "abdominal pain", "pregnancy complication",
	"miscarriage", "premature labor", "contraction", "fall", "accident",
	"burn", "second degree", "blood", "bleeding", "wound", "trauma",
	"dizzy", "fainting", "dehydration severe", "diabetic emergency", "insulin",
}

var stableKeywords = []string{
	"mild pain", "headache", "nausea", "vomiting", "diarrhea", "fever",
	"sprain", "bruise", "minor cut", "rash", "swelling", "sore throat",
	"cough", "cold", "flu", "infection", "itch", "insect bite",
}

// Analyze classifies a free-text complaint into an urgency level. The
// condition text is passed through unchanged. Unrecognized complaints
// default to Moderate, erring on the side of caution.
func Analyze(text string) Assessment {
	lower := strings.ToLower(text)

	if containsAny(lower, criticalKeywords) {
		return Assessment{Condition: text, Urgency: UrgencyCritical}
	}
	if containsAny(lower, moderateKeywords) {
		return Assessment{Condition: text, Urgency: UrgencyModerate}
	}
	if containsAny(lower, stableKeywords) {
		return Assessment{Condition: text, Urgency: UrgencyStable}
	}
	return Assessment{Condition: text, Urgency: UrgencyModerate}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// SymptomAnswers holds the yes/no answers of the guided symptom check.
type SymptomAnswers struct {
	Conscious  bool `json:"conscious"`
	Breathing  bool `json:"breathing"`
	ChestPain  bool `json:"chest_pain"`
	Bleeding   bool `json:"bleeding"`
	Fever      bool `json:"fever"`
	SeverePain bool `json:"severe_pain"`
}

// Assess maps questionnaire answers to a condition and urgency. Chest pain,
// unconsciousness or absent breathing are Critical; bleeding or severe pain
// are Moderate; anything else is Stable.
func (a SymptomAnswers) Assess() Assessment {
	critical := !a.Conscious || !a.Breathing || a.ChestPain
	moderate := a.Bleeding || a.SeverePain

	condition := "General Emergency"
	switch {
	case a.ChestPain:
		condition = "Suspected Cardiac Event"
	case !a.Conscious:
		condition = "Unconsciousness - Critical"
	case !a.Breathing:
		condition = "Respiratory Emergency"
	case a.Bleeding:
		condition = "Trauma / Bleeding"
	case a.SeverePain && a.Fever:
		condition = "Acute Infection / Pain"
	}

	urgency := UrgencyStable
	if critical {
		urgency = UrgencyCritical
	} else if moderate {
		urgency = UrgencyModerate
	}

	return Assessment{Condition: condition, Urgency: urgency}
}
