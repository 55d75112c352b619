// Package traditional flags interactions between declared traditional
// remedies (TCM, Ayurveda, Malay traditional medicine) and prescribed
// medications.
package traditional

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kampungcare/medsched/internal/cultural/profile"
)

// SafetyLevel grades the combined traditional/prescription regimen.
type SafetyLevel string

const (
	SafetySafe    SafetyLevel = "safe"
	SafetyCaution SafetyLevel = "caution"
	SafetyUnsafe  SafetyLevel = "unsafe"
	// SafetyUnknown means the assessment could not complete, for example
	// when no remedies were declared. Never an error.
	SafetyUnknown SafetyLevel = "unknown"
)

// Practitioner identifies a practitioner type to consult.
type Practitioner string

const (
	PractitionerTCM          Practitioner = "tcm_practitioner"
	PractitionerAyurvedic    Practitioner = "ayurvedic_practitioner"
	PractitionerMalayHealer  Practitioner = "malay_traditional_healer"
	PractitionerModernDoctor Practitioner = "modern_doctor"
	PractitionerPharmacist   Practitioner = "pharmacist"
)

// TimeAdjustment asks for a minimum separation between a remedy and a dose.
type TimeAdjustment struct {
	Remedy            string `json:"remedy"`
	MedicationID      string `json:"medication_id"`
	MedicationName    string `json:"medication_name"`
	SeparationMinutes int    `json:"separation_minutes"`
	Reason            string `json:"reason"`
}

// Result is the integration safety assessment.
type Result struct {
	SafetyLevel        SafetyLevel      `json:"safety_level"`
	Recommendations    []string         `json:"recommendations"`
	ConsultationNeeded []Practitioner   `json:"consultation_needed"`
	TimeAdjustments    []TimeAdjustment `json:"time_adjustments"`
}

// Assessor cross-references declared remedies against medications.
type Assessor struct {
	logger *zap.Logger
}

// NewAssessor creates an assessor over the built-in interaction tables.
func NewAssessor(logger *zap.Logger) *Assessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assessor{logger: logger}
}

// AssessIntegrationSafety evaluates the declared remedies against the
// medication list. When no remedies are declared the level is unknown and
// the consultation set defaults conservatively to modern doctor plus
// pharmacist.
func (a *Assessor) AssessIntegrationSafety(meds []profile.Medication, remedies []string, p profile.CulturalProfile) Result {
	if len(remedies) == 0 {
		return Result{
			SafetyLevel: SafetyUnknown,
			Recommendations: []string{
				"no traditional remedies declared; confirm with the patient before combining therapies",
			},
			ConsultationNeeded: []Practitioner{PractitionerModernDoctor, PractitionerPharmacist},
		}
	}

	out := Result{SafetyLevel: SafetySafe}
	consult := map[Practitioner]bool{}

	for _, remedy := range remedies {
		rule, ok := matchRemedy(remedy)
		if !ok {
			out.Recommendations = append(out.Recommendations,
				fmt.Sprintf("%s is not in the known interaction table; mention it at the next pharmacy visit", remedy))
			if lower(SafetyUnknown, out.SafetyLevel) {
				out.SafetyLevel = SafetyUnknown
			}
			continue
		}

		consult[rule.practitioner] = true
		matchedAny := false
		for _, med := range meds {
			for _, inter := range rule.interactions {
				if !medNameMatches(med, inter.medications) {
					continue
				}
				matchedAny = true
				if lower(out.SafetyLevel, inter.level) {
					out.SafetyLevel = inter.level
				}
				out.Recommendations = append(out.Recommendations,
					fmt.Sprintf("%s with %s: %s", rule.display, med.Name, inter.advice))
				if inter.separationMinutes > 0 {
					out.TimeAdjustments = append(out.TimeAdjustments, TimeAdjustment{
						Remedy:            rule.display,
						MedicationID:      med.ID,
						MedicationName:    med.Name,
						SeparationMinutes: inter.separationMinutes,
						Reason:            inter.advice,
					})
				}
			}
		}
		if !matchedAny {
			out.Recommendations = append(out.Recommendations,
				fmt.Sprintf("%s has no known interaction with the current medications", rule.display))
		}
	}

	// Any non-safe outcome pulls in the modern practitioners.
	if out.SafetyLevel != SafetySafe {
		consult[PractitionerModernDoctor] = true
		consult[PractitionerPharmacist] = true
	}
	for pr := range consult {
		out.ConsultationNeeded = append(out.ConsultationNeeded, pr)
	}
	sort.Slice(out.ConsultationNeeded, func(i, j int) bool {
		return out.ConsultationNeeded[i] < out.ConsultationNeeded[j]
	})

	return out
}

// lower reports whether candidate is a more severe level than current.
// Severity order: safe < unknown < caution < unsafe.
func lower(current, candidate SafetyLevel) bool {
	rank := func(l SafetyLevel) int {
		switch l {
		case SafetyUnsafe:
			return 3
		case SafetyCaution:
			return 2
		case SafetyUnknown:
			return 1
		default:
			return 0
		}
	}
	return rank(candidate) > rank(current)
}

func medNameMatches(med profile.Medication, keywords []string) bool {
	name := strings.ToLower(med.Name)
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return true
		}
		for _, ing := range med.Ingredients {
			if strings.Contains(strings.ToLower(ing), kw) {
				return true
			}
		}
	}
	return false
}

func matchRemedy(declared string) (remedyRule, bool) {
	d := strings.ToLower(declared)
	for _, rule := range remedyRules {
		for _, alias := range rule.aliases {
			if strings.Contains(d, alias) {
				return rule, true
			}
		}
	}
	return remedyRule{}, false
}
