// Package dietary evaluates medication lists against cultural and religious
// dietary profiles and regional food-drug interaction facts.
package dietary

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kampungcare/medsched/internal/cultural/mealpattern"
	"github.com/kampungcare/medsched/internal/cultural/profile"
)

// Compliance is the overall dietary compliance verdict.
type Compliance string

const (
	Compliant   Compliance = "compliant"
	NeedsReview Compliance = "needs_review"
)

// MedicationAssessment is the per-medication dietary result.
type MedicationAssessment struct {
	MedicationID   string          `json:"medication_id"`
	MedicationName string          `json:"medication_name"`
	Issues         []string        `json:"issues"`
	Solutions      []string        `json:"solutions"`
	Urgency        profile.Urgency `json:"urgency"`
}

// Assessment is the full dietary compliance result.
type Assessment struct {
	OverallCompliance Compliance             `json:"overall_compliance"`
	Medications       []MedicationAssessment `json:"medications"`
}

// Interaction is one food-drug interaction hit.
type Interaction struct {
	MedicationID   string `json:"medication_id"`
	MedicationName string `json:"medication_name"`
	Food           string `json:"food"`
	Advice         string `json:"advice"`
	// CulturalRelevance names the regional dietary context of the risk.
	CulturalRelevance string `json:"cultural_relevance"`
}

// Analyzer checks dietary compliance. Construct with NewAnalyzer.
type Analyzer struct {
	catalog *mealpattern.Catalog
	logger  *zap.Logger
}

// NewAnalyzer creates an analyzer over the given meal pattern catalog.
func NewAnalyzer(catalog *mealpattern.Catalog, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{catalog: catalog, logger: logger}
}

// Assess evaluates every medication against the profile's dietary flags and
// the active occasion's fasting window (occasion may be nil). The overall
// verdict is compliant only when no medication carries a high-urgency issue.
func (a *Analyzer) Assess(meds []profile.Medication, p profile.CulturalProfile, occasion *mealpattern.SpecialOccasion) Assessment {
	norm := profile.Normalize(&p)

	out := Assessment{OverallCompliance: Compliant}
	for _, med := range meds {
		ma := a.assessMedication(med, norm, occasion)
		if ma.Urgency == profile.UrgencyHigh {
			out.OverallCompliance = NeedsReview
		}
		out.Medications = append(out.Medications, ma)
	}
	return out
}

func (a *Analyzer) assessMedication(med profile.Medication, p profile.CulturalProfile, occasion *mealpattern.SpecialOccasion) MedicationAssessment {
	ma := MedicationAssessment{
		MedicationID:   med.ID,
		MedicationName: med.Name,
		Urgency:        profile.UrgencyLow,
	}

	if p.Preferences.Dietary.Halal {
		for _, rule := range halalRules {
			if medMatches(med, rule.match) {
				ma.addIssue(rule.issue, rule.solution, rule.urgency)
			}
		}
	}

	if p.Preferences.Dietary.Vegetarian {
		for _, rule := range vegetarianRules {
			if medMatches(med, rule.match) {
				ma.addIssue(rule.issue, rule.solution, rule.urgency)
			}
		}
	}

	if occasion != nil && occasion.Fasting() {
		a.assessFasting(med, occasion, &ma)
	}

	return ma
}

// assessFasting flags medications that cannot fit the occasion's fasting
// window: food-dependent doses during daylight, frequencies with more doses
// than remaining eating windows, and any dose slot the modified pattern
// would place inside the fast itself.
func (a *Analyzer) assessFasting(med profile.Medication, occasion *mealpattern.SpecialOccasion, ma *MedicationAssessment) {
	relation := profile.InferMealRelation(med.Instructions)
	doses := med.Frequency.DosesPerDay()
	eatingWindows := len(occasion.ModifiedPattern.MainMeals())

	if relation == profile.RelationWith || relation == profile.RelationAfter {
		urgency := profile.UrgencyMedium
		if doses > eatingWindows {
			urgency = profile.UrgencyHigh
		}
		ma.addIssue(
			fmt.Sprintf("%s must be taken with food, which is unavailable during the daytime fast", med.Name),
			"move doses to the pre-dawn and fast-breaking meals; ask a pharmacist about once-daily alternatives",
			urgency,
		)
	} else if doses > eatingWindows {
		ma.addIssue(
			fmt.Sprintf("%s is dosed %d times daily but only %d eating windows remain during the fast", med.Name, doses, eatingWindows),
			"discuss a reduced-frequency or extended-release formulation with the prescriber",
			profile.UrgencyHigh,
		)
	}

	// Independent doses gravitate to between-meal gaps, which during a fast
	// is exactly the window where no oral medication is taken.
	inFast := 0
	for _, slot := range a.catalog.OptimalMedicationTiming(relation, occasion.ModifiedPattern, doses) {
		if slot.Time.Between(occasion.FastingStart, occasion.FastingEnd) {
			inFast++
		}
	}
	if inFast > 0 {
		ma.addIssue(
			fmt.Sprintf("%d of %s's dose slots fall inside the fasting window, when no oral medication is taken", inFast, med.Name),
			"shift these doses to just before the pre-dawn meal or just after the fast-breaking meal",
			profile.UrgencyHigh,
		)
	}
}

func (ma *MedicationAssessment) addIssue(issue, solution string, urgency profile.Urgency) {
	ma.Issues = append(ma.Issues, issue)
	ma.Solutions = append(ma.Solutions, solution)
	if urgencyRank(urgency) > urgencyRank(ma.Urgency) {
		ma.Urgency = urgency
	}
}

func urgencyRank(u profile.Urgency) int {
	switch u {
	case profile.UrgencyHigh:
		return 2
	case profile.UrgencyMedium:
		return 1
	default:
		return 0
	}
}

// FoodInteractions matches medications against the regional food interaction
// table. Medications with no match contribute nothing; the result is never
// an error.
func (a *Analyzer) FoodInteractions(meds []profile.Medication) []Interaction {
	var hits []Interaction
	for _, med := range meds {
		for _, rule := range foodInteractionRules {
			if medMatches(med, rule.match) {
				hits = append(hits, Interaction{
					MedicationID:      med.ID,
					MedicationName:    med.Name,
					Food:              rule.food,
					Advice:            rule.advice,
					CulturalRelevance: rule.culturalRelevance,
				})
			}
		}
	}
	return hits
}

// medMatches reports whether any match keyword appears in the medication
// name or declared ingredients.
func medMatches(med profile.Medication, keywords []string) bool {
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
