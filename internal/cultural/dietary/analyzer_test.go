package dietary

import (
	"strings"
	"testing"

	"github.com/kampungcare/medsched/internal/cultural/mealpattern"
	"github.com/kampungcare/medsched/internal/cultural/profile"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(mealpattern.NewCatalog(), nil)
}

func halalProfile() profile.CulturalProfile {
	return profile.CulturalProfile{
		PrimaryCulture: profile.CultureMalay,
		Religion:       profile.ReligionIslam,
		Preferences: profile.Preferences{
			Dietary: profile.DietaryPreferences{Halal: true},
		},
	}
}

func TestHalalGelatinFlagged(t *testing.T) {
	a := newTestAnalyzer()
	meds := []profile.Medication{
		{ID: "m1", Name: "Fish Oil Capsules", Ingredients: []string{"omega-3", "gelatin shell"}},
	}

	got := a.Assess(meds, halalProfile(), nil)
	if len(got.Medications) != 1 {
		t.Fatalf("expected 1 assessment, got %d", len(got.Medications))
	}
	ma := got.Medications[0]
	if len(ma.Issues) == 0 {
		t.Fatal("expected a gelatin issue")
	}
	if len(ma.Solutions) != len(ma.Issues) {
		t.Error("every issue should carry a solution")
	}
	if ma.Urgency != profile.UrgencyMedium {
		t.Errorf("gelatin urgency = %s, want medium", ma.Urgency)
	}
	// Medium urgency does not break overall compliance.
	if got.OverallCompliance != Compliant {
		t.Errorf("overall = %s, want compliant", got.OverallCompliance)
	}
}

func TestPorcineIngredientBreaksCompliance(t *testing.T) {
	a := newTestAnalyzer()
	meds := []profile.Medication{
		{ID: "m1", Name: "Heparin Injection"},
	}

	got := a.Assess(meds, halalProfile(), nil)
	if got.OverallCompliance != NeedsReview {
		t.Errorf("high-urgency issue should force needs_review, got %s", got.OverallCompliance)
	}
	if got.Medications[0].Urgency != profile.UrgencyHigh {
		t.Errorf("porcine urgency = %s, want high", got.Medications[0].Urgency)
	}
}

func TestFastingConflictForWithFoodMedication(t *testing.T) {
	a := newTestAnalyzer()
	catalog := mealpattern.NewCatalog()
	occ := catalog.SpecialOccasionPattern(mealpattern.OccasionRamadan, catalog.Pattern(profile.CultureMalay))

	meds := []profile.Medication{
		{ID: "m1", Name: "Metformin", Frequency: profile.FrequencyThreeTimesDaily, Instructions: "Take with meals"},
	}
	got := a.Assess(meds, halalProfile(), occ)

	ma := got.Medications[0]
	if ma.Urgency != profile.UrgencyHigh {
		t.Errorf("three daily with-food doses in two eating windows should be high, got %s", ma.Urgency)
	}
	if got.OverallCompliance != NeedsReview {
		t.Errorf("overall = %s, want needs_review", got.OverallCompliance)
	}
}

func TestFastingTwiceDailyWithFoodIsMedium(t *testing.T) {
	a := newTestAnalyzer()
	catalog := mealpattern.NewCatalog()
	occ := catalog.SpecialOccasionPattern(mealpattern.OccasionRamadan, catalog.Pattern(profile.CultureMalay))

	meds := []profile.Medication{
		{ID: "m1", Name: "Metformin", Frequency: profile.FrequencyTwiceDaily, Instructions: "Take with meals"},
	}
	got := a.Assess(meds, halalProfile(), occ)
	if got.Medications[0].Urgency != profile.UrgencyMedium {
		t.Errorf("two with-food doses fit sahur and iftar; urgency = %s, want medium",
			got.Medications[0].Urgency)
	}
}

func TestFastingDaytimeSlotForIndependentMedication(t *testing.T) {
	a := newTestAnalyzer()
	catalog := mealpattern.NewCatalog()
	occ := catalog.SpecialOccasionPattern(mealpattern.OccasionRamadan, catalog.Pattern(profile.CultureMalay))

	// No meal cue: the gap midpoint between sahur and iftar lands mid-fast.
	meds := []profile.Medication{
		{ID: "m1", Name: "Amlodipine", Frequency: profile.FrequencyOnceDaily},
	}
	got := a.Assess(meds, halalProfile(), occ)

	ma := got.Medications[0]
	if ma.Urgency != profile.UrgencyHigh {
		t.Errorf("a dose slot inside the fasting window should be high, got %s", ma.Urgency)
	}
	found := false
	for _, issue := range ma.Issues {
		if strings.Contains(issue, "fasting window") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a fasting-window placement issue, got %v", ma.Issues)
	}
	if got.OverallCompliance != NeedsReview {
		t.Errorf("overall = %s, want needs_review", got.OverallCompliance)
	}
}

func TestFoodInteractionsWarfarin(t *testing.T) {
	a := newTestAnalyzer()
	meds := []profile.Medication{
		{ID: "m1", Name: "Warfarin 3mg"},
	}

	hits := a.FoodInteractions(meds)
	if len(hits) != 1 {
		t.Fatalf("expected 1 interaction, got %d", len(hits))
	}
	if !strings.Contains(hits[0].CulturalRelevance, "Malaysian") {
		t.Errorf("cultural relevance must name the regional context, got %q", hits[0].CulturalRelevance)
	}
	if hits[0].Food == "" || hits[0].Advice == "" {
		t.Error("interaction must carry food and advice")
	}
}

func TestFoodInteractionsNoMatch(t *testing.T) {
	a := newTestAnalyzer()
	hits := a.FoodInteractions([]profile.Medication{{ID: "m1", Name: "Paracetamol"}})
	if len(hits) != 0 {
		t.Errorf("expected no interactions, got %d", len(hits))
	}
}

func TestNoDietaryFlagsNoIssues(t *testing.T) {
	a := newTestAnalyzer()
	meds := []profile.Medication{
		{ID: "m1", Name: "Fish Oil Capsules", Ingredients: []string{"gelatin"}},
	}
	got := a.Assess(meds, profile.CulturalProfile{PrimaryCulture: profile.CultureMixed}, nil)
	if len(got.Medications[0].Issues) != 0 {
		t.Errorf("no dietary flags set; expected no issues, got %v", got.Medications[0].Issues)
	}
	if got.OverallCompliance != Compliant {
		t.Errorf("overall = %s, want compliant", got.OverallCompliance)
	}
}
