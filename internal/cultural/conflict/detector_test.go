package conflict

import (
	"testing"

	"github.com/kampungcare/medsched/internal/cultural/family"
	"github.com/kampungcare/medsched/internal/cultural/profile"
)

var tod = profile.MustTimeOfDay

func doseAt(medID, name string, t profile.TimeOfDay) profile.ScheduledDose {
	return profile.ScheduledDose{MedicationID: medID, MedicationName: name, Time: t}
}

func TestTimingConflictWithinThreshold(t *testing.T) {
	d := NewDetector(DefaultConfig(), nil)
	doses := []profile.ScheduledDose{
		doseAt("m1", "Metformin", tod("08:00")),
		doseAt("m2", "Amlodipine", tod("08:08")),
	}

	got := d.Detect(doses, nil)
	if len(got) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(got))
	}
	c := got[0]
	if c.Type != TypeTiming {
		t.Errorf("type = %s, want timing", c.Type)
	}
	if c.Severity != profile.SeverityMedium {
		t.Errorf("severity = %s, want medium", c.Severity)
	}
	if len(c.MedicationIDs) != 2 {
		t.Errorf("expected both medication IDs, got %v", c.MedicationIDs)
	}
}

func TestNoConflictBeyondThreshold(t *testing.T) {
	d := NewDetector(DefaultConfig(), nil)
	doses := []profile.ScheduledDose{
		doseAt("m1", "Metformin", tod("08:00")),
		doseAt("m2", "Amlodipine", tod("08:30")),
	}
	if got := d.Detect(doses, nil); len(got) != 0 {
		t.Errorf("expected no conflicts, got %d", len(got))
	}
}

func TestConfigurableThreshold(t *testing.T) {
	d := NewDetector(Config{ProximityThreshold: 45}, nil)
	doses := []profile.ScheduledDose{
		doseAt("m1", "Metformin", tod("08:00")),
		doseAt("m2", "Amlodipine", tod("08:30")),
	}
	if got := d.Detect(doses, nil); len(got) != 1 {
		t.Errorf("45-minute threshold should flag a 30-minute gap, got %d conflicts", len(got))
	}
}

func TestEveryConflictCarriesSuggestions(t *testing.T) {
	d := NewDetector(DefaultConfig(), nil)
	doses := []profile.ScheduledDose{
		doseAt("m1", "Metformin", tod("08:00")),
		doseAt("m2", "Amlodipine", tod("08:05")),
	}
	challenges := []family.Challenge{
		{
			Type:          family.ChallengeSupervision,
			Severity:      profile.SeverityHigh,
			Description:   "no supervisor available for the 08:00 dose slot",
			Time:          tod("08:00"),
			AffectedDoses: []string{"m1"},
		},
	}

	for _, c := range d.Detect(doses, challenges) {
		if len(c.Suggestions) == 0 {
			t.Errorf("conflict %q has no suggestions", c.Description)
		}
		if c.CulturalAlternatives == nil {
			t.Errorf("conflict %q has nil cultural alternatives", c.Description)
		}
	}
}

func TestSupervisionChallengeBecomesConflict(t *testing.T) {
	d := NewDetector(DefaultConfig(), nil)
	challenges := []family.Challenge{
		{
			Type:          family.ChallengeSupervision,
			Severity:      profile.SeverityHigh,
			Description:   "no supervisor available for the 19:15 dose slot",
			Time:          tod("19:15"),
			AffectedDoses: []string{"m1", "m2"},
			Solutions: []family.Solution{
				{Description: "shift the dose into a caregiver's availability window"},
			},
		},
	}

	got := d.Detect(nil, challenges)
	if len(got) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(got))
	}
	if got[0].Type != TypeSupervision {
		t.Errorf("type = %s, want supervision", got[0].Type)
	}
	if got[0].Severity != profile.SeverityHigh {
		t.Errorf("severity should carry over, got %s", got[0].Severity)
	}
	if got[0].Suggestions[0] != "shift the dose into a caregiver's availability window" {
		t.Errorf("challenge solutions should become suggestions, got %v", got[0].Suggestions)
	}
}

func TestRecommenderAlwaysHasEnglish(t *testing.T) {
	r := NewRecommender()

	known := r.Package("general", profile.UrgencyLow, "review the schedule with your pharmacist")
	if known.MultiLanguage["en"] != known.Message {
		t.Error("en entry must mirror the message")
	}
	if known.MultiLanguage["ms"] == "" {
		t.Error("known phrase should carry the Malay translation")
	}

	unknown := r.Package("general", profile.UrgencyHigh, "a completely novel message")
	if unknown.MultiLanguage["en"] != "a completely novel message" {
		t.Error("unknown phrases must keep the en fallback")
	}
	if len(unknown.MultiLanguage) != 1 {
		t.Errorf("unknown phrase should only have en, got %v", unknown.MultiLanguage)
	}
}
