package engine

import (
	"reflect"
	"strings"
	"testing"

	"github.com/kampungcare/medsched/internal/cultural/mealpattern"
	"github.com/kampungcare/medsched/internal/cultural/profile"
)

var tod = profile.MustTimeOfDay

func metformin() profile.Medication {
	return profile.Medication{
		ID:           "med-metformin",
		Name:         "Metformin",
		Dosage:       "500mg",
		Frequency:    profile.FrequencyTwiceDaily,
		Instructions: "Take with meals",
	}
}

func malayElderlyProfile() *profile.CulturalProfile {
	return &profile.CulturalProfile{
		PatientID:      "patient-1",
		PrimaryCulture: profile.CultureMalay,
		Religion:       profile.ReligionIslam,
		Language:       "ms",
		Preferences: profile.Preferences{
			Prayer:  profile.PrayerPreferences{Enabled: true, BufferMinutes: 30},
			Dietary: profile.DietaryPreferences{Halal: true},
			Family:  profile.FamilySummary{ElderlyMembers: 1},
		},
	}
}

func caregiverHousehold() profile.Household {
	return profile.Household{
		Members: []profile.FamilyMember{
			{
				ID: "c1", Name: "Aminah", Age: 45,
				Role:            profile.RoleCaregiver,
				CognitiveStatus: profile.CognitionClear,
				Availability: []profile.AvailabilityWindow{
					{Start: tod("06:00"), End: tod("22:00"), Reliability: profile.ReliabilityHigh},
				},
			},
		},
	}
}

func TestEmptyMedicationListIsValid(t *testing.T) {
	e := NewDefault(nil)
	got := e.GenerateSchedule(nil, malayElderlyProfile(), caregiverHousehold(), Options{})
	if len(got.OptimizedSchedule) != 0 {
		t.Errorf("expected empty schedule, got %d doses", len(got.OptimizedSchedule))
	}
}

func TestNilProfileFallback(t *testing.T) {
	e := NewDefault(nil)
	meds := []profile.Medication{
		metformin(),
		{ID: "med-paracetamol", Name: "Paracetamol", Frequency: profile.FrequencyOnceDaily},
	}

	got := e.GenerateSchedule(meds, nil, profile.Household{}, Options{})

	if len(got.OptimizedSchedule) != 3 {
		t.Fatalf("expected 3 fallback doses, got %d", len(got.OptimizedSchedule))
	}
	if got.OptimizedSchedule[0].Time != tod("08:00") || got.OptimizedSchedule[1].Time != tod("20:00") {
		t.Errorf("twice-daily fallback should be 08:00 and 20:00, got %s and %s",
			got.OptimizedSchedule[0].Time, got.OptimizedSchedule[1].Time)
	}
	if got.OptimizedSchedule[2].Time != tod("08:00") {
		t.Errorf("once-daily fallback should be 08:00, got %s", got.OptimizedSchedule[2].Time)
	}

	if len(got.Recommendations) != 1 {
		t.Fatalf("expected exactly one recommendation, got %d", len(got.Recommendations))
	}
	rec := got.Recommendations[0]
	if rec.Priority != profile.UrgencyHigh {
		t.Errorf("fallback recommendation priority = %s, want high", rec.Priority)
	}
	if !strings.Contains(rec.Message, "unavailable") {
		t.Errorf("fallback recommendation should mention unavailability, got %q", rec.Message)
	}
	if rec.MultiLanguage["en"] == "" {
		t.Error("recommendation must carry the en entry")
	}
}

func TestDeterminism(t *testing.T) {
	e := NewDefault(nil)
	meds := []profile.Medication{
		metformin(),
		{ID: "med-warfarin", Name: "Warfarin", Dosage: "3mg",
			Frequency: profile.FrequencyOnceDaily, Instructions: "Take after meals"},
	}
	p := malayElderlyProfile()
	p.Preferences.Dietary.TraditionalMedicines = []string{"ginseng"}
	household := caregiverHousehold()

	first := e.GenerateSchedule(meds, p, household, Options{})
	second := e.GenerateSchedule(meds, p, household, Options{})
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs must produce identical output")
	}
}

func TestMetforminMalayElderlyScenario(t *testing.T) {
	e := NewDefault(nil)
	got := e.GenerateSchedule(
		[]profile.Medication{metformin()}, malayElderlyProfile(), caregiverHousehold(), Options{})

	if len(got.OptimizedSchedule) != 2 {
		t.Fatalf("expected 2 doses, got %d", len(got.OptimizedSchedule))
	}

	// Elderly-shifted Malay pattern: breakfast peak 06:30, dinner peak 19:15.
	first, second := got.OptimizedSchedule[0], got.OptimizedSchedule[1]
	if first.Meal != mealpattern.MealBreakfast || first.Time != tod("06:30") {
		t.Errorf("first dose = %s at %s, want breakfast at 06:30", first.Meal, first.Time)
	}
	if second.Meal != mealpattern.MealDinner || second.Time != tod("19:15") {
		t.Errorf("second dose = %s at %s, want dinner at 19:15", second.Meal, second.Time)
	}

	prayerNoted := false
	for _, n := range got.CulturalGuidance.Notes {
		if strings.Contains(strings.ToLower(n), "prayer") {
			prayerNoted = true
		}
	}
	if !prayerNoted {
		t.Errorf("expected a cultural note mentioning prayer times, got %v", got.CulturalGuidance.Notes)
	}

	supervised := 0
	for _, d := range got.OptimizedSchedule {
		if d.Supervisor != nil {
			supervised++
		}
	}
	if supervised == 0 {
		t.Error("elderly household should have at least one supervised dose")
	}
}

func TestConflictCompleteness(t *testing.T) {
	e := NewDefault(nil)
	// Two once-daily independent medications land on the same gap midpoint.
	meds := []profile.Medication{
		{ID: "m1", Name: "Drug A", Frequency: profile.FrequencyOnceDaily, Instructions: "Take as needed"},
		{ID: "m2", Name: "Drug B", Frequency: profile.FrequencyOnceDaily},
	}
	got := e.GenerateSchedule(meds, &profile.CulturalProfile{PrimaryCulture: profile.CultureMixed}, profile.Household{}, Options{})

	if len(got.Conflicts) == 0 {
		t.Fatal("coinciding doses should raise a timing conflict")
	}
	for _, c := range got.Conflicts {
		if len(c.Suggestions) == 0 {
			t.Errorf("conflict %q has no suggestions", c.Description)
		}
		if c.CulturalAlternatives == nil {
			t.Errorf("conflict %q has nil cultural alternatives", c.Description)
		}
	}
}

func TestRamadanOccasionMovesWithFoodDoses(t *testing.T) {
	e := NewDefault(nil)
	got := e.GenerateSchedule(
		[]profile.Medication{metformin()},
		malayElderlyProfile(),
		caregiverHousehold(),
		Options{OccasionKey: mealpattern.OccasionRamadan})

	if len(got.OptimizedSchedule) != 2 {
		t.Fatalf("expected 2 doses, got %d", len(got.OptimizedSchedule))
	}
	// Sahur peak 05:15, iftar peak 19:30.
	if got.OptimizedSchedule[0].Time != tod("05:15") {
		t.Errorf("first dose = %s, want sahur peak 05:15", got.OptimizedSchedule[0].Time)
	}
	if got.OptimizedSchedule[1].Time != tod("19:30") {
		t.Errorf("second dose = %s, want iftar peak 19:30", got.OptimizedSchedule[1].Time)
	}

	fastingNoted := false
	for _, n := range got.CulturalGuidance.Notes {
		if strings.Contains(strings.ToLower(n), "fast") {
			fastingNoted = true
		}
	}
	if !fastingNoted {
		t.Errorf("expected fasting guidance notes, got %v", got.CulturalGuidance.Notes)
	}
}

func TestPrayerWindowBuffering(t *testing.T) {
	e := NewDefault(nil)
	p := malayElderlyProfile()
	p.Preferences.Family.ElderlyMembers = 0 // keep the base pattern times

	// Maghrib at 19:55 sits within the 30-minute buffer of the 20:00
	// dinner-peak dose; the dose must move to 20:25.
	got := e.GenerateSchedule(
		[]profile.Medication{metformin()},
		p,
		caregiverHousehold(),
		Options{PrayerWindows: []profile.PrayerWindow{{Name: "maghrib", Time: tod("19:55")}}})

	var dinner *profile.ScheduledDose
	for i := range got.OptimizedSchedule {
		if got.OptimizedSchedule[i].Meal == mealpattern.MealDinner {
			dinner = &got.OptimizedSchedule[i]
		}
	}
	if dinner == nil {
		t.Fatal("expected a dinner dose")
	}
	if dinner.Time != tod("20:25") {
		t.Errorf("dinner dose = %s, want 20:25 after the prayer buffer", dinner.Time)
	}
	buffered := false
	for _, n := range dinner.CulturalNotes {
		if strings.Contains(n, "maghrib") {
			buffered = true
		}
	}
	if !buffered {
		t.Errorf("dose should note the prayer adjustment, got %v", dinner.CulturalNotes)
	}
}

func TestRamadanDaytimeDoseIsFlagged(t *testing.T) {
	e := NewDefault(nil)
	// No meal cue: the only between-meal gap during Ramadan is the fast
	// itself, so the dose lands mid-fast and must be flagged.
	meds := []profile.Medication{
		{ID: "med-amlodipine", Name: "Amlodipine", Dosage: "5mg", Frequency: profile.FrequencyOnceDaily},
	}
	got := e.GenerateSchedule(meds, malayElderlyProfile(), caregiverHousehold(),
		Options{OccasionKey: mealpattern.OccasionRamadan})

	if got.CulturalGuidance.Dietary.OverallCompliance == "compliant" {
		t.Error("a dose slot inside the fasting window must break compliance")
	}
	flagged := false
	for _, ma := range got.CulturalGuidance.Dietary.Medications {
		for _, issue := range ma.Issues {
			if strings.Contains(issue, "fasting window") {
				flagged = true
			}
		}
	}
	if !flagged {
		t.Error("expected a fasting-window placement issue in the dietary assessment")
	}
	visible := false
	for _, rec := range got.Recommendations {
		if rec.Category == "dietary" && rec.Priority == profile.UrgencyHigh {
			visible = true
		}
	}
	if !visible {
		t.Error("fasting conflict must surface as a high-priority recommendation")
	}
}

func TestPrayerBufferCascade(t *testing.T) {
	e := NewDefault(nil)
	p := malayElderlyProfile()
	p.Preferences.Family.ElderlyMembers = 0 // keep the base pattern times

	// The 20:00 dinner dose moves past maghrib to 20:25, which lands
	// inside isyak's buffer; it must keep moving to 20:50.
	got := e.GenerateSchedule(
		[]profile.Medication{metformin()},
		p,
		caregiverHousehold(),
		Options{PrayerWindows: []profile.PrayerWindow{
			{Name: "maghrib", Time: tod("19:55")},
			{Name: "isyak", Time: tod("20:20")},
		}})

	var dinner *profile.ScheduledDose
	for i := range got.OptimizedSchedule {
		if got.OptimizedSchedule[i].Meal == mealpattern.MealDinner {
			dinner = &got.OptimizedSchedule[i]
		}
	}
	if dinner == nil {
		t.Fatal("expected a dinner dose")
	}
	if dinner.Time != tod("20:50") {
		t.Errorf("dinner dose = %s, want 20:50 clear of both prayer buffers", dinner.Time)
	}
	maghribNoted, isyakNoted := false, false
	for _, n := range dinner.CulturalNotes {
		if strings.Contains(n, "maghrib") {
			maghribNoted = true
		}
		if strings.Contains(n, "isyak") {
			isyakNoted = true
		}
	}
	if !maghribNoted || !isyakNoted {
		t.Errorf("dose should note both prayer adjustments, got %v", dinner.CulturalNotes)
	}
}

func TestUnknownOccasionKeyIsIgnored(t *testing.T) {
	e := NewDefault(nil)
	base := e.GenerateSchedule([]profile.Medication{metformin()}, malayElderlyProfile(), caregiverHousehold(), Options{})
	withUnknown := e.GenerateSchedule([]profile.Medication{metformin()}, malayElderlyProfile(), caregiverHousehold(), Options{OccasionKey: "nonexistent"})

	if !reflect.DeepEqual(base.OptimizedSchedule, withUnknown.OptimizedSchedule) {
		t.Error("unknown occasion keys must not change the schedule")
	}
}
