package profile

import (
	"testing"
)

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("08:30")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got != TimeOfDay(8*60+30) {
		t.Errorf("expected 510 minutes, got %d", got)
	}
	if got.String() != "08:30" {
		t.Errorf("expected 08:30, got %s", got)
	}

	if _, err := ParseTimeOfDay("25:00"); err == nil {
		t.Error("expected error for out-of-range hour")
	}
	if _, err := ParseTimeOfDay("garbage"); err == nil {
		t.Error("expected error for malformed input")
	}
}

func TestTimeOfDayArithmetic(t *testing.T) {
	seven := MustTimeOfDay("07:00")

	if got := seven.Add(-45); got.String() != "06:15" {
		t.Errorf("expected 06:15, got %s", got)
	}
	// Wraps across midnight.
	if got := MustTimeOfDay("00:30").Add(-60); got.String() != "23:30" {
		t.Errorf("expected 23:30, got %s", got)
	}
	if got := AbsMinutesApart(MustTimeOfDay("08:00"), MustTimeOfDay("08:08")); got != 8 {
		t.Errorf("expected 8 minutes apart, got %d", got)
	}
	if got := MustTimeOfDay("08:00").Midpoint(MustTimeOfDay("12:30")); got.String() != "10:15" {
		t.Errorf("expected 10:15, got %s", got)
	}
	if !seven.Between(MustTimeOfDay("06:30"), MustTimeOfDay("08:00")) {
		t.Error("07:00 should fall inside 06:30-08:00")
	}
}

func TestInferMealRelation(t *testing.T) {
	cases := []struct {
		instructions string
		want         MealRelation
	}{
		{"Take with meals", RelationWith},
		{"Take with food twice daily", RelationWith},
		{"Take before meals on an empty stomach", RelationBefore},
		{"30 minutes before food", RelationBefore},
		{"Take after meals", RelationAfter},
		{"Take as needed", RelationIndependent},
		{"", RelationIndependent},
	}
	for _, tc := range cases {
		if got := InferMealRelation(tc.instructions); got != tc.want {
			t.Errorf("InferMealRelation(%q) = %s, want %s", tc.instructions, got, tc.want)
		}
	}
}

func TestNormalizeNilProfile(t *testing.T) {
	got := Normalize(nil)
	if got.PrimaryCulture != CultureMixed {
		t.Errorf("expected mixed culture, got %s", got.PrimaryCulture)
	}
	if got.Language != DefaultLanguage {
		t.Errorf("expected default language, got %s", got.Language)
	}
	if got.Preferences.Dietary.Restrictions == nil {
		t.Error("restrictions should be populated, not nil")
	}
}

func TestNormalizeFillsDefaults(t *testing.T) {
	p := &CulturalProfile{
		PrimaryCulture: "klingon",
		Preferences:    Preferences{Prayer: PrayerPreferences{Enabled: true}},
	}
	got := Normalize(p)

	if got.PrimaryCulture != CultureMixed {
		t.Errorf("unknown culture should normalize to mixed, got %s", got.PrimaryCulture)
	}
	if got.Preferences.Prayer.BufferMinutes != DefaultPrayerBuffer {
		t.Errorf("expected default prayer buffer, got %d", got.Preferences.Prayer.BufferMinutes)
	}
	// Input must stay untouched.
	if p.PrimaryCulture != "klingon" {
		t.Error("Normalize mutated its input")
	}
}

func TestNormalizeHouseholdDerivesRoles(t *testing.T) {
	h := NormalizeHousehold(Household{
		Members: []FamilyMember{
			{ID: "m1", Age: 8},
			{ID: "m2", Age: 72},
			{ID: "m3", Age: 40},
		},
	})

	if h.Members[0].Role != RoleChild {
		t.Errorf("8-year-old should derive child role, got %s", h.Members[0].Role)
	}
	if h.Members[1].Role != RoleElder {
		t.Errorf("72-year-old should derive elder role, got %s", h.Members[1].Role)
	}
	if h.Members[2].Role != RoleMember {
		t.Errorf("adult should derive member role, got %s", h.Members[2].Role)
	}
	if h.DecisionStyle != DecisionShared {
		t.Errorf("expected shared decision default, got %s", h.DecisionStyle)
	}
}
