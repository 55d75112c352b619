// Package mealpattern provides per-culture meal timing templates and the
// deterministic medication timing arithmetic derived from them.
package mealpattern

import (
	"github.com/kampungcare/medsched/internal/cultural/profile"
)

// Canonical meal names used across patterns. Special occasions may relabel a
// meal but never change its canonical name.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// Meal is one named meal window within a pattern.
type Meal struct {
	// Name is the canonical meal key (breakfast, lunch, dinner, snack).
	Name string `json:"name"`
	// Label is the culturally specific display name (e.g. "sahur" for the
	// Ramadan pre-dawn meal). Empty means the canonical name.
	Label string            `json:"label"`
	Start profile.TimeOfDay `json:"start"`
	End   profile.TimeOfDay `json:"end"`
	Peak  profile.TimeOfDay `json:"peak"`
	// Snack meals are excluded from main-meal dose placement.
	Snack bool `json:"snack"`
}

// DisplayName returns the label if set, otherwise the canonical name.
func (m Meal) DisplayName() string {
	if m.Label != "" {
		return m.Label
	}
	return m.Name
}

// Pattern is a culture's meal timing template. Meals are kept in
// chronological order.
type Pattern struct {
	Culture       profile.Culture `json:"culture"`
	Meals         []Meal          `json:"meals"`
	CulturalNotes []string        `json:"cultural_notes"`
}

// Meal returns the named meal and whether it exists in the pattern.
func (p Pattern) Meal(name string) (Meal, bool) {
	for _, m := range p.Meals {
		if m.Name == name {
			return m, true
		}
	}
	return Meal{}, false
}

// MainMeals returns the non-snack meals in chronological order.
func (p Pattern) MainMeals() []Meal {
	var main []Meal
	for _, m := range p.Meals {
		if !m.Snack {
			main = append(main, m)
		}
	}
	return main
}

// clone returns a deep copy so personalization never mutates catalog state.
func (p Pattern) clone() Pattern {
	out := p
	out.Meals = make([]Meal, len(p.Meals))
	copy(out.Meals, p.Meals)
	out.CulturalNotes = make([]string, len(p.CulturalNotes))
	copy(out.CulturalNotes, p.CulturalNotes)
	return out
}

// MedicationAdjustment describes how medication schedules respond to a
// special occasion.
type MedicationAdjustment string

const (
	ScheduleModified  MedicationAdjustment = "modified"
	ScheduleUnchanged MedicationAdjustment = "unchanged"
)

// SpecialOccasion is a temporary meal-pattern override for an occasion such
// as Ramadan or a festival.
type SpecialOccasion struct {
	OccasionID      string               `json:"occasion_id"`
	OccasionType    string               `json:"occasion_type"`
	ModifiedPattern Pattern              `json:"modified_pattern"`
	Schedule        MedicationAdjustment `json:"schedule"`
	// FastingStart/FastingEnd bound the daytime fasting window, when the
	// occasion involves fasting. Zero values mean no fasting.
	FastingStart profile.TimeOfDay `json:"fasting_start"`
	FastingEnd   profile.TimeOfDay `json:"fasting_end"`
	Notes        []string          `json:"notes"`
}

// Fasting reports whether the occasion carries a daytime fasting window.
func (o SpecialOccasion) Fasting() bool {
	return o.FastingEnd != o.FastingStart
}
