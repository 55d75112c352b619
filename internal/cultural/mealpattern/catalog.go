package mealpattern

import (
	"github.com/kampungcare/medsched/internal/cultural/profile"
)

// Personalization shift constants, in minutes. Kept as named values rather
// than inline numbers so deployments can reason about them.
const (
	ElderlyBreakfastShift = -30
	ElderlyDinnerShift    = -45
)

// mustTime is a shorthand for building the package-level tables.
var mustTime = profile.MustTimeOfDay

// basePatterns is the read-only catalog, one entry per supported culture.
// Never mutated after initialization; lookups return deep copies.
var basePatterns = map[profile.Culture]Pattern{
	profile.CultureMalay: {
		Culture: profile.CultureMalay,
		Meals: []Meal{
			{Name: MealBreakfast, Start: mustTime("06:30"), End: mustTime("08:00"), Peak: mustTime("07:00")},
			{Name: MealLunch, Start: mustTime("12:30"), End: mustTime("14:00"), Peak: mustTime("13:00")},
			{Name: MealSnack, Label: "minum petang", Start: mustTime("16:30"), End: mustTime("17:30"), Peak: mustTime("17:00"), Snack: true},
			{Name: MealDinner, Start: mustTime("19:30"), End: mustTime("21:00"), Peak: mustTime("20:00")},
		},
		CulturalNotes: []string{
			"Meal times commonly follow the daily prayer rhythm; dinner is taken after Maghrib",
			"Friday lunch may start later to accommodate congregational prayers",
		},
	},
	profile.CultureChinese: {
		Culture: profile.CultureChinese,
		Meals: []Meal{
			{Name: MealBreakfast, Start: mustTime("07:00"), End: mustTime("08:30"), Peak: mustTime("07:30")},
			{Name: MealLunch, Start: mustTime("12:00"), End: mustTime("13:30"), Peak: mustTime("12:30")},
			{Name: MealDinner, Start: mustTime("18:30"), End: mustTime("20:00"), Peak: mustTime("19:00")},
		},
		CulturalNotes: []string{
			"Dinner is usually the main shared family meal",
			"Warm water or soup is preferred with meals; note medications that need plain water",
		},
	},
	profile.CultureIndian: {
		Culture: profile.CultureIndian,
		Meals: []Meal{
			{Name: MealBreakfast, Start: mustTime("07:30"), End: mustTime("09:00"), Peak: mustTime("08:00")},
			{Name: MealLunch, Start: mustTime("12:30"), End: mustTime("14:00"), Peak: mustTime("13:00")},
			{Name: MealSnack, Label: "evening tiffin", Start: mustTime("16:00"), End: mustTime("17:00"), Peak: mustTime("16:30"), Snack: true},
			{Name: MealDinner, Start: mustTime("20:00"), End: mustTime("21:30"), Peak: mustTime("20:30")},
		},
		CulturalNotes: []string{
			"Dinner tends to be late; avoid pushing bedtime doses past the dinner window",
			"Weekly religious fasting days may replace lunch with fruit or milk",
		},
	},
	profile.CultureMixed: {
		Culture: profile.CultureMixed,
		Meals: []Meal{
			{Name: MealBreakfast, Start: mustTime("07:00"), End: mustTime("08:30"), Peak: mustTime("07:30")},
			{Name: MealLunch, Start: mustTime("12:30"), End: mustTime("13:30"), Peak: mustTime("13:00")},
			{Name: MealDinner, Start: mustTime("19:00"), End: mustTime("20:30"), Peak: mustTime("19:30")},
		},
		CulturalNotes: []string{
			"General Malaysian urban meal pattern",
		},
	},
}

// cultureReligionAdjustment holds the declarative (culture, religion)
// personalization rules: time shifts in minutes plus notes to append.
type cultureReligionAdjustment struct {
	BreakfastShift int
	DinnerShift    int
	Notes          []string
}

type cultureReligionKey struct {
	Culture  profile.Culture
	Religion profile.Religion
}

// cultureReligionRules is the data-driven replacement for per-culture
// conditional branching. Missing keys mean no adjustment.
var cultureReligionRules = map[cultureReligionKey]cultureReligionAdjustment{
	{profile.CultureMalay, profile.ReligionIslam}: {
		Notes: []string{
			"Coordinate dose times with the five daily prayer times; leave a buffer around Maghrib",
		},
	},
	{profile.CultureChinese, profile.ReligionBuddhism}: {
		Notes: []string{
			"Vegetarian observance days (1st and 15th of the lunar month) may change meal content",
		},
	},
	{profile.CultureChinese, profile.ReligionTaoism}: {
		Notes: []string{
			"Festival offerings may delay the evening meal",
		},
	},
	{profile.CultureIndian, profile.ReligionHinduism}: {
		Notes: []string{
			"Weekly fasting observances (for example Thursday or Saturday fasts) may skip lunch",
		},
	},
}

// Catalog provides meal pattern lookups and personalization. The zero value
// is not usable; construct with NewCatalog.
type Catalog struct{}

// NewCatalog creates a catalog over the built-in pattern tables.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Pattern returns the base pattern for a culture. Unknown cultures resolve
// to the mixed default, never an error.
func (c *Catalog) Pattern(culture profile.Culture) Pattern {
	p, ok := basePatterns[culture]
	if !ok {
		p = basePatterns[profile.CultureMixed]
	}
	return p.clone()
}

// PersonalizedPattern derives a pattern for the given profile. The result is
// a fresh copy; catalog state is never mutated. A profile with no usable
// culture defaults fully to mixed.
func (c *Catalog) PersonalizedPattern(p profile.CulturalProfile) Pattern {
	norm := profile.Normalize(&p)
	pattern := c.Pattern(norm.PrimaryCulture)

	// Elderly households eat earlier; shift breakfast and dinner windows.
	if norm.Preferences.Family.ElderlyMembers > 0 {
		shiftMeal(&pattern, MealBreakfast, ElderlyBreakfastShift)
		shiftMeal(&pattern, MealDinner, ElderlyDinnerShift)
		pattern.CulturalNotes = append(pattern.CulturalNotes,
			"Meal windows shifted earlier for elderly household members")
	}

	if norm.Preferences.Dietary.Vegetarian {
		pattern.CulturalNotes = append(pattern.CulturalNotes,
			"Vegetarian meals: check that with-food medications do not assume meat protein intake")
	}

	if adj, ok := cultureReligionRules[cultureReligionKey{norm.PrimaryCulture, norm.Religion}]; ok {
		shiftMeal(&pattern, MealBreakfast, adj.BreakfastShift)
		shiftMeal(&pattern, MealDinner, adj.DinnerShift)
		pattern.CulturalNotes = append(pattern.CulturalNotes, adj.Notes...)
	}

	return pattern
}

func shiftMeal(p *Pattern, name string, minutes int) {
	if minutes == 0 {
		return
	}
	for i := range p.Meals {
		if p.Meals[i].Name == name {
			p.Meals[i].Start = p.Meals[i].Start.Add(minutes)
			p.Meals[i].End = p.Meals[i].End.Add(minutes)
			p.Meals[i].Peak = p.Meals[i].Peak.Add(minutes)
			return
		}
	}
}
