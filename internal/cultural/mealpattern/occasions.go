package mealpattern

import (
	"github.com/kampungcare/medsched/internal/cultural/profile"
)

// Known special occasion keys.
const (
	OccasionRamadan        = "ramadan"
	OccasionChineseNewYear = "chinese_new_year"
	OccasionDeepavali      = "deepavali"
	OccasionHariRaya       = "hari_raya"
)

// SpecialOccasionPattern returns the occasion override derived from the base
// pattern, or nil when the occasion key is unknown. Unknown keys are not an
// error: callers simply proceed with the base pattern.
func (c *Catalog) SpecialOccasionPattern(occasionKey string, base Pattern) *SpecialOccasion {
	switch occasionKey {
	case OccasionRamadan:
		return ramadanOccasion(base)
	case OccasionChineseNewYear:
		return festivalOccasion(base, OccasionChineseNewYear, []string{
			"Reunion dinner runs long; evening doses may need to move before the meal starts",
			"Festive foods are rich; remind about medications sensitive to fatty meals",
		})
	case OccasionDeepavali:
		return festivalOccasion(base, OccasionDeepavali, []string{
			"Open-house visiting disrupts normal meal times; anchor doses to actual meals eaten",
			"Festive sweets are sugar heavy; flag for diabetic medication users",
		})
	case OccasionHariRaya:
		return festivalOccasion(base, OccasionHariRaya, []string{
			"Morning prayers and visiting shift breakfast later on festival days",
			"Rendang and rich dishes may interact with lipid-sensitive medications",
		})
	default:
		return nil
	}
}

// ramadanOccasion removes lunch, keeps breakfast as the pre-dawn meal and
// dinner as the fast-breaking meal. Medication schedules are modified.
func ramadanOccasion(base Pattern) *SpecialOccasion {
	modified := base.clone()
	modified.Meals = modified.Meals[:0]

	var sahurEnd, iftarStart profile.TimeOfDay
	for _, m := range base.Meals {
		switch m.Name {
		case MealBreakfast:
			sahur := Meal{
				Name:  MealBreakfast,
				Label: "sahur",
				Start: mustTime("04:45"),
				End:   mustTime("05:45"),
				Peak:  mustTime("05:15"),
			}
			sahurEnd = sahur.End
			modified.Meals = append(modified.Meals, sahur)
		case MealDinner:
			iftar := Meal{
				Name:  MealDinner,
				Label: "iftar",
				Start: mustTime("19:15"),
				End:   mustTime("20:30"),
				Peak:  mustTime("19:30"),
			}
			iftarStart = iftar.Start
			modified.Meals = append(modified.Meals, iftar)
		}
		// Lunch and snacks are dropped: no eating during daylight.
	}

	modified.CulturalNotes = append(modified.CulturalNotes,
		"Ramadan fasting: no food, drink, or oral medication between sahur and iftar",
		"Cluster with-food doses at sahur and iftar; consult a pharmacist about long-acting alternatives",
	)

	return &SpecialOccasion{
		OccasionID:      OccasionRamadan,
		OccasionType:    "fasting",
		ModifiedPattern: modified,
		Schedule:        ScheduleModified,
		FastingStart:    sahurEnd,
		FastingEnd:      iftarStart,
		Notes: []string{
			"Daytime doses must move to the pre-dawn or fast-breaking meal",
		},
	}
}

// festivalOccasion keeps the meal structure but shifts dinner later and
// attaches occasion notes. Medication schedules are unchanged.
func festivalOccasion(base Pattern, id string, notes []string) *SpecialOccasion {
	modified := base.clone()
	// Festive dinners start and finish later.
	shiftMeal(&modified, MealDinner, 30)
	modified.CulturalNotes = append(modified.CulturalNotes, notes...)

	return &SpecialOccasion{
		OccasionID:      id,
		OccasionType:    "festival",
		ModifiedPattern: modified,
		Schedule:        ScheduleUnchanged,
		Notes:           notes,
	}
}
