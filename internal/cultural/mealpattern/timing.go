package mealpattern

import (
	"fmt"
	"time"

	"github.com/kampungcare/medsched/internal/cultural/profile"
)

// Meal-relative dose offsets, in minutes.
const (
	BeforeMealOffset = -45
	AfterMealOffset  = 45
)

// Timing is one computed dose slot relative to the meal pattern.
type Timing struct {
	Time profile.TimeOfDay
	// Meal is the canonical meal the slot is anchored to, or "independent".
	Meal  string
	Notes string
}

// OptimalMedicationTiming computes dose slots from the pattern's meal
// windows. If doseCount exceeds the available slots the meals are reused in
// order rather than failing.
func (c *Catalog) OptimalMedicationTiming(relation profile.MealRelation, pattern Pattern, doseCount int) []Timing {
	if doseCount <= 0 {
		return nil
	}
	main := pattern.MainMeals()
	if len(main) == 0 {
		return nil
	}

	switch relation {
	case profile.RelationBefore:
		return mealAnchoredTimings(main, doseCount, func(m Meal) (profile.TimeOfDay, string) {
			return m.Start.Add(BeforeMealOffset), fmt.Sprintf("45 minutes before %s", m.DisplayName())
		})
	case profile.RelationWith:
		return mealAnchoredTimings(spreadMeals(main, doseCount), doseCount, func(m Meal) (profile.TimeOfDay, string) {
			return m.Peak, fmt.Sprintf("with %s at its usual peak", m.DisplayName())
		})
	case profile.RelationAfter:
		return mealAnchoredTimings(main, doseCount, func(m Meal) (profile.TimeOfDay, string) {
			return m.Start.Add(AfterMealOffset), fmt.Sprintf("45 minutes after %s starts", m.DisplayName())
		})
	default:
		return independentTimings(main, doseCount)
	}
}

// mealAnchoredTimings assigns one meal per dose in order, wrapping when the
// dose count exceeds the meals available.
func mealAnchoredTimings(meals []Meal, doseCount int, slot func(Meal) (profile.TimeOfDay, string)) []Timing {
	out := make([]Timing, 0, doseCount)
	for i := 0; i < doseCount; i++ {
		m := meals[i%len(meals)]
		t, notes := slot(m)
		out = append(out, Timing{Time: t, Meal: m.Name, Notes: notes})
	}
	return out
}

// spreadMeals picks meals spread across the day for with-food dosing: one
// dose anchors to breakfast, two doses to breakfast and dinner, three or
// more walk the meals in order.
func spreadMeals(main []Meal, doseCount int) []Meal {
	if doseCount == 2 && len(main) >= 3 {
		return []Meal{main[0], main[len(main)-1]}
	}
	if doseCount == 1 {
		return main[:1]
	}
	return main
}

// independentTimings places doses at the midpoints of the gaps between
// consecutive meals, cycling through the gaps as doses are needed.
func independentTimings(main []Meal, doseCount int) []Timing {
	if len(main) < 2 {
		// Degenerate single-meal pattern: anchor to the meal peak.
		return mealAnchoredTimings(main, doseCount, func(m Meal) (profile.TimeOfDay, string) {
			return m.Peak, "taken independently of meals"
		})
	}

	type gap struct {
		mid   profile.TimeOfDay
		after string
		next  string
	}
	gaps := make([]gap, 0, len(main)-1)
	for i := 0; i < len(main)-1; i++ {
		gaps = append(gaps, gap{
			mid:   main[i].End.Midpoint(main[i+1].Start),
			after: main[i].DisplayName(),
			next:  main[i+1].DisplayName(),
		})
	}

	out := make([]Timing, 0, doseCount)
	for i := 0; i < doseCount; i++ {
		g := gaps[i%len(gaps)]
		out = append(out, Timing{
			Time:  g.mid,
			Meal:  "independent",
			Notes: fmt.Sprintf("between %s and %s, away from food", g.after, g.next),
		})
	}
	return out
}

// MealPeriod classifies a point in time against the personalized pattern.
type MealPeriod struct {
	Period string
	// Between-meal periods remain optimal for medication: there is no
	// meal-timing conflict to avoid.
	IsOptimalForMedication bool
	NextMealTime           profile.TimeOfDay
	Notes                  string
}

// CurrentMealPeriod classifies now against the profile's personalized
// pattern. An invalid timestamp classifies as between meals with a warning
// note rather than failing.
func (c *Catalog) CurrentMealPeriod(p profile.CulturalProfile, now time.Time) MealPeriod {
	pattern := c.PersonalizedPattern(p)

	if now.IsZero() {
		return MealPeriod{
			Period:                 "between meals",
			IsOptimalForMedication: true,
			NextMealTime:           firstMealStart(pattern),
			Notes:                  "timestamp unavailable; assuming a between-meal period",
		}
	}

	t := profile.FromClock(now)
	for _, m := range pattern.Meals {
		if t.Between(m.Start, m.End) {
			return MealPeriod{
				Period:                 m.Name,
				IsOptimalForMedication: true,
				NextMealTime:           nextMealStart(pattern, m.End),
				Notes:                  fmt.Sprintf("within the %s window", m.DisplayName()),
			}
		}
	}

	return MealPeriod{
		Period:                 "between meals",
		IsOptimalForMedication: true,
		NextMealTime:           nextMealStart(pattern, t),
		Notes:                  "between meals; fine for medications taken away from food",
	}
}

func firstMealStart(p Pattern) profile.TimeOfDay {
	if len(p.Meals) == 0 {
		return 0
	}
	return p.Meals[0].Start
}

// nextMealStart returns the start of the first meal after t, wrapping to the
// first meal of the next day.
func nextMealStart(p Pattern, t profile.TimeOfDay) profile.TimeOfDay {
	for _, m := range p.Meals {
		if m.Start.Sub(t) > 0 {
			return m.Start
		}
	}
	return firstMealStart(p)
}
