// Package engine composes the cultural scheduling components into a single
// schedule generation call with graceful degradation.
package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kampungcare/medsched/internal/cultural/conflict"
	"github.com/kampungcare/medsched/internal/cultural/dietary"
	"github.com/kampungcare/medsched/internal/cultural/family"
	"github.com/kampungcare/medsched/internal/cultural/mealpattern"
	"github.com/kampungcare/medsched/internal/cultural/profile"
	"github.com/kampungcare/medsched/internal/cultural/traditional"
)

// Fallback dose times used when personalization is unavailable.
var fallbackTimes = map[profile.Frequency][]profile.TimeOfDay{
	profile.FrequencyOnceDaily:       {profile.MustTimeOfDay("08:00")},
	profile.FrequencyTwiceDaily:      {profile.MustTimeOfDay("08:00"), profile.MustTimeOfDay("20:00")},
	profile.FrequencyThreeTimesDaily: {profile.MustTimeOfDay("08:00"), profile.MustTimeOfDay("14:00"), profile.MustTimeOfDay("20:00")},
	profile.FrequencyFourTimesDaily:  {profile.MustTimeOfDay("08:00"), profile.MustTimeOfDay("12:00"), profile.MustTimeOfDay("16:00"), profile.MustTimeOfDay("20:00")},
}

const fallbackMessage = "personalized scheduling is unavailable; using conservative default times"

// Guidance aggregates the advisory outputs of the assessment components.
type Guidance struct {
	MealPattern      mealpattern.Pattern         `json:"meal_pattern"`
	Dietary          dietary.Assessment          `json:"dietary"`
	FoodInteractions []dietary.Interaction       `json:"food_interactions"`
	Traditional      traditional.Result          `json:"traditional"`
	Adaptations      []family.CulturalAdaptation `json:"adaptations"`
	Notes            []string                    `json:"notes"`
}

// Result is the composed scheduling outcome returned to callers.
type Result struct {
	OptimizedSchedule []profile.ScheduledDose   `json:"optimized_schedule"`
	CulturalGuidance  Guidance                  `json:"cultural_guidance"`
	Conflicts         []conflict.Conflict       `json:"conflicts"`
	Recommendations   []conflict.Recommendation `json:"recommendations"`
	// Fallback marks a schedule built from conservative default times.
	Fallback bool `json:"fallback"`
	// DegradedSections lists assessment components that failed and were
	// skipped. Empty on a fully personalized run.
	DegradedSections []string `json:"degraded_sections,omitempty"`
}

// Options carries per-call context resolved by the caller: an active
// special occasion and pre-resolved prayer windows from the external
// prayer-time provider.
type Options struct {
	OccasionKey   string                 `json:"occasion_key"`
	PrayerWindows []profile.PrayerWindow `json:"prayer_windows"`
}

// Engine orchestrates schedule generation. All components are injected;
// the engine holds no hidden global state and is safe for concurrent use.
type Engine struct {
	catalog     *mealpattern.Catalog
	dietary     *dietary.Analyzer
	traditional *traditional.Assessor
	family      *family.Coordinator
	detector    *conflict.Detector
	recommender *conflict.Recommender
	logger      *zap.Logger
}

// New creates an engine from explicitly constructed components.
func New(
	catalog *mealpattern.Catalog,
	dietaryAnalyzer *dietary.Analyzer,
	traditionalAssessor *traditional.Assessor,
	familyCoordinator *family.Coordinator,
	detector *conflict.Detector,
	recommender *conflict.Recommender,
	logger *zap.Logger,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		catalog:     catalog,
		dietary:     dietaryAnalyzer,
		traditional: traditionalAssessor,
		family:      familyCoordinator,
		detector:    detector,
		recommender: recommender,
		logger:      logger,
	}
}

// NewDefault wires an engine with default component configuration.
func NewDefault(logger *zap.Logger) *Engine {
	catalog := mealpattern.NewCatalog()
	return New(
		catalog,
		dietary.NewAnalyzer(catalog, logger),
		traditional.NewAssessor(logger),
		family.NewCoordinator(logger),
		conflict.NewDetector(conflict.DefaultConfig(), logger),
		conflict.NewRecommender(),
		logger,
	)
}

// GenerateSchedule turns medications, a cultural profile, and a household
// into concrete dosing times with guidance and conflicts. It never returns
// an error: invalid input degrades to a fallback schedule that is surfaced
// through recommendations.
func (e *Engine) GenerateSchedule(meds []profile.Medication, p *profile.CulturalProfile, household profile.Household, opts Options) (result Result) {
	if len(meds) == 0 {
		return Result{OptimizedSchedule: []profile.ScheduledDose{}}
	}
	if p == nil {
		return e.fallbackSchedule(meds, "cultural profile missing")
	}

	// Last-resort guard: a panic anywhere below degrades to the fallback
	// schedule instead of propagating to the caller.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("schedule generation panicked", zap.Any("panic", r))
			result = e.fallbackSchedule(meds, fmt.Sprintf("internal failure: %v", r))
		}
	}()

	norm := profile.Normalize(p)
	var degraded []string

	pattern := e.catalog.PersonalizedPattern(norm)
	var occasion *mealpattern.SpecialOccasion
	if opts.OccasionKey != "" {
		occasion = e.catalog.SpecialOccasionPattern(opts.OccasionKey, pattern)
		if occasion != nil && occasion.Schedule == mealpattern.ScheduleModified {
			pattern = occasion.ModifiedPattern
		}
	}

	doses := e.buildDoses(meds, norm, pattern, opts.PrayerWindows)

	guidance := Guidance{MealPattern: pattern}
	guidance.Notes = append(guidance.Notes, pattern.CulturalNotes...)
	if occasion != nil {
		guidance.Notes = append(guidance.Notes, occasion.Notes...)
	}

	e.safeSection("dietary", &degraded, func() {
		guidance.Dietary = e.dietary.Assess(meds, norm, occasion)
		guidance.FoodInteractions = e.dietary.FoodInteractions(meds)
	})
	e.safeSection("traditional", &degraded, func() {
		guidance.Traditional = e.traditional.AssessIntegrationSafety(
			meds, norm.Preferences.Dietary.TraditionalMedicines, norm)
	})

	var familyResult family.Result
	e.safeSection("family", &degraded, func() {
		familyResult = e.family.Coordinate(doses, household, norm)
	})
	if familyResult.Doses != nil {
		doses = familyResult.Doses
	}
	guidance.Adaptations = familyResult.CulturalAdaptations

	var conflicts []conflict.Conflict
	e.safeSection("conflict", &degraded, func() {
		conflicts = e.detector.Detect(doses, familyResult.Challenges)
	})

	recs := e.assembleRecommendations(guidance, familyResult, degraded)

	e.logger.Info("schedule generated",
		zap.String("patient_id", norm.PatientID),
		zap.String("culture", string(norm.PrimaryCulture)),
		zap.Int("medications", len(meds)),
		zap.Int("doses", len(doses)),
		zap.Int("conflicts", len(conflicts)),
		zap.Strings("degraded_sections", degraded))

	return Result{
		OptimizedSchedule: doses,
		CulturalGuidance:  guidance,
		Conflicts:         conflicts,
		Recommendations:   recs,
		DegradedSections:  degraded,
	}
}

// buildDoses computes meal-relative timings for every medication and
// applies prayer-window buffering to the resulting slots.
func (e *Engine) buildDoses(meds []profile.Medication, norm profile.CulturalProfile, pattern mealpattern.Pattern, prayers []profile.PrayerWindow) []profile.ScheduledDose {
	var doses []profile.ScheduledDose
	for _, med := range meds {
		relation := profile.InferMealRelation(med.Instructions)
		timings := e.catalog.OptimalMedicationTiming(relation, pattern, med.Frequency.DosesPerDay())

		for _, t := range timings {
			dose := profile.ScheduledDose{
				MedicationID:   med.ID,
				MedicationName: med.Name,
				Time:           t.Time,
				Dose:           med.Dosage,
				MealRelation:   relation,
				Meal:           t.Meal,
				Location:       profile.LocationHome,
				CulturalNotes:  []string{t.Notes},
			}
			if med.Frequency == profile.FrequencyAsNeeded {
				dose.CulturalNotes = append(dose.CulturalNotes,
					"as-needed medication: this slot is advisory only")
			}
			if norm.Preferences.Prayer.Enabled && len(prayers) > 0 {
				e.bufferAroundPrayers(&dose, norm, prayers)
			}
			doses = append(doses, dose)
		}
	}
	return doses
}

// bufferAroundPrayers moves a dose that lands inside a prayer buffer to
// just after the prayer, noting the adjustment on the dose. A moved dose is
// re-checked against every window: with tight prayer spacing (maghrib into
// isyak) one move can land inside the next buffer.
func (e *Engine) bufferAroundPrayers(dose *profile.ScheduledDose, norm profile.CulturalProfile, prayers []profile.PrayerWindow) {
	buffer := norm.Preferences.Prayer.BufferMinutes
	for pass := 0; pass <= len(prayers); pass++ {
		moved := false
		for _, pw := range prayers {
			t := pw.Time.Add(norm.Preferences.Prayer.Adjustments[pw.Name])
			if profile.AbsMinutesApart(dose.Time, t) >= buffer {
				continue
			}
			dose.Time = t.Add(buffer)
			dose.CulturalNotes = append(dose.CulturalNotes,
				fmt.Sprintf("moved %d minutes after %s prayer", buffer, pw.Name))
			moved = true
		}
		if !moved {
			return
		}
	}
}

// assembleRecommendations packages the guidance into prioritized records.
// Degraded sections always surface as high-priority entries: silent
// degradation is a defect.
func (e *Engine) assembleRecommendations(g Guidance, fam family.Result, degraded []string) []conflict.Recommendation {
	var recs []conflict.Recommendation

	for _, section := range degraded {
		recs = append(recs, e.recommender.Package("degradation", profile.UrgencyHigh,
			fmt.Sprintf("the %s assessment could not complete; review that aspect manually", section)))
	}

	if g.Dietary.OverallCompliance == dietary.NeedsReview {
		recs = append(recs, e.recommender.Package("dietary", profile.UrgencyHigh,
			"one or more medications conflict with the dietary profile; see the dietary assessment"))
	}
	switch g.Traditional.SafetyLevel {
	case traditional.SafetyUnsafe:
		recs = append(recs, e.recommender.Package("traditional", profile.UrgencyHigh,
			"a declared traditional remedy is unsafe with the current medications; stop combining until reviewed"))
	case traditional.SafetyCaution:
		recs = append(recs, e.recommender.Package("traditional", profile.UrgencyMedium,
			"traditional remedies need timing separation from some medications; see the adjustments"))
	}

	for _, r := range fam.Recommendations {
		recs = append(recs, e.recommender.Package("family", profile.UrgencyMedium, r))
	}

	recs = append(recs,
		e.recommender.Package("general", profile.UrgencyLow, "doses have been aligned with the household meal pattern"),
		e.recommender.Package("general", profile.UrgencyLow, "review the schedule with your pharmacist"),
	)
	return recs
}

// fallbackSchedule produces the conservative default schedule plus exactly
// one high-priority recommendation explaining why personalization is off.
func (e *Engine) fallbackSchedule(meds []profile.Medication, reason string) Result {
	var doses []profile.ScheduledDose
	for _, med := range meds {
		times, ok := fallbackTimes[med.Frequency]
		if !ok {
			times = fallbackTimes[profile.FrequencyOnceDaily]
		}
		for _, t := range times {
			doses = append(doses, profile.ScheduledDose{
				MedicationID:   med.ID,
				MedicationName: med.Name,
				Time:           t,
				Dose:           med.Dosage,
				MealRelation:   profile.RelationIndependent,
				Meal:           "independent",
				Location:       profile.LocationHome,
				CulturalNotes:  []string{"conservative default time"},
			})
		}
	}

	e.logger.Warn("returning fallback schedule", zap.String("reason", reason))

	return Result{
		OptimizedSchedule: doses,
		Recommendations: []conflict.Recommendation{
			e.recommender.Package("degradation", profile.UrgencyHigh, fallbackMessage),
		},
		Fallback: true,
	}
}

// safeSection runs fn, converting a panic into a recorded degraded section
// so one failing component never takes down the whole schedule.
func (e *Engine) safeSection(name string, degraded *[]string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("component failed", zap.String("section", name), zap.Any("panic", r))
			*degraded = append(*degraded, name)
		}
	}()
	fn()
}
