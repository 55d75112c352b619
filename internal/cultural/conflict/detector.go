// Package conflict scans assembled schedules for timing clashes and
// packages prioritized, multi-language-ready recommendations.
package conflict

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kampungcare/medsched/internal/cultural/family"
	"github.com/kampungcare/medsched/internal/cultural/profile"
)

// Type classifies a detected conflict.
type Type string

const (
	TypeTiming      Type = "timing"
	TypeSupervision Type = "supervision"
)

// Conflict is a detected scheduling problem. Every conflict carries at
// least one suggestion and a culturalAlternatives list; producing one
// without suggestions is a defect.
type Conflict struct {
	Type                 Type              `json:"type"`
	Severity             profile.Severity  `json:"severity"`
	Description          string            `json:"description"`
	MedicationIDs        []string          `json:"medication_ids"`
	Time                 profile.TimeOfDay `json:"time"`
	Suggestions          []string          `json:"suggestions"`
	CulturalAlternatives []string          `json:"cultural_alternatives"`
}

// Config holds detector thresholds.
type Config struct {
	// ProximityThreshold is the minimum spacing, in minutes, between any
	// two doses before they are flagged as a timing conflict.
	ProximityThreshold int
}

// DefaultConfig returns the standard detection thresholds.
func DefaultConfig() Config {
	return Config{ProximityThreshold: 10}
}

// Detector finds conflicts across an assembled schedule.
type Detector struct {
	config Config
	logger *zap.Logger
}

// NewDetector creates a detector. A zero threshold falls back to defaults.
func NewDetector(cfg Config, logger *zap.Logger) *Detector {
	if cfg.ProximityThreshold <= 0 {
		cfg.ProximityThreshold = DefaultConfig().ProximityThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{config: cfg, logger: logger}
}

// Detect scans dose pairs for timing proximity and converts supervision
// challenges into conflicts.
func (d *Detector) Detect(doses []profile.ScheduledDose, challenges []family.Challenge) []Conflict {
	var out []Conflict

	for i := 0; i < len(doses); i++ {
		for j := i + 1; j < len(doses); j++ {
			apart := profile.AbsMinutesApart(doses[i].Time, doses[j].Time)
			if apart > d.config.ProximityThreshold {
				continue
			}
			out = append(out, Conflict{
				Type:     TypeTiming,
				Severity: profile.SeverityMedium,
				Description: fmt.Sprintf("%s and %s are scheduled %d minutes apart",
					doses[i].MedicationName, doses[j].MedicationName, apart),
				MedicationIDs: []string{doses[i].MedicationID, doses[j].MedicationID},
				Time:          doses[i].Time,
				Suggestions: []string{
					fmt.Sprintf("separate the doses by at least %d minutes", d.config.ProximityThreshold+20),
					"confirm with the pharmacist whether the medications may be taken together",
				},
				CulturalAlternatives: []string{
					"anchor one dose to a different meal of the day",
					"use the gap between meals for the medication that does not need food",
				},
			})
		}
	}

	for _, ch := range challenges {
		if ch.Type != family.ChallengeSupervision {
			continue
		}
		c := Conflict{
			Type:          TypeSupervision,
			Severity:      ch.Severity,
			Description:   ch.Description,
			MedicationIDs: append([]string(nil), ch.AffectedDoses...),
			Time:          ch.Time,
			CulturalAlternatives: []string{
				"involve extended family living nearby, a common arrangement in multigenerational households",
				"align the dose with a daily family gathering so someone is always present",
			},
		}
		for _, s := range ch.Solutions {
			c.Suggestions = append(c.Suggestions, s.Description)
		}
		if len(c.Suggestions) == 0 {
			c.Suggestions = []string{"review caregiver availability windows with the family"}
		}
		out = append(out, c)
	}

	d.logger.Debug("conflict scan complete", zap.Int("conflicts", len(out)))
	return out
}
