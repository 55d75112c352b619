// Package family assigns household supervisors to scheduled doses and
// surfaces coordination gaps.
package family

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/kampungcare/medsched/internal/cultural/profile"
)

// ChallengeType classifies a coordination challenge.
type ChallengeType string

const (
	ChallengeSupervision   ChallengeType = "supervision"
	ChallengeScheduling    ChallengeType = "scheduling"
	ChallengeCommunication ChallengeType = "communication"
)

// Solution is one ranked candidate fix for a challenge. Scores run 1 (poor)
// to 5 (excellent).
type Solution struct {
	Description              string `json:"description"`
	CulturalAppropriateness  int    `json:"cultural_appropriateness"`
	ImplementationDifficulty int    `json:"implementation_difficulty"`
	Effectiveness            int    `json:"effectiveness"`
}

// Challenge is a detected coordination problem with candidate solutions.
type Challenge struct {
	Type          ChallengeType     `json:"type"`
	Severity      profile.Severity  `json:"severity"`
	Description   string            `json:"description"`
	Time          profile.TimeOfDay `json:"time"`
	AffectedDoses []string          `json:"affected_doses"`
	Solutions     []Solution        `json:"solutions"`
}

// CulturalAdaptation records how household hierarchy shapes communication.
// Advisory only: it informs recommendation text, never scheduling decisions.
type CulturalAdaptation struct {
	Aspect   string `json:"aspect"`
	Style    string `json:"style"`
	Guidance string `json:"guidance"`
}

// Result is the family coordination outcome.
type Result struct {
	Doses               []profile.ScheduledDose `json:"doses"`
	Challenges          []Challenge             `json:"challenges"`
	CulturalAdaptations []CulturalAdaptation    `json:"cultural_adaptations"`
	Recommendations     []string                `json:"recommendations"`
}

// Coordinator assigns supervisors and generates family guidance.
type Coordinator struct {
	logger *zap.Logger
}

// NewCoordinator creates a coordinator.
func NewCoordinator(logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{logger: logger}
}

// Coordinate assigns a supervisor to every dose that requires supervision
// and records a challenge for each staffing gap. The input doses are never
// mutated; the result carries fresh copies.
func (c *Coordinator) Coordinate(doses []profile.ScheduledDose, household profile.Household, p profile.CulturalProfile) Result {
	h := profile.NormalizeHousehold(household)
	norm := profile.Normalize(&p)

	out := Result{Doses: copyDoses(doses)}
	recipient, hasRecipient := findMember(h.Members, norm.PatientID)
	needsSupervision := supervisionRequired(recipient, hasRecipient, norm)

	var gaps []int
	if needsSupervision {
		for i := range out.Doses {
			primary, backup := c.findSupervisors(h.Members, out.Doses[i].Time)
			if primary == nil {
				gaps = append(gaps, i)
				continue
			}
			assignment := &profile.SupervisorAssignment{
				MemberID:   primary.ID,
				MemberName: primary.Name,
			}
			if backup != nil {
				assignment.Backup = backup.Name
				out.Doses[i].BackupPlans = append(out.Doses[i].BackupPlans,
					fmt.Sprintf("%s takes over if %s is unavailable", backup.Name, primary.Name))
			}
			out.Doses[i].Supervisor = assignment
		}
		out.Challenges = append(out.Challenges, c.gapChallenges(out.Doses, gaps)...)
	}

	out.CulturalAdaptations = hierarchyAdaptations(h)
	out.Recommendations = append(out.Recommendations, c.ElderlyRecommendations(h, norm)...)

	if hasRecipient && recipient.Role == profile.RoleChild {
		notes := c.OptimizeChildrenScheduling(out.Doses, recipient)
		out.Recommendations = append(out.Recommendations, notes...)
	}

	c.logger.Debug("family coordination complete",
		zap.Int("doses", len(out.Doses)),
		zap.Int("challenges", len(out.Challenges)),
		zap.Bool("supervision_required", needsSupervision))

	return out
}

// supervisionRequired applies the supervision criteria: under 18, impaired
// cognition, or explicitly flagged. Without a resolvable recipient the
// household composition decides conservatively.
func supervisionRequired(recipient profile.FamilyMember, found bool, p profile.CulturalProfile) bool {
	if found {
		return recipient.Age < 18 ||
			recipient.CognitiveStatus == profile.CognitionImpaired ||
			recipient.NeedsSupervision
	}
	return p.Preferences.Family.ElderlyMembers > 0 || len(p.Preferences.Family.ChildrenAges) > 0
}

// findSupervisors returns the best primary and backup supervisor covering t.
// Candidates must qualify (adult caregiver, clear cognition) and have an
// overlapping window; higher reliability wins, then household hierarchy.
func (c *Coordinator) findSupervisors(members []profile.FamilyMember, t profile.TimeOfDay) (primary, backup *profile.FamilyMember) {
	type candidate struct {
		member profile.FamilyMember
		tier   int
	}
	var candidates []candidate
	for _, m := range members {
		if !m.CanSupervise() {
			continue
		}
		tier := bestCoveringTier(m.Availability, t)
		if tier < 0 {
			continue
		}
		candidates = append(candidates, candidate{member: m, tier: tier})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].tier != candidates[j].tier {
			return candidates[i].tier > candidates[j].tier
		}
		if candidates[i].member.HierarchyRank != candidates[j].member.HierarchyRank {
			return candidates[i].member.HierarchyRank < candidates[j].member.HierarchyRank
		}
		return candidates[i].member.Name < candidates[j].member.Name
	})

	if len(candidates) == 0 {
		return nil, nil
	}
	primary = &candidates[0].member
	if len(candidates) > 1 {
		backup = &candidates[1].member
	}
	return primary, backup
}

// bestCoveringTier returns the highest reliability tier of any window
// covering t (2=high, 1=medium, 0=low), or -1 when none covers it.
func bestCoveringTier(windows []profile.AvailabilityWindow, t profile.TimeOfDay) int {
	best := -1
	for _, w := range windows {
		if !w.Covers(t) {
			continue
		}
		tier := 0
		switch w.Reliability {
		case profile.ReliabilityHigh:
			tier = 2
		case profile.ReliabilityMedium:
			tier = 1
		}
		if tier > best {
			best = tier
		}
	}
	return best
}

// gapChallenges turns unassigned doses into supervision challenges. Doses
// that coincide in the same slot escalate severity: two or more unsupervised
// doses at one time with no backup is a high-severity gap.
func (c *Coordinator) gapChallenges(doses []profile.ScheduledDose, gaps []int) []Challenge {
	if len(gaps) == 0 {
		return nil
	}

	bySlot := map[profile.TimeOfDay][]int{}
	for _, i := range gaps {
		bySlot[doses[i].Time] = append(bySlot[doses[i].Time], i)
	}

	slots := make([]profile.TimeOfDay, 0, len(bySlot))
	for t := range bySlot {
		slots = append(slots, t)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })

	var out []Challenge
	for _, t := range slots {
		idxs := bySlot[t]
		severity := profile.SeverityMedium
		if len(idxs) >= 2 {
			severity = profile.SeverityHigh
		}
		var affected []string
		for _, i := range idxs {
			affected = append(affected, doses[i].MedicationID)
		}
		out = append(out, Challenge{
			Type:          ChallengeSupervision,
			Severity:      severity,
			Description:   fmt.Sprintf("no supervisor available for the %s dose slot", t),
			Time:          t,
			AffectedDoses: affected,
			Solutions: []Solution{
				{
					Description:              "shift the dose into a caregiver's availability window",
					CulturalAppropriateness:  5,
					ImplementationDifficulty: 2,
					Effectiveness:            4,
				},
				{
					Description:              "arrange a neighbour or extended-family member to step in",
					CulturalAppropriateness:  4,
					ImplementationDifficulty: 3,
					Effectiveness:            3,
				},
				{
					Description:              "set a phone reminder with a follow-up call from the caregiver",
					CulturalAppropriateness:  4,
					ImplementationDifficulty: 1,
					Effectiveness:            2,
				},
			},
		})
	}
	return out
}

// hierarchyAdaptations records decision-making and elder-communication
// styles as advisory adaptations.
func hierarchyAdaptations(h profile.Household) []CulturalAdaptation {
	var out []CulturalAdaptation

	switch h.DecisionStyle {
	case profile.DecisionPatriarch, profile.DecisionMatriarch:
		out = append(out, CulturalAdaptation{
			Aspect: "decision_making",
			Style:  string(h.DecisionStyle),
			Guidance: "route schedule changes through the head of household before " +
				"informing other members",
		})
	case profile.DecisionDemocratic:
		out = append(out, CulturalAdaptation{
			Aspect:   "decision_making",
			Style:    string(h.DecisionStyle),
			Guidance: "discuss schedule changes at a family gathering so everyone hears the plan",
		})
	default:
		out = append(out, CulturalAdaptation{
			Aspect:   "decision_making",
			Style:    string(profile.DecisionShared),
			Guidance: "agree schedule changes between the main caregivers",
		})
	}

	switch h.ElderCommunication {
	case profile.CommunicationIntermediary:
		out = append(out, CulturalAdaptation{
			Aspect:   "elder_communication",
			Style:    string(h.ElderCommunication),
			Guidance: "deliver medication changes to elders through the designated family intermediary",
		})
	case profile.CommunicationDirect:
		out = append(out, CulturalAdaptation{
			Aspect:   "elder_communication",
			Style:    string(h.ElderCommunication),
			Guidance: "explain changes to elders directly and confirm understanding",
		})
	default:
		out = append(out, CulturalAdaptation{
			Aspect:   "elder_communication",
			Style:    string(profile.CommunicationRespectful),
			Guidance: "frame medication reminders deferentially when addressing elders",
		})
	}

	return out
}

// ElderlyRecommendations produces advisory guidance for households with
// elderly members.
func (c *Coordinator) ElderlyRecommendations(h profile.Household, p profile.CulturalProfile) []string {
	if p.Preferences.Family.ElderlyMembers == 0 {
		return nil
	}

	recs := []string{
		"use a weekly pill organizer reviewed by the caregiver every Sunday",
		"keep a large-print medication list next to the elder's usual seat",
	}
	if p.PrimaryCulture == profile.CultureMalay && p.Preferences.Prayer.Enabled {
		recs = append(recs,
			"anchor morning and evening doses to Subuh and Maghrib prayers as memory cues")
	}
	for _, m := range h.Members {
		if m.Role == profile.RoleElder && m.MobilityStatus != profile.MobilityIndependent {
			recs = append(recs,
				fmt.Sprintf("store %s's medications within reach of their resting area", m.Name))
			break
		}
	}
	return recs
}

// OptimizeChildrenScheduling classifies each dose as a school or home dose
// for a child recipient and attaches school coordination notes.
func (c *Coordinator) OptimizeChildrenScheduling(doses []profile.ScheduledDose, child profile.FamilyMember) []string {
	var notes []string
	schoolDoses := 0
	for i := range doses {
		doses[i].Location = profile.LocationHome
		for _, w := range child.SchoolSchedule {
			if w.Covers(doses[i].Time) {
				doses[i].Location = profile.LocationSchool
				doses[i].CulturalNotes = append(doses[i].CulturalNotes,
					"dose falls within school hours; coordinate with the school office")
				schoolDoses++
				break
			}
		}
	}
	if schoolDoses > 0 {
		notes = append(notes,
			fmt.Sprintf("%d dose(s) fall during school hours: inform the class teacher and send labelled doses in the school bag", schoolDoses),
			"ask the prescriber whether timings can shift to before and after school")
	}
	return notes
}

func copyDoses(doses []profile.ScheduledDose) []profile.ScheduledDose {
	out := make([]profile.ScheduledDose, len(doses))
	copy(out, doses)
	for i := range out {
		out[i].CulturalNotes = append([]string(nil), doses[i].CulturalNotes...)
		out[i].BackupPlans = append([]string(nil), doses[i].BackupPlans...)
	}
	return out
}

func findMember(members []profile.FamilyMember, id string) (profile.FamilyMember, bool) {
	if id == "" {
		return profile.FamilyMember{}, false
	}
	for _, m := range members {
		if m.ID == id {
			return m, true
		}
	}
	return profile.FamilyMember{}, false
}
