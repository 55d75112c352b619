package family

import (
	"testing"

	"github.com/kampungcare/medsched/internal/cultural/profile"
)

var tod = profile.MustTimeOfDay

func caregiver(id, name string, windows ...profile.AvailabilityWindow) profile.FamilyMember {
	return profile.FamilyMember{
		ID:              id,
		Name:            name,
		Age:             42,
		Role:            profile.RoleCaregiver,
		CognitiveStatus: profile.CognitionClear,
		Availability:    windows,
	}
}

func elderlyPatient(id string) profile.FamilyMember {
	return profile.FamilyMember{
		ID:              id,
		Name:            "Pak Samad",
		Age:             74,
		Role:            profile.RoleElder,
		CognitiveStatus: profile.CognitionImpaired,
	}
}

func doseAt(medID string, t profile.TimeOfDay) profile.ScheduledDose {
	return profile.ScheduledDose{MedicationID: medID, MedicationName: medID, Time: t}
}

func TestSupervisorAssigned(t *testing.T) {
	c := NewCoordinator(nil)
	household := profile.Household{
		Members: []profile.FamilyMember{
			elderlyPatient("p1"),
			caregiver("c1", "Aminah", profile.AvailabilityWindow{
				Start: tod("06:00"), End: tod("22:00"), Reliability: profile.ReliabilityHigh,
			}),
		},
	}
	p := profile.CulturalProfile{PatientID: "p1"}

	got := c.Coordinate([]profile.ScheduledDose{doseAt("m1", tod("07:30"))}, household, p)
	if len(got.Doses) != 1 {
		t.Fatalf("expected 1 dose, got %d", len(got.Doses))
	}
	sup := got.Doses[0].Supervisor
	if sup == nil {
		t.Fatal("expected a supervisor assignment")
	}
	if sup.MemberID != "c1" {
		t.Errorf("supervisor = %s, want c1", sup.MemberID)
	}
	if len(got.Challenges) != 0 {
		t.Errorf("expected no challenges, got %d", len(got.Challenges))
	}
}

func TestBackupSupervisorAssigned(t *testing.T) {
	c := NewCoordinator(nil)
	household := profile.Household{
		Members: []profile.FamilyMember{
			elderlyPatient("p1"),
			caregiver("c1", "Aminah", profile.AvailabilityWindow{
				Start: tod("06:00"), End: tod("22:00"), Reliability: profile.ReliabilityHigh,
			}),
			caregiver("c2", "Zainal", profile.AvailabilityWindow{
				Start: tod("07:00"), End: tod("09:00"), Reliability: profile.ReliabilityMedium,
			}),
		},
	}
	p := profile.CulturalProfile{PatientID: "p1"}

	got := c.Coordinate([]profile.ScheduledDose{doseAt("m1", tod("07:30"))}, household, p)
	sup := got.Doses[0].Supervisor
	if sup == nil {
		t.Fatal("expected a supervisor")
	}
	// High-reliability window wins primary; the other becomes backup.
	if sup.MemberID != "c1" || sup.Backup != "Zainal" {
		t.Errorf("got primary %s backup %q, want c1 with Zainal backup", sup.MemberID, sup.Backup)
	}
	if len(got.Doses[0].BackupPlans) == 0 {
		t.Error("backup assignment should add a backup plan")
	}
}

func TestSupervisionGapBecomesChallenge(t *testing.T) {
	c := NewCoordinator(nil)
	household := profile.Household{
		Members: []profile.FamilyMember{
			elderlyPatient("p1"),
			caregiver("c1", "Aminah", profile.AvailabilityWindow{
				Start: tod("18:00"), End: tod("22:00"), Reliability: profile.ReliabilityHigh,
			}),
		},
	}
	p := profile.CulturalProfile{PatientID: "p1"}

	got := c.Coordinate([]profile.ScheduledDose{doseAt("m1", tod("07:30"))}, household, p)
	if got.Doses[0].Supervisor != nil {
		t.Error("no window covers 07:30; no supervisor expected")
	}
	if len(got.Challenges) != 1 {
		t.Fatalf("expected 1 challenge, got %d", len(got.Challenges))
	}
	ch := got.Challenges[0]
	if ch.Type != ChallengeSupervision {
		t.Errorf("challenge type = %s, want supervision", ch.Type)
	}
	if ch.Severity != profile.SeverityMedium {
		t.Errorf("single gap severity = %s, want medium", ch.Severity)
	}
	if len(ch.Solutions) == 0 {
		t.Error("challenge must carry candidate solutions")
	}
	for _, s := range ch.Solutions {
		if s.CulturalAppropriateness == 0 || s.Effectiveness == 0 {
			t.Error("solutions must be scored")
		}
	}
}

func TestCoincidingGapsEscalateToHigh(t *testing.T) {
	c := NewCoordinator(nil)
	household := profile.Household{
		Members: []profile.FamilyMember{elderlyPatient("p1")},
	}
	p := profile.CulturalProfile{PatientID: "p1"}

	doses := []profile.ScheduledDose{
		doseAt("m1", tod("07:30")),
		doseAt("m2", tod("07:30")),
	}
	got := c.Coordinate(doses, household, p)
	if len(got.Challenges) != 1 {
		t.Fatalf("expected one grouped challenge, got %d", len(got.Challenges))
	}
	if got.Challenges[0].Severity != profile.SeverityHigh {
		t.Errorf("two coinciding unsupervised doses should be high, got %s", got.Challenges[0].Severity)
	}
	if len(got.Challenges[0].AffectedDoses) != 2 {
		t.Errorf("expected 2 affected doses, got %v", got.Challenges[0].AffectedDoses)
	}
}

func TestNoSupervisionNeededForIndependentAdult(t *testing.T) {
	c := NewCoordinator(nil)
	household := profile.Household{
		Members: []profile.FamilyMember{
			{ID: "p1", Name: "Mei Ling", Age: 45, CognitiveStatus: profile.CognitionClear},
		},
	}
	p := profile.CulturalProfile{PatientID: "p1"}

	got := c.Coordinate([]profile.ScheduledDose{doseAt("m1", tod("08:00"))}, household, p)
	if got.Doses[0].Supervisor != nil {
		t.Error("independent adult needs no supervisor")
	}
	if len(got.Challenges) != 0 {
		t.Errorf("expected no challenges, got %d", len(got.Challenges))
	}
}

func TestChildSchoolDoseClassification(t *testing.T) {
	c := NewCoordinator(nil)
	child := profile.FamilyMember{
		ID: "p1", Name: "Arjun", Age: 9,
		SchoolSchedule: []profile.AvailabilityWindow{
			{Start: tod("07:30"), End: tod("13:30")},
		},
	}
	household := profile.Household{
		Members: []profile.FamilyMember{
			child,
			caregiver("c1", "Priya", profile.AvailabilityWindow{
				Start: tod("06:00"), End: tod("22:00"), Reliability: profile.ReliabilityHigh,
			}),
		},
	}
	p := profile.CulturalProfile{PatientID: "p1"}

	doses := []profile.ScheduledDose{
		doseAt("m1", tod("12:00")),
		doseAt("m1", tod("19:00")),
	}
	got := c.Coordinate(doses, household, p)

	if got.Doses[0].Location != profile.LocationSchool {
		t.Errorf("12:00 dose location = %s, want school", got.Doses[0].Location)
	}
	if got.Doses[1].Location != profile.LocationHome {
		t.Errorf("19:00 dose location = %s, want home", got.Doses[1].Location)
	}
	if len(got.Recommendations) == 0 {
		t.Error("school dose should produce coordination recommendations")
	}
}

func TestCulturalAdaptationsAreAdvisory(t *testing.T) {
	c := NewCoordinator(nil)
	household := profile.Household{
		Members: []profile.FamilyMember{
			elderlyPatient("p1"),
			caregiver("c1", "Aminah", profile.AvailabilityWindow{
				Start: tod("06:00"), End: tod("22:00"), Reliability: profile.ReliabilityHigh,
			}),
		},
		DecisionStyle:      profile.DecisionPatriarch,
		ElderCommunication: profile.CommunicationIntermediary,
	}
	p := profile.CulturalProfile{PatientID: "p1"}

	withStyle := c.Coordinate([]profile.ScheduledDose{doseAt("m1", tod("07:30"))}, household, p)

	household.DecisionStyle = profile.DecisionDemocratic
	household.ElderCommunication = profile.CommunicationDirect
	otherStyle := c.Coordinate([]profile.ScheduledDose{doseAt("m1", tod("07:30"))}, household, p)

	// Styles change the adaptation records, never the assignment.
	if withStyle.Doses[0].Supervisor == nil || otherStyle.Doses[0].Supervisor == nil {
		t.Fatal("both runs should assign the supervisor")
	}
	if withStyle.Doses[0].Supervisor.MemberID != otherStyle.Doses[0].Supervisor.MemberID {
		t.Error("hierarchy style must not change scheduling decisions")
	}
	if len(withStyle.CulturalAdaptations) != 2 {
		t.Fatalf("expected 2 adaptations, got %d", len(withStyle.CulturalAdaptations))
	}
	if withStyle.CulturalAdaptations[0].Guidance == otherStyle.CulturalAdaptations[0].Guidance {
		t.Error("different styles should produce different guidance text")
	}
}

func TestElderlyRecommendations(t *testing.T) {
	c := NewCoordinator(nil)
	p := profile.CulturalProfile{
		PrimaryCulture: profile.CultureMalay,
		Preferences: profile.Preferences{
			Prayer: profile.PrayerPreferences{Enabled: true},
			Family: profile.FamilySummary{ElderlyMembers: 1},
		},
	}
	recs := c.ElderlyRecommendations(profile.Household{}, profile.Normalize(&p))
	if len(recs) < 3 {
		t.Fatalf("expected pill organizer, print, and prayer-cue advice, got %v", recs)
	}
}
