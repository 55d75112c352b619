package profile

// Culture identifies the primary cultural background of a patient.
type Culture string

const (
	CultureMalay   Culture = "malay"
	CultureChinese Culture = "chinese"
	CultureIndian  Culture = "indian"
	CultureMixed   Culture = "mixed"
)

// Known reports whether the culture has a dedicated meal pattern.
func (c Culture) Known() bool {
	switch c {
	case CultureMalay, CultureChinese, CultureIndian, CultureMixed:
		return true
	}
	return false
}

// Religion identifies the religious observance relevant to scheduling.
type Religion string

const (
	ReligionIslam     Religion = "islam"
	ReligionBuddhism  Religion = "buddhism"
	ReligionHinduism  Religion = "hinduism"
	ReligionTaoism    Religion = "taoism"
	ReligionChristian Religion = "christian"
	ReligionNone      Religion = "none"
)

// MealRelation is a medication's required timing relative to meals.
type MealRelation string

const (
	RelationBefore      MealRelation = "before"
	RelationWith        MealRelation = "with"
	RelationAfter       MealRelation = "after"
	RelationIndependent MealRelation = "independent"
)

// Frequency is the nominal daily dosing frequency of a medication.
type Frequency string

const (
	FrequencyOnceDaily       Frequency = "once_daily"
	FrequencyTwiceDaily      Frequency = "twice_daily"
	FrequencyThreeTimesDaily Frequency = "three_times_daily"
	FrequencyFourTimesDaily  Frequency = "four_times_daily"
	FrequencyAsNeeded        Frequency = "as_needed"
)

// DosesPerDay returns the number of daily doses implied by the frequency.
// As-needed medications schedule a single advisory slot.
func (f Frequency) DosesPerDay() int {
	switch f {
	case FrequencyTwiceDaily:
		return 2
	case FrequencyThreeTimesDaily:
		return 3
	case FrequencyFourTimesDaily:
		return 4
	default:
		return 1
	}
}

// Urgency grades a dietary or safety issue.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Severity grades a conflict or coordination challenge.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Reliability tiers an availability window by how dependable it is.
type Reliability string

const (
	ReliabilityHigh   Reliability = "high"
	ReliabilityMedium Reliability = "medium"
	ReliabilityLow    Reliability = "low"
)

// Medication is a prescribed medication as supplied by the caller.
// Read-only to the engine.
type Medication struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Dosage       string          `json:"dosage"`
	Frequency    Frequency       `json:"frequency"`
	Timing       []NominalTiming `json:"timing"`
	Instructions string          `json:"instructions"`
	Ingredients  []string        `json:"ingredients"`
}

// NominalTiming is a caller-supplied nominal dosing slot.
type NominalTiming struct {
	Time TimeOfDay `json:"time"`
	Dose string    `json:"dose"`
}

// PrayerPreferences holds prayer-time scheduling settings.
type PrayerPreferences struct {
	Enabled       bool `json:"enabled"`
	BufferMinutes int  `json:"buffer_minutes"`
	// Adjustments shifts individual prayers by minutes, keyed by prayer name.
	Adjustments map[string]int `json:"adjustments"`
}

// DietaryPreferences holds dietary and traditional-medicine declarations.
type DietaryPreferences struct {
	Halal                bool     `json:"halal"`
	Vegetarian           bool     `json:"vegetarian"`
	Restrictions         []string `json:"restrictions"`
	TraditionalMedicines []string `json:"traditional_medicines"`
}

// FamilySummary is the household composition summary carried on a profile.
type FamilySummary struct {
	ElderlyMembers int   `json:"elderly_members"`
	ChildrenAges   []int `json:"children_ages"`
	HasCaregiver   bool  `json:"has_caregiver"`
}

// Preferences groups the per-profile scheduling preferences.
type Preferences struct {
	Prayer  PrayerPreferences  `json:"prayer"`
	Dietary DietaryPreferences `json:"dietary"`
	Family  FamilySummary      `json:"family"`
}

// CulturalProfile is the immutable cultural/religious snapshot for one
// scheduling call.
type CulturalProfile struct {
	PatientID      string      `json:"patient_id"`
	PrimaryCulture Culture     `json:"primary_culture"`
	Religion       Religion    `json:"religion"`
	Language       string      `json:"language"`
	Location       string      `json:"location"`
	Timezone       string      `json:"timezone"`
	Preferences    Preferences `json:"preferences"`
}

// PrayerWindow is a single resolved prayer time, supplied by an external
// prayer-time provider. The engine never computes these.
type PrayerWindow struct {
	Name string    `json:"name"`
	Time TimeOfDay `json:"time"`
}

// Role is a family member's household role.
type Role string

const (
	RoleCaregiver Role = "caregiver"
	RoleElder     Role = "elder"
	RoleChild     Role = "child"
	RoleMember    Role = "member"
)

// CognitiveStatus describes a member's cognitive capacity for supervision.
type CognitiveStatus string

const (
	CognitionClear    CognitiveStatus = "clear"
	CognitionImpaired CognitiveStatus = "impaired"
)

// MobilityStatus describes a member's mobility.
type MobilityStatus string

const (
	MobilityIndependent MobilityStatus = "independent"
	MobilityAssisted    MobilityStatus = "assisted"
	MobilityBedbound    MobilityStatus = "bedbound"
)

// AvailabilityWindow is a daily window during which a member is available.
type AvailabilityWindow struct {
	Start       TimeOfDay   `json:"start"`
	End         TimeOfDay   `json:"end"`
	Reliability Reliability `json:"reliability"`
}

// Covers reports whether t falls inside the window.
func (w AvailabilityWindow) Covers(t TimeOfDay) bool {
	return t.Between(w.Start, w.End)
}

// FamilyMember is one member of the household.
type FamilyMember struct {
	ID                string               `json:"id"`
	Name              string               `json:"name"`
	Age               int                  `json:"age"`
	Role              Role                 `json:"role"`
	CognitiveStatus   CognitiveStatus      `json:"cognitive_status"`
	MobilityStatus    MobilityStatus       `json:"mobility_status"`
	Availability      []AvailabilityWindow `json:"availability"`
	CulturalRole      string               `json:"cultural_role"`
	HierarchyRank     int                  `json:"hierarchy_rank"`
	NeedsSupervision  bool                 `json:"needs_supervision"`
	SchoolSchedule    []AvailabilityWindow `json:"school_schedule"`
	PreferredLanguage string               `json:"preferred_language"`
}

// IsAdult reports whether the member is 18 or older.
func (m FamilyMember) IsAdult() bool { return m.Age >= 18 }

// CanSupervise reports whether the member qualifies as a dose supervisor.
func (m FamilyMember) CanSupervise() bool {
	return m.Role == RoleCaregiver && m.IsAdult() && m.CognitiveStatus == CognitionClear
}

// Gathering is a recurring household gathering (prayer, family meeting).
type Gathering struct {
	Name string    `json:"name"`
	Time TimeOfDay `json:"time"`
	Days []string  `json:"days"`
}

// HouseholdRoutine aggregates the household's daily rhythm.
type HouseholdRoutine struct {
	WakingTime   TimeOfDay            `json:"waking_time"`
	SleepingTime TimeOfDay            `json:"sleeping_time"`
	SharedMeals  map[string]TimeOfDay `json:"shared_meals"`
	Gatherings   []Gathering          `json:"gatherings"`
}

// DecisionStyle is the household decision-making style. Advisory only.
type DecisionStyle string

const (
	DecisionPatriarch  DecisionStyle = "patriarch"
	DecisionMatriarch  DecisionStyle = "matriarch"
	DecisionShared     DecisionStyle = "shared"
	DecisionDemocratic DecisionStyle = "democratic"
)

// ElderCommunication is the elder-communication style. Advisory only.
type ElderCommunication string

const (
	CommunicationRespectful   ElderCommunication = "respectful"
	CommunicationDirect       ElderCommunication = "direct"
	CommunicationIntermediary ElderCommunication = "through_intermediary"
)

// Household is the household structure supplied per scheduling call.
type Household struct {
	Members            []FamilyMember     `json:"members"`
	Routine            HouseholdRoutine   `json:"routine"`
	DecisionStyle      DecisionStyle      `json:"decision_style"`
	ElderCommunication ElderCommunication `json:"elder_communication"`
}

// SupervisorAssignment records the member responsible for a dose.
type SupervisorAssignment struct {
	MemberID   string `json:"member_id"`
	MemberName string `json:"member_name"`
	Backup     string `json:"backup"`
}

// DoseLocation classifies where a dose is expected to be taken.
type DoseLocation string

const (
	LocationHome   DoseLocation = "home"
	LocationSchool DoseLocation = "school"
)

// ScheduledDose is one concrete dosing slot produced by the engine.
// Produced fresh per call; never persisted by the core.
type ScheduledDose struct {
	MedicationID   string                `json:"medication_id"`
	MedicationName string                `json:"medication_name"`
	Time           TimeOfDay             `json:"time"`
	Dose           string                `json:"dose"`
	MealRelation   MealRelation          `json:"meal_relation"`
	Meal           string                `json:"meal"`
	Supervisor     *SupervisorAssignment `json:"supervisor"`
	Location       DoseLocation          `json:"location"`
	CulturalNotes  []string              `json:"cultural_notes"`
	BackupPlans    []string              `json:"backup_plans"`
}
