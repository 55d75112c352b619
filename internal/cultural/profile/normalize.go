package profile

// Default values applied during normalization.
const (
	DefaultLanguage      = "en"
	DefaultTimezone      = "Asia/Kuala_Lumpur"
	DefaultPrayerBuffer  = 30
	DefaultWakingTime    = TimeOfDay(6 * 60)
	DefaultSleepingTime  = TimeOfDay(22*60 + 30)
	DefaultHierarchyRank = 99
)

// Normalize produces a fully-populated copy of p with explicit defaults so
// downstream components never need defensive nil checks. A nil profile yields
// the mixed-culture default profile.
func Normalize(p *CulturalProfile) CulturalProfile {
	if p == nil {
		return defaultProfile()
	}

	out := *p
	if !out.PrimaryCulture.Known() {
		out.PrimaryCulture = CultureMixed
	}
	if out.Religion == "" {
		out.Religion = defaultReligionFor(out.PrimaryCulture)
	}
	if out.Language == "" {
		out.Language = DefaultLanguage
	}
	if out.Timezone == "" {
		out.Timezone = DefaultTimezone
	}
	if out.Preferences.Prayer.Enabled && out.Preferences.Prayer.BufferMinutes <= 0 {
		out.Preferences.Prayer.BufferMinutes = DefaultPrayerBuffer
	}
	if out.Preferences.Prayer.Adjustments == nil {
		out.Preferences.Prayer.Adjustments = map[string]int{}
	}
	if out.Preferences.Dietary.Restrictions == nil {
		out.Preferences.Dietary.Restrictions = []string{}
	}
	if out.Preferences.Dietary.TraditionalMedicines == nil {
		out.Preferences.Dietary.TraditionalMedicines = []string{}
	}
	if out.Preferences.Family.ChildrenAges == nil {
		out.Preferences.Family.ChildrenAges = []int{}
	}
	return out
}

// NormalizeHousehold fills routine defaults and derives member roles that the
// caller left implicit (children under 18, elders 65 and up).
func NormalizeHousehold(h Household) Household {
	out := h
	if out.Routine.WakingTime == 0 {
		out.Routine.WakingTime = DefaultWakingTime
	}
	if out.Routine.SleepingTime == 0 {
		out.Routine.SleepingTime = DefaultSleepingTime
	}
	if out.Routine.SharedMeals == nil {
		out.Routine.SharedMeals = map[string]TimeOfDay{}
	}
	if out.DecisionStyle == "" {
		out.DecisionStyle = DecisionShared
	}
	if out.ElderCommunication == "" {
		out.ElderCommunication = CommunicationRespectful
	}

	members := make([]FamilyMember, len(h.Members))
	copy(members, h.Members)
	for i := range members {
		if members[i].Role == "" {
			switch {
			case members[i].Age < 18:
				members[i].Role = RoleChild
			case members[i].Age >= 65:
				members[i].Role = RoleElder
			default:
				members[i].Role = RoleMember
			}
		}
		if members[i].CognitiveStatus == "" {
			members[i].CognitiveStatus = CognitionClear
		}
		if members[i].MobilityStatus == "" {
			members[i].MobilityStatus = MobilityIndependent
		}
		if members[i].HierarchyRank == 0 {
			members[i].HierarchyRank = DefaultHierarchyRank
		}
	}
	out.Members = members
	return out
}

func defaultProfile() CulturalProfile {
	return CulturalProfile{
		PrimaryCulture: CultureMixed,
		Religion:       ReligionNone,
		Language:       DefaultLanguage,
		Timezone:       DefaultTimezone,
		Preferences: Preferences{
			Prayer:  PrayerPreferences{Adjustments: map[string]int{}},
			Dietary: DietaryPreferences{Restrictions: []string{}, TraditionalMedicines: []string{}},
			Family:  FamilySummary{ChildrenAges: []int{}},
		},
	}
}

func defaultReligionFor(c Culture) Religion {
	switch c {
	case CultureMalay:
		return ReligionIslam
	case CultureChinese:
		return ReligionBuddhism
	case CultureIndian:
		return ReligionHinduism
	default:
		return ReligionNone
	}
}
