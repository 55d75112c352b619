package dietary

import "github.com/kampungcare/medsched/internal/cultural/profile"

// dietaryRule flags a medication property incompatible with a dietary
// profile. Matching is by keyword against name and ingredients.
type dietaryRule struct {
	match    []string
	issue    string
	solution string
	urgency  profile.Urgency
}

// halalRules covers common non-halal medication components.
var halalRules = []dietaryRule{
	{
		match:    []string{"gelatin", "gelatine"},
		issue:    "capsule shell contains gelatin of unverified source",
		solution: "request a halal-certified capsule, tablet, or liquid formulation from the pharmacist",
		urgency:  profile.UrgencyMedium,
	},
	{
		match:    []string{"heparin", "pancreatin", "porcine"},
		issue:    "contains porcine-derived ingredients",
		solution: "ask the prescriber about synthetic or bovine-sourced alternatives; note that necessity can permit use",
		urgency:  profile.UrgencyHigh,
	},
	{
		match:    []string{"alcohol", "ethanol"},
		issue:    "formulation contains alcohol",
		solution: "ask for an alcohol-free syrup or tablet form",
		urgency:  profile.UrgencyMedium,
	},
}

// vegetarianRules covers common animal-derived components.
var vegetarianRules = []dietaryRule{
	{
		match:    []string{"gelatin", "gelatine"},
		issue:    "capsule shell is animal-derived gelatin",
		solution: "request a vegetarian capsule or tablet formulation",
		urgency:  profile.UrgencyMedium,
	},
	{
		match:    []string{"fish oil", "omega-3", "cod liver"},
		issue:    "supplement is fish-derived",
		solution: "consider algae-based omega-3 alternatives",
		urgency:  profile.UrgencyLow,
	},
	{
		match:    []string{"lactose"},
		issue:    "tablet filler contains lactose",
		solution: "usually tolerated in trace amounts; mention if strict avoidance is needed",
		urgency:  profile.UrgencyLow,
	},
}

// foodInteractionRule is one regionally relevant food-drug interaction.
type foodInteractionRule struct {
	match             []string
	food              string
	advice            string
	culturalRelevance string
}

// foodInteractionRules is the regional food interaction table. Every entry's
// cultural relevance names the local dietary context.
var foodInteractionRules = []foodInteractionRule{
	{
		match:             []string{"warfarin"},
		food:              "vitamin-K-rich leafy vegetables",
		advice:            "keep leafy green intake consistent day to day rather than avoiding it outright",
		culturalRelevance: "kangkung, sawi, and kailan are everyday vegetables in Malaysian home cooking",
	},
	{
		match:             []string{"simvastatin", "atorvastatin", "lovastatin"},
		food:              "grapefruit and pomelo",
		advice:            "avoid grapefruit and pomelo; they raise statin blood levels",
		culturalRelevance: "pomelo is widely eaten in Malaysia, especially around Chinese New Year",
	},
	{
		match:             []string{"tetracycline", "doxycycline", "ciprofloxacin"},
		food:              "dairy and calcium-rich drinks",
		advice:            "separate doses from dairy by at least two hours",
		culturalRelevance: "teh tarik and Milo are common Malaysian drinks with significant milk content",
	},
	{
		match:             []string{"phenelzine", "tranylcypromine", "moclobemide"},
		food:              "fermented and aged foods",
		advice:            "avoid tyramine-rich fermented foods while on MAO inhibitors",
		culturalRelevance: "tempeh, tapai, cincalok, and aged soy sauces are staples of Malaysian cuisine",
	},
	{
		match:             []string{"levothyroxine"},
		food:              "soy products",
		advice:            "separate the dose from soy-based food and drinks by four hours",
		culturalRelevance: "soy milk and tau foo fah are popular Malaysian breakfast items",
	},
	{
		match:             []string{"metformin"},
		food:              "alcohol",
		advice:            "limit alcohol; it raises the risk of lactic acidosis",
		culturalRelevance: "relevant for non-abstaining communities in Malaysia's mixed population",
	},
}
