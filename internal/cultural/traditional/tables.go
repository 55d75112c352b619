package traditional

// remedyInteraction is one known remedy-medication concern.
type remedyInteraction struct {
	medications       []string
	level             SafetyLevel
	advice            string
	separationMinutes int
}

// remedyRule describes a traditional remedy, its matching aliases, the
// practitioner tradition it belongs to, and its known interactions.
type remedyRule struct {
	display      string
	aliases      []string
	practitioner Practitioner
	interactions []remedyInteraction
}

// remedyRules covers the regionally common TCM, Ayurvedic, and Malay
// traditional remedies with documented prescription interactions.
var remedyRules = []remedyRule{
	{
		display:      "ginseng",
		aliases:      []string{"ginseng", "ren shen"},
		practitioner: PractitionerTCM,
		interactions: []remedyInteraction{
			{medications: []string{"warfarin"}, level: SafetyUnsafe,
				advice: "ginseng reduces warfarin's effect and destabilizes INR; do not combine without medical review"},
			{medications: []string{"metformin", "gliclazide", "insulin"}, level: SafetyCaution,
				advice: "ginseng can lower blood sugar further; watch for hypoglycemia", separationMinutes: 120},
		},
	},
	{
		display:      "ginkgo biloba",
		aliases:      []string{"ginkgo"},
		practitioner: PractitionerTCM,
		interactions: []remedyInteraction{
			{medications: []string{"warfarin", "aspirin", "clopidogrel"}, level: SafetyUnsafe,
				advice: "ginkgo raises bleeding risk with anticoagulants and antiplatelets"},
		},
	},
	{
		display:      "dong quai",
		aliases:      []string{"dong quai", "danggui"},
		practitioner: PractitionerTCM,
		interactions: []remedyInteraction{
			{medications: []string{"warfarin"}, level: SafetyUnsafe,
				advice: "dong quai potentiates warfarin and raises bleeding risk"},
		},
	},
	{
		display:      "danshen",
		aliases:      []string{"danshen", "dan shen"},
		practitioner: PractitionerTCM,
		interactions: []remedyInteraction{
			{medications: []string{"warfarin", "digoxin"}, level: SafetyUnsafe,
				advice: "danshen interacts with warfarin and digoxin; avoid combining"},
		},
	},
	{
		display:      "liquorice root",
		aliases:      []string{"liquorice", "licorice", "gan cao"},
		practitioner: PractitionerTCM,
		interactions: []remedyInteraction{
			{medications: []string{"amlodipine", "lisinopril", "hydrochlorothiazide"}, level: SafetyCaution,
				advice: "liquorice raises blood pressure and depletes potassium, working against antihypertensives", separationMinutes: 120},
		},
	},
	{
		display:      "ashwagandha",
		aliases:      []string{"ashwagandha"},
		practitioner: PractitionerAyurvedic,
		interactions: []remedyInteraction{
			{medications: []string{"levothyroxine"}, level: SafetyCaution,
				advice: "ashwagandha can amplify thyroid hormone levels; monitor thyroid function", separationMinutes: 240},
			{medications: []string{"diazepam", "lorazepam", "zolpidem"}, level: SafetyCaution,
				advice: "ashwagandha adds to sedative effects"},
		},
	},
	{
		display:      "triphala",
		aliases:      []string{"triphala"},
		practitioner: PractitionerAyurvedic,
		interactions: []remedyInteraction{
			{medications: []string{"warfarin"}, level: SafetyCaution,
				advice: "triphala may affect clotting; separate from the anticoagulant dose", separationMinutes: 120},
		},
	},
	{
		display:      "tongkat ali",
		aliases:      []string{"tongkat ali", "eurycoma"},
		practitioner: PractitionerMalayHealer,
		interactions: []remedyInteraction{
			{medications: []string{"metformin", "gliclazide", "insulin"}, level: SafetyCaution,
				advice: "tongkat ali can lower blood sugar; monitor for hypoglycemia", separationMinutes: 120},
			{medications: []string{"propranolol"}, level: SafetyCaution,
				advice: "tongkat ali may blunt beta-blocker effect"},
		},
	},
	{
		display:      "habbatus sauda",
		aliases:      []string{"habbatus sauda", "black seed", "nigella"},
		practitioner: PractitionerMalayHealer,
		interactions: []remedyInteraction{
			{medications: []string{"amlodipine", "lisinopril"}, level: SafetyCaution,
				advice: "black seed oil lowers blood pressure additively; watch for dizziness", separationMinutes: 120},
			{medications: []string{"metformin"}, level: SafetyCaution,
				advice: "black seed can enhance glucose lowering; monitor sugar levels"},
		},
	},
	{
		display:      "misai kucing",
		aliases:      []string{"misai kucing", "cat's whiskers", "orthosiphon"},
		practitioner: PractitionerMalayHealer,
		interactions: []remedyInteraction{
			{medications: []string{"furosemide", "hydrochlorothiazide"}, level: SafetyCaution,
				advice: "misai kucing is a diuretic; stacking with prescription diuretics risks dehydration"},
		},
	},
	{
		display:      "st john's wort",
		aliases:      []string{"st john", "hypericum"},
		practitioner: PractitionerModernDoctor,
		interactions: []remedyInteraction{
			{medications: []string{"sertraline", "fluoxetine", "escitalopram"}, level: SafetyUnsafe,
				advice: "st john's wort with SSRIs risks serotonin syndrome; do not combine"},
			{medications: []string{"warfarin"}, level: SafetyUnsafe,
				advice: "st john's wort reduces warfarin levels through enzyme induction"},
		},
	},
}
