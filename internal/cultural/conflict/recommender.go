package conflict

import "github.com/kampungcare/medsched/internal/cultural/profile"

// Recommendation is a prioritized, display-ready guidance record.
type Recommendation struct {
	Priority profile.Urgency `json:"priority"`
	Category string          `json:"category"`
	Message  string          `json:"message"`
	// MultiLanguage always carries at least the "en" entry. Missing
	// translations never remove the English fallback.
	MultiLanguage map[string]string `json:"multi_language"`
}

// Recommender packages guidance with translations where available.
type Recommender struct{}

// NewRecommender creates a recommender over the built-in phrase table.
func NewRecommender() *Recommender {
	return &Recommender{}
}

// phraseTable holds canned translations for recurring messages, keyed by
// the English message. Languages: ms (Malay), zh (Chinese), ta (Tamil).
var phraseTable = map[string]map[string]string{
	"personalized scheduling is unavailable; using conservative default times": {
		"ms": "penjadualan peribadi tidak tersedia; menggunakan masa lalai yang selamat",
		"zh": "无法提供个性化排程；已使用保守的默认服药时间",
		"ta": "தனிப்பயன் அட்டவணை கிடைக்கவில்லை; பாதுகாப்பான இயல்புநேர அட்டவணை பயன்படுத்தப்படுகிறது",
	},
	"review the schedule with your pharmacist": {
		"ms": "semak jadual ini bersama ahli farmasi anda",
		"zh": "请与药剂师一起检查此服药时间表",
		"ta": "இந்த அட்டவணையை உங்கள் மருந்தாளருடன் சரிபார்க்கவும்",
	},
	"doses have been aligned with the household meal pattern": {
		"ms": "dos telah diselaraskan dengan corak waktu makan keluarga",
		"zh": "服药时间已与家庭用餐时间对齐",
		"ta": "மருந்து நேரங்கள் குடும்ப உணவு நேரத்துடன் இணைக்கப்பட்டுள்ளன",
	},
}

// Package builds a recommendation. The message becomes the guaranteed "en"
// entry; translations are added when the phrase table has them for the
// preferred language or any other supported language.
func (r *Recommender) Package(category string, priority profile.Urgency, message string) Recommendation {
	ml := map[string]string{"en": message}
	if translations, ok := phraseTable[message]; ok {
		for lang, text := range translations {
			ml[lang] = text
		}
	}
	return Recommendation{
		Priority:      priority,
		Category:      category,
		Message:       message,
		MultiLanguage: ml,
	}
}
