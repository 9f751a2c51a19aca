package models

// Fixed behavior vocabularies. Labels are stored and exported in Arabic.
var (
	PositiveBehaviors = []string{"مشاركة", "واجبات", "احترام", "نظافة", "تعاون", "إبداع"}
	NegativeBehaviors = []string{"إزعاج", "نسيان", "تأخر", "غياب", "نوم", "هاتف"}
)

// behaviorAliases maps English glosses to the stored labels
var behaviorAliases = map[string]string{
	"participation": "مشاركة",
	"homework":      "واجبات",
	"respect":       "احترام",
	"cleanliness":   "نظافة",
	"cooperation":   "تعاون",
	"creativity":    "إبداع",

	"disruption": "إزعاج",
	"forgetting": "نسيان",
	"tardy":      "تأخر",
	"absence":    "غياب",
	"sleeping":   "نوم",
	"phone":      "هاتف",
}

// CanonicalBehavior resolves an English alias to its stored label.
// Unknown input is returned unchanged.
func CanonicalBehavior(tag string) string {
	if label, ok := behaviorAliases[tag]; ok {
		return label
	}
	return tag
}
