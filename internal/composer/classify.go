package composer

import "strings"

// Vocabularies are matched as plain substrings of the lower-cased prompt.
// "human" also matches "humanitarian" and "man" matches "woman"; callers
// depend on that behaviour.
var (
	humanWords = []string{
		"athlete", "player", "person", "people", "man", "woman", "guy", "girl",
		"boy", "runner", "skater", "coach", "referee", "crowd", "fans", "team",
		"goalie", "human", "model",
	}

	noHumanPhrases = []string{
		"no people", "no person", "no players", "no crowd", "no fans",
		"without people", "without any people", "nobody", "no one", "empty",
		"empty arena", "empty rink", "empty ice",
	}

	productWords = []string{
		"beanie", "hat", "toque", "cap", "hoodie", "sweatshirt", "shirt",
		"jersey", "jacket", "leggings", "shorts", "socks", "skates",
		"skate blades", "stick", "hockey stick", "puck", "gloves", "helmet",
		"bag", "duffel", "gear", "apparel", "logo", "label", "tag", "product",
		"bottle", "water bottle",
	}
)

type Classification struct {
	ImpliesHuman    bool `json:"implies_human"`
	ExplicitNoHuman bool `json:"explicit_no_human"`
	IsProductFocus  bool `json:"is_product_focus"`
}

func ClassifyPrompt(rawPrompt string) Classification {
	p := strings.ToLower(rawPrompt)
	return Classification{
		ImpliesHuman:    containsAny(p, humanWords),
		ExplicitNoHuman: containsAny(p, noHumanPhrases),
		IsProductFocus:  containsAny(p, productWords),
	}
}

func containsAny(s string, vocab []string) bool {
	for _, w := range vocab {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// DecideUsePersona is the single gate deciding whether the image prompt asks
// for a human subject.
func DecideUsePersona(mode PeopleMode, c Classification) bool {
	switch mode {
	case PeopleNone:
		return false
	case PeoplePrefer:
		return !c.ExplicitNoHuman
	default:
		return c.ImpliesHuman && !c.ExplicitNoHuman
	}
}
