package composer

import (
	"encoding/json"
	"strings"
)

const VariantCount = 3

type VariantsSource int

const (
	// VariantsParsed means the model returned usable JSON.
	VariantsParsed VariantsSource = iota
	// VariantsFallback means the raw output was copied into every slot.
	VariantsFallback
)

func (s VariantsSource) String() string {
	if s == VariantsParsed {
		return "parsed"
	}
	return "fallback"
}

type CaptionVariants struct {
	Source   VariantsSource
	Captions [VariantCount]string
}

type variantsPayload struct {
	Captions []string `json:"captions"`
}

// ParseCaptionVariants never fails. Malformed JSON, or fewer than three
// non-empty captions, yields the sanitized raw text in all three slots.
func ParseCaptionVariants(raw string) CaptionVariants {
	if captions, ok := decodeVariants(raw); ok {
		v := CaptionVariants{Source: VariantsParsed}
		copy(v.Captions[:], captions)
		return v
	}

	clean := SanitizeText(raw)
	v := CaptionVariants{Source: VariantsFallback}
	for i := range v.Captions {
		v.Captions[i] = clean
	}
	return v
}

func decodeVariants(raw string) ([]string, bool) {
	body := strings.TrimSpace(raw)
	// models sometimes wrap the object in a code fence
	if start, end := strings.Index(body, "{"), strings.LastIndex(body, "}"); start >= 0 && end > start {
		body = body[start : end+1]
	}

	var payload variantsPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, false
	}

	var captions []string
	for _, c := range payload.Captions {
		if c = SanitizeText(c); c != "" {
			captions = append(captions, c)
		}
	}
	if len(captions) < VariantCount {
		return nil, false
	}
	return captions[:VariantCount], true
}
