// Package composer builds the natural-language instructions sent to the text
// and image models from a user's idea and their brand profile.
//
// Everything in this package is a pure function of its inputs. Rotation of
// personas and shot hints is keyed off a post count supplied by the caller.
package composer

import "strings"

type PeopleMode string

const (
	PeopleAuto   PeopleMode = "auto"
	PeopleNone   PeopleMode = "no_people"
	PeoplePrefer PeopleMode = "prefer_people"
)

// ParsePeopleMode maps a stored value to a PeopleMode. Unknown or empty
// values fall back to auto.
func ParsePeopleMode(s string) PeopleMode {
	switch PeopleMode(strings.ToLower(strings.TrimSpace(s))) {
	case PeopleNone:
		return PeopleNone
	case PeoplePrefer:
		return PeoplePrefer
	default:
		return PeopleAuto
	}
}

type BrandProfile struct {
	BrandName           string
	Industry            string
	TargetMarket        string
	BrandColorsAndStyle string
	ContentPillars      string
	DefaultImageFocus   string
	PersonaPrimary      string
	PersonaSecondary    string
	PersonaThird        string
	PeopleMode          PeopleMode
}

const (
	fallbackBrandName      = "this brand"
	fallbackIndustry       = "consumer brand"
	fallbackTargetMarket   = "the brand's ideal customers"
	fallbackColorsAndStyle = "clean, modern visual style"
	fallbackContentPillars = "topics that matter to this audience"
	fallbackPersonaSubject = "modern performance athlete who fits this brand"
	fallbackBrandHints     = "Match the overall tone and quality of this performance brand."
)

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

func (b BrandProfile) name() string         { return orDefault(b.BrandName, fallbackBrandName) }
func (b BrandProfile) industry() string     { return orDefault(b.Industry, fallbackIndustry) }
func (b BrandProfile) targetMarket() string { return orDefault(b.TargetMarket, fallbackTargetMarket) }
func (b BrandProfile) colorsAndStyle() string {
	return orDefault(b.BrandColorsAndStyle, fallbackColorsAndStyle)
}
func (b BrandProfile) contentPillars() string {
	return orDefault(b.ContentPillars, fallbackContentPillars)
}

// Context renders the brand block shared by the caption, hashtag and image
// description prompts.
func (b BrandProfile) Context() string {
	var sb strings.Builder
	sb.WriteString("Brand name: " + b.name() + "\n")
	sb.WriteString("Industry: " + b.industry() + "\n")
	sb.WriteString("Target market: " + b.targetMarket() + "\n")
	sb.WriteString("Brand colors and style: " + b.colorsAndStyle() + "\n")
	sb.WriteString("Content pillars: " + b.contentPillars())
	return sb.String()
}

// BuildPersonaList returns the configured personas in order. When none are
// set a single synthetic persona is derived from the target market or
// industry, so the result is never empty.
func BuildPersonaList(b BrandProfile) []string {
	var personas []string
	for _, p := range []string{b.PersonaPrimary, b.PersonaSecondary, b.PersonaThird} {
		if p = strings.TrimSpace(p); p != "" {
			personas = append(personas, p)
		}
	}

	if len(personas) == 0 {
		subject := orDefault(b.TargetMarket, orDefault(b.Industry, fallbackPersonaSubject))
		personas = append(personas, "Athlete that represents this brand and target market: "+subject)
	}

	return personas
}

// brandHints lists the brand fields that may tint an image without
// overriding the requested scene.
func brandHints(b BrandProfile) string {
	var parts []string
	if v := strings.TrimSpace(b.BrandName); v != "" {
		parts = append(parts, "Brand name: "+v+".")
	}
	if v := strings.TrimSpace(b.BrandColorsAndStyle); v != "" {
		parts = append(parts, "Brand colors and style: "+v+".")
	}
	if v := strings.TrimSpace(b.ContentPillars); v != "" {
		parts = append(parts, "Brand themes: "+v+".")
	}
	if v := strings.TrimSpace(b.DefaultImageFocus); v != "" {
		parts = append(parts, "Typical image focus: "+v+".")
	}

	if len(parts) == 0 {
		return fallbackBrandHints
	}
	return strings.Join(parts, " ")
}
