package transfer

// BrandSettings is the brand profile as clients send it, either to save a
// brand or inline with a one-off generation request.
type BrandSettings struct {
	BrandName           string `json:"brand_name"`
	Industry            string `json:"industry"`
	TargetMarket        string `json:"target_market"`
	BrandColorsAndStyle string `json:"brand_colors_and_style"`
	ContentPillars      string `json:"content_pillars"`
	DefaultImageFocus   string `json:"default_image_focus"`
	PersonaPrimary      string `json:"persona_primary"`
	PersonaSecondary    string `json:"persona_secondary"`
	PersonaThird        string `json:"persona_third"`
	PeopleMode          string `json:"people_mode"`
}
