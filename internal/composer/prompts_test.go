package composer

import (
	"strings"
	"testing"
)

func TestBuildPersonaList(t *testing.T) {
	tests := []struct {
		name  string
		brand BrandProfile
		want  []string
	}{
		{
			name:  "configured personas keep order and skip blanks",
			brand: BrandProfile{PersonaPrimary: " skater ", PersonaSecondary: "", PersonaThird: "coach"},
			want:  []string{"skater", "coach"},
		},
		{
			name:  "fallback uses target market",
			brand: BrandProfile{TargetMarket: "runners", Industry: "footwear"},
			want:  []string{"Athlete that represents this brand and target market: runners"},
		},
		{
			name:  "fallback uses industry when target market is blank",
			brand: BrandProfile{Industry: "footwear"},
			want:  []string{"Athlete that represents this brand and target market: footwear"},
		},
		{
			name:  "generic fallback",
			brand: BrandProfile{},
			want:  []string{"Athlete that represents this brand and target market: " + fallbackPersonaSubject},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildPersonaList(tt.brand)
			if len(got) != len(tt.want) {
				t.Fatalf("BuildPersonaList() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("persona[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSelectShotHintRotates(t *testing.T) {
	pools := []struct {
		name    string
		product bool
		c       Classification
		pool    [4]string
	}{
		{"product", true, Classification{IsProductFocus: true}, productShots},
		{"non-human", false, Classification{}, nonHumanShots},
		{"negated human", false, Classification{ImpliesHuman: true, ExplicitNoHuman: true}, nonHumanShots},
		{"human", false, Classification{ImpliesHuman: true}, humanShots},
	}

	for _, p := range pools {
		for n := 0; n < 12; n++ {
			got := SelectShotHint(p.product, p.c, n)
			if got != p.pool[n%4] {
				t.Errorf("%s: SelectShotHint(n=%d) = %q, want %q", p.name, n, got, p.pool[n%4])
			}
			if got != SelectShotHint(p.product, p.c, n+4) {
				t.Errorf("%s: hint for %d and %d differ", p.name, n, n+4)
			}
		}
	}

	if got := SelectShotHint(false, Classification{}, -1); got != nonHumanShots[3] {
		t.Errorf("negative count = %q, want last slot", got)
	}
}

func TestBrandContextFallbacks(t *testing.T) {
	got := BrandProfile{BrandName: "  "}.Context()
	for _, want := range []string{
		"Brand name: this brand",
		"Industry: consumer brand",
		"Target market: the brand's ideal customers",
		"Brand colors and style: clean, modern visual style",
		"Content pillars: topics that matter to this audience",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Context() missing %q in %q", want, got)
		}
	}

	if brandHints(BrandProfile{}) != fallbackBrandHints {
		t.Errorf("brandHints(empty) = %q", brandHints(BrandProfile{}))
	}
	hints := brandHints(BrandProfile{BrandName: "Northline", DefaultImageFocus: "gear on ice"})
	if hints != "Brand name: Northline. Typical image focus: gear on ice." {
		t.Errorf("brandHints() = %q", hints)
	}
}

func TestBuildCaptionPrompt(t *testing.T) {
	brand := BrandProfile{BrandName: "Northline", TargetMarket: "adult rec league players"}

	withIdea := BuildCaptionPrompt("  first skate of the season ", brand)
	if !strings.Contains(withIdea, `User idea for this post: "first skate of the season".`) {
		t.Errorf("prompt does not quote the trimmed idea:\n%s", withIdea)
	}
	if !strings.Contains(withIdea, "Speak directly to adult rec league players.") {
		t.Errorf("prompt does not address the target market:\n%s", withIdea)
	}
	if !strings.Contains(withIdea, "Do not use em dashes.") {
		t.Error("prompt is missing the dash rule")
	}

	noIdea := BuildCaptionPrompt("", brand)
	if !strings.Contains(noIdea, "with no extra input from the user") {
		t.Errorf("empty idea prompt:\n%s", noIdea)
	}
	if strings.Contains(noIdea, "User idea for this post") {
		t.Error("empty idea prompt should not include a user idea line")
	}
}

func TestBuildCaptionVariantsPrompt(t *testing.T) {
	got := BuildCaptionVariantsPrompt("game night", BrandProfile{}, VariantCount)
	if !strings.Contains(got, "Write 3 different versions") {
		t.Errorf("variants prompt missing count:\n%s", got)
	}
	if !strings.Contains(got, `{"captions": [`) {
		t.Errorf("variants prompt missing JSON shape:\n%s", got)
	}
}

func TestBuildImagePromptNoHumanBranch(t *testing.T) {
	prompt := "Founder at a desk with a laptop, no people in the shot"
	c := ClassifyPrompt(prompt)
	want := Classification{ImpliesHuman: true, ExplicitNoHuman: true}
	if c != want {
		t.Fatalf("ClassifyPrompt() = %+v, want %+v", c, want)
	}

	brand := BrandProfile{BrandName: "Northline", PersonaPrimary: "young founder", PeopleMode: PeopleAuto}
	got := BuildImagePrompt(ImageRequest{
		UserPrompt:     prompt,
		Brand:          brand,
		Classification: c,
		Personas:       BuildPersonaList(brand),
		PostsSoFar:     1,
	})

	for _, s := range []string{
		"Do not include any humans",
		"- No humans.",
		"- No implied humans.",
		"Focus on the environment, objects, textures, materials, and mood.",
		nonHumanShots[1],
	} {
		if !strings.Contains(got, s) {
			t.Errorf("no-human prompt missing %q", s)
		}
	}
	if strings.Contains(got, "young founder") {
		t.Error("no-human prompt must not mention a persona")
	}
}

func TestBuildImagePromptPersonaBranch(t *testing.T) {
	brand := BrandProfile{
		BrandName:        "Northline",
		PersonaPrimary:   "teen goalie",
		PersonaSecondary: "veteran defenseman",
		PeopleMode:       PeopleAuto,
	}
	prompt := "a player lacing skates before the game"
	c := ClassifyPrompt(prompt)

	got := BuildImagePrompt(ImageRequest{
		UserPrompt:     prompt,
		Brand:          brand,
		Classification: c,
		Personas:       BuildPersonaList(brand),
		PostsSoFar:     3,
	})

	if !strings.Contains(got, "Persona:\nveteran defenseman") {
		t.Errorf("expected rotated persona in prompt:\n%s", got)
	}
	if !strings.Contains(got, "treated as the hero of the image") {
		t.Error("product focus clause missing")
	}
	if !strings.Contains(got, productShots[3]) {
		t.Error("product shot hint missing")
	}
	if strings.Contains(got, "- No humans.") {
		t.Error("persona prompt must not forbid humans")
	}
}

func TestBuildImagePromptPeopleModes(t *testing.T) {
	c := ClassifyPrompt("sunrise over a frozen lake")

	prefer := BuildImagePrompt(ImageRequest{
		UserPrompt:     "sunrise over a frozen lake",
		Brand:          BrandProfile{TargetMarket: "runners", PeopleMode: PeoplePrefer},
		Classification: c,
	})
	if !strings.Contains(prefer, "target market: runners") {
		t.Errorf("prefer_people without personas should use the fallback persona:\n%s", prefer)
	}

	none := BuildImagePrompt(ImageRequest{
		UserPrompt:     "a coach with the team",
		Brand:          BrandProfile{PeopleMode: PeopleNone},
		Classification: ClassifyPrompt("a coach with the team"),
	})
	if !strings.Contains(none, "- No humans.") {
		t.Error("no_people must always use the no-human branch")
	}
}

func TestBuildImagePromptEmptyScene(t *testing.T) {
	got := BuildImagePrompt(ImageRequest{Brand: BrandProfile{BrandName: "Northline"}})
	if !strings.Contains(got, "Create a compelling scene that visually represents Northline for the brand's ideal customers.") {
		t.Errorf("empty scene fallback missing:\n%s", got)
	}
}
