package composer

import (
	"fmt"
	"strings"
)

// BuildCaptionPrompt returns the copywriter instruction for a single
// caption. An empty userPrompt asks the model to invent the idea.
func BuildCaptionPrompt(userPrompt string, b BrandProfile) string {
	var sb strings.Builder
	writeCaptionBrief(&sb, b)
	sb.WriteString("\n\n")
	sb.WriteString(userInstruction(userPrompt))
	return sb.String()
}

// BuildCaptionVariantsPrompt asks for n alternative captions in one call,
// returned as a JSON object {"captions": [...]}.
func BuildCaptionVariantsPrompt(userPrompt string, b BrandProfile, n int) string {
	var sb strings.Builder
	writeCaptionBrief(&sb, b)
	sb.WriteString("\n\n")
	sb.WriteString(userInstruction(userPrompt))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Write %d different versions of this caption, each following every rule above.\n", n)
	sb.WriteString(`Return only a JSON object in this exact shape, with no extra text: {"captions": ["first caption", "second caption", "third caption"]}`)
	return sb.String()
}

func writeCaptionBrief(sb *strings.Builder, b BrandProfile) {
	sb.WriteString("You are a social media copywriter for a premium brand.\n\n")
	sb.WriteString("Use the brand details below to guide every choice of tone, topic, and angle.\n\n")
	sb.WriteString(b.Context())
	sb.WriteString("\n\nTask:\n")
	sb.WriteString("- Write one caption only (hashtags will be added separately later).\n")
	sb.WriteString("- Keep it succinct: maximum 5 sentences and roughly under 650 characters.\n")
	sb.WriteString("- Format for Instagram:\n")
	sb.WriteString("  - Start with a short hook on its own line.\n")
	sb.WriteString("  - Use short paragraphs with blank lines between key ideas.\n")
	sb.WriteString("  - Avoid long walls of text; keep lines tight and easy to scan.\n")
	sb.WriteString("- Speak directly to " + b.targetMarket() + ".\n")
	sb.WriteString("- Reflect the content pillars: " + b.contentPillars() + ".\n")
	sb.WriteString("- Imply or support the product or brand, but do not sound like a hard ad on every line.\n")
	sb.WriteString("- Keep it natural, human, and engaging.\n")
	sb.WriteString(`- Do not use em dashes. If you want a break in a sentence, use a comma or " - " instead.`)
}

func userInstruction(userPrompt string) string {
	if p := strings.TrimSpace(userPrompt); p != "" {
		return `User idea for this post: "` + p + `". Turn this into a concise, punchy social caption that fits the brand.`
	}
	return "Create a new concise social media caption and idea that fits this brand with no extra input from the user."
}

// BuildHashtagPrompt asks for exactly three category hashtags for a caption.
func BuildHashtagPrompt(b BrandProfile, caption string) string {
	var sb strings.Builder
	sb.WriteString("Based on this brand and caption, generate exactly 3 short, relevant hashtags.\n\n")
	sb.WriteString("Rules:\n")
	sb.WriteString("- No generic spam hashtags.\n")
	sb.WriteString("- No brand name hashtags unless the brand is widely known.\n")
	sb.WriteString("- Each hashtag must be simple and category-specific.\n")
	sb.WriteString("- Return only the 3 hashtags separated by spaces on one line.\n\n")
	sb.WriteString("Brand:\n")
	sb.WriteString(b.Context())
	sb.WriteString("\n\nCaption:\n")
	sb.WriteString(`"` + caption + `"`)
	return sb.String()
}

// BuildImageDescriptionPrompt asks the text model for a one-sentence photo
// description matching a caption. The result is returned to clients as a
// suggestion only; image generation uses BuildImagePrompt.
func BuildImageDescriptionPrompt(b BrandProfile, caption string) string {
	var sb strings.Builder
	sb.WriteString("You are helping create a matching photo for a social media post.\n\n")
	sb.WriteString("Brand context:\n")
	sb.WriteString(b.Context())
	sb.WriteString("\n\nCaption:\n")
	sb.WriteString(`"` + caption + `"`)
	sb.WriteString("\n\nWrite a single sentence that describes one realistic photo that would fit this caption and brand.\n")
	sb.WriteString("Include:\n")
	sb.WriteString("- who is in the photo (age, gender or vibe based on the target market),\n")
	sb.WriteString("- what they are doing,\n")
	sb.WriteString("- the setting,\n")
	sb.WriteString("- any useful mood or color hints.\n\n")
	sb.WriteString("Do not mention cameras, lenses, aspect ratio, text, logos, or user interface elements.\n")
	sb.WriteString("Return only the sentence, nothing else.")
	return sb.String()
}

// ImageRequest carries everything BuildImagePrompt needs. Personas is
// expected to come from BuildPersonaList and PostsSoFar from the store.
type ImageRequest struct {
	UserPrompt     string
	Brand          BrandProfile
	Classification Classification
	Personas       []string
	PostsSoFar     int
}

// BuildImagePrompt returns the instruction for the image model. Whether a
// human appears is decided only by DecideUsePersona.
func BuildImagePrompt(r ImageRequest) string {
	shot := SelectShotHint(r.Classification.IsProductFocus, r.Classification, r.PostsSoFar)
	hints := brandHints(r.Brand)

	var sb strings.Builder
	sb.WriteString("Create a realistic vertical 4:5 Instagram photo.\n\n")
	sb.WriteString("Scene:\n")
	sb.WriteString(scene(r.UserPrompt, r.Brand))
	sb.WriteString("\n\n")

	if DecideUsePersona(r.Brand.PeopleMode, r.Classification) {
		personas := r.Personas
		if len(personas) == 0 {
			personas = BuildPersonaList(r.Brand)
		}
		persona := personas[rotate(r.PostsSoFar, len(personas))]

		sb.WriteString("Important visual rules:\n")
		sb.WriteString("- The image must include a human that matches the persona below.\n")
		sb.WriteString("- Do not invent extra people. Only include the one primary subject unless the user clearly requests multiple.\n")
		sb.WriteString("- The person must clearly match the age, gender, vibe, and role implied in the scene.\n")
		sb.WriteString("- The person must be engaged in an action that matches the user instruction.\n")
		sb.WriteString("- Make every specific detail from the user request visible in the image, including objects, tools, environment, time of day, mood, and setting.\n\n")
		sb.WriteString("Persona:\n")
		sb.WriteString(persona)
		sb.WriteString("\n\n")
		if r.Classification.IsProductFocus {
			sb.WriteString("The product or gear in the user prompt must be clearly visible and treated as the hero of the image.\n\n")
		}
		sb.WriteString("Shot guidance:\n")
		sb.WriteString(shot)
		sb.WriteString("\n\n")
		sb.WriteString("Brand hints for color grading, tone, and environment only. Do not override the scene:\n")
		sb.WriteString(hints)
		sb.WriteString("\n\n")
		sb.WriteString("Hard rules:\n")
		sb.WriteString("- No readable logos or text.\n")
		sb.WriteString("- No UI elements, screens, overlays, watermarks, or captions.\n")
		sb.WriteString("- No unrealistic lighting or effects unless the user requested them.")
		return sb.String()
	}

	sb.WriteString("Important visual rules:\n")
	sb.WriteString("- Do not include any humans, silhouettes, reflections or shadows of people, body parts, or implied humans.\n")
	sb.WriteString("- The scene must focus entirely on the objects, environment, product, and details described by the user.\n")
	sb.WriteString("- Make every specific detail from the user request clearly visible in the final image.\n")
	sb.WriteString("- If the prompt includes a product, setting, tool, or object, it must be accurately represented.\n\n")
	if r.Classification.IsProductFocus {
		sb.WriteString("The product or gear mentioned by the user must be the hero of the image. Keep the environment supportive, not dominant.\n\n")
	} else {
		sb.WriteString("Focus on the environment, objects, textures, materials, and mood.\n\n")
	}
	sb.WriteString("Shot guidance:\n")
	sb.WriteString(shot)
	sb.WriteString("\n\n")
	sb.WriteString("Brand hints for color grading and mood only. Do not add brand logos:\n")
	sb.WriteString(hints)
	sb.WriteString("\n\n")
	sb.WriteString("Hard rules:\n")
	sb.WriteString("- No humans.\n")
	sb.WriteString("- No implied humans.\n")
	sb.WriteString("- No readable logos or text.\n")
	sb.WriteString("- No UI elements, screens, overlays, watermarks, or captions.")
	return sb.String()
}

func scene(userPrompt string, b BrandProfile) string {
	if p := strings.TrimSpace(userPrompt); p != "" {
		return p
	}
	return fmt.Sprintf("Create a compelling scene that visually represents %s for %s.", b.name(), b.targetMarket())
}
