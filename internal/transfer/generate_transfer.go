package transfer

import "github.com/maheshrc27/flowsocial/internal/composer"

// GenerateRequest is shared by the caption, variants, image and post
// endpoints. BrandID selects a saved brand; Brand is used when it is zero.
type GenerateRequest struct {
	Prompt  string         `json:"prompt"`
	BrandID int64          `json:"brand_id"`
	Brand   *BrandSettings `json:"brand"`
}

type CaptionResult struct {
	Caption     string      `json:"caption"`
	ImagePrompt string      `json:"imagePrompt"`
	Usage       *UsageCheck `json:"usage"`
}

type CaptionVariantsResult struct {
	Source   string      `json:"source"`
	Captions []string    `json:"captions"`
	Usage    *UsageCheck `json:"usage"`
}

type ImageResult struct {
	ImageBase64    string                  `json:"imageBase64,omitempty"`
	ImageURL       string                  `json:"imageUrl,omitempty"`
	Prompt         string                  `json:"prompt"`
	Classification composer.Classification `json:"classification"`
	UsedPersona    bool                    `json:"usedPersona"`
}
