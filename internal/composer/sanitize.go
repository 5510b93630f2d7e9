package composer

import (
	"regexp"
	"strings"
)

var (
	dashReplacer       = strings.NewReplacer("\u2014", " - ", "\u2013", " - ")
	spaceBeforeNewline = regexp.MustCompile(`[^\S\n]+\n`)
	extraNewlines      = regexp.MustCompile(`\n{3,}`)
)

// SanitizeText normalizes model output for Instagram: no em or en dashes,
// no trailing spaces on lines, at most one blank line between paragraphs.
func SanitizeText(raw string) string {
	s := dashReplacer.Replace(raw)
	s = spaceBeforeNewline.ReplaceAllString(s, "\n")
	s = extraNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// AppendHashtags adds the hashtag line as the caption's final paragraph.
func AppendHashtags(caption, hashtags string) string {
	hashtags = strings.TrimSpace(hashtags)
	if hashtags == "" {
		return caption
	}
	return caption + "\n\n" + hashtags
}
